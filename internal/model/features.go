package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Feature column names, in the order the regression artifact expects them.
const (
	FeatureAge                     = "Age"
	FeatureDiabetes                = "Diabetes"
	FeatureBloodPressureProblems   = "BloodPressureProblems"
	FeatureAnyTransplants          = "AnyTransplants"
	FeatureAnyChronicDiseases      = "AnyChronicDiseases"
	FeatureHeight                  = "Height"
	FeatureWeight                  = "Weight"
	FeatureKnownAllergies          = "KnownAllergies"
	FeatureHistoryOfCancerInFamily = "HistoryOfCancerInFamily"
	FeatureNumberOfMajorSurgeries  = "NumberOfMajorSurgeries"
	FeatureBMI                     = "BMI"
)

// FeatureCount is the length of every feature vector
const FeatureCount = 11

// ErrFeatureSchemaMismatch is returned when a feature list does not match FeatureNames
var ErrFeatureSchemaMismatch = errors.New("feature schema mismatch")

// FeatureNames returns the fixed feature order. A fresh slice is returned each call.
func FeatureNames() []string {
	return []string{
		FeatureAge,
		FeatureDiabetes,
		FeatureBloodPressureProblems,
		FeatureAnyTransplants,
		FeatureAnyChronicDiseases,
		FeatureHeight,
		FeatureWeight,
		FeatureKnownAllergies,
		FeatureHistoryOfCancerInFamily,
		FeatureNumberOfMajorSurgeries,
		FeatureBMI,
	}
}

// CheckFeatureSchema verifies that names lists exactly the features of FeatureNames,
// in the same order.
func CheckFeatureSchema(names []string) error {
	expected := FeatureNames()
	if len(names) != len(expected) {
		return fmt.Errorf("%w: expected %d features, got %d", ErrFeatureSchemaMismatch, len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			return fmt.Errorf("%w: position %d is %q, expected %q", ErrFeatureSchemaMismatch, i, names[i], name)
		}
	}
	return nil
}

// FeatureRecord is the assembled model input for a single prediction.
// BMI is derived from Height and Weight on every read and cannot be set.
type FeatureRecord struct {
	Age                     int
	Diabetes                bool
	BloodPressureProblems   bool
	AnyTransplants          bool
	AnyChronicDiseases      bool
	Height                  float64 // cm
	Weight                  float64 // kg
	KnownAllergies          bool
	HistoryOfCancerInFamily bool
	NumberOfMajorSurgeries  int
}

// BMI returns weight / (height in metres)^2, unrounded
func (r FeatureRecord) BMI() float64 {
	return ComputeBMI(r.Height, r.Weight)
}

// NamedFeature is one entry of an ordered feature record
type NamedFeature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Named returns the record as ordered (name, value) pairs
func (r FeatureRecord) Named() []NamedFeature {
	values := r.Vector()
	names := FeatureNames()
	out := make([]NamedFeature, len(names))
	for i, name := range names {
		out[i] = NamedFeature{Name: name, Value: values[i]}
	}
	return out
}

// Vector returns the numeric features in FeatureNames order
func (r FeatureRecord) Vector() []float64 {
	return []float64{
		float64(r.Age),
		boolToFloat(r.Diabetes),
		boolToFloat(r.BloodPressureProblems),
		boolToFloat(r.AnyTransplants),
		boolToFloat(r.AnyChronicDiseases),
		r.Height,
		r.Weight,
		boolToFloat(r.KnownAllergies),
		boolToFloat(r.HistoryOfCancerInFamily),
		float64(r.NumberOfMajorSurgeries),
		r.BMI(),
	}
}

// MarshalJSON encodes the record as an object keyed by feature name, in
// FeatureNames order, BMI included
func (r FeatureRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Named() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
