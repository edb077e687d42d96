package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RawInput is the user-entered form state before assembly.
// The validate tags mirror the bounds of the input widgets.
type RawInput struct {
	Age                     int     `json:"age" validate:"min=18,max=100"`
	Diabetes                bool    `json:"diabetes"`
	BloodPressureProblems   bool    `json:"blood_pressure_problems"`
	AnyTransplants          bool    `json:"any_transplants"`
	AnyChronicDiseases      bool    `json:"any_chronic_diseases"`
	Height                  float64 `json:"height" validate:"min=100,max=250"`
	Weight                  float64 `json:"weight" validate:"min=30,max=200"`
	KnownAllergies          bool    `json:"known_allergies"`
	HistoryOfCancerInFamily bool    `json:"history_of_cancer_in_family"`
	NumberOfMajorSurgeries  int     `json:"number_of_major_surgeries" validate:"min=0,max=5"`
}

// PredictRequest represents a premium prediction request
type PredictRequest struct {
	RawInput
	Coverage string `json:"coverage"`
}

// BMIRequest represents a BMI status request
type BMIRequest struct {
	Height float64 `json:"height" validate:"min=100,max=250"`
	Weight float64 `json:"weight" validate:"min=30,max=200"`
}

// BMIResult is a BMI value with its category
type BMIResult struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// PredictionResult is the outcome of one premium estimate
type PredictionResult struct {
	ID            string          `json:"id"`
	Features      FeatureRecord   `json:"features"`
	Inputs        []NamedFeature  `json:"inputs"`
	BMI           float64         `json:"bmi"`
	BMICategory   string          `json:"bmi_category"`
	Tier          CoverageTier    `json:"tier"`
	TierLabel     string          `json:"tier_label"`
	Scale         float64         `json:"scale"`
	RawPrediction float64         `json:"raw_prediction"`
	Premium       decimal.Decimal `json:"premium"`
	Display       string          `json:"display"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ErrPredictionNotFound is returned when a logged prediction id does not exist
var ErrPredictionNotFound = errors.New("prediction not found")

// PredictionLog is a persisted prediction
type PredictionLog struct {
	ID                      string          `json:"id" db:"id"`
	Age                     int             `json:"age" db:"age"`
	Diabetes                bool            `json:"diabetes" db:"diabetes"`
	BloodPressureProblems   bool            `json:"blood_pressure_problems" db:"blood_pressure_problems"`
	AnyTransplants          bool            `json:"any_transplants" db:"any_transplants"`
	AnyChronicDiseases      bool            `json:"any_chronic_diseases" db:"any_chronic_diseases"`
	Height                  float64         `json:"height" db:"height"`
	Weight                  float64         `json:"weight" db:"weight"`
	KnownAllergies          bool            `json:"known_allergies" db:"known_allergies"`
	HistoryOfCancerInFamily bool            `json:"history_of_cancer_in_family" db:"history_of_cancer_in_family"`
	NumberOfMajorSurgeries  int             `json:"number_of_major_surgeries" db:"number_of_major_surgeries"`
	BMI                     float64         `json:"bmi" db:"bmi"`
	Tier                    string          `json:"tier" db:"tier"`
	Scale                   float64         `json:"scale" db:"scale"`
	RawPrediction           float64         `json:"raw_prediction" db:"raw_prediction"`
	Premium                 decimal.Decimal `json:"premium" db:"premium"`
	Distance                *float64        `json:"distance,omitempty" db:"distance"`
	CreatedAt               time.Time       `json:"created_at" db:"created_at"`
}

// NewPredictionLog flattens a result into its persisted form
func NewPredictionLog(r *PredictionResult) *PredictionLog {
	f := r.Features
	return &PredictionLog{
		ID:                      r.ID,
		Age:                     f.Age,
		Diabetes:                f.Diabetes,
		BloodPressureProblems:   f.BloodPressureProblems,
		AnyTransplants:          f.AnyTransplants,
		AnyChronicDiseases:      f.AnyChronicDiseases,
		Height:                  f.Height,
		Weight:                  f.Weight,
		KnownAllergies:          f.KnownAllergies,
		HistoryOfCancerInFamily: f.HistoryOfCancerInFamily,
		NumberOfMajorSurgeries:  f.NumberOfMajorSurgeries,
		BMI:                     r.BMI,
		Tier:                    string(r.Tier),
		Scale:                   r.Scale,
		RawPrediction:           r.RawPrediction,
		Premium:                 r.Premium,
		CreatedAt:               r.CreatedAt,
	}
}

// Features rebuilds the feature record of a persisted prediction
func (l *PredictionLog) Features() FeatureRecord {
	return FeatureRecord{
		Age:                     l.Age,
		Diabetes:                l.Diabetes,
		BloodPressureProblems:   l.BloodPressureProblems,
		AnyTransplants:          l.AnyTransplants,
		AnyChronicDiseases:      l.AnyChronicDiseases,
		Height:                  l.Height,
		Weight:                  l.Weight,
		KnownAllergies:          l.KnownAllergies,
		HistoryOfCancerInFamily: l.HistoryOfCancerInFamily,
		NumberOfMajorSurgeries:  l.NumberOfMajorSurgeries,
	}
}
