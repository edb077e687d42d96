package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"medpremium/internal/model"

	"github.com/go-playground/validator/v10"
)

// InputError reports raw inputs that fall outside their allowed ranges
type InputError struct {
	Fields []FieldViolation
}

// FieldViolation is one rejected input field
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// FeatureAssembler turns raw form inputs into ordered feature records
type FeatureAssembler struct {
	validate *validator.Validate
}

// NewFeatureAssembler creates a new feature assembler
func NewFeatureAssembler() *FeatureAssembler {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &FeatureAssembler{validate: v}
}

// Assemble validates the raw inputs and builds the feature record
func (a *FeatureAssembler) Assemble(in *model.RawInput) (*model.FeatureRecord, error) {
	if in == nil {
		return nil, fmt.Errorf("no input provided")
	}
	if err := a.check(in); err != nil {
		return nil, err
	}

	return &model.FeatureRecord{
		Age:                     in.Age,
		Diabetes:                in.Diabetes,
		BloodPressureProblems:   in.BloodPressureProblems,
		AnyTransplants:          in.AnyTransplants,
		AnyChronicDiseases:      in.AnyChronicDiseases,
		Height:                  in.Height,
		Weight:                  in.Weight,
		KnownAllergies:          in.KnownAllergies,
		HistoryOfCancerInFamily: in.HistoryOfCancerInFamily,
		NumberOfMajorSurgeries:  in.NumberOfMajorSurgeries,
	}, nil
}

// CheckBMI computes the BMI and its category for a height/weight pair
func (a *FeatureAssembler) CheckBMI(req *model.BMIRequest) (*model.BMIResult, error) {
	if req == nil {
		return nil, fmt.Errorf("no input provided")
	}
	if err := a.check(req); err != nil {
		return nil, err
	}
	bmi := model.ComputeBMI(req.Height, req.Weight)
	return &model.BMIResult{BMI: bmi, Category: model.CategorizeBMI(bmi)}, nil
}

func (a *FeatureAssembler) check(v any) error {
	err := a.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	inputErr := &InputError{Fields: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		inputErr.Fields = append(inputErr.Fields, FieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return inputErr
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// jsonFieldName reports violations under the names clients send
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
