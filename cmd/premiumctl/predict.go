package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"medpremium/internal/model"
	"medpremium/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the annual premium for one applicant",
	Long:  "Assembles the applicant's answers into the model's feature order, runs the regression artifact and scales the result by the selected insurance cover.",
	RunE:  runPredict,
}

var (
	predictInput    model.RawInput
	predictCoverage string
	predictModel    string
	predictJSON     bool
)

func init() {
	f := predictCmd.Flags()
	f.IntVar(&predictInput.Age, "age", 30, "Age in years (18-100)")
	f.Float64Var(&predictInput.Height, "height", 170, "Height in cm (100-250)")
	f.Float64Var(&predictInput.Weight, "weight", 70, "Weight in kg (30-200)")
	f.IntVar(&predictInput.NumberOfMajorSurgeries, "surgeries", 1, "Number of major surgeries (0-5)")
	f.BoolVar(&predictInput.Diabetes, "diabetes", false, "Has diabetes")
	f.BoolVar(&predictInput.BloodPressureProblems, "blood-pressure", false, "Has blood pressure problems")
	f.BoolVar(&predictInput.AnyTransplants, "transplants", false, "Had any transplants")
	f.BoolVar(&predictInput.AnyChronicDiseases, "chronic", false, "Has any chronic diseases")
	f.BoolVar(&predictInput.KnownAllergies, "allergies", false, "Has known allergies")
	f.BoolVar(&predictInput.HistoryOfCancerInFamily, "cancer-history", false, "History of cancer in family")
	f.StringVarP(&predictCoverage, "coverage", "c", "", "Insurance cover: 5L, 10L, 20L, 50L, 1Cr or its label")
	f.StringVarP(&predictModel, "model", "m", envOr("MODEL_ARTIFACT_PATH", "artifacts/premium_model.json"), "Path to the regression artifact")
	f.BoolVar(&predictJSON, "json", false, "Print the full result as JSON")

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	estimator := service.NewPremiumEstimator(predictModel, zap.NewNop())
	if err := estimator.Load(); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	svc := service.NewPredictionService(service.NewFeatureAssembler(), estimator, nil, zap.NewNop())

	result, err := svc.Predict(context.Background(), &model.PredictRequest{
		RawInput: predictInput,
		Coverage: predictCoverage,
	})
	if err != nil {
		if errors.Is(err, model.ErrTierRequired) {
			return fmt.Errorf("%w (use --coverage)", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if predictJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(out, "BMI:      %.2f (%s)\n", result.BMI, result.BMICategory)
	fmt.Fprintf(out, "Cover:    %s (x%.1f)\n", result.TierLabel, result.Scale)
	fmt.Fprintf(out, "Premium:  %s\n", result.Display)
	return nil
}
