package main

import (
	"errors"
	"fmt"
	"strings"

	"medpremium/internal/model"
	"medpremium/internal/regressor"

	"github.com/spf13/cobra"
)

var validateModelCmd = &cobra.Command{
	Use:   "validate-model",
	Short: "Check a regression artifact against the schema and the feature order",
	RunE:  runValidateModel,
}

var validateModelPath string

func init() {
	validateModelCmd.Flags().StringVarP(&validateModelPath, "model", "m", envOr("MODEL_ARTIFACT_PATH", "artifacts/premium_model.json"), "Path to the regression artifact")

	rootCmd.AddCommand(validateModelCmd)
}

func runValidateModel(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	reg, err := regressor.Load(validateModelPath)
	if err != nil {
		var verr *regressor.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "FAIL: %d schema violation(s)\n", len(verr.Errors))
		}
		return err
	}
	if err := model.CheckFeatureSchema(reg.FeatureNames()); err != nil {
		return err
	}

	fmt.Fprintf(out, "OK: %s\n", validateModelPath)
	fmt.Fprintf(out, "type:     %s\n", reg.Type())
	if forest, ok := reg.(*regressor.Forest); ok {
		fmt.Fprintf(out, "trees:    %d\n", forest.Trees())
	}
	fmt.Fprintf(out, "features: %s\n", strings.Join(reg.FeatureNames(), ", "))
	return nil
}
