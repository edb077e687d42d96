package main

import (
	"fmt"
	"text/tabwriter"

	"medpremium/internal/model"
	"medpremium/internal/service"

	"github.com/spf13/cobra"
)

var bmiCmd = &cobra.Command{
	Use:   "bmi",
	Short: "Show BMI and its category for a height and weight",
	RunE:  runBMI,
}

var (
	bmiHeight float64
	bmiWeight float64
	bmiTable  bool
)

func init() {
	bmiCmd.Flags().Float64Var(&bmiHeight, "height", 170, "Height in cm (100-250)")
	bmiCmd.Flags().Float64Var(&bmiWeight, "weight", 70, "Weight in kg (30-200)")
	bmiCmd.Flags().BoolVar(&bmiTable, "table", false, "Print the BMI category table instead")

	rootCmd.AddCommand(bmiCmd)
}

func runBMI(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if bmiTable {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BMI RANGE\tCATEGORY")
		for _, b := range model.BMIBands() {
			fmt.Fprintf(w, "%s\t%s\n", b.Range, b.Category)
		}
		return w.Flush()
	}

	res, err := service.NewFeatureAssembler().CheckBMI(&model.BMIRequest{Height: bmiHeight, Weight: bmiWeight})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "BMI %.2f: %s\n", res.BMI, res.Category)
	return nil
}
