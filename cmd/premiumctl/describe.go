package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"medpremium/internal/service"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print summary statistics of the premium dataset",
	RunE:  runDescribe,
}

var (
	describeDataset string
	describeExport  string
)

func init() {
	describeCmd.Flags().StringVarP(&describeDataset, "dataset", "d", envOr("DATASET_PATH", "data/Medicalpremium.csv"), "Path to the dataset CSV")
	describeCmd.Flags().StringVar(&describeExport, "xlsx", "", "Also write the dataset workbook to this path")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	ds, err := service.LoadDataset(describeDataset)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range ds.Describe() {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if describeExport == "" {
		return nil
	}
	data, err := service.ExportWorkbook(ds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(describeExport, data, 0644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", describeExport)
	return nil
}
