package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetData        = "Data"
	sheetSummary     = "Summary"
	sheetCorrelation = "Correlation"
)

var summaryHeader = []string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}

// ExportWorkbook renders the dataset, its summary statistics and its
// correlation matrix as an xlsx workbook with one sheet each.
func ExportWorkbook(ds *Dataset) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close happens after the buffer is filled

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	preview := ds.Head(ds.Len())
	dataRows := make([][]interface{}, len(preview.Rows))
	for i, row := range preview.Rows {
		dataRows[i] = floatsToCells(row)
	}
	if err := writeSheet(f, sheetData, preview.Columns, dataRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	summary := ds.Describe()
	summaryRows := make([][]interface{}, len(summary))
	for i, s := range summary {
		summaryRows[i] = []interface{}{s.Column, s.Count, s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max}
	}
	if err := writeSheet(f, sheetSummary, summaryHeader, summaryRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	corr := ds.Correlation()
	corrRows := make([][]interface{}, len(corr.Values))
	for i, row := range corr.Values {
		corrRows[i] = append([]interface{}{corr.Columns[i]}, floatsToCells(row)...)
	}
	if err := writeSheet(f, sheetCorrelation, append([]string{""}, corr.Columns...), corrRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetData); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSheet creates sheet with a styled, frozen header row followed by rows
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func floatsToCells(values []float64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
