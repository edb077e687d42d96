package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"medpremium/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrUnknownColumn is returned when a chart or query names a column the dataset lacks
var ErrUnknownColumn = errors.New("unknown column")

// Dataset is the read-only premium dataset, stored column-wise
type Dataset struct {
	columns []string
	values  map[string][]float64
	rows    int
}

// requiredColumns lists every column the dataset must carry; BMI is derived when absent
func requiredColumns() []string {
	names := model.FeatureNames()
	return append(names[:len(names)-1], model.ColumnPremiumPrice)
}

// LoadDataset reads the CSV dataset at path
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset parses a CSV dataset with a header row
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		columns[i] = name
		index[name] = i
	}
	for _, name := range requiredColumns() {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	values := make(map[string][]float64, len(columns)+1)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %q is not numeric", line, columns[i], cell)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d, column %s: %q is not a finite number", line, columns[i], cell)
			}
			values[columns[i]] = append(values[columns[i]], v)
		}
	}

	rows := len(values[columns[0]])
	if rows == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	if _, ok := index[model.FeatureBMI]; !ok {
		heights := values[model.FeatureHeight]
		weights := values[model.FeatureWeight]
		bmi := make([]float64, rows)
		for i := range bmi {
			bmi[i] = model.ComputeBMI(heights[i], weights[i])
		}
		values[model.FeatureBMI] = bmi
		columns = append(columns, model.FeatureBMI)
	}

	return &Dataset{columns: columns, values: values, rows: rows}, nil
}

// Columns returns the column names in file order
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return d.rows
}

func (d *Dataset) column(name string) ([]float64, error) {
	v, ok := d.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return v, nil
}

// Head returns the first n rows; n is clamped to [0, Len]
func (d *Dataset) Head(n int) *model.DatasetPreview {
	if n < 0 {
		n = 0
	}
	if n > d.rows {
		n = d.rows
	}
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(d.columns))
		for j, col := range d.columns {
			row[j] = d.values[col][i]
		}
		rows[i] = row
	}
	return &model.DatasetPreview{Columns: d.Columns(), Rows: rows, Total: d.rows}
}

// Describe returns count, mean, std, min, quartiles and max per column
func (d *Dataset) Describe() []model.ColumnSummary {
	out := make([]model.ColumnSummary, 0, len(d.columns))
	for _, col := range d.columns {
		values := d.values[col]
		sorted := sortedCopy(values)
		out = append(out, model.ColumnSummary{
			Column: col,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			Std:    sampleStd(values),
			Min:    sorted[0],
			P25:    quantile(sorted, 0.25),
			P50:    quantile(sorted, 0.5),
			P75:    quantile(sorted, 0.75),
			Max:    sorted[len(sorted)-1],
		})
	}
	return out
}

// Correlation returns the pairwise Pearson correlation of every column
func (d *Dataset) Correlation() *model.CorrelationMatrix {
	n := len(d.columns)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		xi := d.values[d.columns[i]]
		for j := i; j < n; j++ {
			r := pearson(xi, d.values[d.columns[j]])
			if i == j && sampleStd(xi) > 0 {
				r = 1
			}
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &model.CorrelationMatrix{Columns: d.Columns(), Values: values}
}

// Histogram buckets a column into equal-width bins; the last bin includes the maximum
func (d *Dataset) Histogram(column string, bins int) (*model.Histogram, error) {
	values, err := d.column(column)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return &model.Histogram{Column: column, Bins: []model.HistogramBin{
			{Lower: lo, Upper: hi, Count: len(values)},
		}}, nil
	}

	width := (hi - lo) / float64(bins)
	edges, counts := histogramCounts(values, lo, hi, bins)

	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i] = model.HistogramBin{
			Lower:   edges[i],
			Upper:   edges[i+1],
			Count:   counts[i],
			Density: float64(counts[i]) / (float64(len(values)) * width),
		}
	}
	out[bins-1].Upper = hi
	return &model.Histogram{Column: column, Bins: out}, nil
}

// Scatter pairs two columns row by row
func (d *Dataset) Scatter(x, y string) (*model.Scatter, error) {
	xs, err := d.column(x)
	if err != nil {
		return nil, err
	}
	ys, err := d.column(y)
	if err != nil {
		return nil, err
	}
	points := make([]model.ScatterPoint, d.rows)
	for i := range points {
		points[i] = model.ScatterPoint{X: xs[i], Y: ys[i]}
	}
	return &model.Scatter{X: x, Y: y, Points: points}, nil
}

// LabelCounts cuts column into len(model.PremiumLabels) equal-width bins and counts
// rows per (label, distinct groupBy value). Every combination is present, zeros included.
func (d *Dataset) LabelCounts(column, groupBy string) (*model.LabelCounts, error) {
	values, err := d.column(column)
	if err != nil {
		return nil, err
	}
	groups, err := d.column(groupBy)
	if err != nil {
		return nil, err
	}

	labels := model.PremiumLabels
	edges := cutEdges(values, len(labels))

	distinct := map[float64]struct{}{}
	for _, g := range groups {
		distinct[g] = struct{}{}
	}
	groupKeys := make([]float64, 0, len(distinct))
	for g := range distinct {
		groupKeys = append(groupKeys, g)
	}
	sort.Float64s(groupKeys)

	type cell struct {
		label int
		group float64
	}
	tally := map[cell]int{}
	for i, v := range values {
		if idx := cutIndex(edges, v); idx >= 0 {
			tally[cell{label: idx, group: groups[i]}]++
		}
	}

	counts := make([]model.LabelCount, 0, len(labels)*len(groupKeys))
	for li, label := range labels {
		for _, g := range groupKeys {
			counts = append(counts, model.LabelCount{Label: label, Group: g, Count: tally[cell{label: li, group: g}]})
		}
	}

	return &model.LabelCounts{Column: column, GroupBy: groupBy, Edges: edges, Counts: counts}, nil
}
