package model

// Dataset column names
const (
	ColumnPremiumPrice = "PremiumPrice"
)

// PremiumLabels are the equal-width bin labels used by the count charts
var PremiumLabels = []string{"Low", "Basic", "Average", "High", "SuperHigh"}

// DatasetPreview is the head of the dataset
type DatasetPreview struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
	Total   int         `json:"total"`
}

// ColumnSummary holds describe-style statistics for one column
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// CorrelationMatrix is a square Pearson correlation matrix
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// HistogramBin is one bucket of a histogram, [Lower, Upper)
type HistogramBin struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// Histogram is the distribution of one column
type Histogram struct {
	Column string         `json:"column"`
	Bins   []HistogramBin `json:"bins"`
}

// ScatterPoint is one (x, y) pair
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scatter is a paired view of two columns
type Scatter struct {
	X      string         `json:"x"`
	Y      string         `json:"y"`
	Points []ScatterPoint `json:"points"`
}

// LabelCount is the number of rows in one (label, group) cell
type LabelCount struct {
	Label string  `json:"label"`
	Group float64 `json:"group"`
	Count int     `json:"count"`
}

// LabelCounts is a grouped count chart: rows of Column are cut into PremiumLabels
// bins and counted per distinct value of GroupBy.
type LabelCounts struct {
	Column  string       `json:"column"`
	GroupBy string       `json:"group_by"`
	Edges   []float64    `json:"edges"`
	Counts  []LabelCount `json:"counts"`
}
