package service

import (
	"path/filepath"
	"strings"
	"testing"

	"medpremium/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadDataset(filepath.Join("testdata", "medicalpremium.csv"))
	require.NoError(t, err)
	return ds
}

func summaryFor(t *testing.T, ds *Dataset, column string) model.ColumnSummary {
	t.Helper()
	for _, s := range ds.Describe() {
		if s.Column == column {
			return s
		}
	}
	t.Fatalf("no summary for %s", column)
	return model.ColumnSummary{}
}

func TestLoadDataset(t *testing.T) {
	ds := loadTestDataset(t)

	assert.Equal(t, 8, ds.Len())
	cols := ds.Columns()
	assert.Len(t, cols, 12)
	assert.Equal(t, model.FeatureBMI, cols[len(cols)-1], "BMI is derived when the file lacks it")
}

func TestReadDataset_Errors(t *testing.T) {
	header := "Age,Diabetes,BloodPressureProblems,AnyTransplants,AnyChronicDiseases,Height,Weight,KnownAllergies,HistoryOfCancerInFamily,NumberOfMajorSurgeries,PremiumPrice\n"
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"header only", header},
		{"missing column", "Age,PremiumPrice\n30,20000\n"},
		{"not numeric", header + "30,0,0,0,0,170,70,0,0,one,20000\n"},
		{"ragged row", header + "30,0,0\n"},
		{"duplicate column", "Age,Age\n1,2\n"},
		{"NaN cell", header + "30,0,0,0,0,170,70,0,0,1,NaN\n"},
		{"Inf cell", header + "30,0,0,0,0,170,70,0,0,1,+Inf\n"},
		{"negative Inf cell", header + "-Inf,0,0,0,0,170,70,0,0,1,20000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestReadDataset_KeepsExistingBMI(t *testing.T) {
	doc := "Age,Diabetes,BloodPressureProblems,AnyTransplants,AnyChronicDiseases,Height,Weight,KnownAllergies,HistoryOfCancerInFamily,NumberOfMajorSurgeries,BMI,PremiumPrice\n" +
		"30,0,0,0,0,170,70,0,0,1,99,20000\n"
	ds, err := ReadDataset(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, model.ColumnPremiumPrice, ds.Columns()[11])
	assert.Equal(t, 99.0, ds.Head(1).Rows[0][10])
}

func TestDataset_Head(t *testing.T) {
	ds := loadTestDataset(t)

	head := ds.Head(3)
	assert.Len(t, head.Rows, 3)
	assert.Equal(t, 8, head.Total)
	assert.Equal(t, 45.0, head.Rows[0][0])
	assert.Equal(t, 25000.0, head.Rows[0][10])

	assert.Len(t, ds.Head(1000).Rows, 8)
	assert.Len(t, ds.Head(-4).Rows, 0)
}

func TestDataset_Describe(t *testing.T) {
	ds := loadTestDataset(t)

	age := summaryFor(t, ds, model.FeatureAge)
	assert.Equal(t, 8, age.Count)
	assert.InDelta(t, 39.625, age.Mean, 1e-9)
	assert.Equal(t, 23.0, age.Min)
	assert.Equal(t, 60.0, age.Max)
	assert.InDelta(t, 32.25, age.P25, 1e-9)
	assert.InDelta(t, 37.0, age.P50, 1e-9)
	assert.InDelta(t, 46.75, age.P75, 1e-9)
	assert.InDelta(t, 12.106, age.Std, 1e-3)

	transplants := summaryFor(t, ds, model.FeatureAnyTransplants)
	assert.Equal(t, 0.0, transplants.Std)
}

func TestDataset_Correlation(t *testing.T) {
	ds := loadTestDataset(t)
	corr := ds.Correlation()

	n := len(corr.Columns)
	require.Len(t, corr.Values, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, corr.Values[i][j], corr.Values[j][i])
			assert.LessOrEqual(t, corr.Values[i][j], 1.0)
			assert.GreaterOrEqual(t, corr.Values[i][j], -1.0)
		}
	}

	idx := map[string]int{}
	for i, c := range corr.Columns {
		idx[c] = i
	}
	assert.Equal(t, 1.0, corr.Values[idx["Age"]][idx["Age"]])
	assert.Greater(t, corr.Values[idx["Age"]][idx["PremiumPrice"]], 0.5)
	// constant column has no defined correlation
	assert.Equal(t, 0.0, corr.Values[idx["AnyTransplants"]][idx["Age"]])
}

func TestDataset_Histogram(t *testing.T) {
	ds := loadTestDataset(t)

	hist, err := ds.Histogram(model.FeatureAge, 5)
	require.NoError(t, err)
	require.Len(t, hist.Bins, 5)

	counts := make([]int, 5)
	var density float64
	for i, b := range hist.Bins {
		counts[i] = b.Count
		density += b.Density * (b.Upper - b.Lower)
	}
	assert.Equal(t, []int{2, 2, 2, 1, 1}, counts)
	assert.InDelta(t, 1.0, density, 1e-9)
	assert.Equal(t, 60.0, hist.Bins[4].Upper)

	_, err = ds.Histogram("Salary", 5)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = ds.Histogram(model.FeatureAge, 0)
	assert.Error(t, err)

	flat, err := ds.Histogram(model.FeatureAnyTransplants, 10)
	require.NoError(t, err)
	require.Len(t, flat.Bins, 1)
	assert.Equal(t, 8, flat.Bins[0].Count)
}

func TestDataset_Scatter(t *testing.T) {
	ds := loadTestDataset(t)

	sc, err := ds.Scatter(model.FeatureAge, model.ColumnPremiumPrice)
	require.NoError(t, err)
	require.Len(t, sc.Points, 8)
	assert.Equal(t, model.ScatterPoint{X: 23, Y: 15000}, sc.Points[7])

	_, err = ds.Scatter("nope", model.FeatureAge)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestDataset_LabelCounts(t *testing.T) {
	ds := loadTestDataset(t)

	lc, err := ds.LabelCounts(model.ColumnPremiumPrice, model.FeatureAnyTransplants)
	require.NoError(t, err)

	require.Len(t, lc.Edges, 6)
	assert.InDelta(t, 14986, lc.Edges[0], 1e-9)
	assert.InDelta(t, 29000, lc.Edges[5], 1e-9)

	got := map[string]int{}
	total := 0
	for _, c := range lc.Counts {
		assert.Equal(t, 0.0, c.Group)
		got[c.Label] = c.Count
		total += c.Count
	}
	assert.Equal(t, map[string]int{"Low": 1, "Basic": 0, "Average": 4, "High": 1, "SuperHigh": 2}, got)
	assert.Equal(t, ds.Len(), total)

	bySurgery, err := ds.LabelCounts(model.FeatureAge, model.FeatureNumberOfMajorSurgeries)
	require.NoError(t, err)
	assert.Len(t, bySurgery.Counts, len(model.PremiumLabels)*3)
}

func TestReadDataset_NonFiniteCellNamesLocation(t *testing.T) {
	doc := "Age,Diabetes,BloodPressureProblems,AnyTransplants,AnyChronicDiseases,Height,Weight,KnownAllergies,HistoryOfCancerInFamily,NumberOfMajorSurgeries,PremiumPrice\n" +
		"30,0,0,0,0,170,70,0,0,1,20000\n" +
		"31,0,0,0,0,170,70,0,0,1,NaN\n"
	_, err := ReadDataset(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), model.ColumnPremiumPrice)
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Equal(t, 0.0, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, pearson([]float64{1}, []float64{1}))
}

func TestHistogramCounts_MaxInLastBin(t *testing.T) {
	edges, counts := histogramCounts([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0, 10, 5)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, edges)
	assert.Equal(t, []int{2, 2, 2, 2, 3}, counts)
}

func TestCutIndex(t *testing.T) {
	edges := cutEdges([]float64{0, 10}, 5)
	assert.Equal(t, 0, cutIndex(edges, 0))
	assert.Equal(t, 0, cutIndex(edges, 2))
	assert.Equal(t, 1, cutIndex(edges, 2.0001))
	assert.Equal(t, 4, cutIndex(edges, 10))
	assert.Equal(t, -1, cutIndex(edges, 11))

	same := cutEdges([]float64{5, 5}, 5)
	assert.Less(t, same[0], 5.0)
	assert.Greater(t, same[5], 5.0)
}
