package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{10, BMISeverelyUnderweight},
		{15.999, BMISeverelyUnderweight},
		{16, BMIVeryUnderweight},
		{16.9, BMIVeryUnderweight},
		{17, BMIUnderweight},
		{17.5, BMIUnderweight},
		{18.5, BMINormal},
		{24.9, BMINormal},
		{25, BMIOverweight},
		{29.99, BMIOverweight},
		{30, BMIObesityClassI},
		{35, BMIObesityClassII},
		{39.99, BMIObesityClassII},
		{40, BMIObesityClassIII},
		{40.1, BMIObesityClassIII},
		{95, BMIObesityClassIII},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeBMI(tt.bmi), "bmi=%v", tt.bmi)
	}
}

func TestBMIBands_AscendingAndUnbounded(t *testing.T) {
	bands := BMIBands()
	assert.Len(t, bands, 8)
	for i := 1; i < len(bands); i++ {
		assert.Less(t, bands[i-1].Upper, bands[i].Upper)
	}
	assert.True(t, math.IsInf(bands[len(bands)-1].Upper, 1))

	// callers get a copy
	bands[0].Category = "changed"
	assert.Equal(t, BMISeverelyUnderweight, BMIBands()[0].Category)
}

// Every valid height/weight pair lands in exactly one band, and it is the band
// containing the computed value.
func TestCategorizeBMI_UniqueBandOverValidRange(t *testing.T) {
	bands := BMIBands()
	for height := 100.0; height <= 250; height += 7.5 {
		for weight := 30.0; weight <= 200; weight += 5 {
			bmi := ComputeBMI(height, weight)
			assert.InDelta(t, weight/((height/100)*(height/100)), bmi, 1e-9)

			matches := 0
			lower := math.Inf(-1)
			var containing string
			for _, band := range bands {
				if bmi >= lower && bmi < band.Upper {
					matches++
					containing = band.Category
				}
				lower = band.Upper
			}
			assert.Equal(t, 1, matches)
			assert.Equal(t, containing, CategorizeBMI(bmi))
		}
	}
}

func TestComputeBMI(t *testing.T) {
	assert.InDelta(t, 24.22, ComputeBMI(170, 70), 0.005)
	assert.InDelta(t, 25.0, ComputeBMI(200, 100), 1e-9)
}
