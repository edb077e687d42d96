package model

import "math"

// BMI category labels
const (
	BMISeverelyUnderweight = "Severely Underweight"
	BMIVeryUnderweight     = "Very Underweight"
	BMIUnderweight         = "Underweight"
	BMINormal              = "Normal (Healthy Weight)"
	BMIOverweight          = "Overweight"
	BMIObesityClassI       = "Obesity Class I (Moderate)"
	BMIObesityClassII      = "Obesity Class II (Severe)"
	BMIObesityClassIII     = "Obesity Class III (Morbid)"
)

// BMIBand is one rung of the BMI ladder: values below Upper (and at or above the
// previous band's Upper) belong to Category.
type BMIBand struct {
	Upper    float64 `json:"-"`
	Range    string  `json:"range"`
	Category string  `json:"category"`
}

// bmiBands is ordered ascending; the last band is unbounded above.
var bmiBands = []BMIBand{
	{Upper: 16, Range: "Below 16.0", Category: BMISeverelyUnderweight},
	{Upper: 17, Range: "16.0 – 16.9", Category: BMIVeryUnderweight},
	{Upper: 18.5, Range: "17.0 – 18.4", Category: BMIUnderweight},
	{Upper: 25, Range: "18.5 – 24.9", Category: BMINormal},
	{Upper: 30, Range: "25.0 – 29.9", Category: BMIOverweight},
	{Upper: 35, Range: "30.0 – 34.9", Category: BMIObesityClassI},
	{Upper: 40, Range: "35.0 – 39.9", Category: BMIObesityClassII},
	{Upper: math.Inf(1), Range: "40.0 and above", Category: BMIObesityClassIII},
}

// BMIBands returns a copy of the classification table
func BMIBands() []BMIBand {
	out := make([]BMIBand, len(bmiBands))
	copy(out, bmiBands)
	return out
}

// ComputeBMI returns weight(kg) / height(m)^2 for a height given in centimetres
func ComputeBMI(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// CategorizeBMI returns the label of the first band whose upper bound exceeds bmi
func CategorizeBMI(bmi float64) string {
	for _, band := range bmiBands {
		if bmi < band.Upper {
			return band.Category
		}
	}
	// NaN compares false against every bound
	return bmiBands[len(bmiBands)-1].Category
}
