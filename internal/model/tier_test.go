package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoverageTier(t *testing.T) {
	tests := []struct {
		input string
		want  CoverageTier
	}{
		{"5 Lakhs", Tier5Lakh},
		{"10 Lakhs", Tier10Lakh},
		{"20 lakhs", Tier20Lakh},
		{" 50 Lakhs ", Tier50Lakh},
		{"1 Crore", Tier1Crore},
		{"10L", Tier10Lakh},
		{"1cr", Tier1Crore},
	}
	for _, tt := range tests {
		got, err := ParseCoverageTier(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseCoverageTier_Errors(t *testing.T) {
	_, err := ParseCoverageTier("")
	assert.ErrorIs(t, err, ErrTierRequired)

	_, err = ParseCoverageTier("   ")
	assert.ErrorIs(t, err, ErrTierRequired)

	_, err = ParseCoverageTier("2 Crore")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestCoverageTier_Scale(t *testing.T) {
	want := map[CoverageTier]float64{
		Tier5Lakh:  0.4,
		Tier10Lakh: 0.5,
		Tier20Lakh: 0.6,
		Tier50Lakh: 0.75,
		Tier1Crore: 1.0,
	}
	for tier, scale := range want {
		got, err := tier.Scale()
		require.NoError(t, err)
		assert.Equal(t, scale, got, string(tier))
	}

	_, err := CoverageTier("3L").Scale()
	assert.ErrorIs(t, err, ErrUnknownTier)
	assert.False(t, CoverageTier("3L").Valid())
}

func TestCoverageTiers_ScaleNonDecreasing(t *testing.T) {
	prev := 0.0
	for _, tier := range CoverageTiers() {
		scale, err := tier.Scale()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, scale, prev)
		prev = scale
	}
	assert.Equal(t, 1.0, prev)
}

func TestTierTable(t *testing.T) {
	table := TierTable()
	require.Len(t, table, 5)
	assert.Equal(t, "5 Lakhs", table[0].Label)
	assert.Equal(t, "1 Crore", table[4].Label)
	assert.Equal(t, Tier1Crore, table[4].Code)
}
