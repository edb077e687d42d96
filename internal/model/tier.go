package model

import (
	"errors"
	"fmt"
	"strings"
)

// CoverageTier is the sum-assured band chosen by the user
type CoverageTier string

// Supported coverage tiers, ascending
const (
	Tier5Lakh  CoverageTier = "5L"
	Tier10Lakh CoverageTier = "10L"
	Tier20Lakh CoverageTier = "20L"
	Tier50Lakh CoverageTier = "50L"
	Tier1Crore CoverageTier = "1Cr"
)

var (
	// ErrTierRequired is returned when a prediction is requested without a tier
	ErrTierRequired = errors.New("please select an insurance cover to proceed")
	// ErrUnknownTier is returned for tier strings outside the supported set
	ErrUnknownTier = errors.New("unknown coverage tier")
)

type tierInfo struct {
	label string
	scale float64
}

var tierTable = map[CoverageTier]tierInfo{
	Tier5Lakh:  {label: "5 Lakhs", scale: 0.4},
	Tier10Lakh: {label: "10 Lakhs", scale: 0.5},
	Tier20Lakh: {label: "20 Lakhs", scale: 0.6},
	Tier50Lakh: {label: "50 Lakhs", scale: 0.75},
	Tier1Crore: {label: "1 Crore", scale: 1.0},
}

// CoverageTiers returns every tier in ascending order
func CoverageTiers() []CoverageTier {
	return []CoverageTier{Tier5Lakh, Tier10Lakh, Tier20Lakh, Tier50Lakh, Tier1Crore}
}

// ParseCoverageTier accepts a tier code ("10L") or display label ("10 Lakhs"),
// case-insensitively. An empty string yields ErrTierRequired.
func ParseCoverageTier(s string) (CoverageTier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrTierRequired
	}
	for _, tier := range CoverageTiers() {
		if strings.EqualFold(s, string(tier)) || strings.EqualFold(s, tierTable[tier].label) {
			return tier, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Valid reports whether t is a supported tier
func (t CoverageTier) Valid() bool {
	_, ok := tierTable[t]
	return ok
}

// Scale returns the multiplicative factor applied to the raw prediction
func (t CoverageTier) Scale() (float64, error) {
	info, ok := tierTable[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, string(t))
	}
	return info.scale, nil
}

// Label returns the display label, or the raw code for unknown tiers
func (t CoverageTier) Label() string {
	if info, ok := tierTable[t]; ok {
		return info.label
	}
	return string(t)
}

// TierInfo describes a tier for API consumers
type TierInfo struct {
	Code  CoverageTier `json:"code"`
	Label string       `json:"label"`
	Scale float64      `json:"scale"`
}

// TierTable lists every tier with its label and scale factor
func TierTable() []TierInfo {
	tiers := CoverageTiers()
	out := make([]TierInfo, 0, len(tiers))
	for _, t := range tiers {
		info := tierTable[t]
		out = append(out, TierInfo{Code: t, Label: info.label, Scale: info.scale})
	}
	return out
}
