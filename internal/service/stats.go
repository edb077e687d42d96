package service

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// sampleStd is the n-1 standard deviation; fewer than two values give 0
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// quantile interpolates linearly between closest ranks of sorted values,
// matching pandas' default. stat.Quantile has no such estimator.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// pearson returns the correlation of x and y, or 0 when either has no variance
func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	// clamp rounding noise
	return math.Max(-1, math.Min(1, r))
}

// histogramCounts buckets values into equal-width bins over [lo, hi]. The
// last divider is nudged past hi so the maximum lands in the last bin.
func histogramCounts(values []float64, lo, hi float64, bins int) ([]float64, []int) {
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	raw := stat.Histogram(nil, dividers, sortedCopy(values), nil)
	counts := make([]int, len(raw))
	for i, c := range raw {
		counts[i] = int(c)
	}
	return edges, counts
}

// cutEdges returns bins+1 equal-width edges over values, with the lowest edge
// pushed down by 0.1% of the range so the minimum falls inside the first
// right-closed bin.
func cutEdges(values []float64, bins int) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		adj := 0.001 * math.Abs(lo)
		if adj == 0 {
			adj = 0.001
		}
		return floats.Span(make([]float64, bins+1), lo-adj, hi+adj)
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[0] -= (hi - lo) * 0.001
	return edges
}

// cutIndex returns the right-closed bin (edges[i], edges[i+1]] holding v, or -1
func cutIndex(edges []float64, v float64) int {
	if v <= edges[0] {
		return -1
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return -1
}
