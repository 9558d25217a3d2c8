// Package stats provides the interpolated percentile and quantile summary
// functions the CLV pipeline is built on.
package stats

import (
	"math"
	"sort"
)

// Percentile calculates the p-th percentile of values using linear
// interpolation between closest ranks: percentile p of N sorted values maps
// to rank r = p/100 * (N-1), interpolated between floor(r) and ceil(r).
// Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

// PercentileSorted is Percentile over values already sorted ascending.
func PercentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// QuantileSummary is the 5-point quantile summary of a distribution.
type QuantileSummary struct {
	Min float64
	Q1  float64
	Q2  float64
	Q3  float64
	Max float64
}

// Quartiles computes the 5-point quantile summary of values. The input is
// sorted internally; every element counts once.
func Quartiles(values []float64) QuantileSummary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return QuantileSummary{
		Min: PercentileSorted(sorted, 0),
		Q1:  PercentileSorted(sorted, 25),
		Q2:  PercentileSorted(sorted, 50),
		Q3:  PercentileSorted(sorted, 75),
		Max: PercentileSorted(sorted, 100),
	}
}

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
