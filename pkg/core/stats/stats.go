// Package stats provides the descriptive-statistics and regression primitives
// shared by the valuation engines. All functions operate on plain float64
// slices and ignore NaN/Inf inputs rather than propagating them.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Finite returns the subset of values that are neither NaN nor infinite.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the arithmetic mean. Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Median returns the 50th percentile.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// PopStdDev computes the population standard deviation (divisor N, not N-1).
// Returns 0 for fewer than one value.
func PopStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.PopStdDev(values, nil)
}

// Percentile computes the pct-th percentile (0-100) using linear
// interpolation between order statistics: the quantile at rank
// p*(n-1). Returns 0 for an empty slice.
func Percentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Quartiles returns the 25th and 75th percentile of values.
func Quartiles(values []float64) (q1, q3 float64) {
	return Percentile(values, 25), Percentile(values, 75)
}

// MinMax returns the smallest and largest value. Returns (0, 0) for an
// empty slice.
func MinMax(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
