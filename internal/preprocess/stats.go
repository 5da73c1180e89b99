// Package preprocess implements the pure dataset transforms that run
// between parsing and feature extraction: normalization, missing-value
// handling, outlier removal, and sampling.
//
// Every transform takes a dataset plus configuration and returns a fresh
// dataset; inputs are never mutated. Non-numeric cells in a targeted
// column are always left untouched.
package preprocess

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// stddev returns the population standard deviation.
func stddev(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	m := mean(x)
	v := 0.0
	for _, f := range x {
		d := f - m
		v += d * d
	}
	return math.Sqrt(v / n)
}

// median returns the middle value, averaging the two central values for
// even lengths. The input is copied before sorting.
func median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	mid := n / 2
	if n%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

// mad returns the median absolute deviation from the median.
func mad(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := median(x)
	dev := make([]float64, len(x))
	for i, f := range x {
		dev[i] = math.Abs(f - m)
	}
	return median(dev)
}

// minMax returns the smallest and largest value.
func minMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi := x[0], x[0]
	for _, f := range x[1:] {
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}

// percentile returns the p-th percentile (0-100) using linear
// interpolation between closest ranks. The input is copied before sorting.
func percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}
