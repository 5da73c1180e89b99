package preprocess

// normalize.go rescales numeric columns. Each method computes its
// statistic from every numeric-qualifying value in the column, then maps
// every numeric cell through it. A zero divisor (constant column) maps
// every cell to 0, never NaN or Infinity, whatever the constant's size.

import (
	"fmt"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

// NormalizeMethod selects the scaling statistic.
type NormalizeMethod string

const (
	NormalizeZScore NormalizeMethod = "zscore"
	NormalizeMinMax NormalizeMethod = "minmax"
	NormalizeRobust NormalizeMethod = "robust"
)

// ColumnScale records the statistics used to scale one column, for
// reporting or a later inverse transform.
type ColumnScale struct {
	Method NormalizeMethod `json:"method"`
	Mean   float64         `json:"mean,omitempty"`
	StdDev float64         `json:"stdDev,omitempty"`
	Min    float64         `json:"min,omitempty"`
	Max    float64         `json:"max,omitempty"`
	Median float64         `json:"median,omitempty"`
	MAD    float64         `json:"mad,omitempty"`
}

// Normalize rescales the target columns and returns the transformed
// dataset plus the per-column statistics it used. Non-numeric cells in a
// target column pass through unchanged.
func Normalize(d dataset.Dataset, columns []string, method NormalizeMethod) (dataset.Dataset, map[string]ColumnScale, error) {
	switch method {
	case NormalizeZScore, NormalizeMinMax, NormalizeRobust:
	default:
		return dataset.Dataset{}, nil, fmt.Errorf("unknown normalize method %q", method)
	}

	out := d.Clone()
	scales := make(map[string]ColumnScale, len(columns))

	for _, col := range columns {
		if !d.HasColumn(col) {
			return dataset.Dataset{}, nil, fmt.Errorf("normalize: column %q not found", col)
		}

		nums := d.NumericColumn(col)
		scale := ColumnScale{Method: method}

		var transform func(float64) float64
		switch method {
		case NormalizeZScore:
			scale.Mean = mean(nums)
			scale.StdDev = stddev(nums)
			transform = ratioTransform(scale.Mean, scale.StdDev)
		case NormalizeMinMax:
			scale.Min, scale.Max = minMax(nums)
			transform = ratioTransform(scale.Min, scale.Max-scale.Min)
		case NormalizeRobust:
			scale.Median = median(nums)
			scale.MAD = mad(nums)
			transform = ratioTransform(scale.Median, scale.MAD)
		}

		scales[col] = scale

		for _, row := range out.Rows {
			if f, ok := row[col].Numeric(); ok {
				row[col] = value.NewNumber(transform(f))
			}
		}
	}

	return out, scales, nil
}

// ratioTransform maps v to (v-center)/divisor, collapsing to 0 when the
// divisor is zero so constant columns never produce NaN or Infinity.
func ratioTransform(center, divisor float64) func(float64) float64 {
	if divisor == 0 {
		return func(float64) float64 { return 0 }
	}
	return func(v float64) float64 { return (v - center) / divisor }
}
