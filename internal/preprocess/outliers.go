package preprocess

// outliers.go drops rows whose numeric values fall outside per-column
// bounds. Columns are processed in the given order and each column's
// bounds are computed from the dataset as already filtered by the
// previous columns in the same call (sequential narrowing, not
// independent per-column filtering). Non-numeric cells in a target column
// always pass that column's check.

import (
	"fmt"

	"github.com/prepline/prepline/internal/dataset"
)

// OutlierMethod selects how bounds are derived.
type OutlierMethod string

const (
	OutlierIQR        OutlierMethod = "iqr"
	OutlierZScore     OutlierMethod = "zscore"
	OutlierPercentile OutlierMethod = "percentile"
)

// Bounds is the inclusive keep-range computed for one column.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// RemoveOutliers filters rows outside the computed bounds for each target
// column and reports the bounds used per column.
//
// iqr:        [Q1 - t*IQR, Q3 + t*IQR]
// zscore:     [mean - t*stddev, mean + t*stddev]
// percentile: [P(t), P(100-t)]
func RemoveOutliers(d dataset.Dataset, columns []string, method OutlierMethod, threshold float64) (dataset.Dataset, map[string]Bounds, error) {
	switch method {
	case OutlierIQR, OutlierZScore, OutlierPercentile:
	default:
		return dataset.Dataset{}, nil, fmt.Errorf("unknown outlier method %q", method)
	}
	for _, col := range columns {
		if !d.HasColumn(col) {
			return dataset.Dataset{}, nil, fmt.Errorf("remove outliers: column %q not found", col)
		}
	}

	rows := make([]dataset.Record, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = row.Clone()
	}
	bounds := make(map[string]Bounds, len(columns))

	for _, col := range columns {
		var nums []float64
		for _, row := range rows {
			if f, ok := row[col].Numeric(); ok {
				nums = append(nums, f)
			}
		}

		var b Bounds
		switch method {
		case OutlierIQR:
			q1 := percentile(nums, 25)
			q3 := percentile(nums, 75)
			iqr := q3 - q1
			b = Bounds{Lower: q1 - threshold*iqr, Upper: q3 + threshold*iqr}
		case OutlierZScore:
			m := mean(nums)
			s := stddev(nums)
			b = Bounds{Lower: m - threshold*s, Upper: m + threshold*s}
		case OutlierPercentile:
			b = Bounds{Lower: percentile(nums, threshold), Upper: percentile(nums, 100-threshold)}
		}
		bounds[col] = b

		kept := rows[:0:len(rows)]
		for _, row := range rows {
			f, ok := row[col].Numeric()
			if ok && (f < b.Lower || f > b.Upper) {
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	}

	out := dataset.Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    rows,
	}
	return out, bounds, nil
}
