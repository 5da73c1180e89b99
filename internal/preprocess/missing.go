package preprocess

// missing.go fills or removes missing values. mean and median operate
// over numeric-qualifying non-missing values only; mode operates over any
// value type with ties broken by first appearance in row order, so results
// are deterministic. forward_fill propagates the most recent non-missing
// value downward; a leading gap stays missing. remove filters rows per
// target column in sequence, each filter applied to the dataset as
// narrowed by the previous columns.

import (
	"fmt"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

// MissingMethod selects the imputation or removal strategy.
type MissingMethod string

const (
	MissingMean        MissingMethod = "mean"
	MissingMedian      MissingMethod = "median"
	MissingMode        MissingMethod = "mode"
	MissingForwardFill MissingMethod = "forward_fill"
	MissingRemove      MissingMethod = "remove"
)

// HandleMissing applies the chosen strategy to the target columns, or to
// every column when columns is empty. It returns the transformed dataset
// and the number of cells filled (or rows removed, for remove).
func HandleMissing(d dataset.Dataset, method MissingMethod, columns []string) (dataset.Dataset, int, error) {
	if len(columns) == 0 {
		columns = d.Columns
	}
	for _, col := range columns {
		if !d.HasColumn(col) {
			return dataset.Dataset{}, 0, fmt.Errorf("handle missing: column %q not found", col)
		}
	}

	switch method {
	case MissingMean, MissingMedian:
		return fillNumeric(d, method, columns)
	case MissingMode:
		return fillMode(d, columns)
	case MissingForwardFill:
		return forwardFill(d, columns)
	case MissingRemove:
		return removeRows(d, columns)
	default:
		return dataset.Dataset{}, 0, fmt.Errorf("unknown missing-value method %q", method)
	}
}

// fillNumeric imputes missing cells with the column mean or median
// computed over numeric-qualifying non-missing values.
func fillNumeric(d dataset.Dataset, method MissingMethod, columns []string) (dataset.Dataset, int, error) {
	out := d.Clone()
	filled := 0

	for _, col := range columns {
		nums := d.NumericColumn(col)
		if len(nums) == 0 {
			continue // nothing to compute a fill value from
		}

		var fill float64
		if method == MissingMean {
			fill = mean(nums)
		} else {
			fill = median(nums)
		}

		for _, row := range out.Rows {
			if row[col].IsMissing() {
				row[col] = value.NewNumber(fill)
				filled++
			}
		}
	}

	return out, filled, nil
}

// fillMode imputes missing cells with the most frequent non-missing value.
// Ties resolve to the value seen first in row order.
func fillMode(d dataset.Dataset, columns []string) (dataset.Dataset, int, error) {
	out := d.Clone()
	filled := 0

	for _, col := range columns {
		counts := map[string]int{}
		var (
			best      value.Value
			bestCount int
		)
		for _, row := range d.Rows {
			v := row[col]
			if v.IsMissing() {
				continue
			}
			key := v.Key()
			counts[key]++
			// Strict > keeps the first-seen value on ties.
			if counts[key] > bestCount {
				bestCount = counts[key]
				best = v
			}
		}
		if bestCount == 0 {
			continue
		}

		for _, row := range out.Rows {
			if row[col].IsMissing() {
				row[col] = best
				filled++
			}
		}
	}

	return out, filled, nil
}

// forwardFill propagates the most recent non-missing value in row order.
// Cells before the first non-missing value remain missing.
func forwardFill(d dataset.Dataset, columns []string) (dataset.Dataset, int, error) {
	out := d.Clone()
	filled := 0

	for _, col := range columns {
		var (
			last     value.Value
			haveLast bool
		)
		for _, row := range out.Rows {
			if row[col].IsMissing() {
				if haveLast {
					row[col] = last
					filled++
				}
				continue
			}
			last = row[col]
			haveLast = true
		}
	}

	return out, filled, nil
}

// removeRows drops rows whose current target column is missing. Filters
// apply in column order, each against the dataset as refined by the
// previous columns.
func removeRows(d dataset.Dataset, columns []string) (dataset.Dataset, int, error) {
	rows := make([]dataset.Record, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = row.Clone()
	}

	for _, col := range columns {
		kept := rows[:0:len(rows)]
		for _, row := range rows {
			if !row[col].IsMissing() {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	removed := len(d.Rows) - len(rows)
	out := dataset.Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    rows,
	}
	return out, removed, nil
}
