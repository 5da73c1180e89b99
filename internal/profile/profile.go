// Package profile computes per-column statistics and structural quality
// diagnostics over a dataset.
//
// Validation separates three severities: structural failures (fatal, flip
// IsValid), warnings (advisory), and recommendations (threshold-driven
// hints tagged warning or info). Recommendations never invalidate a
// report; only structural and required-column failures do.
package profile

import (
	"fmt"

	"github.com/prepline/prepline/internal/dataset"
)

// Default thresholds. The numeric share is the classification contract:
// a column is numeric when at least this share of its non-null values
// qualify as numeric.
const (
	DefaultNumericShare = 0.80

	missingWarnPercent = 50.0
	missingInfoPercent = 20.0
	smallRowCount      = 10
	largeRowCount      = 10000
)

// Options configures validation.
type Options struct {
	// MinRows is the minimum acceptable row count; fewer rows is fatal.
	MinRows int `json:"minRows"`

	// MaxRows is the maximum expected row count; more rows is a warning.
	MaxRows int `json:"maxRows"`

	// RequiredColumns must all be present in the observed field set.
	RequiredColumns []string `json:"requiredColumns"`

	// NumericColumns are expected to classify as numeric; a mismatch is
	// reported as a warning, not a failure.
	NumericColumns []string `json:"numericColumns"`

	// NumericShare overrides the classification threshold when positive.
	NumericShare float64 `json:"numericShare,omitempty"`
}

// NumericStats summarizes a numeric column over its qualifying values.
type NumericStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// CategoricalStats summarizes a categorical column over non-null values.
type CategoricalStats struct {
	UniqueCount int `json:"uniqueCount"`
	TotalCount  int `json:"totalCount"`
}

// ColumnProfile is the inferred classification and statistics for one column.
type ColumnProfile struct {
	Type           string            `json:"type"` // "numeric" or "categorical"
	MissingCount   int               `json:"missingCount"`
	MissingPercent float64           `json:"missingPercent"`
	Numeric        *NumericStats     `json:"numeric,omitempty"`
	Categorical    *CategoricalStats `json:"categorical,omitempty"`
}

// Recommendation is an advisory hint about a column or the dataset shape.
type Recommendation struct {
	Severity string `json:"severity"` // "warning" or "info"
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
}

// Report is the outcome of validating a dataset.
type Report struct {
	IsValid         bool                     `json:"isValid"`
	Errors          []string                 `json:"errors"`
	Warnings        []string                 `json:"warnings"`
	Statistics      map[string]ColumnProfile `json:"statistics"`
	Recommendations []Recommendation         `json:"recommendations"`
}

// Validate checks the dataset's structure against the options and profiles
// every column. Statistics are computed even when structural checks fail,
// so callers always see what the data looks like.
func Validate(d dataset.Dataset, opts Options) Report {
	report := Report{
		IsValid:    true,
		Statistics: map[string]ColumnProfile{},
	}

	if err := d.Validate(); err != nil {
		report.IsValid = false
		report.Errors = append(report.Errors, err.Error())
	}

	rowCount := d.Len()

	if opts.MinRows > 0 && rowCount < opts.MinRows {
		report.IsValid = false
		report.Errors = append(report.Errors,
			fmt.Sprintf("dataset has %d rows, minimum is %d", rowCount, opts.MinRows))
	}
	if opts.MaxRows > 0 && rowCount > opts.MaxRows {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("dataset has %d rows, expected at most %d", rowCount, opts.MaxRows))
	}

	for _, required := range opts.RequiredColumns {
		if !d.HasColumn(required) {
			report.IsValid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("required column %q is missing", required))
		}
	}

	share := opts.NumericShare
	if share <= 0 {
		share = DefaultNumericShare
	}

	for _, col := range d.Columns {
		prof := profileColumn(d, col, share)
		report.Statistics[col] = prof
		report.Recommendations = append(report.Recommendations, columnRecommendations(col, prof)...)
	}

	for _, col := range opts.NumericColumns {
		prof, ok := report.Statistics[col]
		if ok && prof.Type != "numeric" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("column %q was expected to be numeric but classified as %s", col, prof.Type))
		}
	}

	if rowCount < smallRowCount {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Severity: "warning",
			Message:  fmt.Sprintf("dataset has only %d rows; results may not be meaningful", rowCount),
		})
	}
	if rowCount > largeRowCount {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Severity: "info",
			Message:  fmt.Sprintf("dataset has %d rows; consider sampling before heavy stages", rowCount),
		})
	}

	return report
}

// profileColumn classifies one column and computes its statistics.
// A column is numeric when at least share of its non-null values qualify.
func profileColumn(d dataset.Dataset, col string, share float64) ColumnProfile {
	var (
		missing    int
		nonNull    int
		numeric    []float64
		uniqueKeys = map[string]bool{}
	)

	for _, row := range d.Rows {
		v := row[col]
		if v.IsMissing() {
			missing++
			continue
		}
		nonNull++
		uniqueKeys[v.Key()] = true
		if f, ok := v.Numeric(); ok {
			numeric = append(numeric, f)
		}
	}

	prof := ColumnProfile{MissingCount: missing}
	if total := d.Len(); total > 0 {
		prof.MissingPercent = float64(missing) / float64(total) * 100
	}

	if nonNull > 0 && float64(len(numeric)) >= share*float64(nonNull) {
		prof.Type = "numeric"
		stats := NumericStats{Min: numeric[0], Max: numeric[0]}
		sum := 0.0
		for _, f := range numeric {
			if f < stats.Min {
				stats.Min = f
			}
			if f > stats.Max {
				stats.Max = f
			}
			sum += f
		}
		stats.Mean = sum / float64(len(numeric))
		prof.Numeric = &stats
		return prof
	}

	prof.Type = "categorical"
	prof.Categorical = &CategoricalStats{
		UniqueCount: len(uniqueKeys),
		TotalCount:  nonNull,
	}
	return prof
}

// columnRecommendations derives the threshold-driven hints for one column.
func columnRecommendations(col string, prof ColumnProfile) []Recommendation {
	var recs []Recommendation

	switch {
	case prof.MissingPercent > missingWarnPercent:
		recs = append(recs, Recommendation{
			Severity: "warning",
			Column:   col,
			Message:  fmt.Sprintf("%.1f%% of values are missing; consider dropping or imputing the column", prof.MissingPercent),
		})
	case prof.MissingPercent > missingInfoPercent:
		recs = append(recs, Recommendation{
			Severity: "info",
			Column:   col,
			Message:  fmt.Sprintf("%.1f%% of values are missing; consider imputing", prof.MissingPercent),
		})
	}

	if prof.Categorical != nil &&
		prof.Categorical.TotalCount > 0 &&
		prof.Categorical.UniqueCount == prof.Categorical.TotalCount {
		recs = append(recs, Recommendation{
			Severity: "warning",
			Column:   col,
			Message:  "every value is unique; column is likely an identifier and not useful for clustering",
		})
	}

	return recs
}
