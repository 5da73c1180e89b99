package transform

// features.go prepares a dataset for clustering: drop excluded fields,
// one-hot encode the categorical fields, and keep only numeric values.
// Each output row carries the index of the source row so features remain
// traceable after filtering upstream.

import (
	"github.com/prepline/prepline/internal/dataset"
)

// FeatureOptions configures clustering-feature extraction.
type FeatureOptions struct {
	// NumericColumns restricts which numeric fields are kept. Empty keeps
	// every numeric field that survives exclusion.
	NumericColumns []string `json:"numericColumns"`

	// CategoricalColumns are one-hot encoded before extraction.
	CategoricalColumns []string `json:"categoricalColumns"`

	// ExcludeColumns are dropped before anything else.
	ExcludeColumns []string `json:"excludeColumns"`
}

// FeatureRow is one observation's numeric features plus the index of the
// row it came from.
type FeatureRow struct {
	RowIndex int                `json:"rowIndex"`
	Features map[string]float64 `json:"features"`
}

// FeatureResult carries the extracted rows, the feature names in column
// order, and the encodings applied to categorical columns.
type FeatureResult struct {
	Rows      []FeatureRow        `json:"rows"`
	Columns   []string            `json:"columns"`
	Encodings map[string]Encoding `json:"encodings,omitempty"`
}

// ExtractClusteringFeatures builds numeric feature rows from a dataset.
func ExtractClusteringFeatures(d dataset.Dataset, opts FeatureOptions) (FeatureResult, error) {
	work := dropColumns(d, opts.ExcludeColumns)

	var (
		encodings  map[string]Encoding
		indicators = map[string]bool{}
	)
	var categorical []string
	for _, col := range opts.CategoricalColumns {
		if work.HasColumn(col) {
			categorical = append(categorical, col)
		}
	}
	if len(categorical) > 0 {
		encoded, encs, err := EncodeCategorical(work, categorical, EncodeOneHot)
		if err != nil {
			return FeatureResult{}, err
		}
		for _, col := range encoded.Columns {
			if !work.HasColumn(col) {
				indicators[col] = true
			}
		}
		work = encoded
		encodings = encs
	}

	keep := map[string]bool{}
	if len(opts.NumericColumns) > 0 {
		for _, col := range opts.NumericColumns {
			keep[col] = true
		}
		for col := range indicators {
			keep[col] = true
		}
	}

	var featureColumns []string
	for _, col := range work.Columns {
		if len(keep) == 0 || keep[col] {
			featureColumns = append(featureColumns, col)
		}
	}

	result := FeatureResult{
		Columns:   featureColumns,
		Encodings: encodings,
		Rows:      make([]FeatureRow, len(work.Rows)),
	}

	for i, row := range work.Rows {
		features := map[string]float64{}
		for _, col := range featureColumns {
			if f, ok := row[col].Numeric(); ok {
				features[col] = f
			}
		}
		result.Rows[i] = FeatureRow{RowIndex: i, Features: features}
	}

	return result, nil
}

// dropColumns returns a copy of the dataset without the named columns.
func dropColumns(d dataset.Dataset, exclude []string) dataset.Dataset {
	if len(exclude) == 0 {
		return d.Clone()
	}
	drop := make(map[string]bool, len(exclude))
	for _, col := range exclude {
		drop[col] = true
	}

	out := dataset.Dataset{}
	for _, col := range d.Columns {
		if !drop[col] {
			out.Columns = append(out.Columns, col)
		}
	}
	out.Rows = make([]dataset.Record, len(d.Rows))
	for i, row := range d.Rows {
		next := make(dataset.Record, len(row))
		for field, v := range row {
			if !drop[field] {
				next[field] = v
			}
		}
		out.Rows[i] = next
	}
	return out
}
