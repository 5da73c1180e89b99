// Package transform converts categorical data into numeric features:
// categorical encoding and clustering-feature extraction.
package transform

// encode.go assigns integer codes or indicator columns to categorical
// values. Codes follow first-seen order for onehot and label; ordinal
// sorts the distinct values lexically before assigning. A value that does
// not match any known code maps to code 0, which is indistinguishable
// from a legitimately assigned code 0 and is kept for compatibility with
// existing consumers.

import (
	"fmt"
	"sort"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

// EncodeMethod selects the categorical encoding scheme.
type EncodeMethod string

const (
	EncodeOneHot  EncodeMethod = "onehot"
	EncodeLabel   EncodeMethod = "label"
	EncodeOrdinal EncodeMethod = "ordinal"
)

// Encoding records how one column was encoded: the distinct values in
// code order and the value-to-code mapping.
type Encoding struct {
	Method EncodeMethod   `json:"method"`
	Values []string       `json:"values"`
	Codes  map[string]int `json:"codes"`
}

// EncodeCategorical encodes the target columns and returns the transformed
// dataset plus the per-column encodings. With onehot, each source column
// is replaced entirely by one indicator column per distinct non-null
// value, named <column>_<value>; a generated indicator name that collides
// with an existing column or another indicator is an error.
func EncodeCategorical(d dataset.Dataset, columns []string, method EncodeMethod) (dataset.Dataset, map[string]Encoding, error) {
	switch method {
	case EncodeOneHot, EncodeLabel, EncodeOrdinal:
	default:
		return dataset.Dataset{}, nil, fmt.Errorf("unknown encode method %q", method)
	}
	for _, col := range columns {
		if !d.HasColumn(col) {
			return dataset.Dataset{}, nil, fmt.Errorf("encode: column %q not found", col)
		}
	}

	out := d.Clone()
	encodings := make(map[string]Encoding, len(columns))

	for _, col := range columns {
		distinct := distinctValues(out, col)

		if method == EncodeOrdinal {
			sort.Strings(distinct)
		}

		codes := make(map[string]int, len(distinct))
		for i, v := range distinct {
			codes[v] = i
		}
		encodings[col] = Encoding{Method: method, Values: distinct, Codes: codes}

		if method == EncodeOneHot {
			var err error
			out, err = oneHotColumn(out, col, distinct)
			if err != nil {
				return dataset.Dataset{}, nil, err
			}
			continue
		}

		for _, row := range out.Rows {
			v := row[col]
			if v.IsMissing() {
				row[col] = value.NewNumber(0) // unknown maps to code 0
				continue
			}
			row[col] = value.NewNumber(float64(codes[v.String()]))
		}
	}

	return out, encodings, nil
}

// distinctValues lists the distinct non-null values of a column in
// first-seen row order, using their display strings.
func distinctValues(d dataset.Dataset, col string) []string {
	seen := map[string]bool{}
	var out []string
	for _, row := range d.Rows {
		v := row[col]
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// oneHotColumn replaces col with one indicator column per distinct value,
// in place within the column order.
func oneHotColumn(d dataset.Dataset, col string, distinct []string) (dataset.Dataset, error) {
	indicators := make([]string, len(distinct))
	for i, v := range distinct {
		name := col + "_" + v
		if d.HasColumn(name) && name != col {
			return dataset.Dataset{}, fmt.Errorf("onehot: indicator %q collides with an existing column", name)
		}
		for _, prev := range indicators[:i] {
			if prev == name {
				return dataset.Dataset{}, fmt.Errorf("onehot: two values of %q generate the same indicator %q", col, name)
			}
		}
		indicators[i] = name
	}

	out := dataset.Dataset{
		Columns: dataset.ReplaceColumn(d.Columns, col, indicators...),
		Rows:    make([]dataset.Record, len(d.Rows)),
	}

	for i, row := range d.Rows {
		next := row.Clone()
		source := next[col]
		delete(next, col)
		for j, v := range distinct {
			if !source.IsMissing() && source.String() == v {
				next[indicators[j]] = value.NewNumber(1)
			} else {
				next[indicators[j]] = value.NewNumber(0)
			}
		}
		out.Rows[i] = next
	}

	return out, nil
}
