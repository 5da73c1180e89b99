// Package dataset defines the Record and Dataset types every pipeline
// stage consumes and produces.
//
// A Dataset is an ordered sequence of Records plus the column order used
// for display and serialization. Stages never mutate their input; each
// transformation returns a fresh Dataset. Row order is significant: it
// drives forward_fill and the row indices attached to extracted features.
package dataset

import (
	"fmt"
	"sort"

	"github.com/prepline/prepline/internal/value"
)

// Record maps field names to values for one observation.
// Field names are unique per record.
type Record map[string]value.Value

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered collection of records. Columns carries the field
// insertion order; Rows carries the observation order.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// New creates a dataset with the given column order and no rows.
func New(columns ...string) Dataset {
	return Dataset{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the named column is part of the dataset.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of the named column in row order. Rows that
// lack the field contribute Null.
func (d Dataset) Column(name string) []value.Value {
	out := make([]value.Value, len(d.Rows))
	for i, row := range d.Rows {
		v, ok := row[name]
		if !ok {
			v = value.Null()
		}
		out[i] = v
	}
	return out
}

// NumericColumn returns the numeric-qualifying values of the named column,
// in row order, skipping missing and non-numeric cells.
func (d Dataset) NumericColumn(name string) []float64 {
	var out []float64
	for _, row := range d.Rows {
		if f, ok := row[name].Numeric(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a deep copy of the dataset. Transformations that modify
// rows start from a clone so the input is never mutated.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Record, len(d.Rows)),
	}
	for i, row := range d.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// ReplaceColumn returns the column order with oldName replaced in place by
// newNames, preserving the positions of all other columns.
func ReplaceColumn(columns []string, oldName string, newNames ...string) []string {
	out := make([]string, 0, len(columns)+len(newNames)-1)
	for _, c := range columns {
		if c == oldName {
			out = append(out, newNames...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// DeriveColumns fills Columns from the union of row fields when the
// dataset arrived without an explicit column order, e.g. supplied directly
// as JSON rows. Derived columns are sorted so the order is deterministic.
func (d *Dataset) DeriveColumns() {
	if len(d.Columns) > 0 {
		return
	}
	seen := map[string]bool{}
	for _, row := range d.Rows {
		for field := range row {
			seen[field] = true
		}
	}
	d.Columns = make([]string, 0, len(seen))
	for field := range seen {
		d.Columns = append(d.Columns, field)
	}
	sort.Strings(d.Columns)
}

// Validate checks the structural invariant that every row is a record and
// only holds fields declared in Columns.
func (d Dataset) Validate() error {
	declared := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if declared[c] {
			return fmt.Errorf("duplicate column %q", c)
		}
		declared[c] = true
	}
	for i, row := range d.Rows {
		if row == nil {
			return fmt.Errorf("row %d is not a record", i)
		}
		for field := range row {
			if !declared[field] {
				return fmt.Errorf("row %d has undeclared field %q", i, field)
			}
		}
	}
	return nil
}
