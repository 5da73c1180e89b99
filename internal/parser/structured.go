package parser

// structured.go parses JSON-like payloads: either a sequence of records
// or a single record, which is wrapped as a one-element sequence. Unlike
// CSV parsing, failure here is all-or-nothing: a malformed payload yields
// exactly one error referencing a truncated excerpt of the input.

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

// excerptLimit bounds how much of a malformed payload is echoed back.
const excerptLimit = 100

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseStructured parses a JSON payload into a dataset. Column order
// follows first appearance across records. Field values must be scalars;
// nested arrays or objects invalidate the whole payload.
func ParseStructured(text string) (dataset.Dataset, error) {
	iter := jsoniter.ParseString(jsonAPI, text)

	var d dataset.Dataset
	seen := map[string]bool{}

	addColumn := func(name string) {
		if !seen[name] {
			seen[name] = true
			d.Columns = append(d.Columns, name)
		}
	}

	readRecord := func() (dataset.Record, error) {
		row := dataset.Record{}
		for field := iter.ReadObject(); field != ""; field = iter.ReadObject() {
			v, err := readScalar(iter)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field, err)
			}
			addColumn(field)
			row[field] = v
		}
		if iter.Error != nil {
			return nil, iter.Error
		}
		return row, nil
	}

	switch iter.WhatIsNext() {
	case jsoniter.ArrayValue:
		for iter.ReadArray() {
			if iter.WhatIsNext() != jsoniter.ObjectValue {
				return dataset.Dataset{}, payloadError(text, "array elements must be records")
			}
			row, err := readRecord()
			if err != nil {
				return dataset.Dataset{}, payloadError(text, err.Error())
			}
			d.Rows = append(d.Rows, row)
		}
		if iter.Error != nil {
			return dataset.Dataset{}, payloadError(text, iter.Error.Error())
		}
	case jsoniter.ObjectValue:
		row, err := readRecord()
		if err != nil {
			return dataset.Dataset{}, payloadError(text, err.Error())
		}
		d.Rows = append(d.Rows, row)
	default:
		return dataset.Dataset{}, payloadError(text, "payload must be a record or a sequence of records")
	}

	return d, nil
}

// readScalar converts the next JSON token to a Value. String tokens that
// look like calendar dates become Dates; other strings stay Text.
func readScalar(iter *jsoniter.Iterator) (value.Value, error) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return value.Null(), nil
	case jsoniter.BoolValue:
		return value.NewBool(iter.ReadBool()), nil
	case jsoniter.NumberValue:
		return value.NewNumber(iter.ReadFloat64()), nil
	case jsoniter.StringValue:
		s := iter.ReadString()
		if t, err := time.Parse(value.DateLayout, s); err == nil {
			return value.NewDate(t), nil
		}
		return value.NewText(s), nil
	default:
		iter.Skip()
		return value.Value{}, fmt.Errorf("nested values are not supported")
	}
}

// payloadError builds the single fatal error for a malformed payload,
// quoting at most excerptLimit characters of the input.
func payloadError(text, reason string) error {
	excerpt := text
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit]
	}
	return fmt.Errorf("invalid structured payload: %s (input: %q)", reason, excerpt)
}
