package summary

import (
	"errors"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	nullValue valueKind = iota
	textValue
	numberValue
)

// Value is a single dataset cell: null, text, or a number that keeps its
// source text.
type Value struct {
	kind valueKind
	text string
	num  float64
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Text returns a non-null value holding s verbatim.
func Text(s string) Value { return Value{kind: textValue, text: s} }

// numericValue parses s for a numeric feature. Surrounding whitespace is
// ignored and out-of-range magnitudes become ±Inf. Unparsable input stays text.
func numericValue(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Text(s)
	}
	return Value{kind: numberValue, text: s, num: f}
}

// IsNull reports whether the cell is absent.
func (v Value) IsNull() bool { return v.kind == nullValue }

// String returns the source text; null renders as "".
func (v Value) String() string { return v.text }

// Float returns the parsed number and whether the cell holds one.
func (v Value) Float() (float64, bool) { return v.num, v.kind == numberValue }

// Ptr returns nil for null and a pointer to the text otherwise.
func (v Value) Ptr() *string {
	if v.IsNull() {
		return nil
	}
	s := v.text
	return &s
}

// Record is a detached copy of one row keyed by feature name.
type Record map[string]Value

// Strings flattens the record to plain strings, dropping nulls to nil.
func (r Record) Strings() map[string]*string {
	out := make(map[string]*string, len(r))
	for k, v := range r {
		out[k] = v.Ptr()
	}
	return out
}
