// Package models defines the in-memory tabular dataset the cleaner operates on.
package models

import (
	"math"
	"strconv"
)

// ValueKind tags the content of a Value.
type ValueKind int

// Value kinds.
const (
	KindNull ValueKind = iota
	KindText
	KindNumber
)

// String returns a short name for the kind.
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Value is a single cell: null, text or number.
type Value struct {
	kind ValueKind
	// text is the content of a text cell, or the source literal of a number
	// that float64 cannot represent exactly.
	text string
	num  float64
}

// Null returns the missing marker.
func Null() Value {
	return Value{}
}

// Text wraps a string cell.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number wraps a numeric cell. NaN is stored as Null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}

	return Value{kind: KindNumber, num: f}
}

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is the missing marker.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text returns the string content and whether the value is text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}

	return v.text, true
}

// Float returns the numeric content and whether the value is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String renders the value the way it is written to CSV: empty for null,
// shortest round-trip form for numbers.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		if v.text != "" {
			return v.text
		}

		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num && v.text == other.text
	default:
		return true
	}
}
