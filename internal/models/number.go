package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPattern is the plain decimal grammar accepted in CSV cells: optional
// sign, digits with an optional fraction, optional exponent. Go-only literal
// forms such as hex floats and underscore separators are not numbers here.
var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// integerPattern matches a plain integer literal.
var integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

// ParseNumber parses s as a finite decimal number, tolerating surrounding
// whitespace. NaN, infinities and non-decimal literals are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// NumberFromText parses s like ParseNumber. Integer literals that float64
// cannot hold exactly keep their source digits, so they are written back
// unchanged.
func NumberFromText(s string) (Value, bool) {
	f, ok := ParseNumber(s)
	if !ok {
		return Null(), false
	}

	v := Number(f)

	lit := strings.TrimSpace(s)
	if integerPattern.MatchString(lit) && canonicalInteger(lit) != strconv.FormatFloat(math.Abs(f), 'f', -1, 64) {
		v.text = lit
	}

	return v, true
}

// canonicalInteger strips the sign and leading zeros of an integer literal.
func canonicalInteger(lit string) string {
	digits := strings.TrimLeft(strings.TrimLeft(lit, "+-"), "0")
	if digits == "" {
		return "0"
	}

	return digits
}
