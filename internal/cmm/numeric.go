package cmm

import (
	"regexp"
	"strconv"
	"strings"
)

// numericToken accepts an optional sign, digits optionally grouped with
// commas, and an optional fraction. Examples: 10, -10.25, 1,234.50.
var numericToken = regexp.MustCompile(`^[+-]?\d[\d,]*(\.\d+)?$`)

// minusSign is the typographic minus some report generators emit.
const minusSign = "\u2212"

// IsNumeric reports whether s is a deviation value token.
func IsNumeric(s string) bool {
	return numericToken.MatchString(strings.Replace(s, minusSign, "-", 1))
}

// ParseNumeric converts a deviation value token. Commas are dropped before
// conversion; tokens outside the grammar are rejected.
func ParseNumeric(s string) (float64, bool) {
	s = strings.Replace(s, minusSign, "-", 1)
	if !IsNumeric(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
