package textdiff

import (
	"strings"
	"unicode"
)

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

// Severity scores a deviation marker by its dash count. Text containing a
// digit, or containing neither '-' nor '|', is not a marker and scores -1.
func Severity(text string) int {
	if hasDigit(text) {
		return -1
	}
	if !strings.ContainsAny(text, "-|") {
		return -1
	}
	return strings.Count(text, "-")
}

// DashMetric is the dash and pipe count used to shade overlays. Text with a
// digit scores 0.
func DashMetric(text string) int {
	if hasDigit(text) {
		return 0
	}
	return strings.Count(text, "-") + strings.Count(text, "|")
}

// Improved reports whether right is a marker that moved closer to nominal
// than an overlapping left marker with the same number of pipes.
func Improved(right Word, left []Word) bool {
	severity := Severity(right.Text)
	if severity < 0 || !strings.Contains(right.Text, "|") {
		return false
	}
	pipes := strings.Count(right.Text, "|")
	for _, lw := range left {
		leftSeverity := Severity(lw.Text)
		if leftSeverity < 0 {
			continue
		}
		if strings.Count(lw.Text, "|") != pipes {
			continue
		}
		if !right.Box.Overlaps(lw.Box) {
			continue
		}
		if leftSeverity > severity {
			return true
		}
	}
	return false
}
