// Package textdiff compares the words of two revisions of a page.
//
// Words are matched when their normalized text is equal and their boxes
// overlap, with boxes expressed as fractions of the page size so that
// revisions printed on different page sizes remain comparable. Unmatched
// words are scored by the dash/pipe marker convention used on inspection
// drawings, where a marker such as "--|" shows how far a value sits from
// nominal.
package textdiff

import (
	"strings"

	"pdfcompare/internal/tokens"
)

// Normalize lowercases s and keeps only ASCII digits, lowercase letters,
// '-', '|' and spaces. The result is used for equality tests only.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r == '-', r == '|', r == ' ':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Word is a token prepared for matching.
type Word struct {
	Text string
	Norm string
	Box  tokens.Box
}

// PageWords normalizes the tokens of page for matching. Boxes are scaled to
// the page size and tokens whose normalized text is blank are dropped.
func PageWords(page *tokens.Page) []Word {
	var words []Word
	for _, t := range page.Normalized() {
		norm := Normalize(t.Text)
		if strings.TrimSpace(norm) == "" {
			continue
		}
		words = append(words, Word{Text: t.Text, Norm: norm, Box: t.Box})
	}
	return words
}
