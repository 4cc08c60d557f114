package cmm

import (
	"math"
	"sort"

	"pdfcompare/internal/tokens"
)

// RowGap is the largest vertical distance between the centers of two
// consecutive tokens of the same row.
const RowGap = 1.0

// Row is a group of tokens sharing a text line, ordered left to right.
type Row []tokens.Token

// ClusterRows groups tokens into rows ordered top to bottom. Tokens are
// sorted by vertical center and then by left edge; a new row starts when
// the center moves more than RowGap from the previous token.
func ClusterRows(toks []tokens.Token) []Row {
	if len(toks) == 0 {
		return nil
	}

	sorted := make([]tokens.Token, len(toks))
	copy(sorted, toks)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := sorted[i].Box.CenterY(), sorted[j].Box.CenterY()
		if yi != yj {
			return yi < yj
		}
		return sorted[i].Box.X0 < sorted[j].Box.X0
	})

	var (
		rows    []Row
		current Row
		lastY   float64
	)
	for i, t := range sorted {
		y := t.Box.CenterY()
		if i > 0 && math.Abs(y-lastY) > RowGap {
			rows = append(rows, current.leftToRight())
			current = nil
		}
		current = append(current, t)
		lastY = y
	}
	rows = append(rows, current.leftToRight())

	return rows
}

// leftToRight orders a row by left edge. Tokens of one row may have
// slightly different centers, which the top-to-bottom sort does not
// account for.
func (r Row) leftToRight() Row {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Box.X0 < r[j].Box.X0
	})
	return r
}
