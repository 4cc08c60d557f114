package cmm

import (
	"pdfcompare/internal/tokens"
)

// Header labels that mark a data page of a report.
const (
	HeaderActual    = "Actual"
	HeaderDeviation = "Deviation"
	HeaderHistogram = "Histogram"
)

// columnMargin widens the header-derived zones to absorb small alignment
// differences between header and value tokens.
const columnMargin = 5.0

// Columns holds the x boundaries of the feature and deviation zones of a
// data page.
type Columns struct {
	FeatureLimitX float64
	DeviationMinX float64
	DeviationMaxX float64
}

// InFeatureZone reports whether a token starting at x belongs to the
// feature name.
func (c Columns) InFeatureZone(x float64) bool {
	return x < c.FeatureLimitX
}

// InDeviationZone reports whether a token starting at x lies in the
// deviation column.
func (c Columns) InDeviationZone(x float64) bool {
	return c.DeviationMinX <= x && x < c.DeviationMaxX
}

// Deviation returns the value of t when it is a numeric token inside the
// deviation column.
func (c Columns) Deviation(t tokens.Token) (float64, bool) {
	if !c.InDeviationZone(t.Box.X0) {
		return 0, false
	}
	return ParseNumeric(t.Text)
}

// PageKind classifies a page for report mining.
type PageKind int

const (
	// PageSkip is a page without the column headers, such as a cover or
	// summary page.
	PageSkip PageKind = iota
	// PageData is a page with feature rows.
	PageData
)

// PageClass is the classification of one page.
type PageClass struct {
	Kind    PageKind
	Columns Columns
	Reason  string
}

// ClassifyPage locates the report columns on page. Pages missing any of the
// three header labels are classified PageSkip.
func ClassifyPage(page *tokens.Page) PageClass {
	if page.Empty() {
		return PageClass{Kind: PageSkip, Reason: "no tokens"}
	}
	cols, missing := LocateColumns(page.Tokens)
	if missing != "" {
		return PageClass{Kind: PageSkip, Reason: "missing header " + missing}
	}
	return PageClass{Kind: PageData, Columns: cols}
}

// LocateColumns derives the column boundaries from the header tokens. When
// a label occurs more than once the last occurrence wins. It returns the
// name of the first missing label, or "" when all were found.
func LocateColumns(toks []tokens.Token) (Columns, string) {
	var (
		actualX, deviationX, histogramX       float64
		hasActual, hasDeviation, hasHistogram bool
	)
	for _, t := range toks {
		switch t.Text {
		case HeaderActual:
			actualX, hasActual = t.Box.X0, true
		case HeaderDeviation:
			deviationX, hasDeviation = t.Box.X0, true
		case HeaderHistogram:
			histogramX, hasHistogram = t.Box.X0, true
		}
	}

	switch {
	case !hasActual:
		return Columns{}, HeaderActual
	case !hasDeviation:
		return Columns{}, HeaderDeviation
	case !hasHistogram:
		return Columns{}, HeaderHistogram
	}

	return Columns{
		FeatureLimitX: actualX - columnMargin,
		DeviationMinX: deviationX - columnMargin,
		DeviationMaxX: histogramX + columnMargin,
	}, ""
}
