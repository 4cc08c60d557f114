package cmm

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"pdfcompare/internal/tokens"
)

// StateKind is the parser mode.
type StateKind int

const (
	// StateNormal expects single-line feature rows.
	StateNormal StateKind = iota
	// StateInParent follows a "POS X-Y-Z" row; axis rows become child
	// features of Parent.
	StateInParent
)

// State is the parser state carried from row to row within one document.
type State struct {
	Kind   StateKind
	Parent string
}

// Normal returns the initial state.
func Normal() State {
	return State{Kind: StateNormal}
}

// InParent returns the state following a multi-axis parent row.
func InParent(name string) State {
	return State{Kind: StateInParent, Parent: name}
}

func (s State) String() string {
	if s.Kind == StateInParent {
		return fmt.Sprintf("InParent(%s)", s.Parent)
	}
	return "Normal"
}

// RowKind classifies a row of a data page.
type RowKind int

const (
	RowSkip RowKind = iota
	RowAxis
	RowParent
	RowFeature
)

func (k RowKind) String() string {
	switch k {
	case RowAxis:
		return "axis"
	case RowParent:
		return "parent"
	case RowFeature:
		return "feature"
	default:
		return "skip"
	}
}

// Skip reasons.
const (
	SkipEmptyName    = "empty feature name"
	SkipNoLetters    = "feature name has no letters"
	SkipHeaderOrMeta = "header or report metadata"
)

// RowOutcome is the classification of one row.
type RowOutcome struct {
	Kind RowKind

	// Name is the feature name for RowFeature, the parent name for
	// RowParent and the child feature name for RowAxis.
	Name string

	// Axis is the axis label of a RowAxis row.
	Axis string

	// Deviation is the last deviation value of the row, valid when
	// HasDeviation is set.
	Deviation    float64
	HasDeviation bool

	// Reason explains a RowSkip outcome.
	Reason string
}

// Entry is a feature deviation read from a report.
type Entry struct {
	Feature   string
	Deviation float64
}

const parentMarker = "pos x-y-z"

var metadataLabels = []string{"plan name", "part serial", "histogram", "nominal", "actual"}

func isAxis(s string) bool {
	return s == "X" || s == "Y" || s == "Z"
}

// ClassifyRow classifies row under state. Axis rows are only recognized
// while a parent feature is open.
func ClassifyRow(row Row, cols Columns, state State) RowOutcome {
	if state.Kind == StateInParent {
		axis := ""
		for _, t := range row {
			if tx := strings.TrimSpace(t.Text); isAxis(tx) {
				axis = tx
			}
		}
		if axis != "" {
			out := RowOutcome{Kind: RowAxis, Axis: axis, Name: state.Parent + " " + axis}
			for _, t := range row {
				t.Text = strings.TrimSpace(t.Text)
				if v, ok := cols.Deviation(t); ok {
					out.Deviation, out.HasDeviation = v, true
				}
			}
			return out
		}
	}

	var (
		nameParts []string
		out       RowOutcome
	)
	for _, t := range row {
		t.Text = strings.TrimSpace(t.Text)
		if cols.InFeatureZone(t.Box.X0) {
			nameParts = append(nameParts, t.Text)
			continue
		}
		if v, ok := cols.Deviation(t); ok {
			out.Deviation, out.HasDeviation = v, true
		}
	}

	name := strings.TrimSpace(strings.Join(nameParts, " "))
	if reason := skipReason(name); reason != "" {
		return RowOutcome{Kind: RowSkip, Name: name, Reason: reason}
	}

	if strings.Contains(strings.ToLower(name), parentMarker) {
		return RowOutcome{
			Kind: RowParent,
			Name: strings.TrimSpace(strings.ReplaceAll(name, "X-Y-Z", "")),
		}
	}

	out.Kind = RowFeature
	out.Name = name
	return out
}

func skipReason(name string) string {
	if name == "" {
		return SkipEmptyName
	}
	if !strings.ContainsFunc(name, unicode.IsLetter) {
		return SkipNoLetters
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "date") {
		return SkipHeaderOrMeta
	}
	for _, label := range metadataLabels {
		if strings.Contains(lower, label) {
			return SkipHeaderOrMeta
		}
	}
	return ""
}

// Step advances the parser by one row and returns the next state and the
// entry emitted for the row, if any.
func Step(state State, row Row, cols Columns) (State, *Entry) {
	out := ClassifyRow(row, cols, state)
	switch out.Kind {
	case RowAxis:
		if out.HasDeviation {
			return state, &Entry{Feature: out.Name, Deviation: out.Deviation}
		}
		return state, nil
	case RowParent:
		return InParent(out.Name), nil
	case RowFeature:
		if out.HasDeviation {
			return Normal(), &Entry{Feature: out.Name, Deviation: out.Deviation}
		}
		return Normal(), nil
	default:
		return Normal(), nil
	}
}

// ParsePage parses the rows of one page starting from state. Pages without
// the column headers leave the state untouched and emit nothing.
func ParsePage(state State, page *tokens.Page) (State, []Entry) {
	class := ClassifyPage(page)
	if class.Kind != PageData {
		return state, nil
	}

	var entries []Entry
	for _, row := range ClusterRows(page.Tokens) {
		var entry *Entry
		state, entry = Step(state, row, class.Columns)
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return state, entries
}

// ParseDocument extracts the feature deviations of every page of doc in
// page and row order. The parser state spans page boundaries, so a parent
// row at the bottom of a page applies to axis rows on the next page.
func ParseDocument(ctx context.Context, doc tokens.Document) ([]Entry, error) {
	var (
		entries []Entry
		state   = Normal()
	)
	for n := 1; n <= doc.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Words(n)
		if err != nil {
			return nil, err
		}
		var pageEntries []Entry
		state, pageEntries = ParsePage(state, page)
		entries = append(entries, pageEntries...)
	}
	return entries, nil
}
