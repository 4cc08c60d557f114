package textdiff

import (
	"fmt"
)

// Marker is an unmatched word on one side of a page diff. Box holds
// [x0, y0, x1, y1] as fractions of the page size.
type Marker struct {
	Box       [4]float64 `json:"box"`
	Text      string     `json:"text"`
	DashCount int        `json:"dashCount"`
	Severity  int        `json:"severity"`
}

// RightMarker is an unmatched word of the newer revision.
type RightMarker struct {
	Marker
	Improved bool `json:"improved"`
}

// Result is the diff of one page.
type Result struct {
	Page  int           `json:"page"`
	Left  []Marker      `json:"left"`
	Right []RightMarker `json:"right"`
}

// Changed reports whether either side has unmatched words.
func (r *Result) Changed() bool {
	return len(r.Left) > 0 || len(r.Right) > 0
}

// ImprovedCount returns the number of right markers flagged as improved.
func (r *Result) ImprovedCount() int {
	n := 0
	for _, m := range r.Right {
		if m.Improved {
			n++
		}
	}
	return n
}

// Validate checks that marker boxes are ordered and that severity and dash
// counts agree with the marker text.
func (r *Result) Validate() error {
	check := func(side string, i int, m Marker) error {
		if m.Box[0] > m.Box[2] || m.Box[1] > m.Box[3] {
			return fmt.Errorf("%s marker %d (%q): inverted box %v", side, i, m.Text, m.Box)
		}
		if m.Severity != Severity(m.Text) || m.DashCount != DashMetric(m.Text) {
			return fmt.Errorf("%s marker %d (%q): scores do not match text", side, i, m.Text)
		}
		return nil
	}
	for i, m := range r.Left {
		if err := check("left", i, m); err != nil {
			return err
		}
	}
	for i, m := range r.Right {
		if err := check("right", i, m.Marker); err != nil {
			return err
		}
		if m.Improved && m.Severity < 0 {
			return fmt.Errorf("right marker %d (%q): improved without severity", i, m.Text)
		}
	}
	return nil
}

func newMarker(w Word) Marker {
	return Marker{
		Box:       w.Box.Array(),
		Text:      w.Text,
		DashCount: DashMetric(w.Text),
		Severity:  Severity(w.Text),
	}
}

// Compare diffs two prepared word lists of the same page.
func Compare(page int, left, right []Word) *Result {
	p := Match(left, right)

	result := &Result{
		Page:  page,
		Left:  make([]Marker, 0, len(p.LeftOnly)),
		Right: make([]RightMarker, 0, len(p.RightOnly)),
	}
	for _, i := range p.LeftOnly {
		result.Left = append(result.Left, newMarker(left[i]))
	}
	for _, j := range p.RightOnly {
		result.Right = append(result.Right, RightMarker{
			Marker:   newMarker(right[j]),
			Improved: Improved(right[j], left),
		})
	}
	return result
}
