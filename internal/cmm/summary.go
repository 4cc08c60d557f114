package cmm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted format of summary date filters.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in local time. Empty or malformed
// input reports false and is treated as no filter.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Tolerance is an optional deviation band. A nil bound is open.
type Tolerance struct {
	Upper *float64 `json:"upper,omitempty"`
	Lower *float64 `json:"lower,omitempty"`
}

// Exceeded reports whether deviation lies outside the band.
func (t *Tolerance) Exceeded(deviation float64) bool {
	if t == nil {
		return false
	}
	if t.Upper != nil && deviation > *t.Upper {
		return true
	}
	if t.Lower != nil && deviation < *t.Lower {
		return true
	}
	return false
}

// SummaryRequest selects the reports to summarize.
type SummaryRequest struct {
	Folder    string
	PartType  string
	StartDate string
	EndDate   string
	Tolerance *Tolerance
}

// Filter converts the request into a report filter. Unparsable dates leave
// the corresponding bound open.
func (r SummaryRequest) Filter() Filter {
	f := Filter{PartType: strings.TrimSpace(r.PartType)}
	if t, ok := ParseDate(r.StartDate); ok {
		f.Start = t
	}
	if t, ok := ParseDate(r.EndDate); ok {
		f.End = t
	}
	return f
}

// Point is one observation in a feature series.
type Point struct {
	Date      time.Time `json:"date"`
	Deviation float64   `json:"deviation"`
	Report    string    `json:"report"`
}

// FeatureSummary is the series of one feature.
type FeatureSummary struct {
	Name           string  `json:"name"`
	Latest         float64 `json:"latest"`
	Points         []Point `json:"points"`
	OutOfTolerance bool    `json:"outOfTolerance,omitempty"`
}

// Summary is the result of summarizing a report folder.
type Summary struct {
	Features        []FeatureSummary `json:"features"`
	ReportsAnalyzed int              `json:"reportsAnalyzed"`
	Errors          []string         `json:"errors"`
}

// Summarize scans req.Folder and returns one series per feature, sorted by
// feature name.
func (a *Aggregator) Summarize(ctx context.Context, req SummaryRequest) (*Summary, error) {
	const op = "Summarize"

	if strings.TrimSpace(req.Folder) == "" {
		return nil, WrapAggregationError(op, req.Folder, fmt.Errorf("missing folder path"))
	}

	collection, err := a.Collect(ctx, req.Folder, req.Filter())
	if err != nil {
		return nil, err
	}

	summary := NewSummary(collection, req.Tolerance)
	if err := summary.Validate(); err != nil {
		return nil, WrapAggregationError(op, req.Folder, err)
	}
	return summary, nil
}

// NewSummary converts a collection into a Summary.
func NewSummary(c *Collection, tol *Tolerance) *Summary {
	s := &Summary{
		Features:        make([]FeatureSummary, 0, len(c.Features)),
		ReportsAnalyzed: c.Reports,
		Errors:          append([]string{}, c.Errors...),
	}
	for _, name := range c.Names() {
		records := c.Features[name]
		fs := FeatureSummary{
			Name:   name,
			Points: make([]Point, 0, len(records)),
		}
		for _, r := range records {
			fs.Points = append(fs.Points, Point{Date: r.ObservedAt, Deviation: r.Deviation, Report: r.Report})
			if tol.Exceeded(r.Deviation) {
				fs.OutOfTolerance = true
			}
		}
		if len(fs.Points) > 0 {
			fs.Latest = fs.Points[len(fs.Points)-1].Deviation
		}
		s.Features = append(s.Features, fs)
	}
	return s
}

// Validate checks the ordering guarantees of the summary.
func (s *Summary) Validate() error {
	reports := map[string]bool{}
	for i, f := range s.Features {
		if i > 0 && s.Features[i-1].Name >= f.Name {
			return fmt.Errorf("features not sorted at %q", f.Name)
		}
		if len(f.Points) == 0 {
			return fmt.Errorf("feature %q has no points", f.Name)
		}
		for j := 1; j < len(f.Points); j++ {
			if f.Points[j].Date.Before(f.Points[j-1].Date) {
				return fmt.Errorf("feature %q points not in date order", f.Name)
			}
		}
		if f.Latest != f.Points[len(f.Points)-1].Deviation {
			return fmt.Errorf("feature %q latest value does not match last point", f.Name)
		}
		for _, p := range f.Points {
			reports[p.Report] = true
		}
	}
	if s.ReportsAnalyzed != len(reports) {
		return fmt.Errorf("reports analyzed %d, points reference %d reports", s.ReportsAnalyzed, len(reports))
	}
	return nil
}

// OutOfToleranceCount returns the number of features outside the tolerance
// band.
func (s *Summary) OutOfToleranceCount() int {
	n := 0
	for _, f := range s.Features {
		if f.OutOfTolerance {
			n++
		}
	}
	return n
}
