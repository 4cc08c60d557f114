// Package cmm mines feature deviations from coordinate measuring machine
// inspection reports.
//
// A report page is a table whose columns are located from the "Actual",
// "Deviation" and "Histogram" header labels. Rows are rebuilt from the
// positioned words of the page and fed through a small state machine that
// turns each measured feature into an Entry. Multi-axis features are
// written as a parent row ending in "POS X-Y-Z" followed by one row per
// axis; they become separate features named "<parent> X", "<parent> Y" and
// "<parent> Z".
//
// The Aggregator scans a folder of reports and merges the entries of every
// report into one time series per feature, ordered by report modification
// time.
package cmm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"golang.org/x/sync/errgroup"
	"pdfcompare/internal/logger"
	"pdfcompare/internal/tokens"
)

// DefaultWorkers is the number of reports parsed concurrently when the
// caller does not choose.
const DefaultWorkers = 4

// Filter selects reports by file name and modification time.
type Filter struct {
	// PartType keeps reports whose file name contains it, ignoring case.
	PartType string

	// Start and End bound the modification time, inclusive. Zero values
	// leave the bound open.
	Start time.Time
	End   time.Time
}

// Includes reports whether a report named name modified at modTime passes
// the filter.
func (f Filter) Includes(name string, modTime time.Time) bool {
	if f.PartType != "" && !strings.Contains(strings.ToUpper(name), strings.ToUpper(f.PartType)) {
		return false
	}
	if !f.Start.IsZero() && modTime.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && modTime.After(f.End) {
		return false
	}
	return true
}

// Record is one observation of a feature.
type Record struct {
	Feature    string
	Deviation  float64
	Report     string
	ObservedAt time.Time
}

// Collection is the merged result of a folder scan.
type Collection struct {
	// Features maps a feature name to its records in ascending ObservedAt
	// order.
	Features map[string][]Record

	// Reports is the number of reports that contributed at least one
	// record.
	Reports int

	// Errors holds one "<file>: <message>" entry per report that failed.
	Errors []string
}

// Names returns the feature names in ascending order.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.Features))
	for name := range c.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aggregator scans report folders.
type Aggregator struct {
	fs      afs.Service
	source  tokens.Source
	workers int
	log     zerolog.Logger
}

// NewAggregator creates an Aggregator listing folders with fs and reading
// reports with source. At most workers reports are parsed at a time.
func NewAggregator(fs afs.Service, source tokens.Source, workers int) *Aggregator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Aggregator{
		fs:      fs,
		source:  source,
		workers: workers,
		log:     logger.WithComponent("cmm"),
	}
}

type report struct {
	name    string
	url     string
	modTime time.Time
}

type reportResult struct {
	entries []Entry
	err     error
}

// Collect parses every report in folder that passes filter.
//
// A missing folder fails with ErrFolderNotFound and a missing extraction
// backend with tokens.ErrMissingCapability, both before any report is read.
// Reports that fail to parse are listed in Collection.Errors and do not
// stop the scan.
func (a *Aggregator) Collect(ctx context.Context, folder string, filter Filter) (*Collection, error) {
	const op = "Collect"

	if err := ctx.Err(); err != nil {
		return nil, WrapAggregationError(op, folder, err)
	}

	reports, err := a.listReports(ctx, folder, filter)
	if err != nil {
		return nil, WrapAggregationError(op, folder, err)
	}
	if err := tokens.Ready(a.source); err != nil {
		return nil, WrapAggregationError(op, folder, err)
	}

	start := time.Now()
	a.log.Info().
		Str("folder", folder).
		Str("part_type", filter.PartType).
		Int("reports", len(reports)).
		Int("workers", a.workers).
		Msg("Scanning CMM reports")

	results := make([]reportResult, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, r := range reports {
		i, r := i, r
		g.Go(func() error {
			entries, err := a.parseReport(gctx, r)
			results[i] = reportResult{entries: entries, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, WrapAggregationError(op, folder, err)
	}

	collection := merge(reports, results)

	a.log.Info().
		Str("folder", folder).
		Int("features", len(collection.Features)).
		Int("reports_analyzed", collection.Reports).
		Int("errors", len(collection.Errors)).
		Dur("duration", time.Since(start)).
		Msg("CMM report scan completed")

	return collection, nil
}

// listReports returns the PDF reports of folder passing filter, sorted by
// file name.
func (a *Aggregator) listReports(ctx context.Context, folder string, filter Filter) ([]report, error) {
	URL := tokens.NormalizeLocation(folder)

	exists, err := a.fs.Exists(ctx, URL)
	if err != nil || !exists {
		return nil, ErrFolderNotFound
	}
	object, err := a.fs.Object(ctx, URL)
	if err != nil || !object.IsDir() {
		return nil, ErrFolderNotFound
	}

	objects, err := a.fs.List(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var reports []report
	for _, o := range objects {
		if !isReport(o) {
			continue
		}
		if !filter.Includes(o.Name(), o.ModTime()) {
			a.log.Debug().Str("report", o.Name()).Msg("Report filtered out")
			continue
		}
		reports = append(reports, report{name: o.Name(), url: o.URL(), modTime: o.ModTime()})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].name < reports[j].name })

	return reports, nil
}

func isReport(o storage.Object) bool {
	return !o.IsDir() && strings.HasSuffix(strings.ToLower(o.Name()), ".pdf")
}

func (a *Aggregator) parseReport(ctx context.Context, r report) ([]Entry, error) {
	log := logger.WithDocument("cmm", r.name)

	doc, err := a.source.Open(ctx, r.url)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open report")
		return nil, err
	}
	entries, err := ParseDocument(ctx, doc)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse report")
		return nil, err
	}

	log.Debug().
		Int("pages", doc.NumPages()).
		Int("entries", len(entries)).
		Msg("Report parsed")
	return entries, nil
}

// merge folds per-report results into feature series in report order.
func merge(reports []report, results []reportResult) *Collection {
	c := &Collection{Features: map[string][]Record{}}
	for i, r := range reports {
		res := results[i]
		if res.err != nil {
			c.Errors = append(c.Errors, fmt.Sprintf("%s: %v", r.name, res.err))
			continue
		}
		if len(res.entries) > 0 {
			c.Reports++
		}
		for _, e := range res.entries {
			c.Features[e.Feature] = append(c.Features[e.Feature], Record{
				Feature:    e.Feature,
				Deviation:  e.Deviation,
				Report:     r.name,
				ObservedAt: r.modTime,
			})
		}
	}
	for _, records := range c.Features {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ObservedAt.Before(records[j].ObservedAt)
		})
	}
	return c
}
