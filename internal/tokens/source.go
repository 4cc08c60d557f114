// Package tokens extracts positioned words from documents.
//
// A Source opens a document by location and hands out one Page of tokens at
// a time. Token boxes are expressed in raw page units with the origin at the
// top-left corner of the page, so y grows downward. Callers that need
// resolution independent coordinates use Page.Normalized.
//
// The PDF implementation reads documents through github.com/viant/afs, so a
// location may be a local path or any URL afs can download (file://, mem://,
// or a cloud storage scheme registered by the caller).
//
// Pages are 1-based. Asking for a page outside the document returns an
// empty page rather than an error; only documents that cannot be opened or
// decoded fail.
package tokens

import (
	"context"
)

// Source opens documents for word extraction.
type Source interface {
	// Open loads and decodes the document at location.
	// Returns a *DocumentOpenError when the document cannot be read or decoded.
	Open(ctx context.Context, location string) (Document, error)
}

// Document is an opened document.
type Document interface {
	// Location is the location the document was opened from.
	Location() string

	// NumPages returns the number of pages in the document.
	NumPages() int

	// Words returns the positioned words of page number page (1-based).
	// A page outside [1, NumPages] yields an empty Page and no error.
	Words(page int) (*Page, error)
}

// Checker is implemented by sources that depend on a capability which may be
// missing at runtime.
type Checker interface {
	Check() error
}

// Ready reports whether src can extract tokens. It returns ErrMissingCapability
// when src is nil or its Check fails.
func Ready(src Source) error {
	if src == nil {
		return ErrMissingCapability
	}
	if checker, ok := src.(Checker); ok {
		if err := checker.Check(); err != nil {
			return WrapTokenError("Ready", ErrMissingCapability, err.Error())
		}
	}
	return nil
}

// Words opens location and returns the tokens of one page. It is the single
// call form of Source.Open followed by Document.Words.
func Words(ctx context.Context, src Source, location string, page int) (*Page, error) {
	doc, err := src.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	return doc.Words(page)
}
