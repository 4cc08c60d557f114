// Package tokentest builds small PDF documents and in-memory token sources
// for tests.
package tokentest

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"pdfcompare/internal/tokens"
)

const (
	PageWidth  = 612.0
	PageHeight = 792.0
	FontSize   = 10.0
	// GlyphWidth is the advance of every glyph in the generated font.
	GlyphWidth = 5.0
)

// Word is text placed on a page. X and Baseline are PDF user space
// coordinates (origin bottom-left).
type Word struct {
	Text     string
	X        float64
	Baseline float64
}

// At places text at x with its baseline at top units below the top edge.
func At(text string, x, top float64) Word {
	return Word{Text: text, X: x, Baseline: PageHeight - top}
}

// BuildPDF returns a PDF with one page per entry of pages. Every page uses a
// Helvetica font with fixed glyph widths and inherits its MediaBox from the
// page tree root.
func BuildPDF(pages ...[]Word) []byte {
	widths := strings.TrimSpace(strings.Repeat(fmt.Sprintf("%g ", GlyphWidth*1000/FontSize), 95))
	return buildPDF(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths [%s] >>", widths), pages)
}

// BuildStandardFontPDF is like BuildPDF but its Helvetica font has no
// /FirstChar, /LastChar or /Widths entries, as is allowed for the standard
// 14 fonts. Readers then report zero glyph widths.
func BuildStandardFontPDF(pages ...[]Word) []byte {
	return buildPDF("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>", pages)
}

func buildPDF(font string, pages [][]Word) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	const firstPage = 4
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}

	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 %g %g] >>",
		strings.Join(kids, " "), len(pages), PageWidth, PageHeight))

	object(font)

	for i, words := range pages {
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			firstPage+2*i+1))
		stream := contentStream(words)
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func contentStream(words []Word) string {
	var sb strings.Builder
	for _, w := range words {
		fmt.Fprintf(&sb, "BT /F1 %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", FontSize, w.X, w.Baseline, escape(w.Text))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Source is an in-memory tokens.Source keyed by location.
type Source struct {
	Docs   map[string][]*tokens.Page
	Errors map[string]error
}

// NewSource returns an empty Source.
func NewSource() *Source {
	return &Source{
		Docs:   map[string][]*tokens.Page{},
		Errors: map[string]error{},
	}
}

// Add registers a document made of pages.
func (s *Source) Add(location string, pages ...*tokens.Page) *Source {
	for i, p := range pages {
		if p.Number == 0 {
			p.Number = i + 1
		}
	}
	s.Docs[location] = pages
	return s
}

// Fail makes Open fail for location.
func (s *Source) Fail(location string, err error) *Source {
	s.Errors[location] = err
	return s
}

// Open implements tokens.Source. Locations not registered verbatim are
// looked up by their base name, so documents listed from a folder can be
// registered by file name.
func (s *Source) Open(_ context.Context, location string) (tokens.Document, error) {
	key := location
	if _, ok := s.Docs[key]; !ok {
		if _, failed := s.Errors[key]; !failed {
			key = path.Base(location)
		}
	}
	if err, ok := s.Errors[key]; ok {
		return nil, tokens.NewDocumentOpenError("Open", location, err)
	}
	pages, ok := s.Docs[key]
	if !ok {
		return nil, tokens.NewDocumentOpenError("Open", location, fmt.Errorf("no such document"))
	}
	return &document{location: location, pages: pages}, nil
}

type document struct {
	location string
	pages    []*tokens.Page
}

func (d *document) Location() string { return d.location }

func (d *document) NumPages() int { return len(d.pages) }

func (d *document) Words(page int) (*tokens.Page, error) {
	if page < 1 || page > len(d.pages) {
		return &tokens.Page{Number: page}, nil
	}
	return d.pages[page-1], nil
}

// Tok returns a token whose box starts at (x, y) and spans w by h.
func Tok(text string, x, y, w, h float64) tokens.Token {
	return tokens.Token{Text: text, Box: tokens.Box{X0: x, Y0: y, X1: x + w, Y1: y + h}}
}
