package tokens

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"pdfcompare/internal/logger"
)

// maxInheritDepth bounds the walk up the page tree when resolving inherited
// page attributes.
const maxInheritDepth = 32

// US Letter, used when a page carries no MediaBox.
var defaultFrame = pageFrame{llx: 0, lly: 0, urx: 612, ury: 792}

// PDFSource extracts words from PDF documents with github.com/ledongthuc/pdf.
type PDFSource struct {
	fs  afs.Service
	log zerolog.Logger
}

// NewPDFSource creates a PDFSource that loads documents through fs.
func NewPDFSource(fs afs.Service) *PDFSource {
	return &PDFSource{
		fs:  fs,
		log: logger.WithComponent("tokens"),
	}
}

// Check implements Checker.
func (s *PDFSource) Check() error {
	if s == nil || s.fs == nil {
		return errors.New("no storage service configured for PDF loading")
	}
	return nil
}

// Open implements Source.
func (s *PDFSource) Open(ctx context.Context, location string) (Document, error) {
	const op = "Open"

	data, err := s.fs.DownloadWithURL(ctx, NormalizeLocation(location))
	if err != nil {
		return nil, NewDocumentOpenError(op, location, err)
	}

	reader, err := decodePDF(data)
	if err != nil {
		return nil, NewDocumentOpenError(op, location, err)
	}

	s.log.Debug().
		Str("document", location).
		Int("bytes", len(data)).
		Int("pages", reader.NumPage()).
		Msg("Opened PDF document")

	return &pdfDocument{location: location, reader: reader}, nil
}

// decodePDF parses the document structure. The PDF library panics on some
// malformed inputs; those panics are reported as errors.
func decodePDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

type pdfDocument struct {
	location string
	reader   *pdf.Reader
}

func (d *pdfDocument) Location() string {
	return d.location
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) Words(page int) (result *Page, err error) {
	const op = "Words"

	if page < 1 || page > d.reader.NumPage() {
		return &Page{Number: page}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = NewDocumentOpenError(op, d.location, fmt.Errorf("page %d: malformed content: %v", page, r))
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return &Page{Number: page}, nil
	}

	frame := mediaBox(p)
	return &Page{
		Number: page,
		Width:  frame.width(),
		Height: frame.height(),
		Tokens: groupWords(p.Content().Text, frame),
	}, nil
}

// mediaBox resolves the page MediaBox, following the Parent chain for
// inherited values.
func mediaBox(p pdf.Page) pageFrame {
	v := p.V
	for depth := 0; depth < maxInheritDepth && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			frame := pageFrame{
				llx: box.Index(0).Float64(),
				lly: box.Index(1).Float64(),
				urx: box.Index(2).Float64(),
				ury: box.Index(3).Float64(),
			}
			if frame.width() > 0 && frame.height() > 0 {
				return frame
			}
		}
		v = v.Key("Parent")
	}
	return defaultFrame
}
