package tokens

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	// wordGapRatio is the horizontal gap, relative to the font size, that
	// separates two glyphs into different words.
	wordGapRatio = 0.2
	// baselineRatio is the baseline shift, relative to the font size, that
	// starts a new word.
	baselineRatio = 0.25
	// advanceRatio is the estimated glyph advance, relative to the font
	// size, for fonts that carry no width table.
	advanceRatio = 0.5
	ascentRatio  = 0.8
	descentRatio = 0.2
	minFontSize  = 1.0
	// sizeEpsilon absorbs rounding in font sizes derived from the text matrix.
	sizeEpsilon = 0.01
)

// pageFrame maps PDF user space (origin bottom-left) to top-left page
// coordinates.
type pageFrame struct {
	llx, lly, urx, ury float64
}

func (f pageFrame) width() float64  { return f.urx - f.llx }
func (f pageFrame) height() float64 { return f.ury - f.lly }

type wordBuilder struct {
	text     strings.Builder
	x0, x1   float64
	baseline float64
	size     float64
	font     string
}

func (w *wordBuilder) empty() bool {
	return w.text.Len() == 0
}

func (w *wordBuilder) start(g pdf.Text, size float64) {
	w.text.Reset()
	w.x0, w.x1 = g.X, g.X
	w.baseline = g.Y
	w.size = size
	w.font = g.Font
}

// continues reports whether glyph g belongs to the word being built.
func (w *wordBuilder) continues(g pdf.Text, size float64) bool {
	if g.Font != w.font || math.Abs(size-w.size) > sizeEpsilon {
		return false
	}
	if math.Abs(g.Y-w.baseline) > baselineRatio*size {
		return false
	}
	gap := g.X - w.x1
	return gap <= wordGapRatio*size && gap >= -size
}

func (w *wordBuilder) token(frame pageFrame) Token {
	return Token{
		Text: w.text.String(),
		Box: Box{
			X0: w.x0 - frame.llx,
			Y0: frame.ury - w.baseline - ascentRatio*w.size,
			X1: w.x1 - frame.llx,
			Y1: frame.ury - w.baseline + descentRatio*w.size,
		},
	}
}

// groupWords assembles glyph runs emitted by the PDF content stream into
// words. A word ends at a whitespace glyph, a font or size change, a
// baseline shift, or a horizontal gap wider than a fraction of the font size.
func groupWords(glyphs []pdf.Text, frame pageFrame) []Token {
	var (
		words []Token
		cur   wordBuilder
	)
	flush := func() {
		if !cur.empty() {
			words = append(words, cur.token(frame))
			cur.text.Reset()
		}
	}

	for _, g := range splitGlyphs(estimateAdvances(glyphs)) {
		size := math.Max(math.Abs(g.FontSize), minFontSize)
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		if cur.empty() || !cur.continues(g, size) {
			flush()
			cur.start(g, size)
		}
		cur.text.WriteString(g.S)
		cur.x1 = math.Max(cur.x1, g.X+g.W)
	}
	flush()

	return words
}

// splitGlyphs breaks text runs that carry embedded whitespace into separate
// runs, spreading the run width evenly over its runes.
func splitGlyphs(glyphs []pdf.Text) []pdf.Text {
	out := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		n := utf8.RuneCountInString(g.S)
		if n <= 1 || !strings.ContainsFunc(g.S, unicode.IsSpace) {
			out = append(out, g)
			continue
		}
		step := g.W / float64(n)
		i := 0
		for _, r := range g.S {
			part := g
			part.S = string(r)
			part.X = g.X + float64(i)*step
			part.W = step
			out = append(out, part)
			i++
		}
	}
	return out
}

// estimateAdvances lays out glyphs of fonts without a width table. The
// reader reports them with W == 0 and never advances the text position, so
// every glyph of a run shares the run's origin. Such glyphs get an advance
// of advanceRatio times the font size, placed one after another from the
// run's origin.
func estimateAdvances(glyphs []pdf.Text) []pdf.Text {
	out := make([]pdf.Text, len(glyphs))
	var (
		origin pdf.Text
		pen    float64
		inRun  bool
	)
	for i, g := range glyphs {
		if g.W != 0 {
			inRun = false
			out[i] = g
			continue
		}
		if inRun && g.X == origin.X && g.Y == origin.Y && g.Font == origin.Font && g.FontSize == origin.FontSize {
			g.X = pen
		} else {
			origin = g
			inRun = true
		}
		size := math.Max(math.Abs(g.FontSize), minFontSize)
		g.W = advanceRatio * size * float64(utf8.RuneCountInString(g.S))
		pen = g.X + g.W
		out[i] = g
	}
	return out
}
