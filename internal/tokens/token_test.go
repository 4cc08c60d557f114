package tokens

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_Overlaps(t *testing.T) {
	base := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}

	tests := []struct {
		name  string
		other Box
		want  bool
	}{
		{"identical", base, true},
		{"inside", Box{X0: 2, Y0: 2, X1: 3, Y1: 3}, true},
		{"partial", Box{X0: 5, Y0: 5, X1: 15, Y1: 15}, true},
		{"touching right edge", Box{X0: 10, Y0: 0, X1: 20, Y1: 10}, false},
		{"touching bottom edge", Box{X0: 0, Y0: 10, X1: 10, Y1: 20}, false},
		{"overlap x only", Box{X0: 5, Y0: 20, X1: 15, Y1: 30}, false},
		{"overlap y only", Box{X0: 20, Y0: 5, X1: 30, Y1: 15}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestPage_Normalized(t *testing.T) {
	page := &Page{
		Width:  200,
		Height: 100,
		Tokens: []Token{{Text: "A", Box: Box{X0: 20, Y0: 10, X1: 40, Y1: 30}}},
	}

	got := page.Normalized()
	require.Len(t, got, 1)
	assert.Equal(t, Box{X0: 0.1, Y0: 0.1, X1: 0.2, Y1: 0.3}, got[0].Box)
	assert.Equal(t, 20.0, page.Tokens[0].Box.X0, "source page must not change")

	var nilPage *Page
	assert.Nil(t, nilPage.Normalized())
	assert.True(t, nilPage.Empty())
}

func TestGroupWords(t *testing.T) {
	frame := pageFrame{llx: 0, lly: 0, urx: 600, ury: 800}
	glyph := func(s string, x, y float64) pdf.Text {
		return pdf.Text{Font: "F1", FontSize: 10, X: x, Y: y, W: 5, S: s}
	}

	t.Run("adjacent glyphs form one word", func(t *testing.T) {
		words := groupWords([]pdf.Text{glyph("D", 10, 700), glyph("I", 15, 700), glyph("A", 20, 700)}, frame)
		require.Len(t, words, 1)
		assert.Equal(t, "DIA", words[0].Text)
		assert.Equal(t, Box{X0: 10, Y0: 92, X1: 25, Y1: 102}, words[0].Box)
	})

	t.Run("space glyph splits words", func(t *testing.T) {
		words := groupWords([]pdf.Text{glyph("A", 10, 700), glyph(" ", 15, 700), glyph("B", 20, 700)}, frame)
		require.Len(t, words, 2)
		assert.Equal(t, "A", words[0].Text)
		assert.Equal(t, "B", words[1].Text)
	})

	t.Run("gap splits words", func(t *testing.T) {
		words := groupWords([]pdf.Text{glyph("A", 10, 700), glyph("B", 40, 700)}, frame)
		require.Len(t, words, 2)
	})

	t.Run("baseline change splits words", func(t *testing.T) {
		words := groupWords([]pdf.Text{glyph("A", 10, 700), glyph("B", 15, 680)}, frame)
		require.Len(t, words, 2)
	})

	t.Run("embedded spaces in a run", func(t *testing.T) {
		run := pdf.Text{FontSize: 10, X: 10, Y: 700, W: 30, S: "AB CD "}
		words := groupWords([]pdf.Text{run}, frame)
		require.Len(t, words, 2)
		assert.Equal(t, "AB", words[0].Text)
		assert.Equal(t, "CD", words[1].Text)
		assert.InDelta(t, 25, words[1].Box.X0, 0.001)
	})

	t.Run("font change splits words", func(t *testing.T) {
		bold := glyph("B", 15, 700)
		bold.Font = "F2"
		words := groupWords([]pdf.Text{glyph("A", 10, 700), bold}, frame)
		require.Len(t, words, 2)
		assert.Equal(t, "A", words[0].Text)
		assert.Equal(t, "B", words[1].Text)
	})

	t.Run("size change splits words", func(t *testing.T) {
		small := glyph("2", 15, 700)
		small.FontSize = 6
		words := groupWords([]pdf.Text{glyph("H", 10, 700), small}, frame)
		require.Len(t, words, 2)
	})

	t.Run("zero width glyphs are laid out from the run origin", func(t *testing.T) {
		var run []pdf.Text
		for _, r := range "AB 0.05" {
			g := glyph(string(r), 100, 700)
			g.W = 0
			run = append(run, g)
		}
		words := groupWords(run, frame)
		require.Len(t, words, 2)
		assert.Equal(t, "AB", words[0].Text)
		assert.Equal(t, Box{X0: 100, Y0: 92, X1: 110, Y1: 102}, words[0].Box)
		assert.Equal(t, "0.05", words[1].Text)
		assert.Equal(t, Box{X0: 115, Y0: 92, X1: 135, Y1: 102}, words[1].Box)
	})

	t.Run("markers keep dashes and pipes", func(t *testing.T) {
		words := groupWords([]pdf.Text{glyph("-", 10, 700), glyph("-", 15, 700), glyph("|", 20, 700)}, frame)
		require.Len(t, words, 1)
		assert.Equal(t, "--|", words[0].Text)
	})
}
