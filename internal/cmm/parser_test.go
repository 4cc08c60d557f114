package cmm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdfcompare/internal/tokens"
	"pdfcompare/internal/tokens/tokentest"
)

const rowHeight = 10.0

func tok(text string, x, y float64) tokens.Token {
	return tokentest.Tok(text, x, y, float64(len(text))*5, rowHeight)
}

func headerRow(y float64) []tokens.Token {
	return []tokens.Token{
		tok("Feature", 10, y),
		tok("Actual", 300, y),
		tok("Deviation", 400, y),
		tok("Histogram", 500, y),
	}
}

func dataPage(rows ...[]tokens.Token) *tokens.Page {
	return dataPageWithHeaderAt(50, rows...)
}

func dataPageWithHeaderAt(y float64, rows ...[]tokens.Token) *tokens.Page {
	page := &tokens.Page{Width: 612, Height: 792}
	page.Tokens = append(page.Tokens, headerRow(y)...)
	for _, r := range rows {
		page.Tokens = append(page.Tokens, r...)
	}
	return page
}

func row(y float64, words ...any) []tokens.Token {
	var out []tokens.Token
	for i := 0; i+1 < len(words); i += 2 {
		out = append(out, tok(words[i].(string), float64(words[i+1].(int)), y))
	}
	return out
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.05", 0.05, true},
		{"-10.25", -10.25, true},
		{"+3", 3, true},
		{"1,234.50", 1234.5, true},
		{"−0.10", -0.10, true},
		{"12a", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".5", 0, false},
		{"1.", 0, false},
		{"X", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumeric(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.ok, IsNumeric(tt.in))
		})
	}
}

func TestLocateColumns(t *testing.T) {
	cols, missing := LocateColumns(headerRow(50))
	require.Empty(t, missing)
	assert.Equal(t, Columns{FeatureLimitX: 295, DeviationMinX: 395, DeviationMaxX: 505}, cols)

	assert.True(t, cols.InFeatureZone(10))
	assert.False(t, cols.InFeatureZone(300))
	assert.True(t, cols.InDeviationZone(395))
	assert.True(t, cols.InDeviationZone(504.9))
	assert.False(t, cols.InDeviationZone(505))

	t.Run("last occurrence wins", func(t *testing.T) {
		toks := append(headerRow(50), tok("Actual", 320, 700))
		cols, missing := LocateColumns(toks)
		require.Empty(t, missing)
		assert.InDelta(t, 315, cols.FeatureLimitX, 1e-9)
	})

	t.Run("missing header", func(t *testing.T) {
		_, missing := LocateColumns([]tokens.Token{tok("Actual", 300, 50), tok("Histogram", 500, 50)})
		assert.Equal(t, HeaderDeviation, missing)

		_, missing = LocateColumns([]tokens.Token{tok("Actual", 300, 50), tok("Deviation", 400, 50)})
		assert.Equal(t, HeaderHistogram, missing)
	})
}

func TestClassifyPage(t *testing.T) {
	assert.Equal(t, PageSkip, ClassifyPage(nil).Kind)
	assert.Equal(t, PageSkip, ClassifyPage(&tokens.Page{}).Kind)

	cover := &tokens.Page{Tokens: []tokens.Token{tok("Inspection", 10, 10), tok("Actual", 300, 10)}}
	class := ClassifyPage(cover)
	assert.Equal(t, PageSkip, class.Kind)
	assert.Contains(t, class.Reason, HeaderDeviation)

	assert.Equal(t, PageData, ClassifyPage(dataPage()).Kind)
}

func TestClusterRows(t *testing.T) {
	toks := []tokens.Token{
		tokentest.Tok("0.05", 410, 100.6, 20, 10),
		tokentest.Tok("DIA1", 10, 100, 20, 10),
		tokentest.Tok("12.50", 310, 100.3, 25, 10),
		tokentest.Tok("DIA2", 10, 120, 20, 10),
		tokentest.Tok("TOP", 10, 20, 15, 10),
	}

	rows := ClusterRows(toks)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"TOP"}, texts(rows[0]))
	assert.Equal(t, []string{"DIA1", "12.50", "0.05"}, texts(rows[1]))
	assert.Equal(t, []string{"DIA2"}, texts(rows[2]))

	t.Run("gap just above threshold splits", func(t *testing.T) {
		rows := ClusterRows([]tokens.Token{
			tokentest.Tok("A", 10, 100, 5, 10),
			tokentest.Tok("B", 50, 101.5, 5, 10),
		})
		assert.Len(t, rows, 2)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ClusterRows(nil))
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []tokens.Token{tok("B", 50, 10), tok("A", 10, 10)}
		ClusterRows(in)
		assert.Equal(t, "B", in[0].Text)
	})
}

func texts(r Row) []string {
	out := make([]string, len(r))
	for i, t := range r {
		out[i] = t.Text
	}
	return out
}

func TestParsePage_SingleLineFeature(t *testing.T) {
	page := dataPage(row(70, "DIA1", 10, "12.50", 310, "0.05", 410))

	state, entries := ParsePage(Normal(), page)
	assert.Equal(t, Normal(), state)
	assert.Equal(t, []Entry{{Feature: "DIA1", Deviation: 0.05}}, entries)
}

func TestParsePage_LastDeviationCandidateWins(t *testing.T) {
	page := dataPage(row(70, "FLAT", 10, "0.01", 400, "0.03", 450, "9.99", 600))

	_, entries := ParsePage(Normal(), page)
	assert.Equal(t, []Entry{{Feature: "FLAT", Deviation: 0.03}}, entries)
}

func TestParsePage_MultiAxisFeature(t *testing.T) {
	page := dataPage(
		row(70, "H203", 10, "POS", 40, "X-Y-Z", 60),
		row(90, "X", 20, "−0.10", 410),
		row(110, "Y", 20, "0.02", 410),
		row(130, "Z", 20, "0.00", 410),
		row(150, "DIA1", 10, "0.05", 410),
	)

	state, entries := ParsePage(Normal(), page)
	assert.Equal(t, Normal(), state)
	assert.Equal(t, []Entry{
		{Feature: "H203 POS X", Deviation: -0.10},
		{Feature: "H203 POS Y", Deviation: 0.02},
		{Feature: "H203 POS Z", Deviation: 0},
		{Feature: "DIA1", Deviation: 0.05},
	}, entries)
}

func TestParsePage_SkipsHeaderAndMetadataRows(t *testing.T) {
	page := dataPage(
		row(70, "Plan", 10, "name", 40, "0.5", 410),
		row(90, "Part", 10, "serial", 40, "0.5", 410),
		row(110, "Date:", 10, "0.5", 410),
		row(130, "Nominal", 10, "0.5", 410),
		row(150, "12", 10, "0.5", 410),
		row(170, "0.5", 410),
		row(190, "NOVAL", 10, "12.50", 310),
	)

	_, entries := ParsePage(Normal(), page)
	assert.Empty(t, entries)
}

func TestParsePage_NonDataPageKeepsState(t *testing.T) {
	cover := &tokens.Page{Tokens: []tokens.Token{tok("Summary", 10, 10)}}

	state, entries := ParsePage(InParent("H203 POS"), cover)
	assert.Equal(t, InParent("H203 POS"), state)
	assert.Empty(t, entries)
}

func TestStep(t *testing.T) {
	cols, _ := LocateColumns(headerRow(50))
	parent := InParent("H203 POS")

	t.Run("axis row under parent keeps state", func(t *testing.T) {
		next, entry := Step(parent, row(70, "X", 20, "0.2", 410), cols)
		assert.Equal(t, parent, next)
		require.NotNil(t, entry)
		assert.Equal(t, Entry{Feature: "H203 POS X", Deviation: 0.2}, *entry)
	})

	t.Run("axis row without deviation emits nothing", func(t *testing.T) {
		next, entry := Step(parent, row(70, "Y", 20, "12.5", 310), cols)
		assert.Equal(t, parent, next)
		assert.Nil(t, entry)
	})

	t.Run("axis row without parent is a plain feature", func(t *testing.T) {
		next, entry := Step(Normal(), row(70, "X", 20, "0.2", 410), cols)
		assert.Equal(t, Normal(), next)
		require.NotNil(t, entry)
		assert.Equal(t, "X", entry.Feature)
	})

	t.Run("skipped row resets parent", func(t *testing.T) {
		next, entry := Step(parent, row(70, "Nominal", 10), cols)
		assert.Equal(t, Normal(), next)
		assert.Nil(t, entry)
	})

	t.Run("feature row closes parent", func(t *testing.T) {
		next, entry := Step(parent, row(70, "DIA2", 10, "0.1", 410), cols)
		assert.Equal(t, Normal(), next)
		require.NotNil(t, entry)
		assert.Equal(t, "DIA2", entry.Feature)
	})

	t.Run("parent row replaces parent", func(t *testing.T) {
		next, entry := Step(parent, row(70, "H204", 10, "POS", 40, "X-Y-Z", 60), cols)
		assert.Equal(t, InParent("H204 POS"), next)
		assert.Nil(t, entry)
	})
}

func TestClassifyRow_Outcomes(t *testing.T) {
	cols, _ := LocateColumns(headerRow(50))

	out := ClassifyRow(row(70, "", 10), cols, Normal())
	assert.Equal(t, RowSkip, out.Kind)
	assert.Equal(t, SkipEmptyName, out.Reason)

	out = ClassifyRow(row(70, "123", 10), cols, Normal())
	assert.Equal(t, SkipNoLetters, out.Reason)

	out = ClassifyRow(row(70, "Actual", 10), cols, Normal())
	assert.Equal(t, SkipHeaderOrMeta, out.Reason)

	out = ClassifyRow(row(70, "H1", 10, "POS", 30, "X-Y-Z", 50), cols, Normal())
	assert.Equal(t, RowParent, out.Kind)
	assert.Equal(t, "H1 POS", out.Name)
	assert.Equal(t, "parent", out.Kind.String())
}

func TestParseDocument_ParentSpansPages(t *testing.T) {
	src := tokentest.NewSource().Add("report.pdf",
		dataPage(
			row(70, "DIA1", 10, "0.05", 410),
			row(700, "H203", 10, "POS", 40, "X-Y-Z", 60),
		),
		&tokens.Page{Tokens: []tokens.Token{tok("Notes", 10, 10)}},
		// The header row is itself a row; placed below the axis rows it
		// does not close the parent.
		dataPageWithHeaderAt(750,
			row(70, "X", 20, "0.11", 410),
			row(90, "Y", 20, "-0.04", 410),
		),
	)
	doc, err := src.Open(context.Background(), "report.pdf")
	require.NoError(t, err)

	entries, err := ParseDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Feature: "DIA1", Deviation: 0.05},
		{Feature: "H203 POS X", Deviation: 0.11},
		{Feature: "H203 POS Y", Deviation: -0.04},
	}, entries)

	again, err := ParseDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestParseDocument_Canceled(t *testing.T) {
	src := tokentest.NewSource().Add("report.pdf", dataPage(row(70, "DIA1", 10, "0.05", 410)))
	doc, err := src.Open(context.Background(), "report.pdf")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ParseDocument(ctx, doc)
	assert.ErrorIs(t, err, context.Canceled)
}
