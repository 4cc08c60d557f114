package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdfcompare/internal/cmm"
	"pdfcompare/internal/logger"
	"pdfcompare/internal/textdiff"
	"pdfcompare/internal/tokens"
)

func TestToleranceFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		c.Flags().Float64("upper-tol", 0, "")
		c.Flags().Float64("lower-tol", 0, "")
		return c
	}

	c := newCmd()
	assert.Nil(t, toleranceFlags(c))

	c = newCmd()
	require.NoError(t, c.Flags().Parse([]string{"--upper-tol", "0"}))
	tol := toleranceFlags(c)
	require.NotNil(t, tol)
	require.NotNil(t, tol.Upper)
	assert.Equal(t, 0.0, *tol.Upper)
	assert.Nil(t, tol.Lower)
}

func TestHandleError(t *testing.T) {
	log := logger.Nop()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", fmt.Errorf("Collect: %w", context.DeadlineExceeded), "timed out"},
		{"canceled", context.Canceled, "canceled"},
		{"missing folder", &cmm.AggregationError{Op: "Collect", Folder: "x", Err: cmm.ErrFolderNotFound}, "does not exist"},
		{"missing backend", tokens.ErrMissingCapability, "not available"},
		{"corrupt", tokens.NewDocumentOpenError("Open", "a.pdf", errors.New("malformed PDF")), "corrupted PDF file a.pdf"},
		{"missing file", tokens.NewDocumentOpenError("Open", "b.pdf", os.ErrNotExist), "not found: b.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, handleError(tt.err, log).Error(), tt.want)
		})
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, handleError(plain, log))
}

func TestRenderDiff(t *testing.T) {
	result := textdiff.Compare(2, nil, nil)
	result.Right = append(result.Right, textdiff.RightMarker{
		Marker:   textdiff.Marker{Box: [4]float64{0.1, 0.2, 0.3, 0.4}, Text: "-|"},
		Improved: true,
	})

	var buf bytes.Buffer
	renderDiff(&buf, "a.pdf", "b.pdf", []*textdiff.Result{result, textdiff.Compare(3, nil, nil)})
	out := buf.String()

	assert.Contains(t, out, "=== Page 2: 0 removed, 1 added, 1 improved ===")
	assert.Contains(t, out, `+ "-|"`)
	assert.Contains(t, out, "[0.100 0.200 0.300 0.400]  improved")
	assert.Contains(t, out, "=== Page 3: 0 removed, 0 added, 0 improved ===\nno differences")
}

func TestRenderSummary(t *testing.T) {
	s := &cmm.Summary{
		Features: []cmm.FeatureSummary{
			{Name: "DIA1", Latest: 0.07, Points: make([]cmm.Point, 2), OutOfTolerance: true},
		},
		ReportsAnalyzed: 2,
		Errors:          []string{"c.pdf: malformed PDF"},
	}

	var buf bytes.Buffer
	renderSummary(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "2 reports analyzed, 1 features")
	assert.Contains(t, out, "OUT OF TOLERANCE")
	assert.Contains(t, out, "1 reports could not be read:\n  c.pdf: malformed PDF")
}

func TestWriteOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput([]byte("{}\n"), path, logger.Nop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
