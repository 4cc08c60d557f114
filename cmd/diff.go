package cmd

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"pdfcompare/internal/logger"
	"pdfcompare/internal/textdiff"
	"pdfcompare/internal/tokens"
)

var diffCmd = &cobra.Command{
	Use:   "diff [left.pdf] [right.pdf]",
	Short: "Compare the words of two drawing revisions",
	Long: `Compare two revisions of a document page by page.

Words are matched by normalized text and position (as a fraction of the
page size, so revisions printed at different sizes still line up). Words
present on only one side are reported with their box, a dash count and a
severity score. A right-side tolerance marker such as "-|" is flagged as
improved when it replaces a more severe marker such as "---|" at the same
spot.

Documents can be local paths or any URL supported by viant/afs.`,
	Example: `  # Compare page 1
  pdfcompare diff rev-a.pdf rev-b.pdf

  # Compare page 3 as JSON
  pdfcompare diff rev-a.pdf rev-b.pdf --page 3 --json

  # Compare every page and save the report
  pdfcompare diff rev-a.pdf rev-b.pdf --all -o changes.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().Int("page", 1, "Page number to compare (1-based)")
	diffCmd.Flags().Bool("all", false, "Compare every page")
	diffCmd.Flags().Bool("json", false, "Output as JSON")
	diffCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	diffCmd.Flags().Int("timeout", 0, "Processing timeout in seconds (default: PDFCOMPARE_TIMEOUT)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("diff")

	page, _ := cmd.Flags().GetInt("page")
	all, _ := cmd.Flags().GetBool("all")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	left, right := args[0], args[1]
	if !all && page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", page)
	}

	log.Info().
		Str("left", left).
		Str("right", right).
		Int("page", page).
		Bool("all", all).
		Msg("Starting document comparison")

	ctx, cancel := createContextWithTimeout(timeoutFlag(timeoutSecs), log)
	defer cancel()

	svc := textdiff.NewService(tokens.NewPDFSource(afs.New()))

	start := time.Now()
	var results []*textdiff.Result
	if all {
		var err error
		results, err = svc.DiffDocument(ctx, left, right)
		if err != nil {
			return handleError(err, log)
		}
	} else {
		result, err := svc.DiffPage(ctx, left, right, page)
		if err != nil {
			return handleError(err, log)
		}
		results = []*textdiff.Result{result}
	}

	for _, r := range results {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("inconsistent diff for page %d: %w", r.Page, err)
		}
	}

	log.Info().
		Int("pages", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Document comparison completed")

	var data []byte
	if jsonOutput {
		var v interface{} = results
		if !all {
			v = results[0]
		}
		var err error
		if data, err = marshalJSON(v, log); err != nil {
			return err
		}
	} else {
		var buf bytes.Buffer
		renderDiff(&buf, left, right, results)
		data = buf.Bytes()
	}

	return writeOutput(data, outputPath, log)
}

func renderDiff(w io.Writer, left, right string, results []*textdiff.Result) {
	fprintf(w, "--- %s\n+++ %s\n", left, right)
	for _, r := range results {
		fprintf(w, "\n=== Page %d: %d removed, %d added, %d improved ===\n",
			r.Page, len(r.Left), len(r.Right), r.ImprovedCount())
		if !r.Changed() {
			fprintf(w, "no differences\n")
			continue
		}
		for _, m := range r.Left {
			fprintf(w, "- %-24q %s\n", m.Text, formatBox(m.Box))
		}
		for _, m := range r.Right {
			mark := ""
			if m.Improved {
				mark = "  improved"
			}
			fprintf(w, "+ %-24q %s%s\n", m.Text, formatBox(m.Box), mark)
		}
	}
}

func formatBox(b [4]float64) string {
	return fmt.Sprintf("[%.3f %.3f %.3f %.3f]", b[0], b[1], b[2], b[3])
}
