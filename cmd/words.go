package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"pdfcompare/internal/logger"
	"pdfcompare/internal/tokens"
)

var wordsCmd = &cobra.Command{
	Use:   "words [file.pdf]",
	Short: "Dump the positioned words of a page",
	Long: `Print every word extracted from one page together with its box in
page units (origin top-left). Useful to check how a report lays out its
columns before mining it.`,
	Example: `  pdfcompare words report.pdf --page 2
  pdfcompare words report.pdf --page 2 --json -o page2.json`,
	Args: cobra.ExactArgs(1),
	RunE: runWords,
}

func init() {
	rootCmd.AddCommand(wordsCmd)

	wordsCmd.Flags().Int("page", 1, "Page number (1-based)")
	wordsCmd.Flags().Bool("json", false, "Output as JSON")
	wordsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	wordsCmd.Flags().Int("timeout", 0, "Processing timeout in seconds (default: PDFCOMPARE_TIMEOUT)")
}

func runWords(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("words")

	page, _ := cmd.Flags().GetInt("page")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", page)
	}

	ctx, cancel := createContextWithTimeout(timeoutFlag(timeoutSecs), log)
	defer cancel()

	p, err := tokens.Words(ctx, tokens.NewPDFSource(afs.New()), args[0], page)
	if err != nil {
		return handleError(err, log)
	}

	log.Info().
		Str("file", args[0]).
		Int("page", page).
		Int("words", len(p.Tokens)).
		Msg("Words extracted")

	if jsonOutput {
		data, err := marshalJSON(p, log)
		if err != nil {
			return err
		}
		return writeOutput(data, outputPath, log)
	}

	var buf bytes.Buffer
	fprintf(&buf, "page %d (%.1f x %.1f), %d words\n", p.Number, p.Width, p.Height, len(p.Tokens))
	for _, t := range p.Tokens {
		fprintf(&buf, "%8.2f %8.2f %8.2f %8.2f  %s\n", t.Box.X0, t.Box.Y0, t.Box.X1, t.Box.Y1, t.Text)
	}
	return writeOutput(buf.Bytes(), outputPath, log)
}
