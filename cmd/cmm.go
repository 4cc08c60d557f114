package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"pdfcompare/internal/cmm"
	"pdfcompare/internal/export"
	"pdfcompare/internal/logger"
	"pdfcompare/internal/sheets"
	"pdfcompare/internal/tokens"
)

var cmmCmd = &cobra.Command{
	Use:   "cmm [folder]",
	Short: "Summarize feature deviations from a folder of CMM reports",
	Long: `Scan a folder of CMM inspection reports (PDF) and build one deviation
series per measured feature, ordered by report modification time.

Reports are filtered by a part type contained in the file name and by a
modification date window. Reports that cannot be read are listed as errors
and do not stop the scan. Multi-axis features ("H203 POS X-Y-Z") become one
series per axis ("H203 POS X", "H203 POS Y", "H203 POS Z").

The folder defaults to PDFCOMPARE_REPORTS_DIR. Parallelism comes from
--workers or PDFCOMPARE_WORKERS.

Optional exports:
  --xlsx FILE   write a workbook with Summary, Points and Errors sheets
  --sheet       append new points to GOOGLE_SHEET_URL (worksheet
                GOOGLE_SHEET_WORKSHEET); requires GOOGLE_APPLICATION_CREDENTIALS
                or GOOGLE_CREDENTIALS`,
	Example: `  # Summarize all reports of part type 675
  pdfcompare cmm ./reports --part-type 675

  # January reports as JSON, flagging deviations outside +-0.05
  pdfcompare cmm ./reports --start 2024-01-01 --end 2024-01-31 \
    --upper-tol 0.05 --lower-tol -0.05 --json -o january.json

  # Export to Excel and Google Sheets
  pdfcompare cmm ./reports --xlsx summary.xlsx --sheet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCMM,
}

func init() {
	rootCmd.AddCommand(cmmCmd)

	cmmCmd.Flags().String("part-type", "", "Only reports whose file name contains this part type")
	cmmCmd.Flags().String("start", "", "Earliest report modification date (YYYY-MM-DD)")
	cmmCmd.Flags().String("end", "", "Latest report modification date (YYYY-MM-DD)")
	cmmCmd.Flags().Float64("upper-tol", 0, "Flag features with a deviation above this value")
	cmmCmd.Flags().Float64("lower-tol", 0, "Flag features with a deviation below this value")
	cmmCmd.Flags().Bool("json", false, "Output as JSON")
	cmmCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmmCmd.Flags().String("xlsx", "", "Also write the summary to this XLSX file")
	cmmCmd.Flags().Bool("sheet", false, "Also append the summary to the configured Google Sheet")
	cmmCmd.Flags().String("worksheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	cmmCmd.Flags().Int("workers", 0, "Reports parsed in parallel (default: PDFCOMPARE_WORKERS)")
	cmmCmd.Flags().Int("timeout", 0, "Processing timeout in seconds (default: PDFCOMPARE_TIMEOUT)")
}

func runCMM(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("cmm")
	cfg := currentConfig()

	partType, _ := cmd.Flags().GetString("part-type")
	startDate, _ := cmd.Flags().GetString("start")
	endDate, _ := cmd.Flags().GetString("end")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	worksheet, _ := cmd.Flags().GetString("worksheet")
	workers, _ := cmd.Flags().GetInt("workers")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	folder := cfg.ReportsDir
	if len(args) == 1 {
		folder = args[0]
	}
	if folder == "" {
		return fmt.Errorf("missing folder path: pass it as an argument or set PDFCOMPARE_REPORTS_DIR")
	}
	if workers <= 0 {
		workers = cfg.Workers
	}
	if worksheet == "" {
		worksheet = cfg.GoogleSheetWorksheet
	}
	if toSheet && cfg.GoogleSheetURL == "" {
		return fmt.Errorf("--sheet requires GOOGLE_SHEET_URL")
	}

	req := cmm.SummaryRequest{
		Folder:    folder,
		PartType:  partType,
		StartDate: startDate,
		EndDate:   endDate,
		Tolerance: toleranceFlags(cmd),
	}
	warnOnIgnoredFilters(req, cfg.PartTypes, log)

	log.Info().
		Str("folder", folder).
		Str("part_type", partType).
		Str("start", startDate).
		Str("end", endDate).
		Int("workers", workers).
		Msg("Starting CMM report summary")

	ctx, cancel := createContextWithTimeout(timeoutFlag(timeoutSecs), log)
	defer cancel()

	fs := afs.New()
	aggregator := cmm.NewAggregator(fs, tokens.NewPDFSource(fs), workers)

	start := time.Now()
	summary, err := aggregator.Summarize(ctx, req)
	if err != nil {
		return handleError(err, log)
	}

	log.Info().
		Int("features", len(summary.Features)).
		Int("reports_analyzed", summary.ReportsAnalyzed).
		Int("errors", len(summary.Errors)).
		Int("out_of_tolerance", summary.OutOfToleranceCount()).
		Dur("duration", time.Since(start)).
		Msg("CMM report summary completed")

	if xlsxPath != "" {
		if err := export.SaveFile(xlsxPath, summary); err != nil {
			return fmt.Errorf("failed to export workbook: %w", err)
		}
	}
	if toSheet {
		if err := publishSummary(ctx, summary, cfg.GoogleSheetURL, worksheet, log); err != nil {
			return err
		}
	}

	var data []byte
	if jsonOutput {
		if data, err = marshalJSON(summary, log); err != nil {
			return err
		}
	} else {
		var buf bytes.Buffer
		renderSummary(&buf, summary)
		data = buf.Bytes()
	}
	return writeOutput(data, outputPath, log)
}

// toleranceFlags returns the tolerance band set on the command line, or nil
// when neither bound was given.
func toleranceFlags(cmd *cobra.Command) *cmm.Tolerance {
	var tol cmm.Tolerance
	if cmd.Flags().Changed("upper-tol") {
		v, _ := cmd.Flags().GetFloat64("upper-tol")
		tol.Upper = &v
	}
	if cmd.Flags().Changed("lower-tol") {
		v, _ := cmd.Flags().GetFloat64("lower-tol")
		tol.Lower = &v
	}
	if tol.Upper == nil && tol.Lower == nil {
		return nil
	}
	return &tol
}

func warnOnIgnoredFilters(req cmm.SummaryRequest, knownPartTypes []string, log zerolog.Logger) {
	for name, value := range map[string]string{"start": req.StartDate, "end": req.EndDate} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, ok := cmm.ParseDate(value); !ok {
			log.Warn().
				Str("flag", name).
				Str("value", value).
				Msg("Date is not YYYY-MM-DD, filter ignored")
		}
	}

	if req.PartType == "" || len(knownPartTypes) == 0 {
		return
	}
	for _, known := range knownPartTypes {
		if strings.EqualFold(known, req.PartType) {
			return
		}
	}
	log.Warn().
		Str("part_type", req.PartType).
		Strs("known", knownPartTypes).
		Msg("Part type is not one of PDFCOMPARE_PART_TYPES")
}

func publishSummary(ctx context.Context, summary *cmm.Summary, sheetURL, worksheet string, log zerolog.Logger) error {
	svc, err := sheets.NewSheetsService(ctx, sheetURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Google Sheets service")
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}

	n, err := svc.WriteSummary(ctx, summary, worksheet)
	if err != nil {
		return handleError(fmt.Errorf("failed to write Google Sheet: %w", err), log)
	}

	log.Info().
		Str("worksheet", worksheet).
		Int("rows", n).
		Msg("Summary published to Google Sheets")
	return nil
}

func renderSummary(w io.Writer, s *cmm.Summary) {
	fprintf(w, "%d reports analyzed, %d features\n", s.ReportsAnalyzed, len(s.Features))
	if len(s.Features) > 0 {
		fprintf(w, "\n%-32s %10s %7s\n", "FEATURE", "LATEST", "POINTS")
	}
	for _, f := range s.Features {
		flag := ""
		if f.OutOfTolerance {
			flag = "  OUT OF TOLERANCE"
		}
		fprintf(w, "%-32s %10.4f %7d%s\n", f.Name, f.Latest, len(f.Points), flag)
	}
	if len(s.Errors) > 0 {
		fprintf(w, "\n%d reports could not be read:\n", len(s.Errors))
		for _, e := range s.Errors {
			fprintf(w, "  %s\n", e)
		}
	}
}
