// Package export renders CMM summaries as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"pdfcompare/internal/cmm"
	"pdfcompare/internal/logger"
)

// Sheet names of the workbook.
const (
	SummarySheet = "Summary"
	PointsSheet  = "Points"
	ErrorsSheet  = "Errors"
)

// TimeLayout formats observation dates in exported cells.
const TimeLayout = "2006-01-02 15:04:05"

var (
	summaryHeader = []interface{}{"Feature", "Latest", "Points", "Out of tolerance"}
	pointsHeader  = []interface{}{"Feature", "Date", "Deviation", "Report"}
	errorsHeader  = []interface{}{"Error"}
)

// SummaryRows returns the rows of the Summary sheet, header first.
func SummaryRows(s *cmm.Summary) [][]interface{} {
	rows := [][]interface{}{summaryHeader}
	for _, f := range s.Features {
		rows = append(rows, []interface{}{f.Name, f.Latest, len(f.Points), yesNo(f.OutOfTolerance)})
	}
	return rows
}

// PointRows returns the rows of the Points sheet, header first.
func PointRows(s *cmm.Summary) [][]interface{} {
	rows := [][]interface{}{pointsHeader}
	for _, f := range s.Features {
		for _, p := range f.Points {
			rows = append(rows, []interface{}{f.Name, p.Date.Format(TimeLayout), p.Deviation, p.Report})
		}
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Workbook builds an excelize workbook from s. The caller closes it.
func Workbook(s *cmm.Summary) (*excelize.File, error) {
	const op = "Workbook"

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: failed to rename sheet: %w", op, err)
	}
	if _, err := f.NewSheet(PointsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: failed to add sheet: %w", op, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: failed to create header style: %w", op, err)
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SummarySheet, SummaryRows(s)},
		{PointsSheet, PointRows(s)},
	}
	if len(s.Errors) > 0 {
		if _, err := f.NewSheet(ErrorsSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: failed to add sheet: %w", op, err)
		}
		rows := [][]interface{}{errorsHeader}
		for _, e := range s.Errors {
			rows = append(rows, []interface{}{e})
		}
		sheets = append(sheets, struct {
			name string
			rows [][]interface{}
		}{ErrorsSheet, rows})
	}

	for _, sh := range sheets {
		if err := writeRows(f, sh.name, sh.rows, bold); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	f.SetActiveSheet(0)

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

// Write encodes s as an XLSX workbook to w.
func Write(w io.Writer, s *cmm.Summary) error {
	f, err := Workbook(s)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveFile writes s as an XLSX workbook to path.
func SaveFile(path string, s *cmm.Summary) error {
	log := logger.WithComponent("export")

	f, err := Workbook(s)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("features", len(s.Features)).
		Msg("Workbook saved")
	return nil
}
