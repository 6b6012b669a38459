package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/rentbook/internal/money"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"

	// builtin excelize number format "#,##0.00"
	amountFormat = 4
)

// Service writes tax preparation reports for an accountant.
type Service struct {
	reports *taxprep.Service
}

// NewService creates a new export Service.
func NewService(reports *taxprep.Service) *Service {
	return &Service{reports: reports}
}

// Export writes the report of year as an XLSX workbook into outputDir and
// returns the file's path.
func (s *Service) Export(ctx context.Context, year int, outputDir string) (string, error) {
	report, err := s.reports.Report(ctx, year)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, FileName(year))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteXLSX(f, report); err != nil {
		return "", err
	}

	return path, nil
}

// FileName is the workbook name used for year.
func FileName(year int) string {
	return fmt.Sprintf("rentbook-schedule-e-%d.xlsx", year)
}

// WriteXLSX writes report as a workbook with a per-category summary sheet and
// a sheet listing every contributing transaction.
func WriteXLSX(w io.Writer, report *taxprep.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}

	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("creating transactions sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	if err := writeSummary(f, report, style); err != nil {
		return err
	}

	if err := writeTransactions(f, report, style); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeSummary(f *excelize.File, report *taxprep.Report, style int) error {
	rows := [][]any{{fmt.Sprintf("Schedule E %d", report.Year)}, {"Category", "Transactions", "Total"}}

	for _, g := range report.Groups {
		rows = append(rows, []any{string(g.Category), g.Count, g.Total.InexactFloat64()})
	}

	rows = append(rows, []any{"Total deductions", "", report.TotalDeductions.InexactFloat64()})

	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}

	if err := f.SetCellStyle(summarySheet, "C3", fmt.Sprintf("C%d", len(rows)), style); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	return f.SetColWidth(summarySheet, "A", "A", 30)
}

func writeTransactions(f *excelize.File, report *taxprep.Report, style int) error {
	rows := [][]any{{"Date", "Property", "Vendor", "Category", "Tax category", "Amount", "Flagged", "Flag reason"}}

	for _, g := range report.Groups {
		for _, tx := range g.Transactions {
			rows = append(rows, []any{
				tx.Date.Format("2006-01-02"),
				tx.PropertyName,
				deref(tx.Vendor),
				deref(tx.Category),
				string(g.Category),
				tx.Amount.InexactFloat64(),
				tx.IsFlagged,
				deref(tx.FlagReason),
			})
		}
	}

	if err := setRows(f, transactionsSheet, rows); err != nil {
		return err
	}

	if len(rows) > 1 {
		if err := f.SetCellStyle(transactionsSheet, "F2", fmt.Sprintf("F%d", len(rows)), style); err != nil {
			return fmt.Errorf("styling transactions: %w", err)
		}
	}

	return f.SetColWidth(transactionsSheet, "B", "E", 24)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	return nil
}

// GenerateSummary renders report as plain text, one category per line.
func GenerateSummary(report *taxprep.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Schedule E deductions for %d\n", report.Year)

	if len(report.Groups) == 0 {
		sb.WriteString("No deductible expenses recorded.\n")
		return sb.String()
	}

	for _, g := range report.Groups {
		fmt.Fprintf(&sb, "* %s | %d | %s\n", g.Category, g.Count, money.Format(g.Total))
	}

	fmt.Fprintf(&sb, "Total deductions: %s\n", money.Format(report.TotalDeductions))

	return sb.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
