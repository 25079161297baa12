// Package export renders report listings as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/zreport/backend/internal/domain/zreport"
)

// ContentTypeXLSX is the MIME type of the workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SummarySheet is the worksheet holding the listing
const SummarySheet = "Z Reports"

// builtin number format 4: #,##0.00
const numFmtAmount = 4

var summaryHeaders = []string{
	"Date", "Till", "Shift", "Status",
	"Receipts", "Invoices", "Returns", "Final Net",
	"VAT", "Card Gross", "Commission", "Card Net",
}

// SummaryFilename names the export for a date range
func SummaryFilename(from, to time.Time) string {
	return fmt.Sprintf("z-reports_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// SummaryWorkbook lays a listing out as one header row, one row per report
// and a totals row. Amount cells are numeric with two decimals.
func SummaryWorkbook(view zreport.SummaryView, from, to time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeSummary(f, view, from, to); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to build summary workbook: %w", err)
	}
	return f, nil
}

// WriteSummary streams the listing workbook to w
func WriteSummary(w io.Writer, view zreport.SummaryView, from, to time.Time) error {
	f, err := SummaryWorkbook(view, from, to)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write summary workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, view zreport.SummaryView, from, to time.Time) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return err
	}
	boldAmount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Z reports %s - %s", from.Format("02.01.2006"), to.Format("02.01.2006"))
	if err := f.SetCellValue(SummarySheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", bold); err != nil {
		return err
	}

	const headerRow = 3
	if err := setRow(f, headerRow, toAny(summaryHeaders)); err != nil {
		return err
	}
	if err := styleRow(f, headerRow, 1, len(summaryHeaders), bold); err != nil {
		return err
	}

	row := headerRow + 1
	for _, r := range view.Rows {
		values := []any{
			r.Date.Format("2006-01-02"),
			r.TillNumber,
			r.Shift,
			string(r.Status),
			money(r.ReceiptRevenue),
			money(r.InvoiceRevenue),
			money(r.ReturnsAmount),
			money(r.FinalNetRevenue),
			money(r.VatTax),
			money(r.TerminalGross),
			money(r.Commission),
			money(r.TerminalNet),
		}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		if err := styleRow(f, row, 5, len(summaryHeaders), amount); err != nil {
			return err
		}
		row++
	}

	t := view.Totals
	totals := []any{
		"Total", "", "", "",
		money(t.ReceiptRevenue),
		money(t.InvoiceRevenue),
		money(t.ReturnsAmount),
		money(t.FinalNetRevenue),
		money(t.VatTax),
		money(t.TerminalGross),
		money(t.Commission),
		money(t.TerminalNet),
	}
	if err := setRow(f, row, totals); err != nil {
		return err
	}
	if err := styleRow(f, row, 1, 4, bold); err != nil {
		return err
	}
	if err := styleRow(f, row, 5, len(summaryHeaders), boldAmount); err != nil {
		return err
	}

	last, err := excelize.ColumnNumberToName(len(summaryHeaders))
	if err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", last, 14)
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SummarySheet, cell, &values)
}

func styleRow(f *excelize.File, row, fromCol, toCol, style int) error {
	first, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SummarySheet, first, last, style)
}

// money converts at the spreadsheet boundary; cells are IEEE doubles
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
