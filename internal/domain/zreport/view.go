package zreport

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TillRef is the till data a view needs.
type TillRef struct {
	ID     uuid.UUID
	Number int
}

// TerminalRef is the terminal data a view needs, including the stored
// commission rate.
type TerminalRef struct {
	ID             uuid.UUID
	Name           string
	BankName       string
	CommissionRate decimal.Decimal
}

// VatRow is one rate code of a report's VAT breakdown.
type VatRow struct {
	Code        RateCode
	RatePercent *decimal.Decimal
	Gross       decimal.Decimal
	Net         decimal.Decimal
	Tax         decimal.Decimal
}

// VatTotals sums the VAT rows.
type VatTotals struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
	Tax   decimal.Decimal
}

// TerminalRow is one terminal's settlement.
type TerminalRow struct {
	TerminalID uuid.UUID
	Name       string
	BankName   string
	Rate       decimal.Decimal
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
}

// TerminalTotals sums the terminal rows.
type TerminalTotals struct {
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
}

// ReportView is the derived, display-ready breakdown of one report.
type ReportView struct {
	ReportID        uuid.UUID
	Date            time.Time
	TillID          uuid.UUID
	TillNumber      int
	Shift           int
	CashierID       uuid.UUID
	Status          Status
	ReceiptRevenue  decimal.Decimal
	InvoiceRevenue  decimal.Decimal
	ReturnsAmount   decimal.Decimal
	FinalNetRevenue decimal.Decimal
	VatRows         []VatRow
	VatTotals       VatTotals
	TerminalRows    []TerminalRow
	TerminalTotals  TerminalTotals
}

// FinalNetRevenue is receipts plus invoices minus returns, rounded once.
func FinalNetRevenue(r *Report) decimal.Decimal {
	return Round2(r.ReceiptRevenue.Add(r.InvoiceRevenue).Sub(r.ReturnsAmount))
}

// BuildReportView derives the full breakdown of r. Terminals missing from
// terminals are settled at a zero rate.
func BuildReportView(r *Report, till TillRef, terminals map[uuid.UUID]TerminalRef) ReportView {
	v := ReportView{
		ReportID:        r.ID,
		Date:            r.Date,
		TillID:          r.TillID,
		TillNumber:      till.Number,
		Shift:           r.Shift,
		CashierID:       r.CashierID,
		Status:          r.Status,
		ReceiptRevenue:  r.ReceiptRevenue,
		InvoiceRevenue:  r.InvoiceRevenue,
		ReturnsAmount:   r.ReturnsAmount,
		FinalNetRevenue: FinalNetRevenue(r),
		VatRows:         make([]VatRow, 0, len(RateCodes())),
		TerminalRows:    make([]TerminalRow, 0, len(r.TerminalLines)),
	}

	vatGross, vatNet, vatTax := decimal.Zero, decimal.Zero, decimal.Zero
	for _, code := range RateCodes() {
		gross := r.VatGross(code)
		net, tax := DecomposeCode(code, gross)
		v.VatRows = append(v.VatRows, VatRow{
			Code:        code,
			RatePercent: RatePercent(code),
			Gross:       gross,
			Net:         net,
			Tax:         tax,
		})
		vatGross = vatGross.Add(gross)
		vatNet = vatNet.Add(net)
		vatTax = vatTax.Add(tax)
	}
	v.VatTotals = VatTotals{Gross: Round2(vatGross), Net: Round2(vatNet), Tax: Round2(vatTax)}

	posGross, posCommission := decimal.Zero, decimal.Zero
	for _, l := range r.TerminalLines {
		ref, ok := terminals[l.TerminalID]
		if !ok {
			ref = TerminalRef{ID: l.TerminalID, CommissionRate: decimal.Zero}
		}
		commission := Commission(l.Gross, ref.CommissionRate)
		v.TerminalRows = append(v.TerminalRows, TerminalRow{
			TerminalID: l.TerminalID,
			Name:       ref.Name,
			BankName:   ref.BankName,
			Rate:       ref.CommissionRate,
			Gross:      l.Gross,
			Commission: commission,
			Net:        Round2(l.Gross.Sub(commission)),
		})
		posGross = posGross.Add(l.Gross)
		posCommission = posCommission.Add(commission)
	}
	v.TerminalTotals = TerminalTotals{
		Gross:      Round2(posGross),
		Commission: Round2(posCommission),
		Net:        Round2(posGross.Sub(posCommission)),
	}

	return v
}

// SummaryRow is one report in a listing.
type SummaryRow struct {
	ReportID        uuid.UUID
	Date            time.Time
	TillID          uuid.UUID
	TillNumber      int
	Shift           int
	Status          Status
	ReceiptRevenue  decimal.Decimal
	InvoiceRevenue  decimal.Decimal
	ReturnsAmount   decimal.Decimal
	FinalNetRevenue decimal.Decimal
	VatTax          decimal.Decimal
	TerminalGross   decimal.Decimal
	Commission      decimal.Decimal
	TerminalNet     decimal.Decimal
}

// SummaryTotals sums a listing field by field.
type SummaryTotals struct {
	ReceiptRevenue  decimal.Decimal
	InvoiceRevenue  decimal.Decimal
	ReturnsAmount   decimal.Decimal
	FinalNetRevenue decimal.Decimal
	VatGross        decimal.Decimal
	VatNet          decimal.Decimal
	VatTax          decimal.Decimal
	TerminalGross   decimal.Decimal
	Commission      decimal.Decimal
	TerminalNet     decimal.Decimal
}

// SummaryView is a listing of reports with grand totals.
type SummaryView struct {
	Rows   []SummaryRow
	Totals SummaryTotals
}

// BuildSummaryView builds a view per report and folds them into a listing.
func BuildSummaryView(reports []*Report, tills map[uuid.UUID]TillRef, terminals map[uuid.UUID]TerminalRef) SummaryView {
	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		till, ok := tills[r.TillID]
		if !ok {
			till = TillRef{ID: r.TillID}
		}
		views = append(views, BuildReportView(r, till, terminals))
	}
	return SummarizeViews(views)
}

// SummarizeViews sorts views into listing order and sums every numeric
// field at full precision, quantizing each total once at the end.
func SummarizeViews(views []ReportView) SummaryView {
	sorted := make([]ReportView, len(views))
	copy(sorted, views)
	SortViews(sorted)

	var acc struct {
		receipt, invoice, returns    decimal.Decimal
		vatGross, vatNet, vatTax     decimal.Decimal
		posGross, commission, posNet decimal.Decimal
	}

	rows := make([]SummaryRow, 0, len(sorted))
	for _, v := range sorted {
		rows = append(rows, SummaryRow{
			ReportID:        v.ReportID,
			Date:            v.Date,
			TillID:          v.TillID,
			TillNumber:      v.TillNumber,
			Shift:           v.Shift,
			Status:          v.Status,
			ReceiptRevenue:  v.ReceiptRevenue,
			InvoiceRevenue:  v.InvoiceRevenue,
			ReturnsAmount:   v.ReturnsAmount,
			FinalNetRevenue: v.FinalNetRevenue,
			VatTax:          v.VatTotals.Tax,
			TerminalGross:   v.TerminalTotals.Gross,
			Commission:      v.TerminalTotals.Commission,
			TerminalNet:     v.TerminalTotals.Net,
		})

		acc.receipt = acc.receipt.Add(v.ReceiptRevenue)
		acc.invoice = acc.invoice.Add(v.InvoiceRevenue)
		acc.returns = acc.returns.Add(v.ReturnsAmount)
		acc.vatGross = acc.vatGross.Add(v.VatTotals.Gross)
		acc.vatNet = acc.vatNet.Add(v.VatTotals.Net)
		acc.vatTax = acc.vatTax.Add(v.VatTotals.Tax)
		acc.posGross = acc.posGross.Add(v.TerminalTotals.Gross)
		acc.commission = acc.commission.Add(v.TerminalTotals.Commission)
		acc.posNet = acc.posNet.Add(v.TerminalTotals.Net)
	}

	return SummaryView{
		Rows: rows,
		Totals: SummaryTotals{
			ReceiptRevenue:  Round2(acc.receipt),
			InvoiceRevenue:  Round2(acc.invoice),
			ReturnsAmount:   Round2(acc.returns),
			FinalNetRevenue: Round2(acc.receipt.Add(acc.invoice).Sub(acc.returns)),
			VatGross:        Round2(acc.vatGross),
			VatNet:          Round2(acc.vatNet),
			VatTax:          Round2(acc.vatTax),
			TerminalGross:   Round2(acc.posGross),
			Commission:      Round2(acc.commission),
			TerminalNet:     Round2(acc.posNet),
		},
	}
}

// SortViews orders views by date descending, then till number, then shift.
func SortViews(views []ReportView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.TillNumber != b.TillNumber {
			return a.TillNumber < b.TillNumber
		}
		return a.Shift < b.Shift
	})
}
