package zreport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/zreport"
)

// DateLayout is the wire format of report dates
const DateLayout = "2006-01-02"

// MonthLayout is the wire format of calendar months
const MonthLayout = "2006-01"

// UpsertReportRequest is one save of the entry form. Amounts are locale
// text ("1.234,56"); anything unparsable is stored as zero.
type UpsertReportRequest struct {
	Date           string                  `json:"date" binding:"required"`
	TillID         uuid.UUID               `json:"till_id" binding:"required"`
	Shift          int                     `json:"shift"`
	CashierID      uuid.UUID               `json:"cashier_id" binding:"required"`
	ReceiptRevenue string                  `json:"receipt_revenue" binding:"max=32"`
	InvoiceRevenue string                  `json:"invoice_revenue" binding:"max=32"`
	ReturnsAmount  string                  `json:"returns_amount" binding:"max=32"`
	VatAmounts     map[string]string       `json:"vat_amounts" binding:"omitempty,dive,keys,rate_code,endkeys,max=32"`
	Terminals      []TerminalAmountRequest `json:"terminals" binding:"omitempty,dive"`
}

// TerminalAmountRequest is the card total typed for one terminal
type TerminalAmountRequest struct {
	TerminalID uuid.UUID `json:"terminal_id" binding:"required"`
	Amount     string    `json:"amount" binding:"max=32"`
}

// ListReportsRequest filters a listing. Unparsable values are ignored.
type ListReportsRequest struct {
	Start  string `form:"start"`
	End    string `form:"end"`
	TillID string `form:"till_id"`
}

// VatRowResponse is one rate code of a report's VAT breakdown
type VatRowResponse struct {
	Code        string  `json:"code"`
	RatePercent *string `json:"rate_percent"`
	Gross       string  `json:"gross"`
	Net         string  `json:"net"`
	Tax         string  `json:"tax"`
}

// TerminalRowResponse is one terminal's settlement
type TerminalRowResponse struct {
	TerminalID uuid.UUID `json:"terminal_id"`
	Name       string    `json:"name"`
	BankName   string    `json:"bank_name"`
	Rate       string    `json:"rate"`
	Gross      string    `json:"gross"`
	Commission string    `json:"commission"`
	Net        string    `json:"net"`
}

// TotalsResponse holds gross/net style triples
type TotalsResponse struct {
	Gross      string `json:"gross"`
	Net        string `json:"net"`
	Tax        string `json:"tax,omitempty"`
	Commission string `json:"commission,omitempty"`
}

// ReportResponse is the full breakdown of one report
type ReportResponse struct {
	ID              uuid.UUID             `json:"id"`
	Date            string                `json:"date"`
	TillID          uuid.UUID             `json:"till_id"`
	TillNumber      int                   `json:"till_number"`
	Shift           int                   `json:"shift"`
	CashierID       uuid.UUID             `json:"cashier_id"`
	Status          string                `json:"status"`
	Mutable         bool                  `json:"mutable"`
	ReceiptRevenue  string                `json:"receipt_revenue"`
	InvoiceRevenue  string                `json:"invoice_revenue"`
	ReturnsAmount   string                `json:"returns_amount"`
	FinalNetRevenue string                `json:"final_net_revenue"`
	VatRows         []VatRowResponse      `json:"vat_rows"`
	VatTotals       TotalsResponse        `json:"vat_totals"`
	TerminalRows    []TerminalRowResponse `json:"terminal_rows"`
	TerminalTotals  TotalsResponse        `json:"terminal_totals"`
	CreatedBy       string                `json:"created_by"`
	UpdatedBy       string                `json:"updated_by"`
	UpdatedAt       time.Time             `json:"updated_at"`
	SubmittedAt     *time.Time            `json:"submitted_at,omitempty"`
	SubmittedBy     string                `json:"submitted_by,omitempty"`
	LockedAt        *time.Time            `json:"locked_at,omitempty"`
	LockedBy        string                `json:"locked_by,omitempty"`
}

// SummaryRowResponse is one report in a listing
type SummaryRowResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	TillID          uuid.UUID `json:"till_id"`
	TillNumber      int       `json:"till_number"`
	Shift           int       `json:"shift"`
	Status          string    `json:"status"`
	ReceiptRevenue  string    `json:"receipt_revenue"`
	InvoiceRevenue  string    `json:"invoice_revenue"`
	ReturnsAmount   string    `json:"returns_amount"`
	FinalNetRevenue string    `json:"final_net_revenue"`
	VatTax          string    `json:"vat_tax"`
	TerminalGross   string    `json:"terminal_gross"`
	Commission      string    `json:"commission"`
	TerminalNet     string    `json:"terminal_net"`
}

// SummaryTotalsResponse sums a listing
type SummaryTotalsResponse struct {
	ReceiptRevenue  string `json:"receipt_revenue"`
	InvoiceRevenue  string `json:"invoice_revenue"`
	ReturnsAmount   string `json:"returns_amount"`
	FinalNetRevenue string `json:"final_net_revenue"`
	VatGross        string `json:"vat_gross"`
	VatNet          string `json:"vat_net"`
	VatTax          string `json:"vat_tax"`
	TerminalGross   string `json:"terminal_gross"`
	Commission      string `json:"commission"`
	TerminalNet     string `json:"terminal_net"`
}

// ListReportsResponse is a listing over a resolved date range
type ListReportsResponse struct {
	Start  string                `json:"start"`
	End    string                `json:"end"`
	TillID *uuid.UUID            `json:"till_id,omitempty"`
	Rows   []SummaryRowResponse  `json:"rows"`
	Totals SummaryTotalsResponse `json:"totals"`
}

// CalendarDayResponse flags whether a day has any report
type CalendarDayResponse struct {
	Date    string `json:"date"`
	Entered bool   `json:"entered"`
}

// CalendarResponse is one month of entry flags
type CalendarResponse struct {
	Month string                `json:"month"`
	Days  []CalendarDayResponse `json:"days"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(zreport.AmountPlaces)
}

// ToReportResponse converts a report and its derived view
func ToReportResponse(r *zreport.Report, v zreport.ReportView) ReportResponse {
	resp := ReportResponse{
		ID:              r.ID,
		Date:            r.Date.Format(DateLayout),
		TillID:          r.TillID,
		TillNumber:      v.TillNumber,
		Shift:           r.Shift,
		CashierID:       r.CashierID,
		Status:          r.Status.String(),
		Mutable:         r.IsMutable(),
		ReceiptRevenue:  money(v.ReceiptRevenue),
		InvoiceRevenue:  money(v.InvoiceRevenue),
		ReturnsAmount:   money(v.ReturnsAmount),
		FinalNetRevenue: money(v.FinalNetRevenue),
		VatRows:         make([]VatRowResponse, len(v.VatRows)),
		VatTotals: TotalsResponse{
			Gross: money(v.VatTotals.Gross),
			Net:   money(v.VatTotals.Net),
			Tax:   money(v.VatTotals.Tax),
		},
		TerminalRows: make([]TerminalRowResponse, len(v.TerminalRows)),
		TerminalTotals: TotalsResponse{
			Gross:      money(v.TerminalTotals.Gross),
			Net:        money(v.TerminalTotals.Net),
			Commission: money(v.TerminalTotals.Commission),
		},
		CreatedBy:   r.CreatedBy,
		UpdatedBy:   r.UpdatedBy,
		UpdatedAt:   r.UpdatedAt,
		SubmittedAt: r.SubmittedAt,
		SubmittedBy: r.SubmittedBy,
		LockedAt:    r.LockedAt,
		LockedBy:    r.LockedBy,
	}

	for i, row := range v.VatRows {
		var pct *string
		if row.RatePercent != nil {
			s := row.RatePercent.String()
			pct = &s
		}
		resp.VatRows[i] = VatRowResponse{
			Code:        row.Code.String(),
			RatePercent: pct,
			Gross:       money(row.Gross),
			Net:         money(row.Net),
			Tax:         money(row.Tax),
		}
	}
	for i, row := range v.TerminalRows {
		resp.TerminalRows[i] = TerminalRowResponse{
			TerminalID: row.TerminalID,
			Name:       row.Name,
			BankName:   row.BankName,
			Rate:       row.Rate.StringFixed(4),
			Gross:      money(row.Gross),
			Commission: money(row.Commission),
			Net:        money(row.Net),
		}
	}
	return resp
}

// ToListReportsResponse converts a summary view
func ToListReportsResponse(view zreport.SummaryView, from, to time.Time, tillID *uuid.UUID) ListReportsResponse {
	resp := ListReportsResponse{
		Start:  from.Format(DateLayout),
		End:    to.Format(DateLayout),
		TillID: tillID,
		Rows:   make([]SummaryRowResponse, len(view.Rows)),
		Totals: SummaryTotalsResponse{
			ReceiptRevenue:  money(view.Totals.ReceiptRevenue),
			InvoiceRevenue:  money(view.Totals.InvoiceRevenue),
			ReturnsAmount:   money(view.Totals.ReturnsAmount),
			FinalNetRevenue: money(view.Totals.FinalNetRevenue),
			VatGross:        money(view.Totals.VatGross),
			VatNet:          money(view.Totals.VatNet),
			VatTax:          money(view.Totals.VatTax),
			TerminalGross:   money(view.Totals.TerminalGross),
			Commission:      money(view.Totals.Commission),
			TerminalNet:     money(view.Totals.TerminalNet),
		},
	}
	for i, row := range view.Rows {
		resp.Rows[i] = SummaryRowResponse{
			ID:              row.ReportID,
			Date:            row.Date.Format(DateLayout),
			TillID:          row.TillID,
			TillNumber:      row.TillNumber,
			Shift:           row.Shift,
			Status:          row.Status.String(),
			ReceiptRevenue:  money(row.ReceiptRevenue),
			InvoiceRevenue:  money(row.InvoiceRevenue),
			ReturnsAmount:   money(row.ReturnsAmount),
			FinalNetRevenue: money(row.FinalNetRevenue),
			VatTax:          money(row.VatTax),
			TerminalGross:   money(row.TerminalGross),
			Commission:      money(row.Commission),
			TerminalNet:     money(row.TerminalNet),
		}
	}
	return resp
}

// ToCalendarResponse converts calendar days
func ToCalendarResponse(month time.Time, days []zreport.CalendarDay) CalendarResponse {
	resp := CalendarResponse{
		Month: month.Format(MonthLayout),
		Days:  make([]CalendarDayResponse, len(days)),
	}
	for i, d := range days {
		resp.Days[i] = CalendarDayResponse{Date: d.Date.Format(DateLayout), Entered: d.Entered}
	}
	return resp
}
