package zreport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/shared"
)

// AggregateTypeReport is the aggregate type for daily closing reports
const AggregateTypeReport = "ZReport"

// Shift bounds. Out-of-range shifts fall back to DefaultShift.
const (
	MinShift     = 1
	MaxShift     = 3
	DefaultShift = 1
)

// Status represents the lifecycle state of a report
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusLocked    Status = "locked"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusLocked:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanSubmit returns true if a report in this status can be submitted
func (s Status) CanSubmit() bool {
	return s == StatusDraft
}

// CanLock returns true if a report in this status can be locked
func (s Status) CanLock() bool {
	return s == StatusSubmitted
}

// IsMutable returns true while line items and totals may still change
func (s Status) IsMutable() bool {
	return s != StatusLocked
}

// NormalizeShift coerces n into the valid shift range.
func NormalizeShift(n int) int {
	if n < MinShift || n > MaxShift {
		return DefaultShift
	}
	return n
}

// ParseShift reads a shift from form input, defaulting to DefaultShift.
func ParseShift(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultShift
	}
	return NormalizeShift(n)
}

// Identity is the unique key of a report.
type Identity struct {
	Date   time.Time
	TillID uuid.UUID
	Shift  int
}

// NewIdentity truncates date to a calendar day and normalizes the shift.
func NewIdentity(date time.Time, tillID uuid.UUID, shift int) Identity {
	return Identity{
		Date:   Day(date),
		TillID: tillID,
		Shift:  NormalizeShift(shift),
	}
}

func (i Identity) String() string {
	return fmt.Sprintf("%s/till %s/shift %d", i.Date.Format(time.DateOnly), i.TillID, i.Shift)
}

// Day returns midnight UTC of t's calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// VatLine is the tax-inclusive gross taken under one rate code.
type VatLine struct {
	Code  RateCode
	Gross decimal.Decimal
}

// TerminalLine is the gross card amount taken on one terminal.
type TerminalLine struct {
	TerminalID uuid.UUID
	Gross      decimal.Decimal
}

// Report is the aggregate root for a daily till closing.
type Report struct {
	shared.BaseAggregateRoot
	Date           time.Time
	TillID         uuid.UUID
	Shift          int
	CashierID      uuid.UUID
	ReceiptRevenue decimal.Decimal
	InvoiceRevenue decimal.Decimal
	ReturnsAmount  decimal.Decimal
	Status         Status
	VatLines       []VatLine
	TerminalLines  []TerminalLine
	CreatedBy      string
	UpdatedBy      string
	SubmittedAt    *time.Time
	SubmittedBy    string
	LockedAt       *time.Time
	LockedBy       string
}

// Entry is one save of the entry form with amounts already parsed.
type Entry struct {
	CashierID      uuid.UUID
	ReceiptRevenue decimal.Decimal
	InvoiceRevenue decimal.Decimal
	ReturnsAmount  decimal.Decimal
	VatAmounts     map[RateCode]decimal.Decimal
	Terminals      []TerminalLine
}

// RawTerminalAmount is a terminal amount as typed by the operator.
type RawTerminalAmount struct {
	TerminalID uuid.UUID
	Amount     string
}

// RawEntry is the entry form before amount parsing.
type RawEntry struct {
	CashierID      uuid.UUID
	ReceiptRevenue string
	InvoiceRevenue string
	ReturnsAmount  string
	VatAmounts     map[RateCode]string
	Terminals      []RawTerminalAmount
}

// Parse runs every monetary field through ParseAmount.
func (r RawEntry) Parse() Entry {
	e := Entry{
		CashierID:      r.CashierID,
		ReceiptRevenue: ParseAmount(r.ReceiptRevenue),
		InvoiceRevenue: ParseAmount(r.InvoiceRevenue),
		ReturnsAmount:  ParseAmount(r.ReturnsAmount),
		VatAmounts:     make(map[RateCode]decimal.Decimal, len(r.VatAmounts)),
		Terminals:      make([]TerminalLine, 0, len(r.Terminals)),
	}
	for code, raw := range r.VatAmounts {
		e.VatAmounts[code] = ParseAmount(raw)
	}
	for _, t := range r.Terminals {
		e.Terminals = append(e.Terminals, TerminalLine{TerminalID: t.TerminalID, Gross: ParseAmount(t.Amount)})
	}
	return e
}

// NewReport creates a draft report for id.
func NewReport(id Identity, cashierID uuid.UUID, actor string) *Report {
	r := &Report{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              Day(id.Date),
		TillID:            id.TillID,
		Shift:             NormalizeShift(id.Shift),
		CashierID:         cashierID,
		ReceiptRevenue:    decimal.Zero,
		InvoiceRevenue:    decimal.Zero,
		ReturnsAmount:     decimal.Zero,
		Status:            StatusDraft,
		CreatedBy:         actor,
		UpdatedBy:         actor,
	}
	r.AddDomainEvent(NewReportCreatedEvent(r))
	return r
}

// Identity returns the report's unique key
func (r *Report) Identity() Identity {
	return Identity{Date: r.Date, TillID: r.TillID, Shift: r.Shift}
}

// IsMutable reports whether the report may still be written to
func (r *Report) IsMutable() bool {
	return r.Status.IsMutable()
}

// Replace overwrites scalar fields and both line sets with entry.
func (r *Report) Replace(entry Entry, actor string) error {
	if !r.IsMutable() {
		return &LockedReportError{ReportID: r.ID, Identity: r.Identity()}
	}

	r.CashierID = entry.CashierID
	r.ReceiptRevenue = clampAmount(entry.ReceiptRevenue)
	r.InvoiceRevenue = clampAmount(entry.InvoiceRevenue)
	r.ReturnsAmount = clampAmount(entry.ReturnsAmount)
	r.VatLines = buildVatLines(entry.VatAmounts)
	r.TerminalLines = buildTerminalLines(entry.Terminals)
	r.UpdatedBy = actor
	r.Touch()
	return nil
}

// Submit moves a draft report to submitted
func (r *Report) Submit(actor string) error {
	if !r.Status.CanSubmit() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot submit report in %s status", r.Status)
	}
	now := time.Now()
	r.Status = StatusSubmitted
	r.SubmittedAt = &now
	r.SubmittedBy = actor
	r.UpdatedBy = actor
	r.UpdatedAt = now
	r.AddDomainEvent(NewReportSubmittedEvent(r))
	return nil
}

// Lock moves a submitted report to locked. Locked is terminal.
func (r *Report) Lock(actor string) error {
	if r.Status == StatusLocked {
		return &LockedReportError{ReportID: r.ID, Identity: r.Identity()}
	}
	if !r.Status.CanLock() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot lock report in %s status", r.Status)
	}
	now := time.Now()
	r.Status = StatusLocked
	r.LockedAt = &now
	r.LockedBy = actor
	r.UpdatedBy = actor
	r.UpdatedAt = now
	r.AddDomainEvent(NewReportLockedEvent(r))
	return nil
}

// Upsert applies entry to existing, or to a new draft when existing is nil.
// A locked existing report yields LockedReportError and is left untouched.
func Upsert(existing *Report, id Identity, entry Entry, actor string) (*Report, error) {
	if existing == nil {
		r := NewReport(id, entry.CashierID, actor)
		if err := r.Replace(entry, actor); err != nil {
			return nil, err
		}
		return r, nil
	}

	if err := existing.Replace(entry, actor); err != nil {
		return nil, err
	}
	existing.AddDomainEvent(NewReportUpdatedEvent(existing))
	return existing, nil
}

// VatGross returns the stored gross for code, zero if absent.
func (r *Report) VatGross(code RateCode) decimal.Decimal {
	for _, l := range r.VatLines {
		if l.Code == code {
			return l.Gross
		}
	}
	return decimal.Zero
}

// buildVatLines emits one line per rate code in table order. Codes missing
// from amounts are stored as zero. Unknown codes are dropped.
func buildVatLines(amounts map[RateCode]decimal.Decimal) []VatLine {
	codes := RateCodes()
	lines := make([]VatLine, 0, len(codes))
	for _, code := range codes {
		gross, ok := amounts[code]
		if !ok {
			gross = decimal.Zero
		}
		lines = append(lines, VatLine{Code: code, Gross: clampAmount(gross)})
	}
	return lines
}

// buildTerminalLines keeps one line per terminal, the last amount winning,
// in first-seen order. Lines with no positive gross are not kept.
func buildTerminalLines(in []TerminalLine) []TerminalLine {
	order := make([]uuid.UUID, 0, len(in))
	amounts := make(map[uuid.UUID]decimal.Decimal, len(in))
	for _, l := range in {
		if _, seen := amounts[l.TerminalID]; !seen {
			order = append(order, l.TerminalID)
		}
		amounts[l.TerminalID] = l.Gross
	}

	lines := make([]TerminalLine, 0, len(order))
	for _, id := range order {
		gross := clampAmount(amounts[id])
		if gross.IsPositive() {
			lines = append(lines, TerminalLine{TerminalID: id, Gross: gross})
		}
	}
	return lines
}

func clampAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return Round2(d)
}
