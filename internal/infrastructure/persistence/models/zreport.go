package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/zreport"
)

// ZReportModel is the persistence model for a daily till closing
type ZReportModel struct {
	AggregateModel
	Date           time.Time                  `gorm:"type:date;not null;uniqueIndex:idx_z_report_identity,priority:1;index"`
	TillID         uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex:idx_z_report_identity,priority:2"`
	Shift          int                        `gorm:"not null;default:1;uniqueIndex:idx_z_report_identity,priority:3"`
	CashierID      uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ReceiptRevenue decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	InvoiceRevenue decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	ReturnsAmount  decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	Status         string                     `gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedBy      string                     `gorm:"type:varchar(200)"`
	UpdatedBy      string                     `gorm:"type:varchar(200)"`
	SubmittedAt    *time.Time                 `gorm:"type:timestamp"`
	SubmittedBy    string                     `gorm:"type:varchar(200)"`
	LockedAt       *time.Time                 `gorm:"type:timestamp"`
	LockedBy       string                     `gorm:"type:varchar(200)"`
	VatLines       []ZReportVatLineModel      `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	TerminalLines  []ZReportTerminalLineModel `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ZReportModel) TableName() string {
	return "z_reports"
}

// ZReportVatLineModel holds the tax-inclusive gross of one rate code
type ZReportVatLineModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReportID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_z_vat_line_code,priority:1"`
	Code     string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_z_vat_line_code,priority:2"`
	Position int             `gorm:"not null;default:0"`
	Gross    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ZReportVatLineModel) TableName() string {
	return "z_report_vat_lines"
}

// ZReportTerminalLineModel holds the gross taken on one terminal
type ZReportTerminalLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReportID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_z_terminal_line,priority:1"`
	TerminalID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_z_terminal_line,priority:2;index"`
	Position   int             `gorm:"not null;default:0"`
	Gross      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ZReportTerminalLineModel) TableName() string {
	return "z_report_terminal_lines"
}

// ToDomain converts the model and its loaded lines to a domain Report
func (m *ZReportModel) ToDomain() *zreport.Report {
	r := &zreport.Report{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Date:              zreport.Day(m.Date),
		TillID:            m.TillID,
		Shift:             m.Shift,
		CashierID:         m.CashierID,
		ReceiptRevenue:    m.ReceiptRevenue,
		InvoiceRevenue:    m.InvoiceRevenue,
		ReturnsAmount:     m.ReturnsAmount,
		Status:            zreport.Status(m.Status),
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
		SubmittedAt:       m.SubmittedAt,
		SubmittedBy:       m.SubmittedBy,
		LockedAt:          m.LockedAt,
		LockedBy:          m.LockedBy,
		VatLines:          make([]zreport.VatLine, 0, len(m.VatLines)),
		TerminalLines:     make([]zreport.TerminalLine, 0, len(m.TerminalLines)),
	}
	for _, l := range m.VatLines {
		r.VatLines = append(r.VatLines, zreport.VatLine{Code: zreport.RateCode(l.Code), Gross: l.Gross})
	}
	for _, l := range m.TerminalLines {
		r.TerminalLines = append(r.TerminalLines, zreport.TerminalLine{TerminalID: l.TerminalID, Gross: l.Gross})
	}
	return r
}

// ZReportModelFromDomain creates a persistence model from a domain Report
func ZReportModelFromDomain(r *zreport.Report) *ZReportModel {
	m := &ZReportModel{
		Date:           zreport.Day(r.Date),
		TillID:         r.TillID,
		Shift:          r.Shift,
		CashierID:      r.CashierID,
		ReceiptRevenue: r.ReceiptRevenue,
		InvoiceRevenue: r.InvoiceRevenue,
		ReturnsAmount:  r.ReturnsAmount,
		Status:         string(r.Status),
		CreatedBy:      r.CreatedBy,
		UpdatedBy:      r.UpdatedBy,
		SubmittedAt:    r.SubmittedAt,
		SubmittedBy:    r.SubmittedBy,
		LockedAt:       r.LockedAt,
		LockedBy:       r.LockedBy,
		VatLines:       make([]ZReportVatLineModel, 0, len(r.VatLines)),
		TerminalLines:  make([]ZReportTerminalLineModel, 0, len(r.TerminalLines)),
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)

	for i, l := range r.VatLines {
		m.VatLines = append(m.VatLines, ZReportVatLineModel{
			ID:       uuid.New(),
			ReportID: r.ID,
			Code:     string(l.Code),
			Position: i,
			Gross:    l.Gross,
		})
	}
	for i, l := range r.TerminalLines {
		m.TerminalLines = append(m.TerminalLines, ZReportTerminalLineModel{
			ID:         uuid.New(),
			ReportID:   r.ID,
			TerminalID: l.TerminalID,
			Position:   i,
			Gross:      l.Gross,
		})
	}
	return m
}
