package masterdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/masterdata"
)

// CreateTillRequest represents a request to create a till
type CreateTillRequest struct {
	Number         int    `json:"number" binding:"required,gt=0"`
	FiscalMemoryNo string `json:"fiscal_memory_no" binding:"max=50"`
}

// UpdateTillRequest represents a request to update a till
type UpdateTillRequest struct {
	Number         int    `json:"number" binding:"required,gt=0"`
	FiscalMemoryNo string `json:"fiscal_memory_no" binding:"max=50"`
	Active         *bool  `json:"active"`
}

// TillResponse represents a till in API responses
type TillResponse struct {
	ID             uuid.UUID `json:"id"`
	Number         int       `json:"number"`
	FiscalMemoryNo string    `json:"fiscal_memory_no"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateBankRequest represents a request to create a bank
type CreateBankRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateBankRequest represents a request to update a bank
type UpdateBankRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Active *bool  `json:"active"`
}

// BankResponse represents a bank in API responses
type BankResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTerminalRequest represents a request to create a card terminal.
// CommissionRate is free text: "2,5" and "0.025" both mean 2.5%.
type CreateTerminalRequest struct {
	TerminalNo     string     `json:"terminal_no" binding:"max=50"`
	Name           string     `json:"name" binding:"required,min=1,max=100"`
	CommissionRate string     `json:"commission_rate" binding:"max=20"`
	BankID         *uuid.UUID `json:"bank_id"`
}

// UpdateTerminalRequest represents a request to update a card terminal
type UpdateTerminalRequest struct {
	TerminalNo     string     `json:"terminal_no" binding:"max=50"`
	Name           string     `json:"name" binding:"required,min=1,max=100"`
	CommissionRate string     `json:"commission_rate" binding:"max=20"`
	BankID         *uuid.UUID `json:"bank_id"`
	Active         *bool      `json:"active"`
}

// TerminalResponse represents a card terminal in API responses
type TerminalResponse struct {
	ID             uuid.UUID       `json:"id"`
	TerminalNo     string          `json:"terminal_no"`
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	BankID         *uuid.UUID      `json:"bank_id,omitempty"`
	BankName       string          `json:"bank_name,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateCashierRequest represents a request to create a cashier
type CreateCashierRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateCashierRequest represents a request to update a cashier
type UpdateCashierRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Active *bool  `json:"active"`
}

// CashierResponse represents a cashier in API responses
type CashierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTillResponse converts a domain Till to TillResponse
func ToTillResponse(t *masterdata.Till) TillResponse {
	return TillResponse{
		ID:             t.ID,
		Number:         t.Number,
		FiscalMemoryNo: t.FiscalMemoryNo,
		Active:         t.Active,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToBankResponse converts a domain Bank to BankResponse
func ToBankResponse(b *masterdata.Bank) BankResponse {
	return BankResponse{
		ID:        b.ID,
		Name:      b.Name,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToTerminalResponse converts a domain Terminal to TerminalResponse
func ToTerminalResponse(t *masterdata.Terminal, bankName string) TerminalResponse {
	return TerminalResponse{
		ID:             t.ID,
		TerminalNo:     t.TerminalNo,
		Name:           t.Name,
		CommissionRate: t.CommissionRate,
		BankID:         t.BankID,
		BankName:       bankName,
		Active:         t.Active,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToCashierResponse converts a domain Cashier to CashierResponse
func ToCashierResponse(c *masterdata.Cashier) CashierResponse {
	return CashierResponse{
		ID:        c.ID,
		Name:      c.Name,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
