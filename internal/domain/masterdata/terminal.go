package masterdata

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/domain/zreport"
)

// Terminal is a card-payment device. CommissionRate is a fraction with four
// decimals, normalized once when the terminal is created or edited.
type Terminal struct {
	shared.BaseEntity
	TerminalNo     string
	Name           string
	CommissionRate decimal.Decimal
	BankID         *uuid.UUID
	Active         bool
}

// NewTerminal creates an active terminal. rawRate may be a percentage
// ("2,5") or a fraction ("0.025").
func NewTerminal(terminalNo, name, rawRate string, bankID *uuid.UUID) (*Terminal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Terminal name cannot be empty")
	}
	return &Terminal{
		BaseEntity:     shared.NewBaseEntity(),
		TerminalNo:     strings.TrimSpace(terminalNo),
		Name:           name,
		CommissionRate: zreport.NormalizeCommissionRate(rawRate),
		BankID:         bankID,
		Active:         true,
	}, nil
}

// Update replaces the terminal's editable fields, normalizing rawRate again
func (t *Terminal) Update(terminalNo, name, rawRate string, bankID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Terminal name cannot be empty")
	}
	t.TerminalNo = strings.TrimSpace(terminalNo)
	t.Name = name
	t.CommissionRate = zreport.NormalizeCommissionRate(rawRate)
	t.BankID = bankID
	t.Touch()
	return nil
}

// SetActive toggles the terminal
func (t *Terminal) SetActive(active bool) {
	t.Active = active
	t.Touch()
}

// Ref returns the data the report view needs
func (t *Terminal) Ref(bankName string) zreport.TerminalRef {
	return zreport.TerminalRef{
		ID:             t.ID,
		Name:           t.Name,
		BankName:       bankName,
		CommissionRate: t.CommissionRate,
	}
}
