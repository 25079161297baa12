package masterdata

import (
	"strings"

	"github.com/zreport/backend/internal/domain/shared"
)

// Cashier is the operator who closes a till
type Cashier struct {
	shared.BaseEntity
	Name   string
	Active bool
}

// NewCashier creates an active cashier
func NewCashier(name string) (*Cashier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cashier name cannot be empty")
	}
	return &Cashier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
	}, nil
}

// Rename changes the cashier's name
func (c *Cashier) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cashier name cannot be empty")
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetActive toggles the cashier
func (c *Cashier) SetActive(active bool) {
	c.Active = active
	c.Touch()
}
