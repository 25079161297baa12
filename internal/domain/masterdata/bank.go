package masterdata

import (
	"strings"

	"github.com/zreport/backend/internal/domain/shared"
)

// Bank is the acquirer behind one or more terminals
type Bank struct {
	shared.BaseEntity
	Name   string
	Active bool
}

// NewBank creates an active bank
func NewBank(name string) (*Bank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bank name cannot be empty")
	}
	return &Bank{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
	}, nil
}

// Rename changes the bank name
func (b *Bank) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Bank name cannot be empty")
	}
	b.Name = name
	b.Touch()
	return nil
}

// SetActive toggles the bank
func (b *Bank) SetActive(active bool) {
	b.Active = active
	b.Touch()
}
