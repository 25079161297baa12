package masterdata

import (
	"strings"

	"github.com/zreport/backend/internal/domain/shared"
)

// Till is a physical cash register
type Till struct {
	shared.BaseEntity
	Number         int
	FiscalMemoryNo string
	Active         bool
}

// NewTill creates an active till
func NewTill(number int, fiscalMemoryNo string) (*Till, error) {
	if number <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Till number must be positive")
	}
	return &Till{
		BaseEntity:     shared.NewBaseEntity(),
		Number:         number,
		FiscalMemoryNo: strings.TrimSpace(fiscalMemoryNo),
		Active:         true,
	}, nil
}

// Update changes the till's number and fiscal memory number
func (t *Till) Update(number int, fiscalMemoryNo string) error {
	if number <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Till number must be positive")
	}
	t.Number = number
	t.FiscalMemoryNo = strings.TrimSpace(fiscalMemoryNo)
	t.Touch()
	return nil
}

// SetActive toggles whether the till can take new reports
func (t *Till) SetActive(active bool) {
	t.Active = active
	t.Touch()
}
