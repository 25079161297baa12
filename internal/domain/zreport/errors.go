package zreport

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/shared"
)

// CodeReportLocked is the domain error code carried by LockedReportError.
const CodeReportLocked = "REPORT_LOCKED"

// LockedReportError is returned by every write against a locked report.
// Nothing is mutated when it is returned.
type LockedReportError struct {
	ReportID uuid.UUID
	Identity Identity
}

func (e *LockedReportError) Error() string {
	return fmt.Sprintf("z report for %s is locked and cannot be edited", e.Identity)
}

// Unwrap exposes the error as a DomainError so transport layers can map it
// by code.
func (e *LockedReportError) Unwrap() error {
	return shared.NewDomainError(CodeReportLocked, e.Error())
}

// IsLocked reports whether err is, or wraps, a LockedReportError.
func IsLocked(err error) bool {
	var le *LockedReportError
	return errors.As(err, &le)
}
