package zreport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/shared"
)

// ReportFilter narrows a report listing
type ReportFilter struct {
	shared.Filter
	From   time.Time
	To     time.Time
	TillID *uuid.UUID
}

// ApplyFunc receives the stored report for an identity (nil when none)
// and returns the report to persist.
type ApplyFunc func(existing *Report) (*Report, error)

// ReportRepository persists reports together with their line sets
type ReportRepository interface {
	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// FindByIdentity returns shared.ErrNotFound when absent
	FindByIdentity(ctx context.Context, identity Identity) (*Report, error)

	// FindAll returns reports dated within [From, To], date descending
	FindAll(ctx context.Context, filter ReportFilter) ([]*Report, error)

	// Save writes the report and replaces both line sets
	Save(ctx context.Context, report *Report) error

	// UpsertByIdentity loads the report for identity, passes it to apply and
	// saves the result, all in one transaction. Nothing is written when apply
	// returns an error.
	UpsertByIdentity(ctx context.Context, identity Identity, apply ApplyFunc) (*Report, error)

	// EntryDates returns the distinct dates in [from, to] with at least one report
	EntryDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}
