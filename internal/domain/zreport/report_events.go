package zreport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/shared"
)

const (
	EventTypeReportCreated   = "ZReportCreated"
	EventTypeReportUpdated   = "ZReportUpdated"
	EventTypeReportSubmitted = "ZReportSubmitted"
	EventTypeReportLocked    = "ZReportLocked"
)

// ReportCreatedEvent is raised when a report is first saved
type ReportCreatedEvent struct {
	shared.BaseDomainEvent
	Date      time.Time `json:"date"`
	TillID    uuid.UUID `json:"till_id"`
	Shift     int       `json:"shift"`
	CreatedBy string    `json:"created_by"`
}

// NewReportCreatedEvent creates a new ReportCreatedEvent
func NewReportCreatedEvent(r *Report) *ReportCreatedEvent {
	return &ReportCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportCreated, AggregateTypeReport, r.ID),
		Date:            r.Date,
		TillID:          r.TillID,
		Shift:           r.Shift,
		CreatedBy:       r.CreatedBy,
	}
}

// EventType returns the event type name
func (e *ReportCreatedEvent) EventType() string { return EventTypeReportCreated }

// ReportUpdatedEvent is raised when an existing report is saved again
type ReportUpdatedEvent struct {
	shared.BaseDomainEvent
	FinalNetRevenue decimal.Decimal `json:"final_net_revenue"`
	UpdatedBy       string          `json:"updated_by"`
}

// NewReportUpdatedEvent creates a new ReportUpdatedEvent
func NewReportUpdatedEvent(r *Report) *ReportUpdatedEvent {
	return &ReportUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportUpdated, AggregateTypeReport, r.ID),
		FinalNetRevenue: FinalNetRevenue(r),
		UpdatedBy:       r.UpdatedBy,
	}
}

// EventType returns the event type name
func (e *ReportUpdatedEvent) EventType() string { return EventTypeReportUpdated }

// ReportSubmittedEvent is raised on draft -> submitted
type ReportSubmittedEvent struct {
	shared.BaseDomainEvent
	SubmittedBy string `json:"submitted_by"`
}

// NewReportSubmittedEvent creates a new ReportSubmittedEvent
func NewReportSubmittedEvent(r *Report) *ReportSubmittedEvent {
	return &ReportSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportSubmitted, AggregateTypeReport, r.ID),
		SubmittedBy:     r.SubmittedBy,
	}
}

// EventType returns the event type name
func (e *ReportSubmittedEvent) EventType() string { return EventTypeReportSubmitted }

// ReportLockedEvent is raised on submitted -> locked
type ReportLockedEvent struct {
	shared.BaseDomainEvent
	LockedBy string `json:"locked_by"`
}

// NewReportLockedEvent creates a new ReportLockedEvent
func NewReportLockedEvent(r *Report) *ReportLockedEvent {
	return &ReportLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportLocked, AggregateTypeReport, r.ID),
		LockedBy:        r.LockedBy,
	}
}

// EventType returns the event type name
func (e *ReportLockedEvent) EventType() string { return EventTypeReportLocked }
