package event

import (
	"context"

	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/domain/zreport"
	"github.com/zreport/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReportAuditHandler writes one structured log line per report lifecycle event
type ReportAuditHandler struct {
	logger *zap.Logger
}

// NewReportAuditHandler creates a ReportAuditHandler
func NewReportAuditHandler(l *zap.Logger) *ReportAuditHandler {
	return &ReportAuditHandler{logger: l.Named("audit")}
}

// EventTypes returns the report event types
func (h *ReportAuditHandler) EventTypes() []string {
	return []string{
		zreport.EventTypeReportCreated,
		zreport.EventTypeReportUpdated,
		zreport.EventTypeReportSubmitted,
		zreport.EventTypeReportLocked,
	}
}

// Handle logs the event
func (h *ReportAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("report_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *zreport.ReportCreatedEvent:
		fields = append(fields,
			zap.String("date", e.Date.Format("2006-01-02")),
			zap.String("till_id", e.TillID.String()),
			zap.Int("shift", e.Shift),
			zap.String("actor", e.CreatedBy),
		)
	case *zreport.ReportUpdatedEvent:
		fields = append(fields,
			zap.String("final_net_revenue", e.FinalNetRevenue.StringFixed(2)),
			zap.String("actor", e.UpdatedBy),
		)
	case *zreport.ReportSubmittedEvent:
		fields = append(fields, zap.String("actor", e.SubmittedBy))
	case *zreport.ReportLockedEvent:
		fields = append(fields, zap.String("actor", e.LockedBy))
	}

	logger.Or(ctx, h.logger).Info("report event", fields...)
	return nil
}

// Ensure ReportAuditHandler implements EventHandler
var _ shared.EventHandler = (*ReportAuditHandler)(nil)
