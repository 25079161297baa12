// Package zreport holds the use cases around daily till closings: saving
// the entry form, moving reports through their lifecycle and building the
// read-side views.
package zreport

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	mdapp "github.com/zreport/backend/internal/application/masterdata"
	"github.com/zreport/backend/internal/domain/masterdata"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/domain/zreport"
	"github.com/zreport/backend/internal/infrastructure/cache"
	"github.com/zreport/backend/internal/infrastructure/export"
	"github.com/zreport/backend/internal/infrastructure/logger"
	"github.com/zreport/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Error codes for references rejected before the core sees them
const (
	CodeInvalidTill     = "INVALID_TILL"
	CodeInvalidCashier  = "INVALID_CASHIER"
	CodeInvalidTerminal = "INVALID_TERMINAL"
)

// ServiceConfig contains configuration for the report service
type ServiceConfig struct {
	ListingDays int
	LockTTL     time.Duration
	Location    *time.Location
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ListingDays: 7,
		LockTTL:     30 * time.Second,
		Location:    time.UTC,
	}
}

// MasterData groups the repositories the report service reads references from
type MasterData struct {
	Tills     masterdata.TillRepository
	Banks     masterdata.BankRepository
	Terminals masterdata.TerminalRepository
	Cashiers  masterdata.CashierRepository
}

// Service handles report operations
type Service struct {
	reports zreport.ReportRepository
	md      MasterData
	locker  cache.Locker
	events  shared.EventPublisher
	config  ServiceConfig
	now     func() time.Time
	logger  *zap.Logger
}

// NewService creates a new report service
func NewService(
	reports zreport.ReportRepository,
	md MasterData,
	locker cache.Locker,
	events shared.EventPublisher,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.ListingDays < 1 {
		config.ListingDays = DefaultServiceConfig().ListingDays
	}
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultServiceConfig().LockTTL
	}
	return &Service{
		reports: reports,
		md:      md,
		locker:  locker,
		events:  events,
		config:  config,
		now:     time.Now,
		logger:  logger,
	}
}

// Upsert saves the entry form for (date, till, shift), creating a draft on
// first save and replacing fields and line sets afterwards. Writers for the
// same identity are serialized; a locked report is never changed.
func (s *Service) Upsert(ctx context.Context, req UpsertReportRequest, actor string) (resp *ReportResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "zreport", "upsert")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.Or(ctx, s.logger)

	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Date must be formatted as YYYY-MM-DD")
	}
	identity := zreport.NewIdentity(date, req.TillID, req.Shift)
	span.SetAttributes(
		attribute.String("zreport.identity", identity.String()),
	)

	raw, err := toRawEntry(req)
	if err != nil {
		return nil, err
	}
	entry := raw.Parse()

	if err := s.validateReferences(ctx, identity.TillID, entry); err != nil {
		log.Warn("Report save rejected", zap.String("identity", identity.String()), zap.Error(err))
		return nil, err
	}

	var saved *zreport.Report
	err = s.withIdentityLock(ctx, identity, func(ctx context.Context) error {
		var err error
		saved, err = s.reports.UpsertByIdentity(ctx, identity, func(existing *zreport.Report) (*zreport.Report, error) {
			return zreport.Upsert(existing, identity, entry, actor)
		})
		return err
	})
	if err != nil {
		if zreport.IsLocked(err) {
			log.Warn("Write to locked report rejected",
				zap.String("identity", identity.String()),
				zap.String("actor", actor))
		}
		return nil, err
	}

	s.publish(ctx, saved)
	log.Info("Report upserted",
		zap.String("report_id", saved.ID.String()),
		zap.String("identity", identity.String()),
		zap.String("final_net_revenue", money(zreport.FinalNetRevenue(saved))),
		zap.String("actor", actor))

	return s.respond(ctx, saved)
}

// Submit moves a draft report to submitted
func (s *Service) Submit(ctx context.Context, id uuid.UUID, actor string) (resp *ReportResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "zreport", "submit")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	saved, err := s.transition(ctx, id, func(r *zreport.Report) error { return r.Submit(actor) })
	if err != nil {
		return nil, err
	}
	logger.Or(ctx, s.logger).Info("Report submitted",
		zap.String("report_id", saved.ID.String()),
		zap.String("actor", actor))
	return s.respond(ctx, saved)
}

// Lock moves a submitted report to locked
func (s *Service) Lock(ctx context.Context, id uuid.UUID, actor string) (resp *ReportResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "zreport", "lock")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	saved, err := s.transition(ctx, id, func(r *zreport.Report) error { return r.Lock(actor) })
	if err != nil {
		return nil, err
	}
	logger.Or(ctx, s.logger).Info("Report locked",
		zap.String("report_id", saved.ID.String()),
		zap.String("actor", actor))
	return s.respond(ctx, saved)
}

// transition applies a lifecycle step under the same lock and transaction
// as Upsert, so it cannot interleave with a save of the same report.
func (s *Service) transition(ctx context.Context, id uuid.UUID, step func(*zreport.Report) error) (*zreport.Report, error) {
	current, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	identity := current.Identity()

	var saved *zreport.Report
	err = s.withIdentityLock(ctx, identity, func(ctx context.Context) error {
		var err error
		saved, err = s.reports.UpsertByIdentity(ctx, identity, func(existing *zreport.Report) (*zreport.Report, error) {
			if existing == nil || existing.ID != id {
				return nil, shared.ErrNotFound
			}
			if err := step(existing); err != nil {
				return nil, err
			}
			return existing, nil
		})
		return err
	})
	if err != nil {
		logger.Or(ctx, s.logger).Warn("Report transition rejected",
			zap.String("report_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	s.publish(ctx, saved)
	return saved, nil
}

func (s *Service) withIdentityLock(ctx context.Context, identity zreport.Identity, fn func(context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.config.LockTTL)
	defer cancel()

	release, err := s.locker.Acquire(lockCtx, identity.String(), s.config.LockTTL)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// publish hands the report's events to the bus after commit
func (s *Service) publish(ctx context.Context, r *zreport.Report) {
	events := r.GetDomainEvents()
	r.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.Or(ctx, s.logger).Error("Failed to publish report events", zap.Error(err))
	}
}

// validateReferences rejects inactive or unknown tills, cashiers and
// terminals. Terminals without a positive amount are never stored, so
// they are not checked.
func (s *Service) validateReferences(ctx context.Context, tillID uuid.UUID, entry zreport.Entry) error {
	till, err := s.md.Tills.FindByID(ctx, tillID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(CodeInvalidTill, "Till not found")
		}
		return err
	}
	if !till.Active {
		return shared.NewDomainErrorf(CodeInvalidTill, "Till %d is not active", till.Number)
	}

	cashier, err := s.md.Cashiers.FindByID(ctx, entry.CashierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(CodeInvalidCashier, "Cashier not found")
		}
		return err
	}
	if !cashier.Active {
		return shared.NewDomainErrorf(CodeInvalidCashier, "Cashier %s is not active", cashier.Name)
	}

	ids := make([]uuid.UUID, 0, len(entry.Terminals))
	for _, t := range entry.Terminals {
		if t.Gross.IsPositive() {
			ids = append(ids, t.TerminalID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	terminals, err := s.md.Terminals.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	active := make(map[uuid.UUID]bool, len(terminals))
	for _, t := range terminals {
		active[t.ID] = t.Active
	}
	for _, id := range ids {
		if !active[id] {
			return shared.NewDomainErrorf(CodeInvalidTerminal, "Terminal %s is unknown or not active", id)
		}
	}
	return nil
}

func toRawEntry(req UpsertReportRequest) (zreport.RawEntry, error) {
	raw := zreport.RawEntry{
		CashierID:      req.CashierID,
		ReceiptRevenue: req.ReceiptRevenue,
		InvoiceRevenue: req.InvoiceRevenue,
		ReturnsAmount:  req.ReturnsAmount,
		VatAmounts:     make(map[zreport.RateCode]string, len(req.VatAmounts)),
		Terminals:      make([]zreport.RawTerminalAmount, 0, len(req.Terminals)),
	}
	for key, amount := range req.VatAmounts {
		code, err := zreport.ParseRateCode(key)
		if err != nil {
			return zreport.RawEntry{}, shared.NewDomainErrorf("INVALID_INPUT", "Unknown VAT rate code %q", key)
		}
		raw.VatAmounts[code] = amount
	}
	for _, t := range req.Terminals {
		raw.Terminals = append(raw.Terminals, zreport.RawTerminalAmount{TerminalID: t.TerminalID, Amount: t.Amount})
	}
	return raw, nil
}

// Get returns the full breakdown of one report
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ReportResponse, error) {
	r, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, r)
}

func (s *Service) respond(ctx context.Context, r *zreport.Report) (*ReportResponse, error) {
	tills, terminals, err := s.references(ctx, []*zreport.Report{r})
	if err != nil {
		return nil, err
	}
	till, ok := tills[r.TillID]
	if !ok {
		till = zreport.TillRef{ID: r.TillID}
	}
	resp := ToReportResponse(r, zreport.BuildReportView(r, till, terminals))
	return &resp, nil
}

// references loads the tills and terminals the reports point at, each in
// one query
func (s *Service) references(ctx context.Context, reports []*zreport.Report) (map[uuid.UUID]zreport.TillRef, map[uuid.UUID]zreport.TerminalRef, error) {
	tillIDs := make([]uuid.UUID, 0, len(reports))
	terminalIDs := make([]uuid.UUID, 0)
	seenTill := make(map[uuid.UUID]bool)
	seenTerminal := make(map[uuid.UUID]bool)
	for _, r := range reports {
		if !seenTill[r.TillID] {
			seenTill[r.TillID] = true
			tillIDs = append(tillIDs, r.TillID)
		}
		for _, l := range r.TerminalLines {
			if !seenTerminal[l.TerminalID] {
				seenTerminal[l.TerminalID] = true
				terminalIDs = append(terminalIDs, l.TerminalID)
			}
		}
	}

	tills, err := s.md.Tills.FindByIDs(ctx, tillIDs)
	if err != nil {
		return nil, nil, err
	}
	tillRefs := make(map[uuid.UUID]zreport.TillRef, len(tills))
	for _, t := range tills {
		tillRefs[t.ID] = zreport.TillRef{ID: t.ID, Number: t.Number}
	}

	terminalRefs := make(map[uuid.UUID]zreport.TerminalRef, len(terminalIDs))
	if len(terminalIDs) == 0 {
		return tillRefs, terminalRefs, nil
	}
	terminals, err := s.md.Terminals.FindByIDs(ctx, terminalIDs)
	if err != nil {
		return nil, nil, err
	}
	bankNames, err := mdapp.BankNames(ctx, s.md.Banks, terminals)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range terminals {
		var bankName string
		if t.BankID != nil {
			bankName = bankNames[*t.BankID]
		}
		terminalRefs[t.ID] = t.Ref(bankName)
	}
	return tillRefs, terminalRefs, nil
}

// Listing is a resolved report listing
type Listing struct {
	From   time.Time
	To     time.Time
	TillID *uuid.UUID
	View   zreport.SummaryView
}

// Summarize builds the listing for a date range and optional till. Missing
// or unparsable bounds fall back to the last ListingDays days.
func (s *Service) Summarize(ctx context.Context, req ListReportsRequest) (listing *Listing, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "zreport", "summarize")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	today := s.now().In(s.config.Location)
	from, to := zreport.ListingRange(parseDate(req.Start), parseDate(req.End), today, s.config.ListingDays)

	filter := zreport.ReportFilter{From: from, To: to}
	if id, err := uuid.Parse(strings.TrimSpace(req.TillID)); err == nil {
		filter.TillID = &id
	}

	reports, err := s.reports.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	tills, terminals, err := s.references(ctx, reports)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("zreport.count", len(reports)))

	return &Listing{
		From:   from,
		To:     to,
		TillID: filter.TillID,
		View:   zreport.BuildSummaryView(reports, tills, terminals),
	}, nil
}

// List returns the listing as a response DTO
func (s *Service) List(ctx context.Context, req ListReportsRequest) (*ListReportsResponse, error) {
	listing, err := s.Summarize(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := ToListReportsResponse(listing.View, listing.From, listing.To, listing.TillID)
	return &resp, nil
}

// Export writes the listing as an xlsx workbook and returns its file name
func (s *Service) Export(ctx context.Context, req ListReportsRequest, w io.Writer) (string, error) {
	listing, err := s.Summarize(ctx, req)
	if err != nil {
		return "", err
	}
	if err := export.WriteSummary(w, listing.View, listing.From, listing.To); err != nil {
		logger.Or(ctx, s.logger).Error("Failed to write report export", zap.Error(err))
		return "", err
	}
	return export.SummaryFilename(listing.From, listing.To), nil
}

// Calendar flags every day of month that has at least one report. An
// empty or unparsable month means the current one.
func (s *Service) Calendar(ctx context.Context, month string) (*CalendarResponse, error) {
	m, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(month), time.UTC)
	if err != nil {
		m = zreport.Day(s.now().In(s.config.Location))
	}
	first, last := zreport.MonthBounds(m)

	dates, err := s.reports.EntryDates(ctx, first, last)
	if err != nil {
		return nil, err
	}
	resp := ToCalendarResponse(first, zreport.EntryCalendar(first, dates))
	return &resp, nil
}

func parseDate(s string) *time.Time {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
