package zreport

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/zreport/backend/internal/domain/masterdata"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/domain/zreport"
	"github.com/zreport/backend/internal/infrastructure/cache"
	"github.com/zreport/backend/internal/infrastructure/config"
	"github.com/zreport/backend/internal/infrastructure/event"
	"github.com/zreport/backend/internal/infrastructure/export"
	"github.com/zreport/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu    sync.Mutex
	types []string
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, e.EventType())
	return nil
}

func (h *recordingHandler) EventTypes() []string { return nil }

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.types...)
}

type fixture struct {
	svc      *Service
	reports  *persistence.GormReportRepository
	md       MasterData
	events   *recordingHandler
	till     *masterdata.Till
	cashier  *masterdata.Cashier
	terminal *masterdata.Terminal
}

var testToday = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	md := MasterData{
		Tills:     persistence.NewGormTillRepository(db.DB),
		Banks:     persistence.NewGormBankRepository(db.DB),
		Terminals: persistence.NewGormTerminalRepository(db.DB),
		Cashiers:  persistence.NewGormCashierRepository(db.DB),
	}

	till, err := masterdata.NewTill(1, "FM-1")
	require.NoError(t, err)
	require.NoError(t, md.Tills.Save(ctx, till))

	cashier, err := masterdata.NewCashier("Ayşe")
	require.NoError(t, err)
	require.NoError(t, md.Cashiers.Save(ctx, cashier))

	bank, err := masterdata.NewBank("Garanti")
	require.NoError(t, err)
	require.NoError(t, md.Banks.Save(ctx, bank))

	terminal, err := masterdata.NewTerminal("T-1", "Front POS", "2,5", &bank.ID)
	require.NoError(t, err)
	require.NoError(t, md.Terminals.Save(ctx, terminal))

	bus := event.NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)
	require.NoError(t, bus.Start(ctx))

	reports := persistence.NewGormReportRepository(db.DB)
	svc := NewService(reports, md, cache.NewInProcessLocker(), bus, ServiceConfig{
		ListingDays: 7,
		LockTTL:     5 * time.Second,
		Location:    time.UTC,
	}, zap.NewNop())
	svc.now = func() time.Time { return testToday }

	return &fixture{
		svc:      svc,
		reports:  reports,
		md:       md,
		events:   handler,
		till:     till,
		cashier:  cashier,
		terminal: terminal,
	}
}

func (f *fixture) request(date string) UpsertReportRequest {
	return UpsertReportRequest{
		Date:           date,
		TillID:         f.till.ID,
		Shift:          1,
		CashierID:      f.cashier.ID,
		ReceiptRevenue: "1.000,00",
		InvoiceRevenue: "250,50",
		ReturnsAmount:  "50,50",
		VatAmounts:     map[string]string{"VAT10": "110,00", "special": "20,00"},
		Terminals:      []TerminalAmountRequest{{TerminalID: f.terminal.ID, Amount: "500,00"}},
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a DomainError, got %v", err)
	return de.Code
}

func TestService_Upsert_CreatesDraftWithBreakdown(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Upsert(context.Background(), f.request("2024-03-14"), "clerk@shop.test")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-14", resp.Date)
	assert.Equal(t, 1, resp.TillNumber)
	assert.Equal(t, "draft", resp.Status)
	assert.True(t, resp.Mutable)
	assert.Equal(t, "1200.00", resp.FinalNetRevenue)
	assert.Equal(t, "clerk@shop.test", resp.CreatedBy)

	require.Len(t, resp.VatRows, len(zreport.RateCodes()))
	for _, row := range resp.VatRows {
		switch row.Code {
		case "VAT10":
			assert.Equal(t, "110.00", row.Gross)
			assert.Equal(t, "100.00", row.Net)
			assert.Equal(t, "10.00", row.Tax)
		case "SPECIAL":
			assert.Equal(t, "20.00", row.Net)
			assert.Equal(t, "0.00", row.Tax)
			assert.Nil(t, row.RatePercent)
		default:
			assert.Equal(t, "0.00", row.Gross)
		}
	}
	assert.Equal(t, "130.00", resp.VatTotals.Gross)
	assert.Equal(t, "10.00", resp.VatTotals.Tax)

	require.Len(t, resp.TerminalRows, 1)
	row := resp.TerminalRows[0]
	assert.Equal(t, "Front POS", row.Name)
	assert.Equal(t, "Garanti", row.BankName)
	assert.Equal(t, "0.0250", row.Rate)
	assert.Equal(t, "12.50", row.Commission)
	assert.Equal(t, "487.50", row.Net)

	assert.Equal(t, []string{zreport.EventTypeReportCreated}, f.events.seen())
}

func TestService_Upsert_ReplacesOnSecondSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upsert(ctx, f.request("2024-03-14"), "clerk@shop.test")
	require.NoError(t, err)

	req := f.request("2024-03-14")
	req.VatAmounts = map[string]string{"VAT20": "120,00"}
	req.Terminals = nil
	second, err := f.svc.Upsert(ctx, req, "boss@shop.test")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.TerminalRows)
	assert.Equal(t, "120.00", second.VatTotals.Gross)
	assert.Equal(t, "20.00", second.VatTotals.Tax)
	assert.Equal(t, "clerk@shop.test", second.CreatedBy)
	assert.Equal(t, "boss@shop.test", second.UpdatedBy)
	assert.Equal(t, []string{zreport.EventTypeReportCreated, zreport.EventTypeReportUpdated}, f.events.seen())
}

func TestService_Upsert_OutOfRangeShiftFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request("2024-03-14")
	req.Shift = 9
	resp, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
	require.NoError(t, err)
	assert.Equal(t, zreport.DefaultShift, resp.Shift)

	req.Shift = 1
	again, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)
}

func TestService_Upsert_RejectsBadReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("bad date", func(t *testing.T) {
		req := f.request("14.03.2024")
		_, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown rate code", func(t *testing.T) {
		req := f.request("2024-03-14")
		req.VatAmounts = map[string]string{"VAT99": "1,00"}
		_, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown till", func(t *testing.T) {
		req := f.request("2024-03-14")
		req.TillID = uuid.New()
		_, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
		assert.Equal(t, CodeInvalidTill, codeOf(t, err))
	})

	t.Run("inactive cashier", func(t *testing.T) {
		cashier, err := masterdata.NewCashier("Gone")
		require.NoError(t, err)
		cashier.SetActive(false)
		require.NoError(t, f.md.Cashiers.Save(ctx, cashier))

		req := f.request("2024-03-14")
		req.CashierID = cashier.ID
		_, err = f.svc.Upsert(ctx, req, "clerk@shop.test")
		assert.Equal(t, CodeInvalidCashier, codeOf(t, err))
	})

	t.Run("unknown terminal with an amount", func(t *testing.T) {
		req := f.request("2024-03-14")
		req.Terminals = append(req.Terminals, TerminalAmountRequest{TerminalID: uuid.New(), Amount: "10,00"})
		_, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
		assert.Equal(t, CodeInvalidTerminal, codeOf(t, err))
	})

	t.Run("unknown terminal without an amount is ignored", func(t *testing.T) {
		req := f.request("2024-03-14")
		req.Terminals = append(req.Terminals, TerminalAmountRequest{TerminalID: uuid.New(), Amount: ""})
		resp, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
		require.NoError(t, err)
		assert.Len(t, resp.TerminalRows, 1)
	})

	reports, err := f.reports.FindAll(ctx, zreport.ReportFilter{From: testToday.AddDate(0, 0, -30), To: testToday})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Upsert(ctx, f.request("2024-03-14"), "clerk@shop.test")
	require.NoError(t, err)

	_, err = f.svc.Lock(ctx, created.ID, "admin@local")
	assert.ErrorIs(t, err, shared.ErrInvalidState, "a draft cannot be locked")

	submitted, err := f.svc.Submit(ctx, created.ID, "clerk@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "submitted", submitted.Status)
	assert.True(t, submitted.Mutable)
	assert.Equal(t, "clerk@shop.test", submitted.SubmittedBy)

	locked, err := f.svc.Lock(ctx, created.ID, "admin@local")
	require.NoError(t, err)
	assert.Equal(t, "locked", locked.Status)
	assert.False(t, locked.Mutable)
	require.NotNil(t, locked.LockedAt)

	req := f.request("2024-03-14")
	req.Terminals = nil
	req.VatAmounts = nil
	_, err = f.svc.Upsert(ctx, req, "clerk@shop.test")
	require.Error(t, err)
	assert.True(t, zreport.IsLocked(err))

	_, err = f.svc.Lock(ctx, created.ID, "admin@local")
	assert.True(t, zreport.IsLocked(err))

	_, err = f.svc.Submit(ctx, created.ID, "clerk@shop.test")
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	after, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.VatRows, after.VatRows)
	assert.Equal(t, created.TerminalRows, after.TerminalRows)
	assert.Equal(t, created.FinalNetRevenue, after.FinalNetRevenue)

	assert.Equal(t, []string{
		zreport.EventTypeReportCreated,
		zreport.EventTypeReportSubmitted,
		zreport.EventTypeReportLocked,
	}, f.events.seen())

	_, err = f.svc.Submit(ctx, uuid.New(), "clerk@shop.test")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_Upsert_ConcurrentSavesKeepOneReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Upsert(ctx, f.request("2024-03-14"), "clerk@shop.test")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	reports, err := f.reports.FindAll(ctx, zreport.ReportFilter{From: testToday.AddDate(0, 0, -1), To: testToday})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day1 := f.request("2024-03-14")
	day1.ReceiptRevenue, day1.InvoiceRevenue, day1.ReturnsAmount = "100,00", "", ""
	day2 := f.request("2024-03-15")
	day2.ReceiptRevenue, day2.InvoiceRevenue, day2.ReturnsAmount = "200,00", "60,00", "10,00"
	old := f.request("2024-02-01")
	for _, req := range []UpsertReportRequest{day1, day2, old} {
		_, err := f.svc.Upsert(ctx, req, "clerk@shop.test")
		require.NoError(t, err)
	}

	t.Run("default range is the last seven days", func(t *testing.T) {
		resp, err := f.svc.List(ctx, ListReportsRequest{Start: "garbage"})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-09", resp.Start)
		assert.Equal(t, "2024-03-15", resp.End)
		require.Len(t, resp.Rows, 2)
		assert.Equal(t, "2024-03-15", resp.Rows[0].Date)
		assert.Equal(t, "250.00", resp.Rows[0].FinalNetRevenue)
		assert.Equal(t, "100.00", resp.Rows[1].FinalNetRevenue)
		assert.Equal(t, "350.00", resp.Totals.FinalNetRevenue)
		assert.Equal(t, "1000.00", resp.Totals.TerminalGross)
		assert.Equal(t, "25.00", resp.Totals.Commission)
	})

	t.Run("explicit range and till", func(t *testing.T) {
		resp, err := f.svc.List(ctx, ListReportsRequest{Start: "2024-02-01", End: "2024-02-29", TillID: f.till.ID.String()})
		require.NoError(t, err)
		require.Len(t, resp.Rows, 1)
		require.NotNil(t, resp.TillID)
		assert.Equal(t, f.till.ID, *resp.TillID)

		resp, err = f.svc.List(ctx, ListReportsRequest{Start: "2024-02-01", End: "2024-03-31", TillID: uuid.NewString()})
		require.NoError(t, err)
		assert.Empty(t, resp.Rows)
		assert.Equal(t, "0.00", resp.Totals.FinalNetRevenue)
	})

	t.Run("export", func(t *testing.T) {
		var buf bytes.Buffer
		name, err := f.svc.Export(ctx, ListReportsRequest{}, &buf)
		require.NoError(t, err)
		assert.Equal(t, "z-reports_2024-03-09_2024-03-15.xlsx", name)

		book, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer book.Close()
		rows, err := book.GetRows(export.SummarySheet)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(rows), 5)
	})
}

func TestService_Calendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-03-14", "2024-04-02"} {
		_, err := f.svc.Upsert(ctx, f.request(date), "clerk@shop.test")
		require.NoError(t, err)
	}

	resp, err := f.svc.Calendar(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", resp.Month)
	require.Len(t, resp.Days, 31)
	assert.True(t, resp.Days[0].Entered)
	assert.True(t, resp.Days[13].Entered)
	assert.False(t, resp.Days[14].Entered)

	resp, err = f.svc.Calendar(ctx, "2024-04")
	require.NoError(t, err)
	require.Len(t, resp.Days, 30)
	assert.True(t, resp.Days[1].Entered)
	assert.Equal(t, "2024-04-02", resp.Days[1].Date)
}

func TestNewService_AppliesDefaults(t *testing.T) {
	svc := NewService(nil, MasterData{}, cache.NewInProcessLocker(), nil, ServiceConfig{}, zap.NewNop())
	assert.Equal(t, 7, svc.config.ListingDays)
	assert.Equal(t, 30*time.Second, svc.config.LockTTL)
	assert.Equal(t, time.UTC, svc.config.Location)
}
