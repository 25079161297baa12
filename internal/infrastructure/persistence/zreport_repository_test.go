package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/domain/zreport"
)

func sampleEntry(cashierID, terminalID uuid.UUID) zreport.Entry {
	return zreport.Entry{
		CashierID:      cashierID,
		ReceiptRevenue: decimal.RequireFromString("1000.00"),
		InvoiceRevenue: decimal.RequireFromString("200.50"),
		ReturnsAmount:  decimal.RequireFromString("50.25"),
		VatAmounts: map[zreport.RateCode]decimal.Decimal{
			zreport.RateVAT20: decimal.RequireFromString("120.00"),
			zreport.RateVAT10: decimal.RequireFromString("110.00"),
		},
		Terminals: []zreport.TerminalLine{
			{TerminalID: terminalID, Gross: decimal.RequireFromString("300.00")},
		},
	}
}

func TestGormReportRepository_UpsertByIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then replaces the same identity", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))
		id := zreport.NewIdentity(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), uuid.New(), 1)
		cashierID, terminalID := uuid.New(), uuid.New()

		created, err := repo.UpsertByIdentity(ctx, id, func(existing *zreport.Report) (*zreport.Report, error) {
			assert.Nil(t, existing)
			return zreport.Upsert(existing, id, sampleEntry(cashierID, terminalID), "admin@local")
		})
		require.NoError(t, err)

		updatedEntry := sampleEntry(cashierID, terminalID)
		updatedEntry.ReceiptRevenue = decimal.RequireFromString("900.00")
		updatedEntry.Terminals = nil
		updated, err := repo.UpsertByIdentity(ctx, id, func(existing *zreport.Report) (*zreport.Report, error) {
			require.NotNil(t, existing)
			assert.Equal(t, created.ID, existing.ID)
			return zreport.Upsert(existing, id, updatedEntry, "accounting@local")
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		stored, err := repo.FindByIdentity(ctx, id)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("900").Equal(stored.ReceiptRevenue))
		assert.Len(t, stored.VatLines, len(zreport.RateCodes()))
		assert.Empty(t, stored.TerminalLines)
		assert.Equal(t, "accounting@local", stored.UpdatedBy)
		assert.Equal(t, "admin@local", stored.CreatedBy)
	})

	t.Run("error from apply writes nothing", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))
		id := zreport.NewIdentity(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), uuid.New(), 2)

		_, err := repo.UpsertByIdentity(ctx, id, func(existing *zreport.Report) (*zreport.Report, error) {
			return nil, shared.ErrInvalidInput
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = repo.FindByIdentity(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("locked report is left untouched", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))
		id := zreport.NewIdentity(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), uuid.New(), 1)
		cashierID, terminalID := uuid.New(), uuid.New()

		report, err := zreport.Upsert(nil, id, sampleEntry(cashierID, terminalID), "admin@local")
		require.NoError(t, err)
		require.NoError(t, report.Submit("admin@local"))
		require.NoError(t, report.Lock("admin@local"))
		require.NoError(t, repo.Save(ctx, report))

		changed := sampleEntry(cashierID, terminalID)
		changed.ReceiptRevenue = decimal.RequireFromString("1")
		_, err = repo.UpsertByIdentity(ctx, id, func(existing *zreport.Report) (*zreport.Report, error) {
			return zreport.Upsert(existing, id, changed, "admin@local")
		})
		assert.True(t, zreport.IsLocked(err))

		stored, err := repo.FindByID(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, zreport.StatusLocked, stored.Status)
		assert.True(t, decimal.RequireFromString("1000").Equal(stored.ReceiptRevenue))
		assert.Len(t, stored.TerminalLines, 1)
	})
}

func TestGormReportRepository_LineOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewGormReportRepository(newTestDB(t))
	id := zreport.NewIdentity(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), uuid.New(), 1)

	t1, t2, t3 := uuid.New(), uuid.New(), uuid.New()
	entry := sampleEntry(uuid.New(), t1)
	entry.Terminals = []zreport.TerminalLine{
		{TerminalID: t3, Gross: decimal.RequireFromString("10")},
		{TerminalID: t1, Gross: decimal.RequireFromString("20")},
		{TerminalID: t2, Gross: decimal.RequireFromString("30")},
	}
	report, err := zreport.Upsert(nil, id, entry, "admin@local")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, report))

	stored, err := repo.FindByID(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, stored.TerminalLines, 3)
	assert.Equal(t, []uuid.UUID{t3, t1, t2}, []uuid.UUID{
		stored.TerminalLines[0].TerminalID,
		stored.TerminalLines[1].TerminalID,
		stored.TerminalLines[2].TerminalID,
	})

	codes := make([]zreport.RateCode, 0, len(stored.VatLines))
	for _, l := range stored.VatLines {
		codes = append(codes, l.Code)
	}
	assert.Equal(t, zreport.RateCodes(), codes)
	assert.True(t, decimal.RequireFromString("120").Equal(stored.VatGross(zreport.RateVAT20)))
}

func TestGormReportRepository_FindAllAndEntryDates(t *testing.T) {
	ctx := context.Background()
	repo := NewGormReportRepository(newTestDB(t))
	tillA, tillB := uuid.New(), uuid.New()

	days := []struct {
		date  time.Time
		till  uuid.UUID
		shift int
	}{
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), tillA, 1},
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), tillA, 2},
		{time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), tillB, 1},
		{time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), tillA, 1},
	}
	for _, d := range days {
		r, err := zreport.Upsert(nil, zreport.NewIdentity(d.date, d.till, d.shift), sampleEntry(uuid.New(), uuid.New()), "admin@local")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, r))
	}

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)

	t.Run("range is inclusive and newest first", func(t *testing.T) {
		reports, err := repo.FindAll(ctx, zreport.ReportFilter{From: from, To: to})
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.True(t, reports[0].Date.Equal(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 1, reports[1].Shift)
		assert.Equal(t, 2, reports[2].Shift)
	})

	t.Run("till filter", func(t *testing.T) {
		reports, err := repo.FindAll(ctx, zreport.ReportFilter{From: from, To: to, TillID: &tillB})
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, tillB, reports[0].TillID)
	})

	t.Run("entry dates are distinct", func(t *testing.T) {
		dates, err := repo.EntryDates(ctx, from, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, dates, 3)
		assert.Equal(t, 1, dates[0].Day())
		assert.Equal(t, 3, dates[1].Day())
		assert.Equal(t, 10, dates[2].Day())
	})
}

func TestGormReportRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormReportRepository(newTestDB(t))
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
