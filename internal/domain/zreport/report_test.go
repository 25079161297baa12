package zreport

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zreport/backend/internal/domain/shared"
)

func sampleIdentity() Identity {
	return NewIdentity(time.Date(2026, 3, 14, 18, 45, 0, 0, time.Local), uuid.New(), 2)
}

func sampleEntry(cashier, terminal uuid.UUID) Entry {
	return Entry{
		CashierID:      cashier,
		ReceiptRevenue: dec("1000.00"),
		InvoiceRevenue: dec("250.00"),
		ReturnsAmount:  dec("50.00"),
		VatAmounts: map[RateCode]decimal.Decimal{
			RateVAT10:   dec("110.00"),
			RateSpecial: dec("20.00"),
		},
		Terminals: []TerminalLine{{TerminalID: terminal, Gross: dec("500.00")}},
	}
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusDraft.IsValid())
	assert.False(t, Status("archived").IsValid())

	assert.True(t, StatusDraft.CanSubmit())
	assert.False(t, StatusSubmitted.CanSubmit())
	assert.True(t, StatusSubmitted.CanLock())
	assert.False(t, StatusDraft.CanLock())

	assert.True(t, StatusDraft.IsMutable())
	assert.True(t, StatusSubmitted.IsMutable())
	assert.False(t, StatusLocked.IsMutable())
}

func TestShift(t *testing.T) {
	assert.Equal(t, 1, NormalizeShift(0))
	assert.Equal(t, 3, NormalizeShift(3))
	assert.Equal(t, 1, NormalizeShift(4))

	assert.Equal(t, 2, ParseShift(" 2 "))
	assert.Equal(t, 1, ParseShift("9"))
	assert.Equal(t, 1, ParseShift("night"))
	assert.Equal(t, 1, ParseShift(""))
}

func TestNewIdentity_TruncatesDate(t *testing.T) {
	id := NewIdentity(time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC), uuid.New(), 7)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), id.Date)
	assert.Equal(t, DefaultShift, id.Shift)
}

func TestUpsert_CreatesDraft(t *testing.T) {
	id := sampleIdentity()
	cashier, terminal := uuid.New(), uuid.New()

	r, err := Upsert(nil, id, sampleEntry(cashier, terminal), "clerk@shop")
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, r.Status)
	assert.Equal(t, id, r.Identity())
	assert.Equal(t, cashier, r.CashierID)
	assert.Equal(t, "clerk@shop", r.CreatedBy)
	assert.Equal(t, "clerk@shop", r.UpdatedBy)
	assert.True(t, r.IsMutable())

	require.Len(t, r.VatLines, len(RateCodes()))
	for i, code := range RateCodes() {
		assert.Equal(t, code, r.VatLines[i].Code)
	}
	assertDecimal(t, "110.00", r.VatGross(RateVAT10))
	assertDecimal(t, "0", r.VatGross(RateVAT20))

	require.Len(t, r.TerminalLines, 1)
	assert.Equal(t, terminal, r.TerminalLines[0].TerminalID)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReportCreated, events[0].EventType())
}

func TestUpsert_ReplacesLineSets(t *testing.T) {
	id := sampleIdentity()
	t1, t2 := uuid.New(), uuid.New()

	r, err := Upsert(nil, id, sampleEntry(uuid.New(), t1), "clerk")
	require.NoError(t, err)
	r.ClearDomainEvents()

	newCashier := uuid.New()
	second := Entry{
		CashierID:      newCashier,
		ReceiptRevenue: dec("10"),
		VatAmounts:     map[RateCode]decimal.Decimal{RateVAT20: dec("120")},
		Terminals: []TerminalLine{
			{TerminalID: t2, Gross: dec("40")},
			{TerminalID: t1, Gross: dec("0")},
			{TerminalID: t2, Gross: dec("60")},
		},
	}

	updated, err := Upsert(r, id, second, "manager")
	require.NoError(t, err)
	assert.Same(t, r, updated)

	assert.Equal(t, newCashier, updated.CashierID)
	assertDecimal(t, "10", updated.ReceiptRevenue)
	assertDecimal(t, "0", updated.InvoiceRevenue)
	assertDecimal(t, "0", updated.VatGross(RateVAT10))
	assertDecimal(t, "120", updated.VatGross(RateVAT20))

	require.Len(t, updated.TerminalLines, 1)
	assert.Equal(t, t2, updated.TerminalLines[0].TerminalID)
	assertDecimal(t, "60", updated.TerminalLines[0].Gross)

	assert.Equal(t, "clerk", updated.CreatedBy)
	assert.Equal(t, "manager", updated.UpdatedBy)

	events := updated.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReportUpdated, events[0].EventType())
}

func TestUpsert_LockedReportIsRejected(t *testing.T) {
	id := sampleIdentity()
	terminal := uuid.New()

	r, err := Upsert(nil, id, sampleEntry(uuid.New(), terminal), "clerk")
	require.NoError(t, err)
	require.NoError(t, r.Submit("clerk"))
	require.NoError(t, r.Lock("admin"))
	r.ClearDomainEvents()

	beforeVat := append([]VatLine(nil), r.VatLines...)
	beforeTerminals := append([]TerminalLine(nil), r.TerminalLines...)

	_, err = Upsert(r, id, Entry{ReceiptRevenue: dec("1")}, "clerk")
	require.Error(t, err)

	var locked *LockedReportError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, r.ID, locked.ReportID)
	assert.True(t, IsLocked(err))

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, CodeReportLocked, de.Code)

	assert.Equal(t, beforeVat, r.VatLines)
	assert.Equal(t, beforeTerminals, r.TerminalLines)
	assertDecimal(t, "1000", r.ReceiptRevenue)
	assert.Equal(t, "admin", r.UpdatedBy)
	assert.Empty(t, r.GetDomainEvents())
}

func TestReport_Lifecycle(t *testing.T) {
	t.Run("draft to submitted to locked", func(t *testing.T) {
		r := NewReport(sampleIdentity(), uuid.New(), "clerk")
		r.ClearDomainEvents()

		require.NoError(t, r.Submit("clerk"))
		assert.Equal(t, StatusSubmitted, r.Status)
		require.NotNil(t, r.SubmittedAt)
		assert.Equal(t, "clerk", r.SubmittedBy)

		require.NoError(t, r.Lock("admin"))
		assert.Equal(t, StatusLocked, r.Status)
		require.NotNil(t, r.LockedAt)
		assert.Equal(t, "admin", r.LockedBy)
		assert.False(t, r.IsMutable())

		events := r.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeReportSubmitted, events[0].EventType())
		assert.Equal(t, EventTypeReportLocked, events[1].EventType())
	})

	t.Run("cannot lock a draft", func(t *testing.T) {
		r := NewReport(sampleIdentity(), uuid.New(), "clerk")
		err := r.Lock("admin")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		assert.Equal(t, StatusDraft, r.Status)
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		r := NewReport(sampleIdentity(), uuid.New(), "clerk")
		require.NoError(t, r.Submit("clerk"))
		err := r.Submit("clerk")
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("locking twice reports the lock", func(t *testing.T) {
		r := NewReport(sampleIdentity(), uuid.New(), "clerk")
		require.NoError(t, r.Submit("clerk"))
		require.NoError(t, r.Lock("admin"))
		assert.True(t, IsLocked(r.Lock("admin")))
	})

	t.Run("submitted report is still editable", func(t *testing.T) {
		r := NewReport(sampleIdentity(), uuid.New(), "clerk")
		require.NoError(t, r.Submit("clerk"))
		require.NoError(t, r.Replace(Entry{ReceiptRevenue: dec("5")}, "clerk"))
		assert.Equal(t, StatusSubmitted, r.Status)
		assertDecimal(t, "5", r.ReceiptRevenue)
	})
}

func TestRawEntry_Parse(t *testing.T) {
	terminal := uuid.New()
	raw := RawEntry{
		CashierID:      uuid.New(),
		ReceiptRevenue: "1.234,56",
		InvoiceRevenue: "",
		ReturnsAmount:  "-3",
		VatAmounts:     map[RateCode]string{RateVAT20: "1.200,00", RateVAT5: "junk"},
		Terminals:      []RawTerminalAmount{{TerminalID: terminal, Amount: "500,00"}},
	}

	e := raw.Parse()
	assert.Equal(t, raw.CashierID, e.CashierID)
	assertDecimal(t, "1234.56", e.ReceiptRevenue)
	assertDecimal(t, "0", e.InvoiceRevenue)
	assertDecimal(t, "0", e.ReturnsAmount)
	assertDecimal(t, "1200", e.VatAmounts[RateVAT20])
	assertDecimal(t, "0", e.VatAmounts[RateVAT5])
	require.Len(t, e.Terminals, 1)
	assertDecimal(t, "500", e.Terminals[0].Gross)
}
