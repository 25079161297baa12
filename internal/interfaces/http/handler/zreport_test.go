package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	reportapp "github.com/zreport/backend/internal/application/zreport"
	"github.com/zreport/backend/internal/infrastructure/export"
	"github.com/zreport/backend/internal/interfaces/http/dto"
)

func (e *testEnv) upsert(t *testing.T, token, date string) reportapp.ReportResponse {
	t.Helper()
	rec := e.do(t, http.MethodPut, "/api/v1/reports", token, e.reportBody(date))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp reportapp.ReportResponse
	decode(t, rec, &resp)
	return resp
}

func TestReportHandler_Upsert(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.accounting)

	resp := env.upsert(t, token, "2024-03-14")
	assert.Equal(t, "2024-03-14", resp.Date)
	assert.Equal(t, 1, resp.TillNumber)
	assert.Equal(t, "draft", resp.Status)
	assert.True(t, resp.Mutable)
	assert.Equal(t, "1200.00", resp.FinalNetRevenue)
	assert.Equal(t, "accounting@local", resp.CreatedBy)
	require.Len(t, resp.TerminalRows, 1)
	assert.Equal(t, "Garanti", resp.TerminalRows[0].BankName)
	assert.Equal(t, "12.50", resp.TerminalRows[0].Commission)

	// second save of the same identity replaces the report
	again := env.upsert(t, env.tokenFor(t, env.admin), "2024-03-14")
	assert.Equal(t, resp.ID, again.ID)
	assert.Equal(t, "admin@local", again.UpdatedBy)
}

func TestReportHandler_UpsertRejections(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.accounting)

	t.Run("unknown rate code", func(t *testing.T) {
		body := env.reportBody("2024-03-14")
		body["vat_amounts"] = map[string]string{"VAT99": "1"}
		rec := env.do(t, http.MethodPut, "/api/v1/reports", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, rec))
	})

	t.Run("missing cashier", func(t *testing.T) {
		body := env.reportBody("2024-03-14")
		delete(body, "cashier_id")
		rec := env.do(t, http.MethodPut, "/api/v1/reports", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, rec))
	})

	t.Run("malformed till id", func(t *testing.T) {
		body := env.reportBody("2024-03-14")
		body["till_id"] = "till-one"
		rec := env.do(t, http.MethodPut, "/api/v1/reports", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, rec))
	})

	t.Run("bad date", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/reports", token, env.reportBody("14.03.2024"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, rec))
	})

	t.Run("unknown till", func(t *testing.T) {
		body := env.reportBody("2024-03-14")
		body["till_id"] = env.cashier.ID
		rec := env.do(t, http.MethodPut, "/api/v1/reports", token, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidTill, errorCode(t, rec))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/reports", "", env.reportBody("2024-03-14"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestReportHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.admin)
	created := env.upsert(t, token, "2024-03-14")
	path := "/api/v1/reports/" + created.ID.String()

	rec := env.do(t, http.MethodPost, path+"/lock", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "draft cannot be locked")
	assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, rec))

	rec = env.do(t, http.MethodPost, path+"/submit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var submitted reportapp.ReportResponse
	decode(t, rec, &submitted)
	assert.Equal(t, "submitted", submitted.Status)
	assert.True(t, submitted.Mutable)

	rec = env.do(t, http.MethodPost, path+"/lock", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var locked reportapp.ReportResponse
	decode(t, rec, &locked)
	assert.Equal(t, "locked", locked.Status)
	assert.False(t, locked.Mutable)
	assert.Equal(t, "admin@local", locked.LockedBy)

	rec = env.do(t, http.MethodPut, "/api/v1/reports", token, env.reportBody("2024-03-14"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeReportLocked, errorCode(t, rec))

	rec = env.do(t, http.MethodPost, path+"/lock", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeReportLocked, errorCode(t, rec))

	rec = env.do(t, http.MethodPost, path+"/submit", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, rec))
}

func TestReportHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.accounting)
	created := env.upsert(t, token, "2024-03-14")

	rec := env.do(t, http.MethodGet, "/api/v1/reports/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got reportapp.ReportResponse
	decode(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "100.00", got.VatTotals.Net)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/"+env.till.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, rec))

	rec = env.do(t, http.MethodGet, "/api/v1/reports/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandler_ListAndExport(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.accounting)
	env.upsert(t, token, "2024-03-13")
	env.upsert(t, token, "2024-03-14")
	env.upsert(t, token, "2024-02-01")

	rec := env.do(t, http.MethodGet, "/api/v1/reports?start=2024-03-01&end=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing reportapp.ListReportsResponse
	decode(t, rec, &listing)
	assert.Equal(t, "2024-03-01", listing.Start)
	assert.Equal(t, "2024-03-31", listing.End)
	require.Len(t, listing.Rows, 2)
	assert.Equal(t, "2024-03-14", listing.Rows[0].Date, "newest first")
	assert.Equal(t, "2400.00", listing.Totals.FinalNetRevenue)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/export?start=2024-03-01&end=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), export.SummarySheet)
}

func TestReportHandler_Calendar(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, env.accounting)
	env.upsert(t, token, "2024-03-14")

	rec := env.do(t, http.MethodGet, "/api/v1/reports/calendar?month=2024-03", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cal reportapp.CalendarResponse
	decode(t, rec, &cal)
	assert.Equal(t, "2024-03", cal.Month)
	require.Len(t, cal.Days, 31)
	assert.True(t, cal.Days[13].Entered)
	assert.False(t, cal.Days[12].Entered)
}
