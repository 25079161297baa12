package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	reportapp "github.com/zreport/backend/internal/application/zreport"
	"github.com/zreport/backend/internal/infrastructure/export"
)

// ReportHandler serves the Z-report entry and read endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Upsert godoc
// @Summary      Save a Z-report
// @Description  Creates or replaces the report of one (date, till, shift). Locked reports are rejected.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body reportapp.UpsertReportRequest true "Entry form"
// @Success      200 {object} dto.Response{data=reportapp.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports [put]
func (h *ReportHandler) Upsert(c *gin.Context) {
	var req reportapp.UpsertReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.reportService.Upsert(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @Summary      Get a Z-report with its VAT and terminal breakdown
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.ReportResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Submit godoc
// @Summary      Submit a draft report
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.ReportResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{id}/submit [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.reportService.Submit(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Lock godoc
// @Summary      Lock a submitted report
// @Description  Admin only. A locked report can no longer change.
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.ReportResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{id}/lock [post]
func (h *ReportHandler) Lock(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.reportService.Lock(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      Summary listing with totals
// @Description  Defaults to the last days including today; unparsable filters are ignored.
// @Tags         reports
// @Produce      json
// @Param        start   query string false "First day (YYYY-MM-DD)"
// @Param        end     query string false "Last day (YYYY-MM-DD)"
// @Param        till_id query string false "Till ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.ListReportsResponse}
// @Security     BearerAuth
// @Router       /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var req reportapp.ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.reportService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Export godoc
// @Summary      Summary listing as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start   query string false "First day (YYYY-MM-DD)"
// @Param        end     query string false "Last day (YYYY-MM-DD)"
// @Param        till_id query string false "Till ID" format(uuid)
// @Success      200 {file} binary
// @Security     BearerAuth
// @Router       /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var req reportapp.ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	var buf bytes.Buffer
	filename, err := h.reportService.Export(c.Request.Context(), req, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

// Calendar godoc
// @Summary      Which days of a month have reports
// @Tags         reports
// @Produce      json
// @Param        month query string false "Month (YYYY-MM), default current"
// @Success      200 {object} dto.Response{data=reportapp.CalendarResponse}
// @Security     BearerAuth
// @Router       /reports/calendar [get]
func (h *ReportHandler) Calendar(c *gin.Context) {
	resp, err := h.reportService.Calendar(c.Request.Context(), c.Query("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
