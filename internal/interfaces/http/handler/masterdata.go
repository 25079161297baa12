package handler

import (
	"github.com/gin-gonic/gin"
	mdapp "github.com/zreport/backend/internal/application/masterdata"
	"github.com/zreport/backend/internal/domain/masterdata"
	"github.com/zreport/backend/internal/interfaces/http/dto"
)

// MasterDataHandler serves tills, banks, terminals and cashiers
type MasterDataHandler struct {
	BaseHandler
	service *mdapp.Service
}

// NewMasterDataHandler creates a new master data handler
func NewMasterDataHandler(service *mdapp.Service) *MasterDataHandler {
	return &MasterDataHandler{service: service}
}

func (h *MasterDataHandler) listFilter(c *gin.Context) (masterdata.ListFilter, bool) {
	var req dto.ActiveFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return masterdata.ListFilter{}, false
	}
	return masterdata.ListFilter{ActiveOnly: req.ActiveOnly}, true
}

// CreateTill godoc
// @Summary      Create a till
// @Tags         tills
// @Accept       json
// @Produce      json
// @Param        request body mdapp.CreateTillRequest true "Till"
// @Success      201 {object} dto.Response{data=mdapp.TillResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tills [post]
func (h *MasterDataHandler) CreateTill(c *gin.Context) {
	var req mdapp.CreateTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateTill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateTill godoc
// @Summary      Update or deactivate a till
// @Tags         tills
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Till ID" format(uuid)
// @Param        request body mdapp.UpdateTillRequest true "Till"
// @Success      200 {object} dto.Response{data=mdapp.TillResponse}
// @Security     BearerAuth
// @Router       /tills/{id} [put]
func (h *MasterDataHandler) UpdateTill(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req mdapp.UpdateTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateTill(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetTill returns one till
func (h *MasterDataHandler) GetTill(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetTill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTills godoc
// @Summary      List tills ordered by number
// @Tags         tills
// @Produce      json
// @Param        active_only query bool false "Only active tills"
// @Success      200 {object} dto.Response{data=[]mdapp.TillResponse}
// @Security     BearerAuth
// @Router       /tills [get]
func (h *MasterDataHandler) ListTills(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	resp, err := h.service.ListTills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}

// CreateBank creates a bank
func (h *MasterDataHandler) CreateBank(c *gin.Context) {
	var req mdapp.CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateBank(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateBank renames or deactivates a bank
func (h *MasterDataHandler) UpdateBank(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req mdapp.UpdateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateBank(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBank returns one bank
func (h *MasterDataHandler) GetBank(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetBank(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListBanks lists banks by name
func (h *MasterDataHandler) ListBanks(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	resp, err := h.service.ListBanks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}

// CreateTerminal godoc
// @Summary      Create a card terminal
// @Description  commission_rate is free text; values above 1 are percentages ("2,5" is 2.5%).
// @Tags         terminals
// @Accept       json
// @Produce      json
// @Param        request body mdapp.CreateTerminalRequest true "Terminal"
// @Success      201 {object} dto.Response{data=mdapp.TerminalResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminals [post]
func (h *MasterDataHandler) CreateTerminal(c *gin.Context) {
	var req mdapp.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateTerminal(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateTerminal updates a terminal's rate, bank or state
func (h *MasterDataHandler) UpdateTerminal(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req mdapp.UpdateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateTerminal(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetTerminal returns one terminal with its bank name
func (h *MasterDataHandler) GetTerminal(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetTerminal(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTerminals lists terminals
func (h *MasterDataHandler) ListTerminals(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	resp, err := h.service.ListTerminals(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}

// CreateCashier creates a cashier
func (h *MasterDataHandler) CreateCashier(c *gin.Context) {
	var req mdapp.CreateCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateCashier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateCashier renames or deactivates a cashier
func (h *MasterDataHandler) UpdateCashier(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req mdapp.UpdateCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateCashier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetCashier returns one cashier
func (h *MasterDataHandler) GetCashier(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetCashier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCashiers lists cashiers
func (h *MasterDataHandler) ListCashiers(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	resp, err := h.service.ListCashiers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}
