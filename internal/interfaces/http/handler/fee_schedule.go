package handler

import (
	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeScheduleHandler handles fee schedule API endpoints
type FeeScheduleHandler struct {
	BaseHandler
	feeService *treasuryapp.FeeScheduleService
}

// NewFeeScheduleHandler creates a new FeeScheduleHandler
func NewFeeScheduleHandler(feeService *treasuryapp.FeeScheduleService) *FeeScheduleHandler {
	return &FeeScheduleHandler{feeService: feeService}
}

// Save godoc
// @Summary      Replace the fee schedule of a payment method
// @Tags         fee-schedules
// @Router       /payment-methods/{id}/fee-schedule [put]
func (h *FeeScheduleHandler) Save(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	var req treasuryapp.SaveFeeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.feeService.SaveSchedule(c.Request.Context(), methodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Get godoc
// @Summary      Get the fee schedule of a payment method
// @Tags         fee-schedules
// @Router       /payment-methods/{id}/fee-schedule [get]
func (h *FeeScheduleHandler) Get(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	entries, err := h.feeService.GetSchedule(c.Request.Context(), methodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// PreviewNet godoc
// @Summary      Preview the net amount of a hypothetical charge
// @Tags         fee-schedules
// @Param        gross query string true "Gross amount"
// @Param        installments query int false "Installment count (default 1)"
// @Router       /payment-methods/{id}/fee-schedule/preview [get]
func (h *FeeScheduleHandler) PreviewNet(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	gross, err := decimal.NewFromString(c.Query("gross"))
	if err != nil {
		h.BadRequest(c, "gross must be a decimal number")
		return
	}

	installments, err := parseIntQuery(c, "installments", 1)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.feeService.PreviewNet(c.Request.Context(), methodID, gross, installments)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// RegisterRoutes registers all fee schedule routes
func (h *FeeScheduleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payment-methods/:id/fee-schedule", h.Get)
	rg.PUT("/payment-methods/:id/fee-schedule", h.Save)
	rg.GET("/payment-methods/:id/fee-schedule/preview", h.PreviewNet)
}
