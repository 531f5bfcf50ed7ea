package handler

import (
	reportapp "github.com/gestorloja/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reconciliationService *reportapp.ReconciliationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reconciliationService *reportapp.ReconciliationService) *ReportHandler {
	return &ReportHandler{reconciliationService: reconciliationService}
}

// Reconciliation godoc
// @Summary      Get the reconciliation report for a period
// @Description  Groups ledger entries by payment method and installment count
// @Tags         reports
// @Param        period  query  string  false  "Period shortcut"
// @Param        from    query  string  false  "Custom period start (RFC3339)"
// @Param        to      query  string  false  "Custom period end (RFC3339)"
// @Router       /reports/reconciliation [get]
func (h *ReportHandler) Reconciliation(c *gin.Context) {
	shortcut, from, to, err := periodBounds(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	query := reportapp.ReconciliationQuery{Period: shortcut, From: from, To: to}
	result, err := h.reconciliationService.GetReport(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/reconciliation", h.Reconciliation)
	}
}
