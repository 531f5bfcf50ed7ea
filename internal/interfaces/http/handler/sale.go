package handler

import (
	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler receives sale lifecycle notifications from the host
// application. The engine never writes sales: the host commits the sale
// record first and then calls this endpoint, which verifies the transition
// and publishes the lifecycle event that drives the ledger projection.
type SaleHandler struct {
	BaseHandler
	lifecycleService *treasuryapp.SaleLifecycleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(lifecycleService *treasuryapp.SaleLifecycleService) *SaleHandler {
	return &SaleHandler{lifecycleService: lifecycleService}
}

// Notify godoc
// @Summary      Notify a sale lifecycle transition
// @Tags         sales
// @Accept       json
// @Param        id       path  string                            true  "Sale ID"
// @Param        request  body  treasuryapp.SaleLifecycleRequest  true  "Transition data"
// @Router       /sales/{id}/lifecycle [post]
func (h *SaleHandler) Notify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req treasuryapp.SaleLifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	if err := h.lifecycleService.NotifyTransition(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, gin.H{"sale_id": id, "transition": req.Transition})
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("/:id/lifecycle", h.Notify)
	}
}
