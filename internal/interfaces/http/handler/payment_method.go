package handler

import (
	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentMethodHandler handles payment method API endpoints
type PaymentMethodHandler struct {
	BaseHandler
	methodService *treasuryapp.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodService *treasuryapp.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// Create godoc
// @Summary      Create a payment method
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Router       /payment-methods [post]
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req treasuryapp.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, method)
}

// Update godoc
// @Summary      Update a payment method
// @Tags         payment-methods
// @Router       /payment-methods/{id} [put]
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	var req treasuryapp.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.UpdatePaymentMethod(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, method)
}

// Deactivate godoc
// @Summary      Deactivate a payment method
// @Tags         payment-methods
// @Router       /payment-methods/{id} [delete]
func (h *PaymentMethodHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	if err := h.methodService.DeactivatePaymentMethod(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reactivate godoc
// @Summary      Reactivate a payment method
// @Tags         payment-methods
// @Router       /payment-methods/{id}/reactivate [post]
func (h *PaymentMethodHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	method, err := h.methodService.ReactivatePaymentMethod(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, method)
}

// LinkWalletRequest identifies the wallet a method should settle into
type LinkWalletRequest struct {
	WalletID uuid.UUID `json:"wallet_id" binding:"required"`
}

// LinkWallet godoc
// @Summary      Link a payment method to a wallet
// @Tags         payment-methods
// @Router       /payment-methods/{id}/wallet [put]
func (h *PaymentMethodHandler) LinkWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	var req LinkWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.LinkWallet(c.Request.Context(), id, req.WalletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, method)
}

// UnlinkWallet godoc
// @Summary      Unlink a payment method from its wallet
// @Tags         payment-methods
// @Router       /payment-methods/{id}/wallet [delete]
func (h *PaymentMethodHandler) UnlinkWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	method, err := h.methodService.UnlinkWallet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, method)
}

// Get godoc
// @Summary      Get a payment method
// @Tags         payment-methods
// @Router       /payment-methods/{id} [get]
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	method, err := h.methodService.GetPaymentMethod(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, method)
}

// List godoc
// @Summary      List payment methods
// @Tags         payment-methods
// @Param        active_only query bool false "Only active methods"
// @Router       /payment-methods [get]
func (h *PaymentMethodHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	methods, err := h.methodService.ListPaymentMethods(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, methods)
}

// RegisterRoutes registers all payment method routes
func (h *PaymentMethodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	methods := rg.Group("/payment-methods")
	{
		methods.GET("", h.List)
		methods.GET("/:id", h.Get)
		methods.POST("", h.Create)
		methods.PUT("/:id", h.Update)
		methods.DELETE("/:id", h.Deactivate)
		methods.POST("/:id/reactivate", h.Reactivate)
		methods.PUT("/:id/wallet", h.LinkWallet)
		methods.DELETE("/:id/wallet", h.UnlinkWallet)
	}
}
