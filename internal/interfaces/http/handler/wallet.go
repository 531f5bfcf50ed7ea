package handler

import (
	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet API endpoints
type WalletHandler struct {
	BaseHandler
	walletService *treasuryapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *treasuryapp.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// Create godoc
// @Summary      Create a wallet
// @Tags         wallets
// @Router       /wallets [post]
func (h *WalletHandler) Create(c *gin.Context) {
	var req treasuryapp.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	wallet, err := h.walletService.CreateWallet(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wallet)
}

// Update godoc
// @Summary      Rename or reorder a wallet
// @Tags         wallets
// @Router       /wallets/{id} [put]
func (h *WalletHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid wallet ID format")
		return
	}

	var req treasuryapp.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	wallet, err := h.walletService.UpdateWallet(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wallet)
}

// Get godoc
// @Summary      Get a wallet
// @Tags         wallets
// @Router       /wallets/{id} [get]
func (h *WalletHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid wallet ID format")
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wallet)
}

// List godoc
// @Summary      List wallets
// @Tags         wallets
// @Router       /wallets [get]
func (h *WalletHandler) List(c *gin.Context) {
	wallets, err := h.walletService.ListWallets(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wallets)
}

// Delete godoc
// @Summary      Delete a wallet
// @Tags         wallets
// @Router       /wallets/{id} [delete]
func (h *WalletHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid wallet ID format")
		return
	}

	if err := h.walletService.DeleteWallet(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all wallet routes
func (h *WalletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wallets := rg.Group("/wallets")
	{
		wallets.GET("", h.List)
		wallets.GET("/:id", h.Get)
		wallets.POST("", h.Create)
		wallets.PUT("/:id", h.Update)
		wallets.DELETE("/:id", h.Delete)
	}
}
