package handler

import (
	"time"

	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceHandler handles balance query endpoints
type BalanceHandler struct {
	BaseHandler
	balanceService *treasuryapp.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *treasuryapp.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// TotalBalanceResponse is the drawer-wide net total for a period
type TotalBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (h *BalanceHandler) bindPeriod(c *gin.Context) (valueobject.Period, bool) {
	shortcut, from, to, err := periodBounds(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return valueobject.Period{}, false
	}

	query := treasuryapp.BalanceQuery{Period: shortcut, From: from, To: to}
	period, err := query.Resolve(time.Now())
	if err != nil {
		h.BadRequest(c, err.Error())
		return valueobject.Period{}, false
	}
	return period, true
}

// ListMethodBalances godoc
// @Summary      List balances of all active payment methods
// @Tags         balances
// @Router       /treasury/balances [get]
func (h *BalanceHandler) ListMethodBalances(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	balances, err := h.balanceService.ListMethodBalances(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// TotalBalance godoc
// @Summary      Get the net total over the whole ledger
// @Tags         balances
// @Router       /treasury/balances/total [get]
func (h *BalanceHandler) TotalBalance(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	total, err := h.balanceService.TotalBalance(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, TotalBalanceResponse{Balance: total})
}

// MethodBalance godoc
// @Summary      Get the balance of one payment method
// @Tags         balances
// @Router       /treasury/balances/methods/{code} [get]
func (h *BalanceHandler) MethodBalance(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.BalanceByMethod(c.Request.Context(), c.Param("code"), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// MethodTotals godoc
// @Summary      Get separate gross and fee totals of one payment method
// @Tags         balances
// @Router       /treasury/balances/methods/{code}/totals [get]
func (h *BalanceHandler) MethodTotals(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	totals, err := h.balanceService.TotalsByMethod(c.Request.Context(), c.Param("code"), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// WalletBalance godoc
// @Summary      Get the balance of a wallet with per-method breakdown
// @Tags         balances
// @Router       /treasury/balances/wallets/{id} [get]
func (h *BalanceHandler) WalletBalance(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid wallet ID format")
		return
	}

	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.BalanceByWallet(c.Request.Context(), walletID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// RegisterRoutes registers all balance routes
func (h *BalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	balances := rg.Group("/treasury/balances")
	{
		balances.GET("", h.ListMethodBalances)
		balances.GET("/total", h.TotalBalance)
		balances.GET("/methods/:code", h.MethodBalance)
		balances.GET("/methods/:code/totals", h.MethodTotals)
		balances.GET("/wallets/:id", h.WalletBalance)
	}
}
