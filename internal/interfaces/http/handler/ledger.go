package handler

import (
	"strings"

	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles treasury movement and ledger listing endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *treasuryapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *treasuryapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RecordMovement godoc
// @Summary      Record a manual treasury movement
// @Description  Records a sangria, suprimento, transferencia, pagamento_conta,
// @Description  retirada_lucro or ajuste and writes its ledger entries atomically
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Router       /treasury/movements [post]
func (h *LedgerHandler) RecordMovement(c *gin.Context) {
	var req treasuryapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	req.OperatorID, req.OperatorName = getOperator(c)

	movement, err := h.ledgerService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListEntries godoc
// @Summary      List ledger entries
// @Tags         treasury
// @Param        period query string false "Period shortcut (today, last_7_days, last_30_days, all_time)"
// @Param        from query string false "Custom period start (RFC3339)"
// @Param        to query string false "Custom period end (RFC3339, exclusive)"
// @Param        types query string false "Comma-separated entry types"
// @Param        payment_method_code query string false "Filter by method code"
// @Param        wallet_id query string false "Filter by wallet"
// @Router       /treasury/ledger [get]
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	req, err := h.bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	list, err := h.ledgerService.ListEntries(c.Request.Context(), *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list.Entries, list.Total, list.Page, list.PageSize)
}

func (h *LedgerHandler) bindListRequest(c *gin.Context) (*treasuryapp.ListLedgerRequest, error) {
	shortcut, from, to, err := periodBounds(c)
	if err != nil {
		return nil, err
	}

	page, err := parseIntQuery(c, "page", 1)
	if err != nil {
		return nil, err
	}
	pageSize, err := parseIntQuery(c, "page_size", 50)
	if err != nil {
		return nil, err
	}

	req := &treasuryapp.ListLedgerRequest{
		Period:            shortcut,
		From:              from,
		To:                to,
		PaymentMethodCode: c.Query("payment_method_code"),
		Page:              page,
		PageSize:          pageSize,
	}

	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.Types = append(req.Types, t)
			}
		}
	}

	if raw := c.Query("wallet_id"); raw != "" {
		walletID, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		req.WalletID = &walletID
	}

	return req, nil
}

// RegisterRoutes registers all treasury ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	treasury := rg.Group("/treasury")
	{
		treasury.POST("/movements", h.RecordMovement)
		treasury.GET("/ledger", h.ListEntries)
	}
}
