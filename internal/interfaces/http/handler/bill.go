package handler

import (
	payableapp "github.com/gestorloja/backend/internal/application/payable"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BillHandler handles accounts-payable endpoints. Paying a bill goes through
// POST /treasury/movements with type pagamento_conta so the ledger debit and
// the bill status change commit together.
type BillHandler struct {
	BaseHandler
	billService *payableapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *payableapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create godoc
// @Summary      Create a pending bill
// @Tags         bills
// @Accept       json
// @Param        request  body  payableapp.CreateBillRequest  true  "Bill data"
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req payableapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// Get godoc
// @Summary      Get a bill by ID
// @Tags         bills
// @Param        id  path  string  true  "Bill ID"
// @Router       /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// List godoc
// @Summary      List bills, optionally filtered by status
// @Tags         bills
// @Param        status  query  string  false  "pendente, atrasado or pago"
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.billService.ListBills(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bills)
}

// RegisterRoutes registers all bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.GET("", h.List)
		bills.GET("/:id", h.Get)
		bills.POST("", h.Create)
	}
}
