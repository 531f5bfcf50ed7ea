package payable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
)

// BillService provides application-level accounts-payable operations.
// Paying a bill is NOT done here: the treasury ledger service owns that
// mutation so the ledger debit and the status change share one transaction.
type BillService struct {
	billRepo payable.BillRepository
}

// NewBillService creates a new BillService
func NewBillService(billRepo payable.BillRepository) *BillService {
	return &BillService{billRepo: billRepo}
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateBillRequest represents a request to create a bill
type CreateBillRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
}

func toBillResponse(bill *payable.Bill, now time.Time) *BillResponse {
	status := bill.Status
	if status == payable.BillStatusPendente && bill.IsOverdue(now) {
		status = payable.BillStatusAtrasado
	}
	return &BillResponse{
		ID:          bill.ID,
		Description: bill.Description,
		Amount:      bill.Amount.Decimal(),
		DueDate:     bill.DueDate,
		Status:      status.String(),
		PaidAt:      bill.PaidAt,
		CreatedAt:   bill.CreatedAt,
	}
}

// CreateBill creates a pending bill
func (s *BillService) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	bill, err := payable.NewBill(req.Description, valueobject.NewMoneyFromDecimal(req.Amount), req.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	return toBillResponse(bill, time.Now()), nil
}

// GetBill returns one bill by ID. Pending bills past their due date render
// as atrasado without being rewritten.
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBillResponse(bill, time.Now()), nil
}

// ListBills lists bills filtered by status, ordered by due date
func (s *BillService) ListBills(ctx context.Context, status string) ([]*BillResponse, error) {
	billStatus := payable.BillStatus(status)
	if status != "" && !billStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown bill status")
	}

	var bills []*payable.Bill
	var err error
	if status == "" {
		// unfiltered: pending and overdue first, then paid
		pending, err := s.billRepo.FindByStatus(ctx, payable.BillStatusPendente)
		if err != nil {
			return nil, err
		}
		paid, err := s.billRepo.FindByStatus(ctx, payable.BillStatusPago)
		if err != nil {
			return nil, err
		}
		bills = append(pending, paid...)
	} else if billStatus == payable.BillStatusAtrasado {
		// atrasado is derived from pendente plus due date, not stored
		pending, err := s.billRepo.FindByStatus(ctx, payable.BillStatusPendente)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		for _, bill := range pending {
			if bill.IsOverdue(now) {
				bills = append(bills, bill)
			}
		}
	} else {
		bills, err = s.billRepo.FindByStatus(ctx, billStatus)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	responses := make([]*BillResponse, 0, len(bills))
	for _, bill := range bills {
		responses = append(responses, toBillResponse(bill, now))
	}
	return responses, nil
}
