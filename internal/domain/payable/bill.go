package payable

import (
	"context"
	"strings"
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BillStatus represents the payment status of an accounts-payable bill
type BillStatus string

const (
	BillStatusPendente BillStatus = "pendente"
	BillStatusAtrasado BillStatus = "atrasado"
	BillStatusPago     BillStatus = "pago"
)

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPendente, BillStatusAtrasado, BillStatusPago:
		return true
	}
	return false
}

// Bill is an accounts-payable record owned by the financial back-office.
// The treasury engine only ever marks a bill paid, and does so inside the
// same transaction that writes the pagamento_conta ledger debit.
type Bill struct {
	shared.BaseEntity
	Description string
	Amount      valueobject.Money
	DueDate     time.Time
	Status      BillStatus
	PaidAt      *time.Time
}

// NewBill creates a pending bill
func NewBill(description string, amount valueobject.Money, dueDate time.Time) (*Bill, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Bill description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bill amount must be positive")
	}
	return &Bill{
		BaseEntity:  shared.NewBaseEntity(),
		Description: description,
		Amount:      amount,
		DueDate:     dueDate,
		Status:      BillStatusPendente,
	}, nil
}

// IsOverdue reports whether an unpaid bill is past its due date
func (b *Bill) IsOverdue(now time.Time) bool {
	return b.Status != BillStatusPago && now.After(b.DueDate)
}

// MarkPaid transitions the bill to pago. Paying an already paid bill is an
// invalid state transition, never a silent no-op, so a duplicated
// pagamento_conta movement cannot produce a second ledger debit.
func (b *Bill) MarkPaid(paidAt time.Time) error {
	if b.Status == BillStatusPago {
		return shared.NewDomainError("INVALID_STATE", "Bill is already paid")
	}
	b.Status = BillStatusPago
	b.PaidAt = &paidAt
	return nil
}

// BillRepository defines persistence for accounts-payable bills
type BillRepository interface {
	// Save persists a new or updated bill. Saving a paid snapshot of a
	// bill that is already pago returns ErrConcurrencyConflict.
	Save(ctx context.Context, bill *Bill) error

	// FindByID finds a bill by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByStatus lists bills with the given status ordered by due date
	FindByStatus(ctx context.Context, status BillStatus) ([]*Bill, error)
}
