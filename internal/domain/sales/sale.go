package sales

import (
	"context"
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the lifecycle status of a sale
type SaleStatus string

const (
	SaleStatusDraft    SaleStatus = "draft"
	SaleStatusOpen     SaleStatus = "open"
	SaleStatusPaid     SaleStatus = "paid"
	SaleStatusPartial  SaleStatus = "partial"
	SaleStatusCanceled SaleStatus = "canceled"
	SaleStatusRefunded SaleStatus = "refunded"
)

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusOpen, SaleStatusPaid, SaleStatusPartial,
		SaleStatusCanceled, SaleStatusRefunded:
		return true
	}
	return false
}

// IsTerminal returns true for states that produce no further ledger entries
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCanceled || s == SaleStatusRefunded
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusDraft:
		return target == SaleStatusOpen || target == SaleStatusPaid || target == SaleStatusPartial || target == SaleStatusCanceled
	case SaleStatusOpen, SaleStatusPaid, SaleStatusPartial:
		return target == SaleStatusCanceled || target == SaleStatusRefunded ||
			target == SaleStatusOpen || target == SaleStatusPaid || target == SaleStatusPartial
	case SaleStatusCanceled, SaleStatusRefunded:
		return false
	}
	return false
}

// SaleItem is one line item of a sale. Item amounts are aggregated into a
// single total per sale and checked against the payment splits before any
// ledger movement is derived.
type SaleItem struct {
	ID           uuid.UUID
	ProductRef   string
	Quantity     decimal.Decimal
	UnitPrice    valueobject.Money
	Amount       valueobject.Money
	RecordedAt   time.Time
	Collaborator string
}

// PaymentSplit is the portion of a sale paid with one method
type PaymentSplit struct {
	PaymentMethodCode string
	Installments      int
	Amount            valueobject.Money
}

// Sale is the read-side view of a sale record owned by the host application.
// The treasury engine never mutates sales; it only projects committed sales
// and their transitions into ledger entries.
type Sale struct {
	ID          uuid.UUID
	Number      string
	Status      SaleStatus
	SellerName  string
	Items       []SaleItem
	Payments    []PaymentSplit
	TotalAmount valueobject.Money
	FinalizedAt *time.Time
	CanceledAt  *time.Time
	RefundedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCommitted reports whether the sale's value has been recognized.
// A sale is committed iff it is no longer a draft and either carries a
// finalization timestamp or holds a post-draft lifecycle status.
func (s *Sale) IsCommitted() bool {
	if s.Status == SaleStatusDraft {
		return false
	}
	if s.FinalizedAt != nil {
		return true
	}
	switch s.Status {
	case SaleStatusOpen, SaleStatusPaid, SaleStatusPartial, SaleStatusCanceled, SaleStatusRefunded:
		return true
	}
	return false
}

// ItemsTotal aggregates the line-item amounts into one value per sale.
// Negative lines (returned items) reduce the total.
func (s *Sale) ItemsTotal() valueobject.Money {
	total := valueobject.Zero()
	for _, item := range s.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// ValidateSplits checks that the payment splits cover the sale total and,
// when line items are present, that the items add up to the same total
func (s *Sale) ValidateSplits() error {
	if len(s.Payments) == 0 {
		return shared.NewDomainError("MISSING_PAYMENTS", "Sale has no payment splits")
	}
	if len(s.Items) > 0 && !s.ItemsTotal().Equals(s.TotalAmount) {
		return shared.NewDomainError("ITEMS_MISMATCH", "Line items do not add up to the sale total")
	}
	total := valueobject.Zero()
	for _, split := range s.Payments {
		if split.PaymentMethodCode == "" {
			return shared.NewDomainError("INVALID_SPLIT", "Payment split is missing a method code")
		}
		if !split.Amount.IsPositive() {
			return shared.NewDomainError("INVALID_SPLIT", "Payment split amount must be positive")
		}
		total = total.Add(split.Amount)
	}
	if !total.Equals(s.TotalAmount) {
		return shared.NewDomainError("SPLIT_MISMATCH", "Payment splits do not add up to the sale total")
	}
	return nil
}

// SaleRepository provides read-only access to sale records
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
}
