package sales

import (
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeSale identifies the Sale aggregate
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleFinalized = "SaleFinalized"
	EventTypeSaleCancelled = "SaleCancelled"
	EventTypeSaleRefunded  = "SaleRefunded"
)

// SaleFinalizedEvent is published by the sales module when a draft sale is
// committed (finalized into open, paid or partial)
type SaleFinalizedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID `json:"sale_id"`
	Number      string    `json:"number"`
	FinalizedAt time.Time `json:"finalized_at"`
}

// NewSaleFinalizedEvent creates a new SaleFinalizedEvent
func NewSaleFinalizedEvent(sale *Sale, finalizedAt time.Time) *SaleFinalizedEvent {
	return &SaleFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleFinalized, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Number:          sale.Number,
		FinalizedAt:     finalizedAt,
	}
}

// SaleCancelledEvent is published when a committed sale is canceled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	Number     string    `json:"number"`
	CanceledAt time.Time `json:"canceled_at"`
	Reason     string    `json:"reason,omitempty"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale, canceledAt time.Time, reason string) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Number:          sale.Number,
		CanceledAt:      canceledAt,
		Reason:          reason,
	}
}

// SaleRefundedEvent is published when a committed sale is refunded
type SaleRefundedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	Number     string    `json:"number"`
	RefundedAt time.Time `json:"refunded_at"`
	Reason     string    `json:"reason,omitempty"`
}

// NewSaleRefundedEvent creates a new SaleRefundedEvent
func NewSaleRefundedEvent(sale *Sale, refundedAt time.Time, reason string) *SaleRefundedEvent {
	return &SaleRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRefunded, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Number:          sale.Number,
		RefundedAt:      refundedAt,
		Reason:          reason,
	}
}
