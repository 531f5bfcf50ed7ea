package treasury

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// SaleRefundedHandler handles SaleRefundedEvent and writes the compensating
// devolucao entries
type SaleRefundedHandler struct {
	saleLedger *SaleLedgerService
	logger     *zap.Logger
}

// NewSaleRefundedHandler creates a new handler for sale refunded events
func NewSaleRefundedHandler(saleLedger *SaleLedgerService, logger *zap.Logger) *SaleRefundedHandler {
	return &SaleRefundedHandler{saleLedger: saleLedger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleRefundedHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleRefunded}
}

// Handle processes a SaleRefundedEvent by reversing the sale's entries
func (h *SaleRefundedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	refunded, ok := event.(*sales.SaleRefundedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleRefunded, event.EventType())
	}

	h.logger.Info("processing sale refunded event",
		zap.String("sale_id", refunded.SaleID.String()),
		zap.String("number", refunded.Number),
	)

	description := "Devolução da venda " + refunded.Number
	if refunded.Reason != "" {
		description += ": " + refunded.Reason
	}
	return h.saleLedger.ReverseSale(ctx, refunded.SaleID, treasury.EntryTypeDevolucao, refunded.RefundedAt, description)
}
