package treasury

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// SaleCancelledHandler handles SaleCancelledEvent and writes the
// compensating cancelamento entries
type SaleCancelledHandler struct {
	saleLedger *SaleLedgerService
	logger     *zap.Logger
}

// NewSaleCancelledHandler creates a new handler for sale cancelled events
func NewSaleCancelledHandler(saleLedger *SaleLedgerService, logger *zap.Logger) *SaleCancelledHandler {
	return &SaleCancelledHandler{saleLedger: saleLedger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleCancelledHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCancelled}
}

// Handle processes a SaleCancelledEvent by reversing the sale's entries
func (h *SaleCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*sales.SaleCancelledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleCancelled, event.EventType())
	}

	h.logger.Info("processing sale cancelled event",
		zap.String("sale_id", cancelled.SaleID.String()),
		zap.String("number", cancelled.Number),
	)

	description := "Cancelamento da venda " + cancelled.Number
	if cancelled.Reason != "" {
		description += ": " + cancelled.Reason
	}
	return h.saleLedger.ReverseSale(ctx, cancelled.SaleID, treasury.EntryTypeCancelamento, cancelled.CanceledAt, description)
}
