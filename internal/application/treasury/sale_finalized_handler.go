package treasury

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
)

// SaleFinalizedHandler handles SaleFinalizedEvent and recognizes the sale in
// the ledger
type SaleFinalizedHandler struct {
	saleLedger *SaleLedgerService
	logger     *zap.Logger
}

// NewSaleFinalizedHandler creates a new handler for sale finalized events
func NewSaleFinalizedHandler(saleLedger *SaleLedgerService, logger *zap.Logger) *SaleFinalizedHandler {
	return &SaleFinalizedHandler{saleLedger: saleLedger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleFinalizedHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleFinalized}
}

// Handle processes a SaleFinalizedEvent by writing the entrada_venda entries
func (h *SaleFinalizedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	finalized, ok := event.(*sales.SaleFinalizedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleFinalized, event.EventType())
	}

	h.logger.Info("processing sale finalized event",
		zap.String("sale_id", finalized.SaleID.String()),
		zap.String("number", finalized.Number),
	)
	return h.saleLedger.RecognizeSale(ctx, finalized.SaleID)
}
