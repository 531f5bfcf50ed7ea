package treasury

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// MovementMetricsRecorder receives per-entry measurements. Implemented by
// the telemetry layer; a nil recorder disables the handler.
type MovementMetricsRecorder interface {
	RecordLedgerEntry(ctx context.Context, entryType, methodCode string, netAmountCents int64)
	RecordBillPaid(ctx context.Context, methodCode string)
}

// LedgerMetricsHandler feeds ledger measurements to the metrics recorder.
// It subscribes to MovementRecorded and loads the committed entries, so the
// counters only ever reflect rows that actually exist in the ledger.
type LedgerMetricsHandler struct {
	ledgerRepo treasury.LedgerEntryRepository
	recorder   MovementMetricsRecorder
	logger     *zap.Logger
}

// NewLedgerMetricsHandler creates a new LedgerMetricsHandler
func NewLedgerMetricsHandler(
	ledgerRepo treasury.LedgerEntryRepository,
	recorder MovementMetricsRecorder,
	logger *zap.Logger,
) *LedgerMetricsHandler {
	return &LedgerMetricsHandler{
		ledgerRepo: ledgerRepo,
		recorder:   recorder,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerMetricsHandler) EventTypes() []string {
	return []string{treasury.EventTypeMovementRecorded}
}

// Handle records one measurement per committed ledger entry
func (h *LedgerMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.recorder == nil {
		return nil
	}

	recorded, ok := event.(*treasury.MovementRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			treasury.EventTypeMovementRecorded, event.EventType())
	}

	for _, entryID := range recorded.EntryIDs {
		entry, err := h.ledgerRepo.FindByID(ctx, entryID)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("skipping metrics for ledger entry",
					zap.String("entry_id", entryID.String()),
					zap.Error(err),
				)
			}
			continue
		}

		h.recorder.RecordLedgerEntry(ctx, entry.Type.String(), entry.PaymentMethodCode, entry.NetAmount.Cents())
		if entry.Type == treasury.EntryTypePagamentoConta {
			h.recorder.RecordBillPaid(ctx, entry.PaymentMethodCode)
		}
	}
	return nil
}
