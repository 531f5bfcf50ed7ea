package treasury

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// BalanceInvalidationHandler evicts cached balances after a mutation. It
// subscribes to MovementRecorded, which fires strictly after the writing
// transaction commits, and evicts only the method and wallet keys the
// mutation touched. A method without a wallet reference on its entries still
// invalidates the wallet it is currently linked to.
type BalanceInvalidationHandler struct {
	cache      BalanceCache
	methodRepo treasury.PaymentMethodRepository
	logger     *zap.Logger
}

// NewBalanceInvalidationHandler creates a new BalanceInvalidationHandler
func NewBalanceInvalidationHandler(
	cache BalanceCache,
	methodRepo treasury.PaymentMethodRepository,
	logger *zap.Logger,
) *BalanceInvalidationHandler {
	return &BalanceInvalidationHandler{
		cache:      cache,
		methodRepo: methodRepo,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *BalanceInvalidationHandler) EventTypes() []string {
	return []string{treasury.EventTypeMovementRecorded}
}

// Handle evicts the cache keys named by a MovementRecordedEvent
func (h *BalanceInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*treasury.MovementRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			treasury.EventTypeMovementRecorded, event.EventType())
	}

	wallets := make(map[string]bool, len(recorded.WalletIDs))
	for _, walletID := range recorded.WalletIDs {
		wallets[walletID.String()] = true
		if err := h.cache.InvalidateWallet(ctx, walletID); err != nil {
			h.logger.Warn("failed to invalidate wallet balance cache",
				zap.String("wallet_id", walletID.String()), zap.Error(err))
		}
	}

	for _, code := range recorded.MethodCodes {
		if err := h.cache.InvalidateMethod(ctx, code); err != nil {
			h.logger.Warn("failed to invalidate method balance cache",
				zap.String("code", code), zap.Error(err))
		}

		method, err := h.methodRepo.FindByCode(ctx, code)
		if err != nil || method.WalletID == nil || wallets[method.WalletID.String()] {
			continue
		}
		if err := h.cache.InvalidateWallet(ctx, *method.WalletID); err != nil {
			h.logger.Warn("failed to invalidate linked wallet balance cache",
				zap.String("wallet_id", method.WalletID.String()), zap.Error(err))
		}
	}
	return nil
}
