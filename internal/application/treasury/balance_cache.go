package treasury

import (
	"context"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BalanceCache caches computed balances keyed by method code or wallet plus
// the aggregation period. Invalidation is per method/wallet: a mutation only
// evicts the keys of the methods and wallets it touched, never the whole
// cache.
type BalanceCache interface {
	// GetMethodBalance returns the cached balance for a method code and
	// period. The second return reports a cache hit.
	GetMethodBalance(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, bool, error)

	// SetMethodBalance caches the balance for a method code and period
	SetMethodBalance(ctx context.Context, code string, period valueobject.Period, balance valueobject.Money) error

	// GetWalletBalance returns the cached balance for a wallet and period
	GetWalletBalance(ctx context.Context, walletID uuid.UUID, period valueobject.Period) (valueobject.Money, bool, error)

	// SetWalletBalance caches the balance for a wallet and period
	SetWalletBalance(ctx context.Context, walletID uuid.UUID, period valueobject.Period, balance valueobject.Money) error

	// InvalidateMethod evicts every cached period for one method code
	InvalidateMethod(ctx context.Context, code string) error

	// InvalidateWallet evicts every cached period for one wallet
	InvalidateWallet(ctx context.Context, walletID uuid.UUID) error
}
