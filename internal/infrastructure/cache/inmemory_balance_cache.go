package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	apptreasury "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InMemoryBalanceCache is a process-local BalanceCache for development and
// tests. It mirrors the Redis implementation's keying so invalidation
// behaves identically.
type InMemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryBalance
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryBalance struct {
	cents     int64
	expiresAt time.Time
}

// NewInMemoryBalanceCache creates an in-memory balance cache
func NewInMemoryBalanceCache(ttl time.Duration) *InMemoryBalanceCache {
	if ttl <= 0 {
		ttl = defaultBalanceTTL
	}
	return &InMemoryBalanceCache{
		entries: make(map[string]inMemoryBalance),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetMethodBalance returns the cached balance for a method code and period
func (c *InMemoryBalanceCache) GetMethodBalance(_ context.Context, code string, period valueobject.Period) (valueobject.Money, bool, error) {
	return c.get(methodMemKey(code, period))
}

// SetMethodBalance caches the balance for a method code and period
func (c *InMemoryBalanceCache) SetMethodBalance(_ context.Context, code string, period valueobject.Period, balance valueobject.Money) error {
	c.set(methodMemKey(code, period), balance)
	return nil
}

// GetWalletBalance returns the cached balance for a wallet and period
func (c *InMemoryBalanceCache) GetWalletBalance(_ context.Context, walletID uuid.UUID, period valueobject.Period) (valueobject.Money, bool, error) {
	return c.get(walletMemKey(walletID, period))
}

// SetWalletBalance caches the balance for a wallet and period
func (c *InMemoryBalanceCache) SetWalletBalance(_ context.Context, walletID uuid.UUID, period valueobject.Period, balance valueobject.Money) error {
	c.set(walletMemKey(walletID, period), balance)
	return nil
}

// InvalidateMethod evicts every cached period for one method code
func (c *InMemoryBalanceCache) InvalidateMethod(_ context.Context, code string) error {
	c.invalidatePrefix("method:" + code + ":")
	return nil
}

// InvalidateWallet evicts every cached period for one wallet
func (c *InMemoryBalanceCache) InvalidateWallet(_ context.Context, walletID uuid.UUID) error {
	c.invalidatePrefix("wallet:" + walletID.String() + ":")
	return nil
}

func methodMemKey(code string, period valueobject.Period) string {
	return "method:" + code + ":" + periodKey(period)
}

func walletMemKey(walletID uuid.UUID, period valueobject.Period) string {
	return "wallet:" + walletID.String() + ":" + periodKey(period)
}

func (c *InMemoryBalanceCache) get(key string) (valueobject.Money, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return valueobject.Zero(), false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return valueobject.Zero(), false, nil
	}
	return valueobject.NewMoneyFromCents(entry.cents), true, nil
}

func (c *InMemoryBalanceCache) set(key string, balance valueobject.Money) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = inMemoryBalance{
		cents:     balance.Cents(),
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *InMemoryBalanceCache) invalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Ensure InMemoryBalanceCache implements BalanceCache
var _ apptreasury.BalanceCache = (*InMemoryBalanceCache)(nil)
