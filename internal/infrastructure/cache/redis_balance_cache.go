package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apptreasury "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/infrastructure/config"
	"github.com/gestorloja/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	balanceKeyPrefix     = "treasury:balance"
	defaultScanBatchSize = 100
	defaultBalanceTTL    = 5 * time.Minute
)

// RedisBalanceCache implements BalanceCache using Redis. Balances are stored
// as raw cent amounts keyed by (method code or wallet ID, period), so evicting
// one method never disturbs the cached balances of the others.
type RedisBalanceCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
	metrics    *telemetry.TreasuryMetrics
}

// RedisBalanceCacheOption is a functional option for configuring the cache
type RedisBalanceCacheOption func(*RedisBalanceCache)

// WithBalanceTTL sets the expiration applied to cached balances
func WithBalanceTTL(ttl time.Duration) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithBalanceCacheLogger sets the logger for the cache
func WithBalanceCacheLogger(logger *zap.Logger) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		c.logger = logger
	}
}

// WithBalanceCacheMetrics records lookup hits and misses on the given metrics
func WithBalanceCacheMetrics(metrics *telemetry.TreasuryMetrics) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		c.metrics = metrics
	}
}

// NewRedisBalanceCache creates a new Redis-backed balance cache
func NewRedisBalanceCache(cfg *config.RedisConfig, opts ...RedisBalanceCacheOption) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisBalanceCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultBalanceTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// NewRedisBalanceCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisBalanceCacheWithClient(client *redis.Client, opts ...RedisBalanceCacheOption) *RedisBalanceCache {
	cache := &RedisBalanceCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultBalanceTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// methodKey generates the cache key for a method balance
func (c *RedisBalanceCache) methodKey(code string, period valueobject.Period) string {
	return fmt.Sprintf("%s:method:%s:%s", balanceKeyPrefix, code, periodKey(period))
}

// walletKey generates the cache key for a wallet balance
func (c *RedisBalanceCache) walletKey(walletID uuid.UUID, period valueobject.Period) string {
	return fmt.Sprintf("%s:wallet:%s:%s", balanceKeyPrefix, walletID.String(), periodKey(period))
}

// periodKey renders a period as a stable key segment
func periodKey(period valueobject.Period) string {
	if period.IsAllTime() {
		return "all"
	}
	return fmt.Sprintf("%d-%d", period.Start.UTC().Unix(), period.End.UTC().Unix())
}

// GetMethodBalance returns the cached balance for a method code and period
func (c *RedisBalanceCache) GetMethodBalance(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, bool, error) {
	return c.get(ctx, c.methodKey(code, period))
}

// SetMethodBalance caches the balance for a method code and period
func (c *RedisBalanceCache) SetMethodBalance(ctx context.Context, code string, period valueobject.Period, balance valueobject.Money) error {
	return c.set(ctx, c.methodKey(code, period), balance)
}

// GetWalletBalance returns the cached balance for a wallet and period
func (c *RedisBalanceCache) GetWalletBalance(ctx context.Context, walletID uuid.UUID, period valueobject.Period) (valueobject.Money, bool, error) {
	return c.get(ctx, c.walletKey(walletID, period))
}

// SetWalletBalance caches the balance for a wallet and period
func (c *RedisBalanceCache) SetWalletBalance(ctx context.Context, walletID uuid.UUID, period valueobject.Period, balance valueobject.Money) error {
	return c.set(ctx, c.walletKey(walletID, period), balance)
}

// InvalidateMethod evicts every cached period for one method code
func (c *RedisBalanceCache) InvalidateMethod(ctx context.Context, code string) error {
	return c.invalidatePrefix(ctx, fmt.Sprintf("%s:method:%s:*", balanceKeyPrefix, code))
}

// InvalidateWallet evicts every cached period for one wallet
func (c *RedisBalanceCache) InvalidateWallet(ctx context.Context, walletID uuid.UUID) error {
	return c.invalidatePrefix(ctx, fmt.Sprintf("%s:wallet:%s:*", balanceKeyPrefix, walletID.String()))
}

func (c *RedisBalanceCache) get(ctx context.Context, key string) (valueobject.Money, bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.recordLookup(ctx, false)
		return valueobject.Zero(), false, nil
	}
	if err != nil {
		return valueobject.Zero(), false, fmt.Errorf("failed to get balance from cache: %w", err)
	}

	cents, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		// Corrupt value, treat as a miss and drop it
		c.logger.Warn("dropping corrupt cached balance", zap.String("key", key))
		c.client.Del(ctx, key)
		c.recordLookup(ctx, false)
		return valueobject.Zero(), false, nil
	}
	c.recordLookup(ctx, true)
	return valueobject.NewMoneyFromCents(cents), true, nil
}

func (c *RedisBalanceCache) recordLookup(ctx context.Context, hit bool) {
	if c.metrics == nil {
		return
	}
	result := telemetry.CacheResultMiss
	if hit {
		result = telemetry.CacheResultHit
	}
	c.metrics.RecordBalanceCacheLookup(ctx, result)
}

func (c *RedisBalanceCache) set(ctx context.Context, key string, balance valueobject.Money) error {
	value := strconv.FormatInt(balance.Cents(), 10)
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}
	return nil
}

// invalidatePrefix deletes all keys matching the pattern using SCAN to avoid
// blocking Redis with the KEYS command
func (c *RedisBalanceCache) invalidatePrefix(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close closes the Redis client if this cache owns it
func (c *RedisBalanceCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisBalanceCache implements BalanceCache
var _ apptreasury.BalanceCache = (*RedisBalanceCache)(nil)
