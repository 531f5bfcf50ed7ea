// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// TreasuryMetrics provides business metrics for the treasury ledger.
// It tracks ledger activity, bill payments, and balance cache effectiveness.
type TreasuryMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	entryRecordedTotal *Counter
	entryAmountTotal   *Counter
	billPaidTotal      *Counter
	balanceCacheTotal  *Counter

	// Gauge metrics (point-in-time values)
	billsOpenCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	billProvider OpenBillProvider
}

// OpenBillProvider provides open bill counts for periodic metrics collection.
// This interface allows the telemetry layer to query payable state without
// depending on the payable domain directly.
type OpenBillProvider interface {
	// GetOpenBillCounts returns the number of unpaid bills per status label
	// (e.g. "pendente", "atrasado").
	GetOpenBillCounts(ctx context.Context) (map[string]int64, error)
}

// TreasuryMetricsConfig holds configuration for treasury metrics.
type TreasuryMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	BillProvider    OpenBillProvider
}

// NewTreasuryMetrics creates a new TreasuryMetrics instance.
func NewTreasuryMetrics(cfg TreasuryMetricsConfig) (*TreasuryMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tm := &TreasuryMetrics{
		meter:        cfg.Meter,
		logger:       logger,
		stopChan:     make(chan struct{}),
		billProvider: cfg.BillProvider,
	}

	var err error

	tm.entryRecordedTotal, err = NewCounter(
		cfg.Meter,
		"treasury_ledger_entry_total",
		"Total number of ledger entries recorded",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	tm.entryAmountTotal, err = NewCounter(
		cfg.Meter,
		"treasury_ledger_amount_total",
		"Total net amount moved through the ledger in cents (centavos)",
		"{centavos}",
	)
	if err != nil {
		return nil, err
	}

	tm.billPaidTotal, err = NewCounter(
		cfg.Meter,
		"treasury_bill_paid_total",
		"Total number of bills paid from the drawer",
		"{bills}",
	)
	if err != nil {
		return nil, err
	}

	tm.balanceCacheTotal, err = NewCounter(
		cfg.Meter,
		"treasury_balance_cache_total",
		"Balance cache lookups by result (hit/miss)",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}

	tm.billsOpenCount, err = NewGauge(
		cfg.Meter,
		"treasury_bills_open_count",
		"Number of bills currently unpaid",
		"{bills}",
	)
	if err != nil {
		return nil, err
	}

	return tm, nil
}

// =============================================================================
// Ledger Metrics
// =============================================================================

// RecordLedgerEntry records a ledger entry event.
// This should be called from the application layer after an entry is persisted.
// Amount is the entry's net amount in cents; the absolute value is accumulated.
func (tm *TreasuryMetrics) RecordLedgerEntry(ctx context.Context, entryType, methodCode string, netAmountCents int64) {
	tm.entryRecordedTotal.Inc(ctx,
		AttrEntryType.String(entryType),
		AttrPaymentMethod.String(methodCode),
	)

	if netAmountCents < 0 {
		netAmountCents = -netAmountCents
	}
	tm.entryAmountTotal.Add(ctx, netAmountCents,
		AttrEntryType.String(entryType),
		AttrPaymentMethod.String(methodCode),
	)
}

// =============================================================================
// Bill Metrics
// =============================================================================

// RecordBillPaid records a bill payment event.
func (tm *TreasuryMetrics) RecordBillPaid(ctx context.Context, methodCode string) {
	tm.billPaidTotal.Inc(ctx,
		AttrPaymentMethod.String(methodCode),
	)
}

// =============================================================================
// Cache Metrics
// =============================================================================

// CacheResult represents the outcome of a balance cache lookup.
type CacheResult string

const (
	CacheResultHit  CacheResult = "hit"
	CacheResultMiss CacheResult = "miss"
)

// RecordBalanceCacheLookup records a balance cache lookup outcome.
func (tm *TreasuryMetrics) RecordBalanceCacheLookup(ctx context.Context, result CacheResult) {
	tm.balanceCacheTotal.Inc(ctx,
		AttrCacheResult.String(string(result)),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects open bill counts every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (tm *TreasuryMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	tm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go tm.runPeriodicCollection(ctx, interval)
	})
}

func (tm *TreasuryMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	tm.collectBillMetrics(ctx)

	for {
		select {
		case <-tm.stopChan:
			tm.logger.Info("Stopping periodic treasury metrics collection")
			return
		case <-ctx.Done():
			tm.logger.Info("Context cancelled, stopping periodic treasury metrics collection")
			return
		case <-ticker.C:
			tm.collectBillMetrics(ctx)
		}
	}
}

func (tm *TreasuryMetrics) collectBillMetrics(ctx context.Context) {
	if tm.billProvider == nil {
		return
	}

	counts, err := tm.billProvider.GetOpenBillCounts(ctx)
	if err != nil {
		tm.logger.Warn("Failed to collect open bill counts", zap.Error(err))
		return
	}

	for status, count := range counts {
		tm.billsOpenCount.Record(ctx, count,
			AttrBillStatus.String(status),
		)
	}
}

// Stop stops the periodic collection.
func (tm *TreasuryMetrics) Stop() {
	tm.stopOnce.Do(func() {
		close(tm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewTreasuryMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
