package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestorloja/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestNewTreasuryMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, tm)
}

func TestNewTreasuryMetrics_NilMeter(t *testing.T) {
	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, tm)
	assert.Equal(t, "NewTreasuryMetrics: meter cannot be nil", err.Error())
}

func TestTreasuryMetrics_RecordLedgerEntry(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic, including with negative net amounts
	tm.RecordLedgerEntry(ctx, "entrada_venda", "pix", 10000)
	tm.RecordLedgerEntry(ctx, "sangria", "dinheiro", -20000)
}

func TestTreasuryMetrics_RecordBillPaid(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	tm.RecordBillPaid(context.Background(), "dinheiro")
}

func TestTreasuryMetrics_RecordBalanceCacheLookup(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tm.RecordBalanceCacheLookup(ctx, telemetry.CacheResultHit)
	tm.RecordBalanceCacheLookup(ctx, telemetry.CacheResultMiss)
}

type stubBillProvider struct {
	counts map[string]int64
	err    error
	calls  chan struct{}
}

func (p *stubBillProvider) GetOpenBillCounts(ctx context.Context) (map[string]int64, error) {
	select {
	case p.calls <- struct{}{}:
	default:
	}
	return p.counts, p.err
}

func TestTreasuryMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	provider := &stubBillProvider{
		counts: map[string]int64{"pendente": 3, "atrasado": 1},
		calls:  make(chan struct{}, 1),
	}

	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter:        meter,
		Logger:       zap.NewNop(),
		BillProvider: provider,
	})
	require.NoError(t, err)
	defer tm.Stop()

	tm.StartPeriodicCollection(context.Background(), time.Hour)

	// Collection happens immediately on start
	select {
	case <-provider.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate bill count collection")
	}
}

func TestTreasuryMetrics_PeriodicCollection_ProviderError(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	provider := &stubBillProvider{
		err:   errors.New("db unavailable"),
		calls: make(chan struct{}, 1),
	}

	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter:        meter,
		Logger:       zap.NewNop(),
		BillProvider: provider,
	})
	require.NoError(t, err)
	defer tm.Stop()

	tm.StartPeriodicCollection(context.Background(), time.Hour)

	select {
	case <-provider.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("expected collection attempt despite provider error")
	}
}

func TestTreasuryMetrics_StopIsIdempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	tm, err := telemetry.NewTreasuryMetrics(telemetry.TreasuryMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	tm.Stop()
	tm.Stop()
}
