package treasury

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

func TestBalanceServiceBalanceByMethod(t *testing.T) {
	ctx := context.Background()
	period := valueobject.AllTime()

	t.Run("cache miss reads the ledger and fills the cache", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		cache := new(MockBalanceCache)
		service := NewBalanceService(ledgerRepo, methodRepo, cache, zap.NewNop())

		method, err := treasury.NewPaymentMethod("PIX", "pix", nil, false, 1, valueobject.Zero(), 0)
		require.NoError(t, err)

		cache.On("GetMethodBalance", ctx, "pix", period).Return(valueobject.Zero(), false, nil)
		ledgerRepo.On("SumNetByMethodCode", ctx, "pix", period).Return(valueobject.NewMoneyFromCents(73450), nil)
		cache.On("SetMethodBalance", ctx, "pix", period, valueobject.NewMoneyFromCents(73450)).Return(nil)
		methodRepo.On("FindByCode", ctx, "pix").Return(method, nil)

		resp, err := service.BalanceByMethod(ctx, "pix", period)
		require.NoError(t, err)

		assert.True(t, resp.Balance.Equal(decimal.RequireFromString("734.50")))
		assert.Equal(t, "PIX", resp.MethodName)
		cache.AssertCalled(t, "SetMethodBalance", ctx, "pix", period, valueobject.NewMoneyFromCents(73450))
	})

	t.Run("cache hit skips the ledger", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		cache := new(MockBalanceCache)
		service := NewBalanceService(ledgerRepo, methodRepo, cache, zap.NewNop())

		method, err := treasury.NewPaymentMethod("PIX", "pix", nil, false, 1, valueobject.Zero(), 0)
		require.NoError(t, err)

		cache.On("GetMethodBalance", ctx, "pix", period).Return(valueobject.NewMoneyFromCents(5000), true, nil)
		methodRepo.On("FindByCode", ctx, "pix").Return(method, nil)

		resp, err := service.BalanceByMethod(ctx, "pix", period)
		require.NoError(t, err)

		assert.True(t, resp.Balance.Equal(decimal.RequireFromString("50")))
		ledgerRepo.AssertNotCalled(t, "SumNetByMethodCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown code still returns the sum", func(t *testing.T) {
		// entries booked under a deactivated or removed method remain computable
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		service := NewBalanceService(ledgerRepo, methodRepo, nil, zap.NewNop())

		ledgerRepo.On("SumNetByMethodCode", ctx, "cheque", period).Return(valueobject.NewMoneyFromCents(-200), nil)
		methodRepo.On("FindByCode", ctx, "cheque").Return(nil, assert.AnError)

		resp, err := service.BalanceByMethod(ctx, "cheque", period)
		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.RequireFromString("-2")))
		assert.Empty(t, resp.MethodName)
	})
}

func TestBalanceServiceBalanceByWallet(t *testing.T) {
	ctx := context.Background()
	period := valueobject.AllTime()
	walletID := uuid.New()

	t.Run("sums the currently linked methods", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		service := NewBalanceService(ledgerRepo, methodRepo, nil, zap.NewNop())

		cash, err := treasury.NewPaymentMethod("Dinheiro", "dinheiro", &walletID, false, 1, valueobject.Zero(), 0)
		require.NoError(t, err)
		pix, err := treasury.NewPaymentMethod("PIX", "pix", &walletID, false, 1, valueobject.Zero(), 1)
		require.NoError(t, err)

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{cash, pix}, nil)
		ledgerRepo.On("SumNetByMethodCode", ctx, "dinheiro", period).Return(valueobject.NewMoneyFromCents(30000), nil)
		ledgerRepo.On("SumNetByMethodCode", ctx, "pix", period).Return(valueobject.NewMoneyFromCents(-5000), nil)

		resp, err := service.BalanceByWallet(ctx, walletID, period)
		require.NoError(t, err)

		assert.True(t, resp.Balance.Equal(decimal.RequireFromString("250")))
		require.Len(t, resp.Methods, 2)
		assert.Equal(t, "dinheiro", resp.Methods[0].PaymentMethodCode)
	})

	t.Run("wallet without methods has zero balance", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		service := NewBalanceService(ledgerRepo, methodRepo, nil, zap.NewNop())

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{}, nil)

		resp, err := service.BalanceByWallet(ctx, walletID, period)
		require.NoError(t, err)
		assert.True(t, resp.Balance.IsZero())
	})
}

func TestBalanceServiceTotalsByMethod(t *testing.T) {
	ctx := context.Background()
	period := valueobject.AllTime()

	ledgerRepo := new(MockLedgerEntryRepository)
	methodRepo := new(MockPaymentMethodRepository)
	service := NewBalanceService(ledgerRepo, methodRepo, nil, zap.NewNop())

	ledgerRepo.On("TotalsByMethodCode", ctx, "credito", period).Return(treasury.MethodTotals{
		PaymentMethodCode: "credito",
		GrossTotal:        valueobject.NewMoneyFromCents(100000),
		FeeTotal:          valueobject.NewMoneyFromCents(3500),
	}, nil)

	resp, err := service.TotalsByMethod(ctx, "credito", period)
	require.NoError(t, err)
	assert.True(t, resp.GrossTotal.Equal(decimal.RequireFromString("1000")))
	assert.True(t, resp.FeeTotal.Equal(decimal.RequireFromString("35")))
}

func TestBalanceInvalidationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts only the touched keys", func(t *testing.T) {
		cache := new(MockBalanceCache)
		methodRepo := new(MockPaymentMethodRepository)
		handler := NewBalanceInvalidationHandler(cache, methodRepo, zap.NewNop())

		walletID := uuid.New()
		entry, err := treasury.NewLedgerEntry(
			testTime(), treasury.EntryTypeSuprimento, "dinheiro", &walletID, 1,
			valueobject.NewMoneyFromCents(5000), valueobject.Zero(), 1, "")
		require.NoError(t, err)

		method, err := treasury.NewPaymentMethod("Dinheiro", "dinheiro", &walletID, false, 1, valueobject.Zero(), 0)
		require.NoError(t, err)

		cache.On("InvalidateWallet", ctx, walletID).Return(nil)
		cache.On("InvalidateMethod", ctx, "dinheiro").Return(nil)
		methodRepo.On("FindByCode", ctx, "dinheiro").Return(method, nil)

		event := treasury.NewMovementRecordedEvent([]*treasury.LedgerEntry{entry})
		require.NoError(t, handler.Handle(ctx, event))

		cache.AssertCalled(t, "InvalidateMethod", ctx, "dinheiro")
		cache.AssertCalled(t, "InvalidateWallet", ctx, walletID)
		cache.AssertNumberOfCalls(t, "InvalidateWallet", 1)
	})

	t.Run("invalidates the linked wallet of entries without one", func(t *testing.T) {
		cache := new(MockBalanceCache)
		methodRepo := new(MockPaymentMethodRepository)
		handler := NewBalanceInvalidationHandler(cache, methodRepo, zap.NewNop())

		walletID := uuid.New()
		entry, err := treasury.NewLedgerEntry(
			testTime(), treasury.EntryTypeEntradaVenda, "credito", nil, 1,
			valueobject.NewMoneyFromCents(10000), valueobject.Zero(), 1, "")
		require.NoError(t, err)

		method, err := treasury.NewPaymentMethod("Crédito", "credito", &walletID, true, 12, valueobject.Zero(), 0)
		require.NoError(t, err)

		cache.On("InvalidateMethod", ctx, "credito").Return(nil)
		cache.On("InvalidateWallet", ctx, walletID).Return(nil)
		methodRepo.On("FindByCode", ctx, "credito").Return(method, nil)

		event := treasury.NewMovementRecordedEvent([]*treasury.LedgerEntry{entry})
		require.NoError(t, handler.Handle(ctx, event))

		cache.AssertCalled(t, "InvalidateWallet", ctx, walletID)
	})

	t.Run("wrong event type rejected", func(t *testing.T) {
		cache := new(MockBalanceCache)
		methodRepo := new(MockPaymentMethodRepository)
		handler := NewBalanceInvalidationHandler(cache, methodRepo, zap.NewNop())

		method, err := treasury.NewPaymentMethod("PIX", "pix", nil, false, 1, valueobject.Zero(), 0)
		require.NoError(t, err)

		assert.Error(t, handler.Handle(ctx, treasury.NewPaymentMethodCreatedEvent(method)))
	})
}
