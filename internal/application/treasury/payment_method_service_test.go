package treasury

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

func TestPaymentMethodServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with a unique code", func(t *testing.T) {
		methodRepo := new(MockPaymentMethodRepository)
		walletRepo := new(MockWalletRepository)
		publisher := new(MockEventPublisher)
		service := NewPaymentMethodService(methodRepo, walletRepo, publisher)

		methodRepo.On("ExistsByCode", ctx, "pix").Return(false, nil)
		methodRepo.On("Save", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := service.CreatePaymentMethod(ctx, CreatePaymentMethodRequest{
			Name: "PIX",
			Code: "PIX",
		})
		require.NoError(t, err)
		assert.Equal(t, "pix", resp.Code)
		assert.Equal(t, 1, resp.MaxInstallments, "zero defaults to one")
		assert.True(t, resp.IsActive)
	})

	t.Run("taken code rejected even when inactive", func(t *testing.T) {
		methodRepo := new(MockPaymentMethodRepository)
		walletRepo := new(MockWalletRepository)
		service := NewPaymentMethodService(methodRepo, walletRepo, nil)

		methodRepo.On("ExistsByCode", ctx, "pix").Return(true, nil)

		_, err := service.CreatePaymentMethod(ctx, CreatePaymentMethodRequest{Name: "PIX 2", Code: "pix"})
		require.Error(t, err)
		methodRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown wallet rejected", func(t *testing.T) {
		methodRepo := new(MockPaymentMethodRepository)
		walletRepo := new(MockWalletRepository)
		service := NewPaymentMethodService(methodRepo, walletRepo, nil)

		walletID := uuid.New()
		methodRepo.On("ExistsByCode", ctx, "dinheiro").Return(false, nil)
		walletRepo.On("FindByID", ctx, walletID).Return(nil, shared.ErrNotFound)

		_, err := service.CreatePaymentMethod(ctx, CreatePaymentMethodRequest{
			Name:     "Dinheiro",
			Code:     "dinheiro",
			WalletID: &walletID,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("installment settings validated", func(t *testing.T) {
		methodRepo := new(MockPaymentMethodRepository)
		walletRepo := new(MockWalletRepository)
		service := NewPaymentMethodService(methodRepo, walletRepo, nil)

		_, err := service.CreatePaymentMethod(ctx, CreatePaymentMethodRequest{
			Name:                   "Crédito",
			Code:                   "credito",
			AcceptsInstallments:    true,
			MaxInstallments:        12,
			MinValueForInstallment: decimal.RequireFromString("-1"),
		})
		assert.Error(t, err)
	})
}

func TestPaymentMethodServiceUpdate(t *testing.T) {
	ctx := context.Background()
	methodRepo := new(MockPaymentMethodRepository)
	walletRepo := new(MockWalletRepository)
	publisher := new(MockEventPublisher)
	service := NewPaymentMethodService(methodRepo, walletRepo, publisher)

	method := newCreditMethod(t)
	methodRepo.On("FindByID", ctx, method.ID).Return(method, nil)
	methodRepo.On("Save", ctx, method).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := service.UpdatePaymentMethod(ctx, method.ID, UpdatePaymentMethodRequest{
		Name:                "Cartão de Crédito",
		AcceptsInstallments: true,
		MaxInstallments:     6,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cartão de Crédito", resp.Name)
	assert.Equal(t, "credito", resp.Code, "code survives every update")
	assert.Equal(t, 6, resp.MaxInstallments)
}

func TestPaymentMethodServiceDeactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete", func(t *testing.T) {
		methodRepo := new(MockPaymentMethodRepository)
		walletRepo := new(MockWalletRepository)
		publisher := new(MockEventPublisher)
		service := NewPaymentMethodService(methodRepo, walletRepo, publisher)

		method := newCreditMethod(t)
		methodRepo.On("FindByID", ctx, method.ID).Return(method, nil)
		methodRepo.On("Save", ctx, method).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		require.NoError(t, service.DeactivatePaymentMethod(ctx, method.ID))
		assert.False(t, method.IsActive)
	})

	t.Run("reactivate restores", func(t *testing.T) {
		methodRepo := new(MockPaymentMethodRepository)
		walletRepo := new(MockWalletRepository)
		service := NewPaymentMethodService(methodRepo, walletRepo, nil)

		method := newCreditMethod(t)
		require.NoError(t, method.Deactivate())
		method.ClearDomainEvents()

		methodRepo.On("FindByID", ctx, method.ID).Return(method, nil)
		methodRepo.On("Save", ctx, method).Return(nil)

		resp, err := service.ReactivatePaymentMethod(ctx, method.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
	})
}

func TestPaymentMethodServiceWalletLink(t *testing.T) {
	ctx := context.Background()
	methodRepo := new(MockPaymentMethodRepository)
	walletRepo := new(MockWalletRepository)
	service := NewPaymentMethodService(methodRepo, walletRepo, nil)

	method := newCreditMethod(t)
	wallet, err := treasury.NewWallet("Banco", 0)
	require.NoError(t, err)

	methodRepo.On("FindByID", ctx, method.ID).Return(method, nil)
	methodRepo.On("Save", ctx, method).Return(nil)
	walletRepo.On("FindByID", ctx, wallet.ID).Return(wallet, nil)

	resp, err := service.LinkWallet(ctx, method.ID, wallet.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.WalletID)
	assert.Equal(t, wallet.ID, *resp.WalletID)

	resp, err = service.UnlinkWallet(ctx, method.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.WalletID)
}

func TestPaymentMethodServiceList(t *testing.T) {
	ctx := context.Background()
	methodRepo := new(MockPaymentMethodRepository)
	walletRepo := new(MockWalletRepository)
	service := NewPaymentMethodService(methodRepo, walletRepo, nil)

	first, err := treasury.NewPaymentMethod("Dinheiro", "dinheiro", nil, false, 1, valueobject.Zero(), 0)
	require.NoError(t, err)
	second, err := treasury.NewPaymentMethod("PIX", "pix", nil, false, 1, valueobject.Zero(), 1)
	require.NoError(t, err)

	methodRepo.On("FindAll", ctx, true).Return([]*treasury.PaymentMethod{first, second}, nil)

	responses, err := service.ListPaymentMethods(ctx, true)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "dinheiro", responses[0].Code)
	assert.Equal(t, "pix", responses[1].Code)
}
