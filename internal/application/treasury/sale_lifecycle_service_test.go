package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/gestorloja/backend/internal/infrastructure/event"
)

func TestNotifyTransition(t *testing.T) {
	ctx := context.Background()

	newService := func(saleRepo *MockSaleRepository, publisher *MockEventPublisher) *SaleLifecycleService {
		return NewSaleLifecycleService(saleRepo, publisher, zap.NewNop())
	}

	t.Run("finalized notification publishes the finalized event", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		publisher := new(MockEventPublisher)
		sale := committedSale(t, sales.PaymentSplit{PaymentMethodCode: "pix", Installments: 1, Amount: valueobject.NewMoneyFromCents(5000)})

		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		var published []shared.DomainEvent
		publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			published = args.Get(1).([]shared.DomainEvent)
		}).Return(nil)

		err := newService(saleRepo, publisher).NotifyTransition(ctx, sale.ID, SaleLifecycleRequest{Transition: SaleTransitionFinalized})
		require.NoError(t, err)

		require.Len(t, published, 1)
		finalized, ok := published[0].(*sales.SaleFinalizedEvent)
		require.True(t, ok)
		assert.Equal(t, sale.ID, finalized.SaleID)
		assert.Equal(t, sale.Number, finalized.Number)
		assert.True(t, sale.FinalizedAt.Equal(finalized.FinalizedAt))
	})

	t.Run("cancelled notification carries the reason and cancellation time", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		publisher := new(MockEventPublisher)
		canceledAt := time.Now().Add(-time.Hour)
		sale := committedSale(t, sales.PaymentSplit{PaymentMethodCode: "pix", Installments: 1, Amount: valueobject.NewMoneyFromCents(5000)})
		sale.Status = sales.SaleStatusCanceled
		sale.CanceledAt = &canceledAt

		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		var published []shared.DomainEvent
		publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			published = args.Get(1).([]shared.DomainEvent)
		}).Return(nil)

		err := newService(saleRepo, publisher).NotifyTransition(ctx, sale.ID, SaleLifecycleRequest{
			Transition: SaleTransitionCancelled,
			Reason:     "cliente desistiu",
		})
		require.NoError(t, err)

		require.Len(t, published, 1)
		cancelled, ok := published[0].(*sales.SaleCancelledEvent)
		require.True(t, ok)
		assert.Equal(t, "cliente desistiu", cancelled.Reason)
		assert.True(t, canceledAt.Equal(cancelled.CanceledAt))
	})

	t.Run("finalized notification for a draft sale is rejected", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		publisher := new(MockEventPublisher)
		sale := &sales.Sale{ID: uuid.New(), Status: sales.SaleStatusDraft}

		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		err := newService(saleRepo, publisher).NotifyTransition(ctx, sale.ID, SaleLifecycleRequest{Transition: SaleTransitionFinalized})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("refunded notification disagreeing with the stored status is rejected", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		publisher := new(MockEventPublisher)
		sale := committedSale(t, sales.PaymentSplit{PaymentMethodCode: "pix", Installments: 1, Amount: valueobject.NewMoneyFromCents(5000)})

		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		err := newService(saleRepo, publisher).NotifyTransition(ctx, sale.ID, SaleLifecycleRequest{Transition: SaleTransitionRefunded})
		require.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("unknown sale propagates not found", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		publisher := new(MockEventPublisher)
		saleID := uuid.New()

		saleRepo.On("FindByID", ctx, saleID).Return(nil, shared.ErrNotFound)

		err := newService(saleRepo, publisher).NotifyTransition(ctx, saleID, SaleLifecycleRequest{Transition: SaleTransitionFinalized})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// A committed sale notified through the bus must land in the ledger without
// any caller invoking the projection directly.
func TestNotifyTransition_ReachesLedgerThroughBus(t *testing.T) {
	ctx := context.Background()
	f := newSaleLedgerFixture()

	pix, err := treasury.NewPaymentMethod("PIX", "pix", nil, false, 1, valueobject.Zero(), 0)
	require.NoError(t, err)

	sale := committedSale(t, sales.PaymentSplit{PaymentMethodCode: "pix", Installments: 1, Amount: valueobject.NewMoneyFromCents(5000)})

	f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	f.ledgerRepo.On("FindByReference", ctx, SaleReference(sale.ID), treasury.EntryTypeEntradaVenda).Return([]*treasury.LedgerEntry{}, nil)
	f.methodRepo.On("FindByCode", ctx, "pix").Return(pix, nil)
	f.feeScheduleRepo.On("FindActiveByMethod", ctx, pix.ID).Return([]*treasury.FeeScheduleEntry{}, nil)
	f.ledgerRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewSaleFinalizedHandler(f.service, zap.NewNop()))
	require.NoError(t, bus.Start(ctx))
	defer func() { require.NoError(t, bus.Stop(ctx)) }()

	lifecycle := NewSaleLifecycleService(f.saleRepo, bus, zap.NewNop())
	require.NoError(t, lifecycle.NotifyTransition(ctx, sale.ID, SaleLifecycleRequest{Transition: SaleTransitionFinalized}))

	f.ledgerRepo.AssertCalled(t, "CreateBatch", ctx, mock.Anything)
}
