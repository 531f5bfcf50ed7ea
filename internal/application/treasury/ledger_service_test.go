package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

func newLinkedMethod(t *testing.T, code string, walletID uuid.UUID) *treasury.PaymentMethod {
	t.Helper()
	method, err := treasury.NewPaymentMethod(code, code, &walletID, false, 1, valueobject.Zero(), 0)
	require.NoError(t, err)
	method.ClearDomainEvents()
	return method
}

func TestLedgerServiceRecordSangria(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()
	operatorID := uuid.New()

	ledgerRepo := new(MockLedgerEntryRepository)
	methodRepo := new(MockPaymentMethodRepository)
	publisher := new(MockEventPublisher)
	scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
	service := NewLedgerService(ledgerRepo, methodRepo, scope, publisher, NegativeBalanceAllow, zap.NewNop())

	method := newLinkedMethod(t, "dinheiro", walletID)
	methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{method}, nil)

	var written []*treasury.LedgerEntry
	ledgerRepo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).([]*treasury.LedgerEntry)
	}).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := service.RecordMovement(ctx, RecordMovementRequest{
		Type:           "sangria",
		OriginWalletID: walletID,
		Amount:         decimal.RequireFromString("200.00"),
		Reason:         "depósito bancário",
		OperatorID:     operatorID,
		OperatorName:   "João",
	})
	require.NoError(t, err)

	require.Len(t, written, 1)
	entry := written[0]
	assert.Equal(t, treasury.EntryTypeSangria, entry.Type)
	assert.Equal(t, "dinheiro", entry.PaymentMethodCode, "booked under the wallet's first linked method")
	assert.Equal(t, int64(-20000), entry.NetAmount.Cents())
	assert.Equal(t, "João", entry.OperatorName)
	assert.Len(t, resp.EntryIDs, 1)

	publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
}

func TestLedgerServiceRecordTransfer(t *testing.T) {
	ctx := context.Background()
	origin := uuid.New()
	destination := uuid.New()

	ledgerRepo := new(MockLedgerEntryRepository)
	methodRepo := new(MockPaymentMethodRepository)
	publisher := new(MockEventPublisher)
	scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
	service := NewLedgerService(ledgerRepo, methodRepo, scope, publisher, NegativeBalanceAllow, zap.NewNop())

	methodRepo.On("FindByWalletID", ctx, origin).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", origin)}, nil)
	methodRepo.On("FindByWalletID", ctx, destination).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "cofre", destination)}, nil)

	var written []*treasury.LedgerEntry
	ledgerRepo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).([]*treasury.LedgerEntry)
	}).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	_, err := service.RecordMovement(ctx, RecordMovementRequest{
		Type:                "transferencia",
		OriginWalletID:      origin,
		DestinationWalletID: &destination,
		Amount:              decimal.RequireFromString("300.00"),
		Reason:              "fechamento de caixa",
	})
	require.NoError(t, err)

	require.Len(t, written, 2, "a transfer is a linked debit and credit pair")
	debit, credit := written[0], written[1]
	assert.Equal(t, int64(-30000), debit.NetAmount.Cents())
	assert.Equal(t, int64(30000), credit.NetAmount.Cents())
	assert.True(t, debit.NetAmount.Add(credit.NetAmount).IsZero())
	require.NotNil(t, debit.CorrelationID)
	require.NotNil(t, credit.CorrelationID)
	assert.Equal(t, *debit.CorrelationID, *credit.CorrelationID, "both legs share one correlation id")
	assert.Equal(t, "dinheiro", debit.PaymentMethodCode)
	assert.Equal(t, "cofre", credit.PaymentMethodCode)
}

func TestLedgerServiceRecordBillPayment(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	newService := func(ledgerRepo *MockLedgerEntryRepository, methodRepo *MockPaymentMethodRepository, billRepo *MockBillRepository, publisher *MockEventPublisher) *LedgerService {
		scope := newTestScope(ledgerRepo, methodRepo, nil, nil, billRepo)
		return NewLedgerService(ledgerRepo, methodRepo, scope, publisher, NegativeBalanceAllow, zap.NewNop())
	}

	t.Run("debits the ledger and marks the bill paid atomically", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		billRepo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		service := newService(ledgerRepo, methodRepo, billRepo, publisher)

		bill, err := payable.NewBill("Aluguel", valueobject.NewMoneyFromCents(250000), time.Now().AddDate(0, 0, 5))
		require.NoError(t, err)

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)
		billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		billRepo.On("Save", ctx, bill).Return(nil)

		var written []*treasury.LedgerEntry
		ledgerRepo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			written = args.Get(1).([]*treasury.LedgerEntry)
		}).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err = service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "pagamento_conta",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("2500.00"),
			Reason:         "Aluguel março",
			BillID:         &bill.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, payable.BillStatusPago, bill.Status)
		require.Len(t, written, 1)
		assert.Equal(t, treasury.EntryTypePagamentoConta, written[0].Type)
		assert.Equal(t, int64(-250000), written[0].NetAmount.Cents())
		require.NotNil(t, written[0].Reference)
		assert.Equal(t, "bill:"+bill.ID.String(), *written[0].Reference)
		billRepo.AssertCalled(t, "Save", ctx, bill)
	})

	t.Run("amount mismatch rejected before any write", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		billRepo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		service := newService(ledgerRepo, methodRepo, billRepo, publisher)

		bill, err := payable.NewBill("Energia", valueobject.NewMoneyFromCents(30000), time.Now())
		require.NoError(t, err)

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)
		billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)

		_, err = service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "pagamento_conta",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("299.99"),
			BillID:         &bill.ID,
		})
		require.Error(t, err)
		assert.Equal(t, payable.BillStatusPendente, bill.Status)
		ledgerRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("already paid bill rejected", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		billRepo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		service := newService(ledgerRepo, methodRepo, billRepo, publisher)

		bill, err := payable.NewBill("Fornecedor", valueobject.NewMoneyFromCents(50000), time.Now())
		require.NoError(t, err)
		require.NoError(t, bill.MarkPaid(time.Now()))

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)
		billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)

		_, err = service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "pagamento_conta",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("500.00"),
			BillID:         &bill.ID,
		})
		require.Error(t, err)
		ledgerRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})
}

func TestLedgerServiceNegativeBalancePolicy(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	t.Run("block rejects an overdraft", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
		service := NewLedgerService(ledgerRepo, methodRepo, scope, nil, NegativeBalanceBlock, zap.NewNop())

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)
		ledgerRepo.On("SumNetByMethodCode", ctx, "dinheiro", valueobject.AllTime()).Return(valueobject.NewMoneyFromCents(10000), nil)

		_, err := service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "sangria",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("150.00"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		ledgerRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("warn records the movement anyway", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		publisher := new(MockEventPublisher)
		scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
		service := NewLedgerService(ledgerRepo, methodRepo, scope, publisher, NegativeBalanceWarn, zap.NewNop())

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)
		ledgerRepo.On("SumNetByMethodCode", ctx, "dinheiro", valueobject.AllTime()).Return(valueobject.NewMoneyFromCents(10000), nil)
		ledgerRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "sangria",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("150.00"),
		})
		require.NoError(t, err)
		ledgerRepo.AssertCalled(t, "CreateBatch", ctx, mock.Anything)
	})

	t.Run("inflows skip the balance check", func(t *testing.T) {
		ledgerRepo := new(MockLedgerEntryRepository)
		methodRepo := new(MockPaymentMethodRepository)
		publisher := new(MockEventPublisher)
		scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
		service := NewLedgerService(ledgerRepo, methodRepo, scope, publisher, NegativeBalanceBlock, zap.NewNop())

		methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)
		ledgerRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "suprimento",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("150.00"),
		})
		require.NoError(t, err)
		ledgerRepo.AssertNotCalled(t, "SumNetByMethodCode", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerServiceRecordAjuste(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	ledgerRepo := new(MockLedgerEntryRepository)
	methodRepo := new(MockPaymentMethodRepository)
	publisher := new(MockEventPublisher)
	scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
	service := NewLedgerService(ledgerRepo, methodRepo, scope, publisher, NegativeBalanceAllow, zap.NewNop())

	methodRepo.On("FindByWalletID", ctx, walletID).Return([]*treasury.PaymentMethod{newLinkedMethod(t, "dinheiro", walletID)}, nil)

	var written []*treasury.LedgerEntry
	ledgerRepo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).([]*treasury.LedgerEntry)
	}).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	_, err := service.RecordMovement(ctx, RecordMovementRequest{
		Type:           "ajuste",
		OriginWalletID: walletID,
		Amount:         decimal.RequireFromString("12.34"),
		Reason:         "diferença de caixa",
		Direction:      -1,
	})
	require.NoError(t, err)

	require.Len(t, written, 1)
	assert.Equal(t, treasury.EntryTypeAjuste, written[0].Type)
	assert.Equal(t, int64(-1234), written[0].NetAmount.Cents())
}

func TestLedgerServiceRejections(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	ledgerRepo := new(MockLedgerEntryRepository)
	methodRepo := new(MockPaymentMethodRepository)
	scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
	service := NewLedgerService(ledgerRepo, methodRepo, scope, nil, NegativeBalanceAllow, zap.NewNop())

	t.Run("unknown movement type", func(t *testing.T) {
		_, err := service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "deposito",
			OriginWalletID: walletID,
			Amount:         decimal.RequireFromString("10.00"),
		})
		assert.Error(t, err)
	})

	t.Run("wallet without linked method", func(t *testing.T) {
		bare := uuid.New()
		methodRepo.On("FindByWalletID", ctx, bare).Return([]*treasury.PaymentMethod{}, nil)

		_, err := service.RecordMovement(ctx, RecordMovementRequest{
			Type:           "suprimento",
			OriginWalletID: bare,
			Amount:         decimal.RequireFromString("10.00"),
		})
		assert.Error(t, err)
	})

	t.Run("destination on a non transfer", func(t *testing.T) {
		destination := uuid.New()
		_, err := service.RecordMovement(ctx, RecordMovementRequest{
			Type:                "sangria",
			OriginWalletID:      walletID,
			DestinationWalletID: &destination,
			Amount:              decimal.RequireFromString("10.00"),
		})
		assert.Error(t, err)
	})

	ledgerRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestLedgerServiceListEntries(t *testing.T) {
	ctx := context.Background()

	ledgerRepo := new(MockLedgerEntryRepository)
	methodRepo := new(MockPaymentMethodRepository)
	scope := newTestScope(ledgerRepo, methodRepo, nil, nil, nil)
	service := NewLedgerService(ledgerRepo, methodRepo, scope, nil, NegativeBalanceAllow, zap.NewNop())

	walletID := uuid.New()
	entry, err := treasury.NewLedgerEntry(time.Now(), treasury.EntryTypeSuprimento, "dinheiro", &walletID, 1, valueobject.NewMoneyFromCents(5000), valueobject.Zero(), 1, "")
	require.NoError(t, err)

	ledgerRepo.On("List", ctx, mock.MatchedBy(func(f treasury.LedgerFilter) bool {
		return f.Page == 1 && f.PageSize == 50 && f.PaymentMethodCode == "dinheiro"
	})).Return([]*treasury.LedgerEntry{entry}, int64(1), nil)

	resp, err := service.ListEntries(ctx, ListLedgerRequest{
		PaymentMethodCode: "dinheiro",
		Types:             []string{"suprimento"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "suprimento", resp.Entries[0].Type)

	t.Run("unknown entry type filter rejected", func(t *testing.T) {
		_, err := service.ListEntries(ctx, ListLedgerRequest{Types: []string{"estorno"}})
		assert.Error(t, err)
	})
}
