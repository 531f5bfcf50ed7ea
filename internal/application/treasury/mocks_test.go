package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Create(ctx context.Context, entry *treasury.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) CreateBatch(ctx context.Context, entries []*treasury.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByReference(ctx context.Context, reference string, entryType treasury.EntryType) ([]*treasury.LedgerEntry, error) {
	args := m.Called(ctx, reference, entryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) List(ctx context.Context, filter treasury.LedgerFilter) ([]*treasury.LedgerEntry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*treasury.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerEntryRepository) SumNetByMethodCode(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, error) {
	args := m.Called(ctx, code, period)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumNetAll(ctx context.Context, period valueobject.Period) (valueobject.Money, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *MockLedgerEntryRepository) TotalsByMethodCode(ctx context.Context, code string, period valueobject.Period) (treasury.MethodTotals, error) {
	args := m.Called(ctx, code, period)
	return args.Get(0).(treasury.MethodTotals), args.Error(1)
}

// MockPaymentMethodRepository is a mock implementation of PaymentMethodRepository
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) Save(ctx context.Context, method *treasury.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindByCode(ctx context.Context, code string) (*treasury.PaymentMethod, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindByWalletID(ctx context.Context, walletID uuid.UUID) ([]*treasury.PaymentMethod, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindAll(ctx context.Context, activeOnly bool) ([]*treasury.PaymentMethod, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.PaymentMethod), args.Error(1)
}

// MockFeeScheduleRepository is a mock implementation of FeeScheduleRepository
type MockFeeScheduleRepository struct {
	mock.Mock
}

func (m *MockFeeScheduleRepository) ReplaceForMethod(ctx context.Context, methodID uuid.UUID, entries []*treasury.FeeScheduleEntry) error {
	args := m.Called(ctx, methodID, entries)
	return args.Error(0)
}

func (m *MockFeeScheduleRepository) FindByMethod(ctx context.Context, methodID uuid.UUID) ([]*treasury.FeeScheduleEntry, error) {
	args := m.Called(ctx, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.FeeScheduleEntry), args.Error(1)
}

func (m *MockFeeScheduleRepository) FindActiveByMethod(ctx context.Context, methodID uuid.UUID) ([]*treasury.FeeScheduleEntry, error) {
	args := m.Called(ctx, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.FeeScheduleEntry), args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Save(ctx context.Context, wallet *treasury.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindAll(ctx context.Context) ([]*treasury.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBillRepository is a mock implementation of BillRepository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Save(ctx context.Context, bill *payable.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*payable.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payable.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByStatus(ctx context.Context, status payable.BillStatus) ([]*payable.Bill, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payable.Bill), args.Error(1)
}

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockBalanceCache is a mock implementation of BalanceCache
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) GetMethodBalance(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, bool, error) {
	args := m.Called(ctx, code, period)
	return args.Get(0).(valueobject.Money), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) SetMethodBalance(ctx context.Context, code string, period valueobject.Period, balance valueobject.Money) error {
	args := m.Called(ctx, code, period, balance)
	return args.Error(0)
}

func (m *MockBalanceCache) GetWalletBalance(ctx context.Context, walletID uuid.UUID, period valueobject.Period) (valueobject.Money, bool, error) {
	args := m.Called(ctx, walletID, period)
	return args.Get(0).(valueobject.Money), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) SetWalletBalance(ctx context.Context, walletID uuid.UUID, period valueobject.Period, balance valueobject.Money) error {
	args := m.Called(ctx, walletID, period, balance)
	return args.Error(0)
}

func (m *MockBalanceCache) InvalidateMethod(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockBalanceCache) InvalidateWallet(ctx context.Context, walletID uuid.UUID) error {
	args := m.Called(ctx, walletID)
	return args.Error(0)
}

// testTime returns a fixed timestamp for deterministic entries
func testTime() time.Time {
	return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
}

// newTestScope wires a NoOpTransactionScope over the given mocks
func newTestScope(
	ledgerRepo treasury.LedgerEntryRepository,
	methodRepo treasury.PaymentMethodRepository,
	feeScheduleRepo treasury.FeeScheduleRepository,
	walletRepo treasury.WalletRepository,
	billRepo payable.BillRepository,
) TransactionScope {
	return NewNoOpTransactionScope(ledgerRepo, methodRepo, feeScheduleRepo, walletRepo, billRepo)
}
