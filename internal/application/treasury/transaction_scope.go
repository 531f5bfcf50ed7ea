package treasury

import (
	"context"

	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// TransactionScope provides transactional access to treasury repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a treasury
// mutation may touch within one transaction. All repositories returned share
// the same underlying database transaction.
//
// The ledger is append-only, so LedgerRepo only ever adds rows inside a
// scope; the other repositories exist here for the mutations that must pair
// a ledger write with another state change (bill payment, wallet deletion,
// fee schedule replacement).
type TransactionalRepositories interface {
	// LedgerRepo returns the ledger entry repository scoped to the transaction
	LedgerRepo() treasury.LedgerEntryRepository
	// PaymentMethodRepo returns the payment method repository scoped to the transaction
	PaymentMethodRepo() treasury.PaymentMethodRepository
	// FeeScheduleRepo returns the fee schedule repository scoped to the transaction
	FeeScheduleRepo() treasury.FeeScheduleRepository
	// WalletRepo returns the wallet repository scoped to the transaction
	WalletRepo() treasury.WalletRepository
	// BillRepo returns the accounts-payable bill repository scoped to the transaction
	BillRepo() payable.BillRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	ledgerRepo        treasury.LedgerEntryRepository
	paymentMethodRepo treasury.PaymentMethodRepository
	feeScheduleRepo   treasury.FeeScheduleRepository
	walletRepo        treasury.WalletRepository
	billRepo          payable.BillRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	ledgerRepo treasury.LedgerEntryRepository,
	paymentMethodRepo treasury.PaymentMethodRepository,
	feeScheduleRepo treasury.FeeScheduleRepository,
	walletRepo treasury.WalletRepository,
	billRepo payable.BillRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		ledgerRepo:        ledgerRepo,
		paymentMethodRepo: paymentMethodRepo,
		feeScheduleRepo:   feeScheduleRepo,
		walletRepo:        walletRepo,
		billRepo:          billRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LedgerRepo returns the ledger entry repository.
func (s *NoOpTransactionScope) LedgerRepo() treasury.LedgerEntryRepository {
	return s.ledgerRepo
}

// PaymentMethodRepo returns the payment method repository.
func (s *NoOpTransactionScope) PaymentMethodRepo() treasury.PaymentMethodRepository {
	return s.paymentMethodRepo
}

// FeeScheduleRepo returns the fee schedule repository.
func (s *NoOpTransactionScope) FeeScheduleRepo() treasury.FeeScheduleRepository {
	return s.feeScheduleRepo
}

// WalletRepo returns the wallet repository.
func (s *NoOpTransactionScope) WalletRepo() treasury.WalletRepository {
	return s.walletRepo
}

// BillRepo returns the bill repository.
func (s *NoOpTransactionScope) BillRepo() payable.BillRepository {
	return s.billRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
