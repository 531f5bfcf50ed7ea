package persistence

import (
	"context"

	apptreasury "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptreasury.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// LedgerRepo returns the ledger entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LedgerRepo() treasury.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// PaymentMethodRepo returns the payment method repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PaymentMethodRepo() treasury.PaymentMethodRepository {
	return NewGormPaymentMethodRepository(r.tx)
}

// FeeScheduleRepo returns the fee schedule repository scoped to the current transaction.
func (r *gormTransactionalRepositories) FeeScheduleRepo() treasury.FeeScheduleRepository {
	return NewGormFeeScheduleRepository(r.tx)
}

// WalletRepo returns the wallet repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WalletRepo() treasury.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

// BillRepo returns the accounts-payable bill repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BillRepo() payable.BillRepository {
	return NewGormBillRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apptreasury.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apptreasury.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
