package treasury

import (
	"context"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethodRepository defines persistence for the PaymentMethod aggregate
type PaymentMethodRepository interface {
	// Save persists a new or updated payment method
	Save(ctx context.Context, method *PaymentMethod) error

	// FindByID finds a payment method by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)

	// FindByCode finds a payment method by its code, active or inactive.
	// Codes are never reused, so this lookup is unambiguous.
	FindByCode(ctx context.Context, code string) (*PaymentMethod, error)

	// ExistsByCode reports whether any method, active or inactive, uses the code
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// FindByWalletID returns the methods linked to a wallet ordered by sort order
	FindByWalletID(ctx context.Context, walletID uuid.UUID) ([]*PaymentMethod, error)

	// FindAll lists payment methods ordered by sort order
	FindAll(ctx context.Context, activeOnly bool) ([]*PaymentMethod, error)
}

// FeeScheduleRepository defines persistence for fee schedule entries
type FeeScheduleRepository interface {
	// ReplaceForMethod atomically replaces the full schedule of a method.
	// Callers needing all-or-nothing semantics run it inside a TransactionScope.
	ReplaceForMethod(ctx context.Context, methodID uuid.UUID, entries []*FeeScheduleEntry) error

	// FindByMethod returns all schedule entries of a method ordered by installments
	FindByMethod(ctx context.Context, methodID uuid.UUID) ([]*FeeScheduleEntry, error)

	// FindActiveByMethod returns only the active entries of a method
	FindActiveByMethod(ctx context.Context, methodID uuid.UUID) ([]*FeeScheduleEntry, error)
}

// WalletRepository defines persistence for the Wallet aggregate
type WalletRepository interface {
	// Save persists a new or updated wallet
	Save(ctx context.Context, wallet *Wallet) error

	// FindByID finds a wallet by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// FindAll lists wallets ordered by sort order
	FindAll(ctx context.Context) ([]*Wallet, error)

	// Delete removes a wallet. Unlinking dependent payment methods is the
	// caller's responsibility and happens in the same transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerFilter bounds ledger queries
type LedgerFilter struct {
	Period            valueobject.Period
	Types             []EntryType
	PaymentMethodCode string
	WalletID          *uuid.UUID
	Page              int
	PageSize          int
}

// MethodTotals holds the separate gross and fee sums for one method
type MethodTotals struct {
	PaymentMethodCode string
	GrossTotal        valueobject.Money
	FeeTotal          valueobject.Money
}

// LedgerEntryRepository defines persistence for the append-only ledger.
// Entries are only ever created; there is no update or delete.
type LedgerEntryRepository interface {
	// Create appends a single entry
	Create(ctx context.Context, entry *LedgerEntry) error

	// CreateBatch appends several entries produced by one mutation
	CreateBatch(ctx context.Context, entries []*LedgerEntry) error

	// FindByID finds an entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByReference returns the entries of a given type carrying a reference,
	// ordered by occurrence time
	FindByReference(ctx context.Context, reference string, entryType EntryType) ([]*LedgerEntry, error)

	// List returns entries matching the filter, newest first, with the total count
	List(ctx context.Context, filter LedgerFilter) ([]*LedgerEntry, int64, error)

	// SumNetByMethodCode sums the signed net amounts for one method code in a period
	SumNetByMethodCode(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, error)

	// SumNetAll sums the signed net amounts of every entry in a period
	SumNetAll(ctx context.Context, period valueobject.Period) (valueobject.Money, error)

	// TotalsByMethodCode returns the separate gross and fee sums for one method
	// code in a period, independent of the signed net aggregation
	TotalsByMethodCode(ctx context.Context, code string, period valueobject.Period) (MethodTotals, error)
}
