package treasury

import (
	"strings"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AggregateTypePaymentMethod identifies the PaymentMethod aggregate
const AggregateTypePaymentMethod = "PaymentMethod"

// PaymentMethod represents a way customers pay (cash, PIX, credit card, ...),
// optionally linked to one wallet. The code is the stable identifier ledger
// entries carry; it is immutable after creation and never reused, so the
// ledger stays computable even after the method is deactivated.
type PaymentMethod struct {
	shared.BaseAggregateRoot
	Name                   string
	Code                   string
	WalletID               *uuid.UUID
	AcceptsInstallments    bool
	MaxInstallments        int
	MinValueForInstallment valueobject.Money
	IsActive               bool
	SortOrder              int
}

// NewPaymentMethod creates a new payment method
func NewPaymentMethod(name, code string, walletID *uuid.UUID, acceptsInstallments bool, maxInstallments int, minValueForInstallment valueobject.Money, sortOrder int) (*PaymentMethod, error) {
	name = strings.TrimSpace(name)
	code = strings.ToLower(strings.TrimSpace(code))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Payment method name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Payment method code cannot be empty")
	}
	if strings.ContainsAny(code, " \t\n") {
		return nil, shared.NewDomainError("INVALID_CODE", "Payment method code cannot contain whitespace")
	}
	if maxInstallments < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Max installments must be at least 1")
	}
	if !acceptsInstallments && maxInstallments > 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Max installments must be 1 when installments are not accepted")
	}
	if minValueForInstallment.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MIN_VALUE", "Minimum value for installments cannot be negative")
	}

	m := &PaymentMethod{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		Name:                   name,
		Code:                   code,
		WalletID:               walletID,
		AcceptsInstallments:    acceptsInstallments,
		MaxInstallments:        maxInstallments,
		MinValueForInstallment: minValueForInstallment,
		IsActive:               true,
		SortOrder:              sortOrder,
	}
	m.AddDomainEvent(NewPaymentMethodCreatedEvent(m))
	return m, nil
}

// Update changes the mutable fields of the method. The code is immutable.
func (m *PaymentMethod) Update(name string, acceptsInstallments bool, maxInstallments int, minValueForInstallment valueobject.Money, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Payment method name cannot be empty")
	}
	if maxInstallments < 1 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Max installments must be at least 1")
	}
	if !acceptsInstallments && maxInstallments > 1 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Max installments must be 1 when installments are not accepted")
	}
	if minValueForInstallment.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_VALUE", "Minimum value for installments cannot be negative")
	}

	m.Name = name
	m.AcceptsInstallments = acceptsInstallments
	m.MaxInstallments = maxInstallments
	m.MinValueForInstallment = minValueForInstallment
	m.SortOrder = sortOrder
	m.AddDomainEvent(NewPaymentMethodUpdatedEvent(m))
	return nil
}

// LinkWallet links the method to a wallet
func (m *PaymentMethod) LinkWallet(walletID uuid.UUID) {
	m.WalletID = &walletID
}

// UnlinkWallet removes the wallet linkage without touching anything else.
// Historical ledger entries keep their wallet reference.
func (m *PaymentMethod) UnlinkWallet() {
	m.WalletID = nil
}

// Deactivate soft-deletes the method. Ledger entries referencing the code
// are unaffected; computed balances never change retroactively.
func (m *PaymentMethod) Deactivate() error {
	if !m.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Payment method is already inactive")
	}
	m.IsActive = false
	m.AddDomainEvent(NewPaymentMethodDeactivatedEvent(m))
	return nil
}

// Reactivate re-enables a previously deactivated method
func (m *PaymentMethod) Reactivate() error {
	if m.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Payment method is already active")
	}
	m.IsActive = true
	return nil
}

// AllowsInstallments reports whether the given installment count is valid
// for a purchase of the given gross amount
func (m *PaymentMethod) AllowsInstallments(installments int, gross valueobject.Money) bool {
	if installments < 1 {
		return false
	}
	if installments == 1 {
		return true
	}
	if !m.AcceptsInstallments || installments > m.MaxInstallments {
		return false
	}
	return !gross.LessThan(m.MinValueForInstallment)
}
