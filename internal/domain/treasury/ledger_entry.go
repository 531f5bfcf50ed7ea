package treasury

import (
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AggregateTypeLedgerEntry identifies the LedgerEntry aggregate
const AggregateTypeLedgerEntry = "LedgerEntry"

// EntryType classifies a ledger entry. The Portuguese codes are the stable
// wire values the rest of the application reads.
type EntryType string

const (
	// EntryTypeEntradaVenda is the recognition of a committed sale
	EntryTypeEntradaVenda EntryType = "entrada_venda"
	// EntryTypeCancelamento reverses an entrada_venda after cancellation
	EntryTypeCancelamento EntryType = "cancelamento"
	// EntryTypeDevolucao reverses an entrada_venda after a refund
	EntryTypeDevolucao EntryType = "devolucao"
	// EntryTypeSangria is a manual cash withdrawal from a wallet
	EntryTypeSangria EntryType = "sangria"
	// EntryTypeSuprimento is a manual cash injection into a wallet
	EntryTypeSuprimento EntryType = "suprimento"
	// EntryTypeTransferencia is one leg of a wallet-to-wallet transfer
	EntryTypeTransferencia EntryType = "transferencia"
	// EntryTypePagamentoConta is the debit created when a bill is paid
	EntryTypePagamentoConta EntryType = "pagamento_conta"
	// EntryTypeRetiradaLucro is a profit withdrawal from a wallet
	EntryTypeRetiradaLucro EntryType = "retirada_lucro"
	// EntryTypeAjuste is a signed manual correction
	EntryTypeAjuste EntryType = "ajuste"
	// EntryTypeInventario records a stock-taking valuation movement
	EntryTypeInventario EntryType = "inventario"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is known
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeEntradaVenda, EntryTypeCancelamento, EntryTypeDevolucao,
		EntryTypeSangria, EntryTypeSuprimento, EntryTypeTransferencia,
		EntryTypePagamentoConta, EntryTypeRetiradaLucro,
		EntryTypeAjuste, EntryTypeInventario:
		return true
	}
	return false
}

// Sign returns +1 for inflow types and -1 for outflow types. Reversal and
// transfer types have no fixed sign; their direction comes from the
// originating entry or the transfer leg, so Sign returns 0 for them.
func (t EntryType) Sign() int {
	switch t {
	case EntryTypeEntradaVenda, EntryTypeSuprimento:
		return 1
	case EntryTypeSangria, EntryTypePagamentoConta, EntryTypeRetiradaLucro:
		return -1
	}
	return 0
}

// IsReversal returns true for the types that compensate an entrada_venda
func (t EntryType) IsReversal() bool {
	return t == EntryTypeCancelamento || t == EntryTypeDevolucao
}

// LedgerEntry is an immutable, append-only record of one financial movement.
// Entries are never edited or deleted; corrections are new reversal entries.
// NetAmount carries the sign: positive moves money in, negative moves it out,
// and |NetAmount| = GrossAmount - FeeAmount always holds.
type LedgerEntry struct {
	shared.BaseEntity
	OccurredAt        time.Time
	Type              EntryType
	PaymentMethodCode string
	WalletID          *uuid.UUID
	Installments      int
	GrossAmount       valueobject.Money
	FeeAmount         valueobject.Money
	NetAmount         valueobject.Money
	Description       string
	Reference         *string
	CorrelationID     *uuid.UUID
	OperatorID        *uuid.UUID
	OperatorName      string
}

// NewLedgerEntry creates a ledger entry with an explicit direction.
// gross and fee are magnitudes; direction must be +1 or -1.
func NewLedgerEntry(occurredAt time.Time, entryType EntryType, paymentMethodCode string, walletID *uuid.UUID, installments int, gross, fee valueobject.Money, direction int, description string) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Unknown ledger entry type")
	}
	if paymentMethodCode == "" {
		return nil, shared.NewDomainError("INVALID_METHOD_CODE", "Payment method code cannot be empty")
	}
	if direction != 1 && direction != -1 {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Entry direction must be +1 or -1")
	}
	if gross.IsNegative() || fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Gross and fee amounts must be non-negative")
	}
	if fee.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee cannot exceed gross amount")
	}
	if installments < 1 {
		installments = 1
	}
	if s := entryType.Sign(); s != 0 && s != direction {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Entry direction contradicts the entry type")
	}

	net := gross.Subtract(fee)
	if direction < 0 {
		net = net.Negate()
	}

	return &LedgerEntry{
		BaseEntity:        shared.NewBaseEntity(),
		OccurredAt:        occurredAt,
		Type:              entryType,
		PaymentMethodCode: paymentMethodCode,
		WalletID:          walletID,
		Installments:      installments,
		GrossAmount:       gross,
		FeeAmount:         fee,
		NetAmount:         net,
		Description:       description,
	}, nil
}

// NewSaleEntry creates the entrada_venda entry recognizing a committed sale
func NewSaleEntry(occurredAt time.Time, paymentMethodCode string, walletID *uuid.UUID, installments int, gross, fee valueobject.Money, description, saleRef string) (*LedgerEntry, error) {
	entry, err := NewLedgerEntry(occurredAt, EntryTypeEntradaVenda, paymentMethodCode, walletID, installments, gross, fee, 1, description)
	if err != nil {
		return nil, err
	}
	entry.Reference = &saleRef
	return entry, nil
}

// NewReversalEntry creates the compensating entry for an entrada_venda.
// The reversal carries the opposite net of the original, the same gross,
// fee, method, wallet and reference, and is timestamped at reversal time.
func NewReversalEntry(original *LedgerEntry, reversalType EntryType, occurredAt time.Time, description string) (*LedgerEntry, error) {
	if !reversalType.IsReversal() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Reversal type must be cancelamento or devolucao")
	}
	if original.Type != EntryTypeEntradaVenda {
		return nil, shared.NewDomainError("INVALID_STATE", "Only entrada_venda entries can be reversed")
	}

	correlation := original.ID
	return &LedgerEntry{
		BaseEntity:        shared.NewBaseEntity(),
		OccurredAt:        occurredAt,
		Type:              reversalType,
		PaymentMethodCode: original.PaymentMethodCode,
		WalletID:          original.WalletID,
		Installments:      original.Installments,
		GrossAmount:       original.GrossAmount,
		FeeAmount:         original.FeeAmount,
		NetAmount:         original.NetAmount.Negate(),
		Description:       description,
		Reference:         original.Reference,
		CorrelationID:     &correlation,
	}, nil
}

// NewTransferLeg creates one leg of a wallet-to-wallet transfer. Both legs
// share the correlation id so they can be matched during reconciliation.
func NewTransferLeg(occurredAt time.Time, paymentMethodCode string, walletID uuid.UUID, amount valueobject.Money, direction int, correlationID uuid.UUID, description string) (*LedgerEntry, error) {
	entry, err := NewLedgerEntry(occurredAt, EntryTypeTransferencia, paymentMethodCode, &walletID, 1, amount, valueobject.Zero(), direction, description)
	if err != nil {
		return nil, err
	}
	entry.CorrelationID = &correlationID
	return entry, nil
}

// WithReference attaches an external document reference (sale, OS or bill id)
func (e *LedgerEntry) WithReference(reference string) *LedgerEntry {
	e.Reference = &reference
	return e
}

// WithOperator attaches the operator identity for audit
func (e *LedgerEntry) WithOperator(operatorID uuid.UUID, operatorName string) *LedgerEntry {
	e.OperatorID = &operatorID
	e.OperatorName = operatorName
	return e
}

// IsInflow returns true when the entry moves money into its wallet/method
func (e *LedgerEntry) IsInflow() bool {
	return e.NetAmount.IsPositive()
}
