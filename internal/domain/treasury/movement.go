package treasury

import (
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// MovementType classifies a manual treasury movement submitted by an operator
type MovementType string

const (
	MovementTypeSangria        MovementType = "sangria"
	MovementTypeSuprimento     MovementType = "suprimento"
	MovementTypeTransferencia  MovementType = "transferencia"
	MovementTypePagamentoConta MovementType = "pagamento_conta"
	MovementTypeRetiradaLucro  MovementType = "retirada_lucro"
	MovementTypeAjuste         MovementType = "ajuste"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSangria, MovementTypeSuprimento, MovementTypeTransferencia,
		MovementTypePagamentoConta, MovementTypeRetiradaLucro, MovementTypeAjuste:
		return true
	}
	return false
}

// RequiresDestination returns true when the movement needs a destination wallet
func (t MovementType) RequiresDestination() bool {
	return t == MovementTypeTransferencia
}

// RequiresBill returns true when the movement needs an accounts-payable bill
func (t MovementType) RequiresBill() bool {
	return t == MovementTypePagamentoConta
}

// IsOutflow returns true when the movement debits the origin wallet
func (t MovementType) IsOutflow() bool {
	switch t {
	case MovementTypeSangria, MovementTypeTransferencia,
		MovementTypePagamentoConta, MovementTypeRetiradaLucro:
		return true
	}
	return false
}

// EntryType returns the ledger entry type this movement produces
func (t MovementType) EntryType() EntryType {
	switch t {
	case MovementTypeSangria:
		return EntryTypeSangria
	case MovementTypeSuprimento:
		return EntryTypeSuprimento
	case MovementTypeTransferencia:
		return EntryTypeTransferencia
	case MovementTypePagamentoConta:
		return EntryTypePagamentoConta
	case MovementTypeRetiradaLucro:
		return EntryTypeRetiradaLucro
	case MovementTypeAjuste:
		return EntryTypeAjuste
	}
	return ""
}

// TreasuryMovement is the input record for a manual treasury operation.
// It is immutable once accepted and exists only to produce ledger entries;
// each movement type spells out which fields it requires, so validation
// rejects an ill-formed movement before anything is written.
type TreasuryMovement struct {
	ID                  uuid.UUID
	Type                MovementType
	OriginWalletID      uuid.UUID
	DestinationWalletID *uuid.UUID
	Amount              valueobject.Money
	Reason              string
	BillID              *uuid.UUID
	OperatorID          uuid.UUID
	OperatorName        string
	OccurredAt          time.Time
}

// NewTreasuryMovement creates and validates a treasury movement.
// All type-specific requirements are checked here, before persistence.
func NewTreasuryMovement(movementType MovementType, originWalletID uuid.UUID, destinationWalletID *uuid.UUID, amount valueobject.Money, reason string, billID *uuid.UUID, operatorID uuid.UUID, operatorName string, occurredAt time.Time) (*TreasuryMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown treasury movement type")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Movement amount must be positive")
	}
	if originWalletID == uuid.Nil {
		return nil, shared.NewDomainError("MISSING_ORIGIN_WALLET", "Movement requires an origin wallet")
	}
	if movementType.RequiresDestination() {
		if destinationWalletID == nil || *destinationWalletID == uuid.Nil {
			return nil, shared.NewDomainError("MISSING_DESTINATION_WALLET", "Transfer requires a destination wallet")
		}
		if *destinationWalletID == originWalletID {
			return nil, shared.NewDomainError("SAME_WALLET_TRANSFER", "Transfer origin and destination wallets must differ")
		}
	} else if destinationWalletID != nil {
		return nil, shared.NewDomainError("UNEXPECTED_DESTINATION", "Only transfers carry a destination wallet")
	}
	if movementType.RequiresBill() {
		if billID == nil || *billID == uuid.Nil {
			return nil, shared.NewDomainError("MISSING_BILL", "Bill payment requires a bill reference")
		}
	} else if billID != nil {
		return nil, shared.NewDomainError("UNEXPECTED_BILL", "Only bill payments carry a bill reference")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &TreasuryMovement{
		ID:                  uuid.New(),
		Type:                movementType,
		OriginWalletID:      originWalletID,
		DestinationWalletID: destinationWalletID,
		Amount:              amount,
		Reason:              reason,
		BillID:              billID,
		OperatorID:          operatorID,
		OperatorName:        operatorName,
		OccurredAt:          occurredAt,
	}, nil
}
