package treasury

import (
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypePaymentMethodCreated     = "PaymentMethodCreated"
	EventTypePaymentMethodUpdated     = "PaymentMethodUpdated"
	EventTypePaymentMethodDeactivated = "PaymentMethodDeactivated"
	EventTypeWalletCreated            = "WalletCreated"
	EventTypeWalletDeleted            = "WalletDeleted"
	EventTypeFeeScheduleSaved         = "FeeScheduleSaved"
	EventTypeMovementRecorded         = "MovementRecorded"
)

// PaymentMethodCreatedEvent is published when a payment method is created
type PaymentMethodCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentMethodID uuid.UUID  `json:"payment_method_id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	WalletID        *uuid.UUID `json:"wallet_id,omitempty"`
}

// NewPaymentMethodCreatedEvent creates a new PaymentMethodCreatedEvent
func NewPaymentMethodCreatedEvent(method *PaymentMethod) *PaymentMethodCreatedEvent {
	return &PaymentMethodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentMethodCreated, AggregateTypePaymentMethod, method.ID),
		PaymentMethodID: method.ID,
		Code:            method.Code,
		Name:            method.Name,
		WalletID:        method.WalletID,
	}
}

// PaymentMethodUpdatedEvent is published when a payment method is updated
type PaymentMethodUpdatedEvent struct {
	shared.BaseDomainEvent
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
}

// NewPaymentMethodUpdatedEvent creates a new PaymentMethodUpdatedEvent
func NewPaymentMethodUpdatedEvent(method *PaymentMethod) *PaymentMethodUpdatedEvent {
	return &PaymentMethodUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentMethodUpdated, AggregateTypePaymentMethod, method.ID),
		PaymentMethodID: method.ID,
		Code:            method.Code,
		Name:            method.Name,
	}
}

// PaymentMethodDeactivatedEvent is published when a payment method is
// soft-deleted. Historical ledger entries keep referencing its code.
type PaymentMethodDeactivatedEvent struct {
	shared.BaseDomainEvent
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	Code            string    `json:"code"`
}

// NewPaymentMethodDeactivatedEvent creates a new PaymentMethodDeactivatedEvent
func NewPaymentMethodDeactivatedEvent(method *PaymentMethod) *PaymentMethodDeactivatedEvent {
	return &PaymentMethodDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentMethodDeactivated, AggregateTypePaymentMethod, method.ID),
		PaymentMethodID: method.ID,
		Code:            method.Code,
	}
}

// WalletCreatedEvent is published when a wallet is created
type WalletCreatedEvent struct {
	shared.BaseDomainEvent
	WalletID uuid.UUID `json:"wallet_id"`
	Name     string    `json:"name"`
}

// NewWalletCreatedEvent creates a new WalletCreatedEvent
func NewWalletCreatedEvent(wallet *Wallet) *WalletCreatedEvent {
	return &WalletCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletCreated, AggregateTypeWallet, wallet.ID),
		WalletID:        wallet.ID,
		Name:            wallet.Name,
	}
}

// WalletDeletedEvent is published after a wallet has been removed and its
// payment methods unlinked
type WalletDeletedEvent struct {
	shared.BaseDomainEvent
	WalletID        uuid.UUID   `json:"wallet_id"`
	UnlinkedMethods []uuid.UUID `json:"unlinked_methods"`
}

// NewWalletDeletedEvent creates a new WalletDeletedEvent
func NewWalletDeletedEvent(walletID uuid.UUID, unlinkedMethods []uuid.UUID) *WalletDeletedEvent {
	return &WalletDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletDeleted, AggregateTypeWallet, walletID),
		WalletID:        walletID,
		UnlinkedMethods: unlinkedMethods,
	}
}

// FeeScheduleSavedEvent is published after an atomic bulk save of a
// payment method's fee schedule
type FeeScheduleSavedEvent struct {
	shared.BaseDomainEvent
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	EntryCount      int       `json:"entry_count"`
}

// NewFeeScheduleSavedEvent creates a new FeeScheduleSavedEvent
func NewFeeScheduleSavedEvent(paymentMethodID uuid.UUID, entryCount int) *FeeScheduleSavedEvent {
	return &FeeScheduleSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeScheduleSaved, AggregateTypePaymentMethod, paymentMethodID),
		PaymentMethodID: paymentMethodID,
		EntryCount:      entryCount,
	}
}

// MovementRecordedEvent is published strictly after the transaction that
// wrote one or more ledger entries commits. It carries every (wallet, method
// code) pair the mutation touched so balance caches can invalidate only
// those keys.
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	EntryIDs    []uuid.UUID `json:"entry_ids"`
	WalletIDs   []uuid.UUID `json:"wallet_ids"`
	MethodCodes []string    `json:"method_codes"`
}

// NewMovementRecordedEvent creates a MovementRecordedEvent from the entries
// written by one committed mutation
func NewMovementRecordedEvent(entries []*LedgerEntry) *MovementRecordedEvent {
	entryIDs := make([]uuid.UUID, 0, len(entries))
	walletSeen := make(map[uuid.UUID]bool)
	codeSeen := make(map[string]bool)
	walletIDs := make([]uuid.UUID, 0, len(entries))
	methodCodes := make([]string, 0, len(entries))

	var aggID uuid.UUID
	for _, entry := range entries {
		entryIDs = append(entryIDs, entry.ID)
		if aggID == uuid.Nil {
			aggID = entry.ID
		}
		if entry.WalletID != nil && !walletSeen[*entry.WalletID] {
			walletSeen[*entry.WalletID] = true
			walletIDs = append(walletIDs, *entry.WalletID)
		}
		if !codeSeen[entry.PaymentMethodCode] {
			codeSeen[entry.PaymentMethodCode] = true
			methodCodes = append(methodCodes, entry.PaymentMethodCode)
		}
	}

	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementRecorded, AggregateTypeLedgerEntry, aggID),
		EntryIDs:        entryIDs,
		WalletIDs:       walletIDs,
		MethodCodes:     methodCodes,
	}
}
