package treasury

import (
	"strings"

	"github.com/gestorloja/backend/internal/domain/shared"
)

// AggregateTypeWallet identifies the Wallet aggregate
const AggregateTypeWallet = "Wallet"

// Wallet is a named pool of money representing a physical or digital account
type Wallet struct {
	shared.BaseAggregateRoot
	Name      string
	SortOrder int
}

// NewWallet creates a new wallet
func NewWallet(name string, sortOrder int) (*Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Wallet name cannot be empty")
	}
	w := &Wallet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SortOrder:         sortOrder,
	}
	w.AddDomainEvent(NewWalletCreatedEvent(w))
	return w, nil
}

// Rename changes the wallet name
func (w *Wallet) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Wallet name cannot be empty")
	}
	w.Name = name
	return nil
}

// SetSortOrder changes the display ordering of the wallet
func (w *Wallet) SetSortOrder(order int) {
	w.SortOrder = order
}
