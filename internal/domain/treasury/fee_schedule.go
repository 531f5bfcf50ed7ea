package treasury

import (
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeScheduleEntry defines the processor fee for one installment count of a
// payment method: a percentage of the gross plus a fixed amount. The pair
// (PaymentMethodID, Installments) is unique; an absent entry means zero fee.
type FeeScheduleEntry struct {
	shared.BaseEntity
	PaymentMethodID uuid.UUID
	Installments    int
	FeePercentage   decimal.Decimal
	FeeFixed        valueobject.Money
	DaysToReceive   int
	Description     string
	IsActive        bool
}

// NewFeeScheduleEntry creates a fee schedule entry. Negative percentages or
// fixed fees are rejected so a schedule can never silently inflate nets.
func NewFeeScheduleEntry(paymentMethodID uuid.UUID, installments int, feePercentage decimal.Decimal, feeFixed valueobject.Money, daysToReceive int, description string) (*FeeScheduleEntry, error) {
	if paymentMethodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method ID cannot be empty")
	}
	if installments < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count must be at least 1")
	}
	if feePercentage.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Fee percentage cannot be negative")
	}
	if feeFixed.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Fixed fee cannot be negative")
	}
	if daysToReceive < 0 {
		return nil, shared.NewDomainError("INVALID_DAYS", "Days to receive cannot be negative")
	}

	return &FeeScheduleEntry{
		BaseEntity:      shared.NewBaseEntity(),
		PaymentMethodID: paymentMethodID,
		Installments:    installments,
		FeePercentage:   feePercentage,
		FeeFixed:        feeFixed,
		DaysToReceive:   daysToReceive,
		Description:     description,
		IsActive:        true,
	}, nil
}

// Fee computes the fee for a gross amount under this entry,
// rounded to the centavo
func (e *FeeScheduleEntry) Fee(gross valueobject.Money) valueobject.Money {
	return gross.CalculatePercentage(e.FeePercentage).Add(e.FeeFixed)
}

// FeeSchedule is the set of fee entries for one payment method, indexed by
// installment count. Missing installment counts default to zero fee.
type FeeSchedule struct {
	PaymentMethodID uuid.UUID
	entries         map[int]*FeeScheduleEntry
}

// NewFeeSchedule builds a schedule from the active entries of a method
func NewFeeSchedule(paymentMethodID uuid.UUID, entries []*FeeScheduleEntry) *FeeSchedule {
	indexed := make(map[int]*FeeScheduleEntry, len(entries))
	for _, entry := range entries {
		if entry.PaymentMethodID == paymentMethodID && entry.IsActive {
			indexed[entry.Installments] = entry
		}
	}
	return &FeeSchedule{PaymentMethodID: paymentMethodID, entries: indexed}
}

// EntryFor returns the active entry for an installment count, or nil
func (s *FeeSchedule) EntryFor(installments int) *FeeScheduleEntry {
	return s.entries[installments]
}

// Fee returns the fee for a gross amount at the given installment count.
// Zero when no entry exists.
func (s *FeeSchedule) Fee(gross valueobject.Money, installments int) valueobject.Money {
	entry := s.entries[installments]
	if entry == nil {
		return valueobject.Zero()
	}
	return entry.Fee(gross)
}

// ComputeNet returns gross minus the applicable fee. With no schedule entry
// for the installment count the gross passes through unchanged.
func (s *FeeSchedule) ComputeNet(gross valueobject.Money, installments int) valueobject.Money {
	return gross.Subtract(s.Fee(gross, installments))
}
