package report

import (
	"context"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
)

// ReconciliationGroup is the aggregated ledger view for one
// (payment method code, installment count) pair
type ReconciliationGroup struct {
	PaymentMethodCode string
	MethodLabel       string
	Installments      int
	TransactionCount  int64
	GrossTotal        valueobject.Money
	FeeTotal          valueobject.Money
	NetTotal          valueobject.Money
}

// ReconciliationTotals holds the grand totals across all groups
type ReconciliationTotals struct {
	TransactionCount int64
	GrossTotal       valueobject.Money
	FeeTotal         valueobject.Money
	NetTotal         valueobject.Money
}

// ReconciliationReport is the full fee/gross/net breakdown for a period.
// A period with no entries produces an empty group list and zero totals.
type ReconciliationReport struct {
	Period valueobject.Period
	Groups []ReconciliationGroup
	Totals ReconciliationTotals
}

// ReconciliationReportRepository reads the grouped ledger aggregation.
// It is a pure projection over the append-only ledger; recomputing it over
// the same period and data yields identical results.
type ReconciliationReportRepository interface {
	// GetGroups returns one row per (method code, installments) pair with
	// entries in the period, ordered by method code then installments
	GetGroups(ctx context.Context, period valueobject.Period) ([]ReconciliationGroup, error)
}
