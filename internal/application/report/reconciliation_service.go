package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorloja/backend/internal/domain/report"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// ReconciliationService provides application-level reconciliation report
// operations
type ReconciliationService struct {
	reportRepo report.ReconciliationReportRepository
	methodRepo treasury.PaymentMethodRepository
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	reportRepo report.ReconciliationReportRepository,
	methodRepo treasury.PaymentMethodRepository,
) *ReconciliationService {
	return &ReconciliationService{
		reportRepo: reportRepo,
		methodRepo: methodRepo,
	}
}

// ReconciliationGroupResponse is one (method, installments) row of the report
type ReconciliationGroupResponse struct {
	PaymentMethodCode string          `json:"payment_method_code"`
	MethodLabel       string          `json:"method_label"`
	Installments      int             `json:"installments"`
	TransactionCount  int64           `json:"transaction_count"`
	GrossTotal        decimal.Decimal `json:"gross_total"`
	FeeTotal          decimal.Decimal `json:"fee_total"`
	NetTotal          decimal.Decimal `json:"net_total"`
}

// ReconciliationReportResponse is the full report for one period
type ReconciliationReportResponse struct {
	PeriodStart      *time.Time                    `json:"period_start,omitempty"`
	PeriodEnd        *time.Time                    `json:"period_end,omitempty"`
	Groups           []ReconciliationGroupResponse `json:"groups"`
	TransactionCount int64                         `json:"transaction_count"`
	GrossTotal       decimal.Decimal               `json:"gross_total"`
	FeeTotal         decimal.Decimal               `json:"fee_total"`
	NetTotal         decimal.Decimal               `json:"net_total"`
}

// ReconciliationQuery bounds a report request
type ReconciliationQuery struct {
	Period valueobject.PeriodShortcut `form:"period"`
	From   *time.Time                 `form:"from"`
	To     *time.Time                 `form:"to"`
}

// GetReport builds the reconciliation report for a period: one row per
// (payment method code, installment count) pair plus grand totals. A period
// without entries yields an empty group list and zero totals. Codes whose
// method was deactivated or removed keep appearing with the raw code as
// label, so historical fees stay auditable.
func (s *ReconciliationService) GetReport(ctx context.Context, query ReconciliationQuery) (*ReconciliationReportResponse, error) {
	period, err := resolvePeriod(query, time.Now())
	if err != nil {
		return nil, err
	}

	groups, err := s.reportRepo.GetGroups(ctx, period)
	if err != nil {
		return nil, err
	}

	labels, err := s.methodLabels(ctx)
	if err != nil {
		return nil, err
	}

	totals := report.ReconciliationTotals{
		GrossTotal: valueobject.Zero(),
		FeeTotal:   valueobject.Zero(),
		NetTotal:   valueobject.Zero(),
	}
	responses := make([]ReconciliationGroupResponse, 0, len(groups))
	for _, group := range groups {
		label := labels[group.PaymentMethodCode]
		if label == "" {
			label = group.PaymentMethodCode
		}

		totals.TransactionCount += group.TransactionCount
		totals.GrossTotal = totals.GrossTotal.Add(group.GrossTotal)
		totals.FeeTotal = totals.FeeTotal.Add(group.FeeTotal)
		totals.NetTotal = totals.NetTotal.Add(group.NetTotal)

		responses = append(responses, ReconciliationGroupResponse{
			PaymentMethodCode: group.PaymentMethodCode,
			MethodLabel:       label,
			Installments:      group.Installments,
			TransactionCount:  group.TransactionCount,
			GrossTotal:        group.GrossTotal.Decimal(),
			FeeTotal:          group.FeeTotal.Decimal(),
			NetTotal:          group.NetTotal.Decimal(),
		})
	}

	response := &ReconciliationReportResponse{
		Groups:           responses,
		TransactionCount: totals.TransactionCount,
		GrossTotal:       totals.GrossTotal.Decimal(),
		FeeTotal:         totals.FeeTotal.Decimal(),
		NetTotal:         totals.NetTotal.Decimal(),
	}
	if !period.IsAllTime() {
		response.PeriodStart = &period.Start
		response.PeriodEnd = &period.End
	}
	return response, nil
}

// methodLabels maps every known method code, active or not, to its display
// name
func (s *ReconciliationService) methodLabels(ctx context.Context) (map[string]string, error) {
	methods, err := s.methodRepo.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(methods))
	for _, method := range methods {
		labels[method.Code] = method.Name
	}
	return labels, nil
}

func resolvePeriod(query ReconciliationQuery, now time.Time) (valueobject.Period, error) {
	if query.From != nil || query.To != nil {
		var start, end time.Time
		if query.From != nil {
			start = *query.From
		}
		if query.To != nil {
			end = *query.To
		}
		return valueobject.NewPeriod(start, end)
	}
	return valueobject.FromShortcut(query.Period, now)
}
