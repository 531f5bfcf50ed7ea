package persistence

import (
	"context"

	"github.com/gestorloja/backend/internal/domain/report"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReconciliationReportRepository reads the grouped ledger aggregation
// using GORM. It is a pure projection over the append-only ledger.
type GormReconciliationReportRepository struct {
	db *gorm.DB
}

// NewGormReconciliationReportRepository creates a new GormReconciliationReportRepository
func NewGormReconciliationReportRepository(db *gorm.DB) *GormReconciliationReportRepository {
	return &GormReconciliationReportRepository{db: db}
}

// GetGroups returns one row per (method code, installments) pair with entries
// in the period, ordered by method code then installments
func (r *GormReconciliationReportRepository) GetGroups(ctx context.Context, period valueobject.Period) ([]report.ReconciliationGroup, error) {
	var rows []struct {
		PaymentMethodCode string
		Installments      int
		TransactionCount  int64
		GrossTotal        int64
		FeeTotal          int64
		NetTotal          int64
	}

	query := applyPeriod(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), period)

	if err := query.
		Select(`payment_method_code,
			installments,
			COUNT(*) AS transaction_count,
			COALESCE(SUM(gross_amount), 0) AS gross_total,
			COALESCE(SUM(fee_amount), 0) AS fee_total,
			COALESCE(SUM(net_amount), 0) AS net_total`).
		Group("payment_method_code, installments").
		Order("payment_method_code ASC, installments ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	groups := make([]report.ReconciliationGroup, len(rows))
	for i, row := range rows {
		groups[i] = report.ReconciliationGroup{
			PaymentMethodCode: row.PaymentMethodCode,
			Installments:      row.Installments,
			TransactionCount:  row.TransactionCount,
			GrossTotal:        valueobject.NewMoneyFromCents(row.GrossTotal),
			FeeTotal:          valueobject.NewMoneyFromCents(row.FeeTotal),
			NetTotal:          valueobject.NewMoneyFromCents(row.NetTotal),
		}
	}
	return groups, nil
}

// Ensure GormReconciliationReportRepository implements ReconciliationReportRepository
var _ report.ReconciliationReportRepository = (*GormReconciliationReportRepository)(nil)
