package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Save persists a new or updated bill. The paid transition is a conditional
// update on rows that are not yet pago, so a stale snapshot racing a
// concurrent payment is rejected with ErrConcurrencyConflict instead of
// booking the bill twice.
func (r *GormBillRepository) Save(ctx context.Context, bill *payable.Bill) error {
	model := models.BillModelFromDomain(bill)
	if bill.Status != payable.BillStatusPago {
		return r.db.WithContext(ctx).Save(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("id = ? AND status <> ?", bill.ID, payable.BillStatusPago).
		Updates(map[string]any{
			"status":  model.Status,
			"paid_at": model.PaidAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("id = ?", bill.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a bill by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*payable.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus lists bills with the given status ordered by due date
func (r *GormBillRepository) FindByStatus(ctx context.Context, status payable.BillStatus) ([]*payable.Bill, error) {
	var billModels []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("due_date ASC").
		Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]*payable.Bill, len(billModels))
	for i := range billModels {
		bills[i] = billModels[i].ToDomain()
	}
	return bills, nil
}

// GetOpenBillCounts counts unpaid bills grouped into pendente and atrasado.
// Atrasado is derived from pendente rows whose due date has passed.
func (r *GormBillRepository) GetOpenBillCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Overdue bool
		Count   int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Select("due_date < ? AS overdue, COUNT(*) AS count", time.Now()).
		Where("status = ?", payable.BillStatusPendente).
		Group("overdue").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{
		payable.BillStatusPendente.String(): 0,
		payable.BillStatusAtrasado.String(): 0,
	}
	for _, r := range rows {
		if r.Overdue {
			counts[payable.BillStatusAtrasado.String()] = r.Count
		} else {
			counts[payable.BillStatusPendente.String()] = r.Count
		}
	}
	return counts, nil
}

// Ensure GormBillRepository implements BillRepository
var _ payable.BillRepository = (*GormBillRepository)(nil)
