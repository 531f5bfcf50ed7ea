package persistence

import (
	"context"

	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/gestorloja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeeScheduleRepository implements FeeScheduleRepository using GORM
type GormFeeScheduleRepository struct {
	db *gorm.DB
}

// NewGormFeeScheduleRepository creates a new GormFeeScheduleRepository
func NewGormFeeScheduleRepository(db *gorm.DB) *GormFeeScheduleRepository {
	return &GormFeeScheduleRepository{db: db}
}

// ReplaceForMethod atomically replaces the full schedule of a method.
// When the repository is scoped to a transaction the delete and inserts
// commit or roll back together with the rest of the scope.
func (r *GormFeeScheduleRepository) ReplaceForMethod(ctx context.Context, methodID uuid.UUID, entries []*treasury.FeeScheduleEntry) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("payment_method_id = ?", methodID).
		Delete(&models.FeeScheduleEntryModel{}).Error; err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	entryModels := make([]*models.FeeScheduleEntryModel, len(entries))
	for i, entry := range entries {
		entryModels[i] = models.FeeScheduleEntryModelFromDomain(entry)
	}
	return db.Create(&entryModels).Error
}

// FindByMethod returns all schedule entries of a method ordered by installments
func (r *GormFeeScheduleRepository) FindByMethod(ctx context.Context, methodID uuid.UUID) ([]*treasury.FeeScheduleEntry, error) {
	return r.find(ctx, methodID, false)
}

// FindActiveByMethod returns only the active entries of a method
func (r *GormFeeScheduleRepository) FindActiveByMethod(ctx context.Context, methodID uuid.UUID) ([]*treasury.FeeScheduleEntry, error) {
	return r.find(ctx, methodID, true)
}

func (r *GormFeeScheduleRepository) find(ctx context.Context, methodID uuid.UUID, activeOnly bool) ([]*treasury.FeeScheduleEntry, error) {
	query := r.db.WithContext(ctx).Where("payment_method_id = ?", methodID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var entryModels []models.FeeScheduleEntryModel
	if err := query.Order("installments ASC").Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*treasury.FeeScheduleEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormFeeScheduleRepository implements FeeScheduleRepository
var _ treasury.FeeScheduleRepository = (*GormFeeScheduleRepository)(nil)
