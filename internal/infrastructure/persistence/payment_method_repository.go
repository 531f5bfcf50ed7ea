package persistence

import (
	"context"
	"errors"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/gestorloja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// Save persists a new or updated payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, method *treasury.PaymentMethod) error {
	model := models.PaymentMethodModelFromDomain(method)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a payment method by ID
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a payment method by its code, active or inactive
func (r *GormPaymentMethodRepository) FindByCode(ctx context.Context, code string) (*treasury.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode reports whether any method, active or inactive, uses the code
func (r *GormPaymentMethodRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentMethodModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByWalletID returns the methods linked to a wallet ordered by sort order
func (r *GormPaymentMethodRepository) FindByWalletID(ctx context.Context, walletID uuid.UUID) ([]*treasury.PaymentMethod, error) {
	var methodModels []models.PaymentMethodModel
	if err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("sort_order ASC, code ASC").
		Find(&methodModels).Error; err != nil {
		return nil, err
	}
	return toDomainMethods(methodModels), nil
}

// FindAll lists payment methods ordered by sort order
func (r *GormPaymentMethodRepository) FindAll(ctx context.Context, activeOnly bool) ([]*treasury.PaymentMethod, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentMethodModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var methodModels []models.PaymentMethodModel
	if err := query.Order("sort_order ASC, code ASC").Find(&methodModels).Error; err != nil {
		return nil, err
	}
	return toDomainMethods(methodModels), nil
}

func toDomainMethods(methodModels []models.PaymentMethodModel) []*treasury.PaymentMethod {
	methods := make([]*treasury.PaymentMethod, len(methodModels))
	for i := range methodModels {
		methods[i] = methodModels[i].ToDomain()
	}
	return methods
}

// Ensure GormPaymentMethodRepository implements PaymentMethodRepository
var _ treasury.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
