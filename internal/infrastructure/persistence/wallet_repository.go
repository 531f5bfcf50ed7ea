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

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// Save persists a new or updated wallet
func (r *GormWalletRepository) Save(ctx context.Context, wallet *treasury.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a wallet by ID
func (r *GormWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists wallets ordered by sort order
func (r *GormWalletRepository) FindAll(ctx context.Context) ([]*treasury.Wallet, error) {
	var walletModels []models.WalletModel
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&walletModels).Error; err != nil {
		return nil, err
	}

	wallets := make([]*treasury.Wallet, len(walletModels))
	for i := range walletModels {
		wallets[i] = walletModels[i].ToDomain()
	}
	return wallets, nil
}

// Delete removes a wallet
func (r *GormWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.WalletModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormWalletRepository implements WalletRepository
var _ treasury.WalletRepository = (*GormWalletRepository)(nil)
