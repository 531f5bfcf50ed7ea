package persistence

import (
	"context"
	"errors"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/gestorloja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM.
// The ledger is append-only: the repository exposes no update or delete.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Create appends a single entry
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *treasury.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch appends several entries produced by one mutation
func (r *GormLedgerEntryRepository) CreateBatch(ctx context.Context, entries []*treasury.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entryModels := make([]*models.LedgerEntryModel, len(entries))
	for i, entry := range entries {
		entryModels[i] = models.LedgerEntryModelFromDomain(entry)
	}
	return r.db.WithContext(ctx).Create(&entryModels).Error
}

// FindByID finds an entry by ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference returns the entries of a given type carrying a reference,
// ordered by occurrence time
func (r *GormLedgerEntryRepository) FindByReference(ctx context.Context, reference string, entryType treasury.EntryType) ([]*treasury.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("reference = ? AND type = ?", reference, entryType).
		Order("occurred_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// List returns entries matching the filter, newest first, with the total count
func (r *GormLedgerEntryRepository) List(ctx context.Context, filter treasury.LedgerFilter) ([]*treasury.LedgerEntry, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entryModels []models.LedgerEntryModel
	if err := query.Order("occurred_at DESC, created_at DESC").Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainEntries(entryModels), total, nil
}

// SumNetByMethodCode sums the signed net amounts for one method code in a period
func (r *GormLedgerEntryRepository) SumNetByMethodCode(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, error) {
	query := applyPeriod(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), period).
		Where("payment_method_code = ?", code)
	return r.sumNet(query)
}

// SumNetAll sums the signed net amounts of every entry in a period
func (r *GormLedgerEntryRepository) SumNetAll(ctx context.Context, period valueobject.Period) (valueobject.Money, error) {
	query := applyPeriod(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), period)
	return r.sumNet(query)
}

// TotalsByMethodCode returns the separate gross and fee sums for one method
// code in a period
func (r *GormLedgerEntryRepository) TotalsByMethodCode(ctx context.Context, code string, period valueobject.Period) (treasury.MethodTotals, error) {
	var row struct {
		GrossTotal int64
		FeeTotal   int64
	}

	query := applyPeriod(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), period).
		Where("payment_method_code = ?", code)

	if err := query.
		Select("COALESCE(SUM(gross_amount), 0) AS gross_total, COALESCE(SUM(fee_amount), 0) AS fee_total").
		Scan(&row).Error; err != nil {
		return treasury.MethodTotals{}, err
	}

	return treasury.MethodTotals{
		PaymentMethodCode: code,
		GrossTotal:        valueobject.NewMoneyFromCents(row.GrossTotal),
		FeeTotal:          valueobject.NewMoneyFromCents(row.FeeTotal),
	}, nil
}

func (r *GormLedgerEntryRepository) sumNet(query *gorm.DB) (valueobject.Money, error) {
	var row struct {
		NetTotal int64
	}
	if err := query.
		Select("COALESCE(SUM(net_amount), 0) AS net_total").
		Scan(&row).Error; err != nil {
		return valueobject.Zero(), err
	}
	return valueobject.NewMoneyFromCents(row.NetTotal), nil
}

func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter treasury.LedgerFilter) *gorm.DB {
	query = applyPeriod(query, filter.Period)
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.PaymentMethodCode != "" {
		query = query.Where("payment_method_code = ?", filter.PaymentMethodCode)
	}
	if filter.WalletID != nil {
		query = query.Where("wallet_id = ?", *filter.WalletID)
	}
	return query
}

// applyPeriod adds the half-open [start, end) bounds of a period to a query
func applyPeriod(query *gorm.DB, period valueobject.Period) *gorm.DB {
	if !period.Start.IsZero() {
		query = query.Where("occurred_at >= ?", period.Start)
	}
	if !period.End.IsZero() {
		query = query.Where("occurred_at < ?", period.End)
	}
	return query
}

func toDomainEntries(entryModels []models.LedgerEntryModel) []*treasury.LedgerEntry {
	entries := make([]*treasury.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ treasury.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
