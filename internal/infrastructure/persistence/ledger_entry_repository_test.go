package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLedgerEntryRepository_CreateAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	walletID := uuid.New()
	entry := mustEntry(t, time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC),
		treasury.EntryTypeSangria, "dinheiro", &walletID, 20000, 0, -1, "Sangria do caixa")
	require.NoError(t, repo.Create(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, found.ID)
	assert.Equal(t, treasury.EntryTypeSangria, found.Type)
	assert.Equal(t, "dinheiro", found.PaymentMethodCode)
	require.NotNil(t, found.WalletID)
	assert.Equal(t, walletID, *found.WalletID)
	assert.Equal(t, int64(-20000), found.NetAmount.Cents())
}

func TestGormLedgerEntryRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormLedgerEntryRepository_FindByReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	saleID := uuid.New()
	ref := "sale:" + saleID.String()

	first := mustEntry(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		treasury.EntryTypeEntradaVenda, "pix", nil, 5000, 0, 1, "Venda V-001")
	first.WithReference(ref)
	second := mustEntry(t, time.Date(2024, 3, 10, 9, 0, 1, 0, time.UTC),
		treasury.EntryTypeEntradaVenda, "credito", nil, 10000, 380, 1, "Venda V-001")
	second.WithReference(ref)
	other := mustEntry(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		treasury.EntryTypeCancelamento, "pix", nil, 5000, 0, -1, "Cancelamento")
	other.WithReference(ref)

	require.NoError(t, repo.CreateBatch(ctx, []*treasury.LedgerEntry{second, first, other}))

	entries, err := repo.FindByReference(ctx, ref, treasury.EntryTypeEntradaVenda)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Ordered by occurrence time
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
}

func TestGormLedgerEntryRepository_List_FiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := mustEntry(t, base.AddDate(0, 0, i),
			treasury.EntryTypeSuprimento, "dinheiro", nil, 1000, 0, 1, "Suprimento")
		require.NoError(t, repo.Create(ctx, entry))
	}
	pixEntry := mustEntry(t, base.AddDate(0, 0, 2),
		treasury.EntryTypeEntradaVenda, "pix", nil, 7500, 0, 1, "Venda")
	require.NoError(t, repo.Create(ctx, pixEntry))

	t.Run("filters by type", func(t *testing.T) {
		entries, total, err := repo.List(ctx, treasury.LedgerFilter{
			Types: []treasury.EntryType{treasury.EntryTypeEntradaVenda},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, pixEntry.ID, entries[0].ID)
	})

	t.Run("filters by method code", func(t *testing.T) {
		_, total, err := repo.List(ctx, treasury.LedgerFilter{PaymentMethodCode: "dinheiro"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("filters by period half-open bounds", func(t *testing.T) {
		period, err := valueobject.NewPeriod(base, base.AddDate(0, 0, 2))
		require.NoError(t, err)

		_, total, err := repo.List(ctx, treasury.LedgerFilter{Period: period})
		require.NoError(t, err)
		// Days 1 and 2; the entry exactly at the end bound is excluded
		assert.Equal(t, int64(2), total)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		entries, total, err := repo.List(ctx, treasury.LedgerFilter{
			PaymentMethodCode: "dinheiro",
			Page:              1,
			PageSize:          2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].OccurredAt.After(entries[1].OccurredAt))
	})
}

func TestGormLedgerEntryRepository_SumNetByMethodCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, mustEntry(t, day,
		treasury.EntryTypeEntradaVenda, "pix", nil, 10000, 0, 1, "Venda")))
	require.NoError(t, repo.Create(ctx, mustEntry(t, day,
		treasury.EntryTypeSangria, "pix", nil, 3000, 0, -1, "Sangria")))
	require.NoError(t, repo.Create(ctx, mustEntry(t, day,
		treasury.EntryTypeEntradaVenda, "dinheiro", nil, 9999, 0, 1, "Venda")))

	sum, err := repo.SumNetByMethodCode(ctx, "pix", valueobject.AllTime())
	require.NoError(t, err)
	assert.Equal(t, int64(7000), sum.Cents())
}

func TestGormLedgerEntryRepository_SumNetByMethodCode_EmptyIsZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)

	sum, err := repo.SumNetByMethodCode(context.Background(), "pix", valueobject.AllTime())
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestGormLedgerEntryRepository_SumNetAll_RespectsPeriod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	inside := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, mustEntry(t, inside,
		treasury.EntryTypeEntradaVenda, "pix", nil, 10000, 0, 1, "Venda")))
	require.NoError(t, repo.Create(ctx, mustEntry(t, outside,
		treasury.EntryTypeEntradaVenda, "pix", nil, 5000, 0, 1, "Venda antiga")))

	period, err := valueobject.NewPeriod(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sum, err := repo.SumNetAll(ctx, period)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), sum.Cents())
}

func TestGormLedgerEntryRepository_TotalsByMethodCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, mustEntry(t, day,
		treasury.EntryTypeEntradaVenda, "credito", nil, 10000, 380, 1, "Venda")))
	require.NoError(t, repo.Create(ctx, mustEntry(t, day,
		treasury.EntryTypeEntradaVenda, "credito", nil, 20000, 760, 1, "Venda")))

	totals, err := repo.TotalsByMethodCode(ctx, "credito", valueobject.AllTime())
	require.NoError(t, err)
	assert.Equal(t, "credito", totals.PaymentMethodCode)
	assert.Equal(t, int64(30000), totals.GrossTotal.Cents())
	assert.Equal(t, int64(1140), totals.FeeTotal.Cents())
}
