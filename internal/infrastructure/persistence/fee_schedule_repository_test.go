package persistence

import (
	"context"
	"testing"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFeeEntry(t *testing.T, methodID uuid.UUID, installments int, pct string, fixedCents int64, days int) *treasury.FeeScheduleEntry {
	t.Helper()
	entry, err := treasury.NewFeeScheduleEntry(methodID, installments,
		decimal.RequireFromString(pct), valueobject.NewMoneyFromCents(fixedCents), days, "")
	require.NoError(t, err)
	return entry
}

func TestGormFeeScheduleRepository_ReplaceForMethod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFeeScheduleRepository(db)
	ctx := context.Background()

	methodID := uuid.New()
	require.NoError(t, repo.ReplaceForMethod(ctx, methodID, []*treasury.FeeScheduleEntry{
		mustFeeEntry(t, methodID, 1, "2.5", 0, 1),
		mustFeeEntry(t, methodID, 2, "3.5", 30, 30),
	}))

	entries, err := repo.FindByMethod(ctx, methodID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Installments)
	assert.Equal(t, 2, entries[1].Installments)

	// Replacing drops the old schedule entirely
	require.NoError(t, repo.ReplaceForMethod(ctx, methodID, []*treasury.FeeScheduleEntry{
		mustFeeEntry(t, methodID, 3, "4.99", 0, 60),
	}))

	entries, err = repo.FindByMethod(ctx, methodID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Installments)
	assert.True(t, decimal.RequireFromString("4.99").Equal(entries[0].FeePercentage))
}

func TestGormFeeScheduleRepository_ReplaceForMethod_EmptyClears(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFeeScheduleRepository(db)
	ctx := context.Background()

	methodID := uuid.New()
	require.NoError(t, repo.ReplaceForMethod(ctx, methodID, []*treasury.FeeScheduleEntry{
		mustFeeEntry(t, methodID, 1, "2.5", 0, 1),
	}))
	require.NoError(t, repo.ReplaceForMethod(ctx, methodID, nil))

	entries, err := repo.FindByMethod(ctx, methodID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGormFeeScheduleRepository_ReplaceForMethod_DoesNotTouchOtherMethods(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFeeScheduleRepository(db)
	ctx := context.Background()

	methodA := uuid.New()
	methodB := uuid.New()
	require.NoError(t, repo.ReplaceForMethod(ctx, methodA, []*treasury.FeeScheduleEntry{
		mustFeeEntry(t, methodA, 1, "2.5", 0, 1),
	}))
	require.NoError(t, repo.ReplaceForMethod(ctx, methodB, []*treasury.FeeScheduleEntry{
		mustFeeEntry(t, methodB, 1, "1.99", 0, 1),
	}))

	require.NoError(t, repo.ReplaceForMethod(ctx, methodA, nil))

	entries, err := repo.FindByMethod(ctx, methodB)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGormFeeScheduleRepository_FindActiveByMethod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFeeScheduleRepository(db)
	ctx := context.Background()

	methodID := uuid.New()
	active := mustFeeEntry(t, methodID, 1, "2.5", 0, 1)
	inactive := mustFeeEntry(t, methodID, 2, "3.5", 0, 30)
	inactive.IsActive = false
	require.NoError(t, repo.ReplaceForMethod(ctx, methodID, []*treasury.FeeScheduleEntry{active, inactive}))

	entries, err := repo.FindActiveByMethod(ctx, methodID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Installments)
}
