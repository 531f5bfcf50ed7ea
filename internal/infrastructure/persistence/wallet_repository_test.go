package persistence

import (
	"context"
	"testing"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormWalletRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	wallet, err := treasury.NewWallet("Caixa da Loja", 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, wallet))

	found, err := repo.FindByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caixa da Loja", found.Name)

	require.NoError(t, found.Rename("Caixa Principal"))
	require.NoError(t, repo.Save(ctx, found))

	renamed, err := repo.FindByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caixa Principal", renamed.Name)
}

func TestGormWalletRepository_FindAll_Ordered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	second, err := treasury.NewWallet("Conta Bancária", 2)
	require.NoError(t, err)
	first, err := treasury.NewWallet("Caixa", 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first))

	wallets, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, "Caixa", wallets[0].Name)
	assert.Equal(t, "Conta Bancária", wallets[1].Name)
}

func TestGormWalletRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	wallet, err := treasury.NewWallet("Caixa", 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, wallet))

	require.NoError(t, repo.Delete(ctx, wallet.ID))

	_, err = repo.FindByID(ctx, wallet.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormWalletRepository_Delete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWalletRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
