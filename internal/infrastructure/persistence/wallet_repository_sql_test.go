package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockWalletRepository creates a GormWalletRepository over a mocked SQL connection
func newMockWalletRepository(t *testing.T) (*GormWalletRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormWalletRepository(gormDB), mock, mockDB
}

func TestGormWalletRepository_FindByID_SQL(t *testing.T) {
	t.Run("finds existing wallet", func(t *testing.T) {
		repo, mock, mockDB := newMockWalletRepository(t)
		defer mockDB.Close()

		walletID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "sort_order"}).
			AddRow(walletID, now, now, 1, "Caixa da loja", 0)

		mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(walletID, 1).
			WillReturnRows(rows)

		wallet, err := repo.FindByID(context.Background(), walletID)

		assert.NoError(t, err)
		assert.NotNil(t, wallet)
		assert.Equal(t, walletID, wallet.ID)
		assert.Equal(t, "Caixa da loja", wallet.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockWalletRepository(t)
		defer mockDB.Close()

		walletID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(walletID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		wallet, err := repo.FindByID(context.Background(), walletID)

		assert.Error(t, err)
		assert.Nil(t, wallet)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		repo, mock, mockDB := newMockWalletRepository(t)
		defer mockDB.Close()

		walletID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(walletID, 1).
			WillReturnError(sql.ErrConnDone)

		wallet, err := repo.FindByID(context.Background(), walletID)

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Nil(t, wallet)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWalletRepository_Delete_SQL(t *testing.T) {
	t.Run("deletes existing wallet", func(t *testing.T) {
		repo, mock, mockDB := newMockWalletRepository(t)
		defer mockDB.Close()

		walletID := uuid.New()

		mock.ExpectExec(`DELETE FROM "wallets" WHERE id = \$1`).
			WithArgs(walletID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), walletID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockWalletRepository(t)
		defer mockDB.Close()

		walletID := uuid.New()

		mock.ExpectExec(`DELETE FROM "wallets" WHERE id = \$1`).
			WithArgs(walletID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), walletID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
