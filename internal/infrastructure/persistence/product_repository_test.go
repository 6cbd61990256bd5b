package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockProductRepo(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

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

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestDecrementStock_GuardedUpdate(t *testing.T) {
	t.Run("decrements when stock covers the quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.DecrementStock(context.Background(), productID, 3)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports false when no row matches the guard", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		productID := uuid.New()

		// Zero rows affected means the WHERE clause filtered the product
		// out: either it does not exist or stock is short.
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.DecrementStock(context.Background(), productID, 100)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnError(assert.AnError)

		ok, err := repo.DecrementStock(context.Background(), uuid.New(), 1)

		require.Error(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIncrementStock(t *testing.T) {
	t.Run("restores stock for tracked products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.IncrementStock(context.Background(), uuid.New(), 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("is a no-op for untracked products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.IncrementStock(context.Background(), uuid.New(), 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindByID_NotFoundMapping(t *testing.T) {
	repo, mock, mockDB := newMockProductRepo(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT .* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySKU_UppercasesInput(t *testing.T) {
	repo, mock, mockDB := newMockProductRepo(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT .* FROM "products"`).
		WithArgs("WIDGET-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindBySKU(context.Background(), "widget-1")

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
