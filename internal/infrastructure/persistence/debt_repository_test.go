package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDebtRepository creates a GormDebtRepository with a mocked SQL connection
func newMockDebtRepository(t *testing.T) (*GormDebtRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormDebtRepository(gormDB), mock, mockDB
}

func TestGormDebtRepository_FindByID(t *testing.T) {
	t.Run("finds existing debt", func(t *testing.T) {
		repo, mock, mockDB := newMockDebtRepository(t)
		defer mockDB.Close()

		debtID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "customer_name", "phone", "original_amount", "outstanding_amount", "paid_amount", "status", "contact_only"}).
			AddRow(debtID, 1, "Mukamana", "250788123456", decimal.NewFromInt(10000), decimal.NewFromInt(10000), decimal.Zero, "OUTSTANDING", false)

		mock.ExpectQuery(`SELECT \* FROM "debts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(debtID, 1).
			WillReturnRows(rows)

		d, err := repo.FindByID(context.Background(), debtID)

		assert.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, debtID, d.ID)
		assert.Equal(t, "Mukamana", d.CustomerName)
		assert.Equal(t, debt.StatusOutstanding, d.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing debt", func(t *testing.T) {
		repo, mock, mockDB := newMockDebtRepository(t)
		defer mockDB.Close()

		debtID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "debts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(debtID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		d, err := repo.FindByID(context.Background(), debtID)

		assert.Nil(t, d)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDebtRepository_SaveWithLock(t *testing.T) {
	t.Run("returns conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockDebtRepository(t)
		defer mockDB.Close()

		d, err := debt.NewDebt("Mukamana", "0788123456", "necklace", nil,
			valueobject.NewMoneyRWFFromInt(10000), nil)
		require.NoError(t, err)
		_, err = d.ApplyPayment(valueobject.NewMoneyRWFFromInt(4000), "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "debts" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), d, 1)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("succeeds when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockDebtRepository(t)
		defer mockDB.Close()

		d, err := debt.NewDebt("Mukamana", "0788123456", "necklace", nil,
			valueobject.NewMoneyRWFFromInt(10000), nil)
		require.NoError(t, err)
		_, err = d.ApplyPayment(valueobject.NewMoneyRWFFromInt(4000), "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "debts" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), d, 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDebtRepository_SumOutstanding(t *testing.T) {
	repo, mock, mockDB := newMockDebtRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromInt(16000))

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(outstanding_amount\), 0\) as total FROM "debts"`).
		WillReturnRows(rows)

	total, err := repo.SumOutstanding(context.Background())

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(16000).Equal(total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDebtRepository_CountUnpaid(t *testing.T) {
	repo, mock, mockDB := newMockDebtRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "debts"`).
		WillReturnRows(rows)

	count, err := repo.CountUnpaid(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDebtRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockDebtRepository(t)
		defer mockDB.Close()

		debtID := uuid.New()

		mock.ExpectExec(`DELETE FROM "debts" WHERE id = \$1`).
			WithArgs(debtID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), debtID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
