package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockSettingsRepository(t *testing.T) (*GormSettingsRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormSettingsRepository(gormDB), mock, mockDB
}

func TestGormSettingsRepository_Get(t *testing.T) {
	t.Run("returns existing row", func(t *testing.T) {
		repo, mock, mockDB := newMockSettingsRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"total_capital", "total_collected", "daily_balances", "version"}).
			AddRow(decimal.NewFromInt(500000), decimal.NewFromInt(120000), `{"2026-08-29":"45000"}`, 7)

		mock.ExpectQuery(`SELECT \* FROM "ledger_settings" ORDER BY created_at ASC,.* LIMIT .*`).
			WillReturnRows(rows)

		settings, err := repo.Get(context.Background())

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(500000).Equal(settings.TotalCapital))
		assert.True(t, decimal.NewFromInt(120000).Equal(settings.TotalCollected))
		assert.Equal(t, 7, settings.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates zeroed row on first access", func(t *testing.T) {
		repo, mock, mockDB := newMockSettingsRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "ledger_settings" ORDER BY created_at ASC,.* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "ledger_settings"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		settings, err := repo.Get(context.Background())

		require.NoError(t, err)
		assert.True(t, settings.TotalCapital.IsZero())
		assert.True(t, settings.TotalCollected.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSettingsRepository_IncrementCollected(t *testing.T) {
	repo, mock, mockDB := newMockSettingsRepository(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "ledger_settings" SET .*total_collected.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementCollected(context.Background(), decimal.NewFromInt(5000))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A fresh database has no ledger_settings row yet. The first booking
// must create the singleton and land the increment, not fail the
// enclosing transaction.
func TestGormSettingsRepository_IncrementCollected_FreshDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.LedgerSettingsModel{}))
	repo := NewGormSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.IncrementCollected(ctx, decimal.NewFromInt(7000)))

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7000).Equal(settings.TotalCollected), settings.TotalCollected.String())

	require.NoError(t, repo.IncrementCollected(ctx, decimal.NewFromInt(2000)))

	settings, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9000).Equal(settings.TotalCollected), settings.TotalCollected.String())
}

func TestGormSettingsRepository_ResetMoney(t *testing.T) {
	repo, mock, mockDB := newMockSettingsRepository(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "ledger_settings" SET .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ResetMoney(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
