package persistence

import (
	"context"
	"errors"

	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSettingsRepository implements finance.SettingsRepository using GORM.
// The ledger_settings table holds a single row.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings row, creating a zeroed one on first access
func (r *GormSettingsRepository) Get(ctx context.Context) (*finance.LedgerSettings, error) {
	var model models.LedgerSettingsModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings := finance.NewLedgerSettings()
	created := models.LedgerSettingsModelFromDomain(settings)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveWithLock saves with optimistic locking
func (r *GormSettingsRepository) SaveWithLock(ctx context.Context, s *finance.LedgerSettings, expectedVersion int) error {
	model := models.LedgerSettingsModelFromDomain(s)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", s.ID, expectedVersion).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// IncrementCollected adds to the collected total with an atomic SQL
// expression. No read happens first, so concurrent settlements cannot
// lose increments. On a fresh database the singleton does not exist
// yet; the row is created zeroed and the increment applied again.
func (r *GormSettingsRepository) IncrementCollected(ctx context.Context, amount decimal.Decimal) error {
	result := r.incrementCollected(ctx, amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.Get(ctx); err != nil {
		return err
	}
	result = r.incrementCollected(ctx, amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSettingsRepository) incrementCollected(ctx context.Context, amount decimal.Decimal) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.LedgerSettingsModel{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"total_collected": gorm.Expr("total_collected + ?", amount),
			"version":         gorm.Expr("version + 1"),
		})
}

// ResetMoney zeroes capital, collected and daily balances atomically
func (r *GormSettingsRepository) ResetMoney(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.LedgerSettingsModel{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"total_capital":   decimal.Zero,
			"total_collected": decimal.Zero,
			"daily_balances":  "{}",
			"version":         gorm.Expr("version + 1"),
		}).Error
}

// Ensure GormSettingsRepository implements finance.SettingsRepository
var _ finance.SettingsRepository = (*GormSettingsRepository)(nil)
