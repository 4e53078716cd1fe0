package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDebtRepository implements debt.Repository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// FindByID finds a debt by its ID
func (r *GormDebtRepository) FindByID(ctx context.Context, id uuid.UUID) (*debt.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all debts matching the filter
func (r *GormDebtRepository) FindAll(ctx context.Context, filter shared.Filter) ([]debt.Debt, error) {
	var debtModels []models.DebtModel
	query := r.db.WithContext(ctx).Model(&models.DebtModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&debtModels).Error; err != nil {
		return nil, err
	}
	debts := make([]debt.Debt, len(debtModels))
	for i, model := range debtModels {
		debts[i] = *model.ToDomain()
	}
	return debts, nil
}

// FindSettled finds all settled, non-contact debts
func (r *GormDebtRepository) FindSettled(ctx context.Context) ([]debt.Debt, error) {
	var debtModels []models.DebtModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND contact_only = ?", debt.StatusSettled, false).
		Order("created_at ASC").
		Find(&debtModels).Error; err != nil {
		return nil, err
	}
	debts := make([]debt.Debt, len(debtModels))
	for i, model := range debtModels {
		debts[i] = *model.ToDomain()
	}
	return debts, nil
}

// Count counts debts matching the filter
func (r *GormDebtRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DebtModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a debt
func (r *GormDebtRepository) Save(ctx context.Context, d *debt.Debt) error {
	model := models.DebtModelFromDomain(d)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The write only lands when
// the stored version still matches expectedVersion, so two settlements
// racing on the same record cannot both apply.
func (r *GormDebtRepository) SaveWithLock(ctx context.Context, d *debt.Debt, expectedVersion int) error {
	model := models.DebtModelFromDomain(d)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", d.ID, expectedVersion).
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

// Delete removes a debt record
func (r *GormDebtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DebtModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumOutstanding calculates the total unpaid balance across non-contact records
func (r *GormDebtRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.DebtModel{}).
		Select("COALESCE(SUM(outstanding_amount), 0) as total").
		Where("contact_only = ? AND status IN ?", false,
			[]debt.Status{debt.StatusOutstanding, debt.StatusPartial}).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountUnpaid counts non-contact records that still carry a balance
func (r *GormDebtRepository) CountUnpaid(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DebtModel{}).
		Where("contact_only = ? AND status IN ?", false,
			[]debt.Status{debt.StatusOutstanding, debt.StatusPartial}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDebtRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDebtRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("customer_name ILIKE ?", "%"+filter.Search+"%")
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if contactOnly, ok := filter.Filters["contact_only"]; ok {
		query = query.Where("contact_only = ?", contactOnly)
	}

	return query
}

// Ensure GormDebtRepository implements debt.Repository
var _ debt.Repository = (*GormDebtRepository)(nil)
