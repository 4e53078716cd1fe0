package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/sale"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements sale.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	var saleModels []models.SaleModel
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]sale.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// FindByDateRange finds sales sold within [from, to)
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]sale.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("date_sold >= ? AND date_sold < ?", from, to).
		Order("date_sold DESC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]sale.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if filter.Search != "" {
		query = query.Where("item_name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	model := models.SaleModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a sale record
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAll removes every sale row
func (r *GormSaleRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.SaleModel{}).Error
}

// SumTotals calculates revenue and profit sums in SQL
func (r *GormSaleRepository) SumTotals(ctx context.Context) (*sale.Totals, error) {
	var result struct {
		Revenue decimal.NullDecimal
		Profit  decimal.NullDecimal
		Count   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("COALESCE(SUM(sale_price * quantity), 0) as revenue, " +
			"COALESCE(SUM((sale_price - cost_price) * quantity), 0) as profit, " +
			"COUNT(*) as count").
		Scan(&result).Error; err != nil {
		return nil, err
	}
	return &sale.Totals{
		Revenue: result.Revenue.Decimal,
		Profit:  result.Profit.Decimal,
		Count:   result.Count,
	}, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("item_name ILIKE ?", "%"+filter.Search+"%")
	}

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
		query = query.Order("date_sold DESC")
	}

	return query
}

// Ensure GormSaleRepository implements sale.Repository
var _ sale.Repository = (*GormSaleRepository)(nil)
