// Package sale provides application services for recording cash sales
// and reading sales rollups.
package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/application/uow"
	"github.com/jfjewelry/backend/internal/domain/inventory"
	"github.com/jfjewelry/backend/internal/domain/notification"
	"github.com/jfjewelry/backend/internal/domain/sale"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService provides application-level sale operations. Recording a
// sale books the revenue into the collected total in the same
// transaction; stock adjustment is a best-effort secondary effect.
type SaleService struct {
	tx             uow.TransactionManager
	saleRepo       sale.Repository
	stockAdjuster  inventory.StockAdjuster
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	tx uow.TransactionManager,
	saleRepo sale.Repository,
	stockAdjuster inventory.StockAdjuster,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		tx:             tx,
		saleRepo:       saleRepo,
		stockAdjuster:  stockAdjuster,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// RecordSaleRequest is the input for recording a cash sale
type RecordSaleRequest struct {
	ItemName  string          `json:"item_name" binding:"required"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	DateSold  *time.Time      `json:"date_sold"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemName  string          `json:"item_name"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
	DateSold  time.Time       `json:"date_sold"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordSaleResult bundles the recorded sale with the cash
// acknowledgment message and any stock warning.
type RecordSaleResult struct {
	Sale    *SaleResponse `json:"sale"`
	Message string        `json:"message"`
	Warning string        `json:"warning,omitempty"`
}

// SaleListFilter defines filtering options for sale list queries
type SaleListFilter struct {
	Search   string     `form:"search"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// TotalsResponse is the SQL-side sales rollup
type TotalsResponse struct {
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Count   int64           `json:"count"`
}

// RecordSale records a cash sale and books its revenue
func (s *SaleService) RecordSale(ctx context.Context, req RecordSaleRequest) (*RecordSaleResult, error) {
	dateSold := time.Now()
	if req.DateSold != nil {
		dateSold = *req.DateSold
	}

	rec, err := sale.NewSale(
		req.ItemName,
		valueobject.NewMoneyRWF(req.CostPrice),
		valueobject.NewMoneyRWF(req.SalePrice),
		req.Quantity,
		dateSold,
	)
	if err != nil {
		return nil, err
	}

	revenue := rec.Revenue()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		if err := repos.Sales.Save(ctx, rec); err != nil {
			return err
		}
		return repos.Settings.IncrementCollected(ctx, revenue.Amount())
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, rec)

	s.logger.Info("sale recorded",
		zap.String("sale_id", rec.ID.String()),
		zap.String("item", rec.ItemName),
		zap.String("revenue", revenue.Amount().String()),
	)

	result := &RecordSaleResult{
		Sale:    toSaleResponse(rec),
		Message: notification.CashAcknowledgment,
	}

	if s.stockAdjuster != nil {
		if err := s.stockAdjuster.DecrementStock(ctx, rec.ItemName, rec.Quantity); err != nil {
			s.logger.Warn("stock adjustment failed after sale",
				zap.String("sale_id", rec.ID.String()),
				zap.String("item", rec.ItemName),
				zap.Error(err),
			)
			result.Warning = "Sale recorded, but stock adjustment failed for " + rec.ItemName
		}
	}

	return result, nil
}

// GetSale gets a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	rec, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(rec), nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	// A bounded date range bypasses pagination: day/week views want
	// every sale in the window.
	if filter.From != nil && filter.To != nil {
		sales, err := s.saleRepo.FindByDateRange(ctx, *filter.From, *filter.To)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]SaleResponse, len(sales))
		for i, rec := range sales {
			responses[i] = *toSaleResponse(&rec)
		}
		return responses, int64(len(sales)), nil
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(sales))
	for i, rec := range sales {
		responses[i] = *toSaleResponse(&rec)
	}

	return responses, total, nil
}

// DeleteSale removes a sale record. The collected total is left alone:
// corrections to money go through the reset operations.
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.saleRepo.Delete(ctx, id)
}

// GetTotals returns the sales rollup
func (s *SaleService) GetTotals(ctx context.Context) (*TotalsResponse, error) {
	totals, err := s.saleRepo.SumTotals(ctx)
	if err != nil {
		return nil, err
	}
	return &TotalsResponse{
		Revenue: totals.Revenue,
		Profit:  totals.Profit,
		Count:   totals.Count,
	}, nil
}

func (s *SaleService) publishEvents(ctx context.Context, rec *sale.Sale) {
	if s.eventPublisher == nil {
		return
	}
	events := rec.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish sale events",
			zap.String("sale_id", rec.ID.String()),
			zap.Error(err))
	}
	rec.ClearDomainEvents()
}

func toSaleResponse(rec *sale.Sale) *SaleResponse {
	return &SaleResponse{
		ID:        rec.ID,
		ItemName:  rec.ItemName,
		CostPrice: rec.CostPrice,
		SalePrice: rec.SalePrice,
		Quantity:  rec.Quantity,
		Revenue:   rec.Revenue().Amount(),
		Profit:    rec.Profit().Amount(),
		DateSold:  rec.DateSold,
		CreatedAt: rec.CreatedAt,
	}
}
