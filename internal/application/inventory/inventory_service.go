// Package inventory provides application services for the stock
// catalog, including the stock adjuster the settlement engine and sale
// recorder call.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/inventory"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService provides application-level inventory operations
type InventoryService struct {
	itemRepo inventory.Repository
	logger   *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(itemRepo inventory.Repository, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// CreateItemRequest is the input for adding a catalog item
type CreateItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Quantity   int             `json:"quantity" binding:"min=0"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	DateBought *time.Time      `json:"date_bought"`
	Notes      string          `json:"notes"`
}

// UpdateItemRequest is the input for editing an item
type UpdateItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Notes     string          `json:"notes"`
}

// SetQuantityRequest is the input for a stock-take correction
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	DateBought     *time.Time      `json:"date_bought,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	InStock        bool            `json:"in_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ItemListFilter defines filtering options for item list queries
type ItemListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateItem adds a new catalog item
func (s *InventoryService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if existing, err := s.itemRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An item with this name already exists")
	}

	item, err := inventory.NewItem(
		req.Name,
		req.Quantity,
		valueobject.NewMoneyRWF(req.CostPrice),
		valueobject.NewMoneyRWF(req.SalePrice),
		req.DateBought,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("inventory item added",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
		zap.Int("quantity", item.QuantityOnHand),
	)

	return toItemResponse(item), nil
}

// GetItem gets an item by ID
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ListItems lists items with filtering
func (s *InventoryService) ListItems(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = *toItemResponse(&item)
	}

	return responses, total, nil
}

// UpdateItem updates an item's descriptive fields and pricing
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := item.Version
	if err := item.UpdateDetails(req.Name,
		valueobject.NewMoneyRWF(req.CostPrice),
		valueobject.NewMoneyRWF(req.SalePrice),
		req.Notes); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item, expectedVersion); err != nil {
		return nil, err
	}

	return toItemResponse(item), nil
}

// SetQuantity replaces an item's quantity on hand
func (s *InventoryService) SetQuantity(ctx context.Context, id uuid.UUID, req SetQuantityRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := item.Version
	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item, expectedVersion); err != nil {
		return nil, err
	}

	return toItemResponse(item), nil
}

// DeleteItem removes an item
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

// DecrementStock implements inventory.StockAdjuster. The repository
// issues a conditional UPDATE, so the decrement is atomic.
func (s *InventoryService) DecrementStock(ctx context.Context, itemName string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	return s.itemRepo.DecrementQuantity(ctx, itemName, quantity)
}

func toItemResponse(item *inventory.Item) *ItemResponse {
	return &ItemResponse{
		ID:             item.ID,
		Name:           item.Name,
		QuantityOnHand: item.QuantityOnHand,
		CostPrice:      item.CostPrice,
		SalePrice:      item.SalePrice,
		DateBought:     item.DateBought,
		Notes:          item.Notes,
		InStock:        item.InStock(),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// Ensure InventoryService implements StockAdjuster
var _ inventory.StockAdjuster = (*InventoryService)(nil)
