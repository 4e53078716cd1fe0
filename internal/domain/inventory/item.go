package inventory

import (
	"time"

	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Item is the aggregate root for a catalog item held in stock.
type Item struct {
	shared.BaseAggregateRoot
	Name           string          `json:"name"` // unique within the shop
	QuantityOnHand int             `json:"quantity_on_hand"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	DateBought     *time.Time      `json:"date_bought"`
	Notes          string          `json:"notes"`
}

// NewItem creates a new inventory item
func NewItem(
	name string,
	quantity int,
	costPrice valueobject.Money,
	salePrice valueobject.Money,
	dateBought *time.Time,
	notes string,
) (*Item, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sale price cannot be negative")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		QuantityOnHand:    quantity,
		CostPrice:         costPrice.Amount(),
		SalePrice:         salePrice.Amount(),
		DateBought:        dateBought,
		Notes:             notes,
	}, nil
}

// Decrement reduces the quantity on hand. Quantity never goes negative.
func (i *Item) Decrement(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	if qty > i.QuantityOnHand {
		return shared.ErrInsufficientStock
	}
	i.QuantityOnHand -= qty
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetQuantity replaces the quantity on hand (stock-take correction)
func (i *Item) SetQuantity(qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	i.QuantityOnHand = qty
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// UpdateDetails updates descriptive fields and pricing
func (i *Item) UpdateDetails(name string, costPrice, salePrice valueobject.Money, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Prices cannot be negative")
	}
	i.Name = name
	i.CostPrice = costPrice.Amount()
	i.SalePrice = salePrice.Amount()
	i.Notes = notes
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// GetCostPriceMoney returns the unit cost as Money
func (i *Item) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(i.CostPrice)
}

// GetSalePriceMoney returns the unit price as Money
func (i *Item) GetSalePriceMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(i.SalePrice)
}

// InStock returns true when any quantity remains
func (i *Item) InStock() bool {
	return i.QuantityOnHand > 0
}
