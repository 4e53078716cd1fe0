package models

import (
	"time"

	"github.com/jfjewelry/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the GORM model for inventory items
type InventoryItemModel struct {
	AggregateModel
	Name           string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	QuantityOnHand int             `gorm:"not null;default:0"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DateBought     *time.Time      `gorm:""`
	Notes          string          `gorm:"type:text"`
}

// TableName specifies the table name
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain Item
func (m *InventoryItemModel) ToDomain() *inventory.Item {
	item := &inventory.Item{
		Name:           m.Name,
		QuantityOnHand: m.QuantityOnHand,
		CostPrice:      m.CostPrice,
		SalePrice:      m.SalePrice,
		DateBought:     m.DateBought,
		Notes:          m.Notes,
	}
	m.PopulateAggregateRoot(&item.BaseAggregateRoot)
	return item
}

// InventoryItemModelFromDomain converts a domain Item to the model
func InventoryItemModelFromDomain(item *inventory.Item) *InventoryItemModel {
	m := &InventoryItemModel{
		Name:           item.Name,
		QuantityOnHand: item.QuantityOnHand,
		CostPrice:      item.CostPrice,
		SalePrice:      item.SalePrice,
		DateBought:     item.DateBought,
		Notes:          item.Notes,
	}
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	return m
}
