package models

import (
	"time"

	"github.com/jfjewelry/backend/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// SaleModel is the GORM model for sale records
type SaleModel struct {
	AggregateModel
	ItemName  string          `gorm:"type:varchar(255);not null;index"`
	CostPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity  int             `gorm:"not null"`
	DateSold  time.Time       `gorm:"not null;index"`
}

// TableName specifies the table name
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the model to a domain Sale
func (m *SaleModel) ToDomain() *sale.Sale {
	s := &sale.Sale{
		ItemName:  m.ItemName,
		CostPrice: m.CostPrice,
		SalePrice: m.SalePrice,
		Quantity:  m.Quantity,
		DateSold:  m.DateSold,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// SaleModelFromDomain converts a domain Sale to the model
func SaleModelFromDomain(s *sale.Sale) *SaleModel {
	m := &SaleModel{
		ItemName:  s.ItemName,
		CostPrice: s.CostPrice,
		SalePrice: s.SalePrice,
		Quantity:  s.Quantity,
		DateSold:  s.DateSold,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
