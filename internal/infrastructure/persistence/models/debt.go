package models

import (
	"time"

	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/shopspring/decimal"
)

// DebtModel is the GORM model for debt records
type DebtModel struct {
	AggregateModel
	CustomerName      string              `gorm:"type:varchar(255);not null;index"`
	Phone             string              `gorm:"type:varchar(32);index"`
	ItemsDescription  string              `gorm:"type:text"`
	LineItems         debt.LineItems      `gorm:"type:jsonb;default:'[]'"`
	OriginalAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	OutstandingAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaidAmount        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status            string              `gorm:"type:varchar(20);not null;index"`
	ContactOnly       bool                `gorm:"not null;default:false;index"`
	DueDate           *time.Time          `gorm:""`
	PaidAt            *time.Time          `gorm:""`
	Payments          debt.PaymentEntries `gorm:"type:jsonb;default:'[]'"`
}

// TableName specifies the table name
func (DebtModel) TableName() string {
	return "debts"
}

// ToDomain converts the model to a domain Debt
func (m *DebtModel) ToDomain() *debt.Debt {
	d := &debt.Debt{
		CustomerName:      m.CustomerName,
		Phone:             m.Phone,
		ItemsDescription:  m.ItemsDescription,
		LineItems:         m.LineItems,
		OriginalAmount:    m.OriginalAmount,
		OutstandingAmount: m.OutstandingAmount,
		PaidAmount:        m.PaidAmount,
		Status:            debt.Status(m.Status),
		ContactOnly:       m.ContactOnly,
		DueDate:           m.DueDate,
		PaidAt:            m.PaidAt,
		Payments:          m.Payments,
	}
	m.PopulateAggregateRoot(&d.BaseAggregateRoot)
	return d
}

// DebtModelFromDomain converts a domain Debt to the model
func DebtModelFromDomain(d *debt.Debt) *DebtModel {
	m := &DebtModel{
		CustomerName:      d.CustomerName,
		Phone:             d.Phone,
		ItemsDescription:  d.ItemsDescription,
		LineItems:         d.LineItems,
		OriginalAmount:    d.OriginalAmount,
		OutstandingAmount: d.OutstandingAmount,
		PaidAmount:        d.PaidAmount,
		Status:            d.Status.String(),
		ContactOnly:       d.ContactOnly,
		DueDate:           d.DueDate,
		PaidAt:            d.PaidAt,
		Payments:          d.Payments,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}
