package models

import (
	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// LedgerSettingsModel is the GORM model for the shop-wide settings singleton
type LedgerSettingsModel struct {
	AggregateModel
	TotalCapital   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalCollected decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	DailyBalances  finance.DailyBalances `gorm:"type:jsonb;default:'{}'"`
}

// TableName specifies the table name
func (LedgerSettingsModel) TableName() string {
	return "ledger_settings"
}

// ToDomain converts the model to domain LedgerSettings
func (m *LedgerSettingsModel) ToDomain() *finance.LedgerSettings {
	s := &finance.LedgerSettings{
		TotalCapital:   m.TotalCapital,
		TotalCollected: m.TotalCollected,
		DailyBalances:  m.DailyBalances,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// LedgerSettingsModelFromDomain converts domain LedgerSettings to the model
func LedgerSettingsModelFromDomain(s *finance.LedgerSettings) *LedgerSettingsModel {
	m := &LedgerSettingsModel{
		TotalCapital:   s.TotalCapital,
		TotalCollected: s.TotalCollected,
		DailyBalances:  s.DailyBalances,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
