package persistence

import (
	"context"

	"github.com/jfjewelry/backend/internal/application/uow"
	"gorm.io/gorm"
)

// GormTransactionManager implements uow.TransactionManager by binding
// fresh repositories to a GORM transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn inside a database transaction. All
// repositories handed to fn issue their statements on that transaction,
// so a failing step rolls every write back.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos uow.Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := uow.Repos{
			Debts:     NewGormDebtRepository(tx),
			Sales:     NewGormSaleRepository(tx),
			Inventory: NewGormInventoryRepository(tx),
			Settings:  NewGormSettingsRepository(tx),
		}
		return fn(ctx, repos)
	})
}

// Ensure GormTransactionManager implements uow.TransactionManager
var _ uow.TransactionManager = (*GormTransactionManager)(nil)
