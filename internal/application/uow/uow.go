// Package uow defines the unit-of-work port the application services
// use to run multi-repository writes atomically.
package uow

import (
	"context"

	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/jfjewelry/backend/internal/domain/inventory"
	"github.com/jfjewelry/backend/internal/domain/sale"
)

// Repos bundles transaction-scoped repositories. Every repository in
// one bundle shares the same storage transaction.
type Repos struct {
	Debts     debt.Repository
	Sales     sale.Repository
	Inventory inventory.Repository
	Settings  finance.SettingsRepository
}

// TransactionManager runs a function within a storage transaction.
// A non-nil error from fn rolls the whole transaction back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
