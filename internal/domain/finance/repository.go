package finance

import (
	"context"

	"github.com/shopspring/decimal"
)

// SettingsRepository defines persistence for the settings singleton
type SettingsRepository interface {
	// Get returns the settings row, creating a zeroed one on first access
	Get(ctx context.Context) (*LedgerSettings, error)

	// SaveWithLock persists settings conditionally on the expected version
	SaveWithLock(ctx context.Context, s *LedgerSettings, expectedVersion int) error

	// IncrementCollected adds to totalCollected with an atomic SQL
	// expression; it never reads first, so concurrent settlements
	// cannot lose increments.
	IncrementCollected(ctx context.Context, amount decimal.Decimal) error

	// ResetMoney zeroes capital, collected and daily balances atomically
	ResetMoney(ctx context.Context) error
}
