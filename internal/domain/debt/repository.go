package debt

import (
	"context"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repository defines persistence operations for Debt aggregates
type Repository interface {
	// FindByID finds a debt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Debt, error)

	// FindAll returns debts matching the filter.
	// Filter.Search matches the customer name; Filters["status"] and
	// Filters["contact_only"] narrow the set.
	FindAll(ctx context.Context, filter shared.Filter) ([]Debt, error)

	// FindSettled returns all settled, non-contact debts (cycle reset input)
	FindSettled(ctx context.Context) ([]Debt, error)

	// Count counts debts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save persists a new debt
	Save(ctx context.Context, d *Debt) error

	// SaveWithLock persists debt state conditionally on the expected
	// version. Returns shared.ErrConcurrencyConflict when another writer
	// got there first.
	SaveWithLock(ctx context.Context, d *Debt, expectedVersion int) error

	// Delete removes a debt record
	Delete(ctx context.Context, id uuid.UUID) error

	// SumOutstanding returns the SQL-side sum of unpaid balances across
	// non-contact records
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)

	// CountUnpaid returns the number of non-contact records with a balance
	CountUnpaid(ctx context.Context) (int64, error)
}
