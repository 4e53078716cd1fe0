package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Totals holds SQL-side rollups over sale rows
type Totals struct {
	Revenue decimal.Decimal
	Profit  decimal.Decimal
	Count   int64
}

// Repository defines persistence operations for Sale aggregates
type Repository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll returns sales matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByDateRange returns sales within [from, to)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Sale, error)

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save persists a new sale
	Save(ctx context.Context, s *Sale) error

	// Delete removes a sale record
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every sale row (cycle and factory resets)
	DeleteAll(ctx context.Context) error

	// SumTotals returns revenue/profit sums computed in SQL
	SumTotals(ctx context.Context) (*Totals, error)
}
