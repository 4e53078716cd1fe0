package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
)

// Repository defines persistence operations for inventory items
type Repository interface {
	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByName finds an item by its unique name
	FindByName(ctx context.Context, name string) (*Item, error)

	// FindAll returns items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save persists a new item
	Save(ctx context.Context, item *Item) error

	// SaveWithLock persists item state conditionally on the expected version
	SaveWithLock(ctx context.Context, item *Item, expectedVersion int) error

	// DecrementQuantity atomically reduces stock with a conditional
	// UPDATE guarded by quantity >= qty. Returns
	// shared.ErrInsufficientStock when the guard fails and
	// shared.ErrNotFound for unknown items.
	DecrementQuantity(ctx context.Context, name string, qty int) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error
}
