package inventory

import "context"

// StockAdjuster is the collaborator port the settlement engine and the
// sale recorder call after a sale-like event. Implementations must be
// safe to fail: callers treat errors as a non-fatal secondary effect
// and never roll back the payment that triggered the adjustment.
type StockAdjuster interface {
	// DecrementStock reduces the on-hand quantity of the named item.
	// Unknown items and insufficient stock are reported as errors.
	DecrementStock(ctx context.Context, itemName string, quantity int) error
}
