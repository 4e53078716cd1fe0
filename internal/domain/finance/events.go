package finance

import (
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ResetScope identifies which reset was performed
type ResetScope string

const (
	ResetScopeMoneyOnly ResetScope = "MONEY_ONLY"
	ResetScopeCycle     ResetScope = "CYCLE"
	ResetScopeFactory   ResetScope = "FACTORY"
)

// LedgerResetEvent is raised after any reset completes. It carries the
// pre-reset counters so the log keeps a snapshot of what was cleared.
type LedgerResetEvent struct {
	shared.BaseDomainEvent
	Scope             ResetScope      `json:"scope"`
	PreviousCapital   decimal.Decimal `json:"previous_capital"`
	PreviousCollected decimal.Decimal `json:"previous_collected"`
	RevertedDebtCount int64           `json:"reverted_debt_count"`
	DeletedSaleCount  int64           `json:"deleted_sale_count"`
}

// EventType returns the event type name
func (e *LedgerResetEvent) EventType() string {
	return "LedgerReset"
}

// NewLedgerResetEvent creates a new LedgerResetEvent
func NewLedgerResetEvent(s *LedgerSettings, scope ResetScope) *LedgerResetEvent {
	return &LedgerResetEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("LedgerReset", "LedgerSettings", s.ID),
		Scope:             scope,
		PreviousCapital:   s.TotalCapital,
		PreviousCollected: s.TotalCollected,
	}
}
