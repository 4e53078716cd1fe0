package finance

import (
	"github.com/shopspring/decimal"
)

// Summary is the aggregate rollup shown on the dashboard. All figures
// are computed from the same transaction snapshot; the rollup is
// advisory and may lag a concurrent settlement by one refresh.
type Summary struct {
	TotalUnpaid    decimal.Decimal  `json:"total_unpaid"`
	UnpaidCount    int64            `json:"unpaid_count"`
	TotalCollected decimal.Decimal  `json:"total_collected"`
	TotalCapital   decimal.Decimal  `json:"total_capital"`
	Profit         decimal.Decimal  `json:"profit"`
	TodayBalance   *decimal.Decimal `json:"today_balance,omitempty"`
}
