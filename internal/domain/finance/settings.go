package finance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DailyBalances maps a day (YYYY-MM-DD) to the cash counted at close.
// Stored as JSONB within the settings row.
type DailyBalances map[string]decimal.Decimal

// Value implements driver.Valuer interface for GORM to store as JSONB
func (d DailyBalances) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (d *DailyBalances) Scan(value interface{}) error {
	if value == nil {
		*d = DailyBalances{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DailyBalances: unsupported type")
	}

	if len(bytes) == 0 {
		*d = DailyBalances{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// DayKey formats a time as the daily-balance map key
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// LedgerSettings is the singleton aggregate holding shop-wide money
// counters. totalCollected only ever grows through applied payments
// and recorded sales; profit is always derived, never stored.
type LedgerSettings struct {
	shared.BaseAggregateRoot
	TotalCapital   decimal.Decimal `json:"total_capital"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	DailyBalances  DailyBalances   `json:"daily_balances"`
}

// NewLedgerSettings creates a zeroed settings aggregate
func NewLedgerSettings() *LedgerSettings {
	return &LedgerSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TotalCapital:      decimal.Zero,
		TotalCollected:    decimal.Zero,
		DailyBalances:     DailyBalances{},
	}
}

// SetCapital replaces the invested capital figure
func (s *LedgerSettings) SetCapital(amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Capital cannot be negative")
	}
	s.TotalCapital = amount.Amount()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// AddCollected increases the collected total by an applied payment
func (s *LedgerSettings) AddCollected(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Collected amount must be positive")
	}
	s.TotalCollected = s.TotalCollected.Add(amount.Amount())
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetDailyBalance records the cash counted for a day
func (s *LedgerSettings) SetDailyBalance(day time.Time, amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Daily balance cannot be negative")
	}
	if s.DailyBalances == nil {
		s.DailyBalances = DailyBalances{}
	}
	s.DailyBalances[DayKey(day)] = amount.Amount()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ResetMoney zeroes every counter, leaving records elsewhere untouched
func (s *LedgerSettings) ResetMoney() {
	s.TotalCapital = decimal.Zero
	s.TotalCollected = decimal.Zero
	s.DailyBalances = DailyBalances{}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Profit returns collected minus capital. Negative while the shop has
// collected less than was invested.
func (s *LedgerSettings) Profit() valueobject.Money {
	return valueobject.NewMoneyRWF(s.TotalCollected.Sub(s.TotalCapital))
}

// GetTotalCapitalMoney returns capital as Money
func (s *LedgerSettings) GetTotalCapitalMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(s.TotalCapital)
}

// GetTotalCollectedMoney returns collected as Money
func (s *LedgerSettings) GetTotalCollectedMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(s.TotalCollected)
}

// TodayBalance returns the balance recorded for today, if any
func (s *LedgerSettings) TodayBalance() (valueobject.Money, bool) {
	if s.DailyBalances == nil {
		return valueobject.ZeroRWF(), false
	}
	v, ok := s.DailyBalances[DayKey(time.Now())]
	if !ok {
		return valueobject.ZeroRWF(), false
	}
	return valueobject.NewMoneyRWF(v), true
}
