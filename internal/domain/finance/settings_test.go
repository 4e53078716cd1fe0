package finance

import (
	"testing"
	"time"

	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerSettings(t *testing.T) {
	s := NewLedgerSettings()

	assert.True(t, s.TotalCapital.IsZero())
	assert.True(t, s.TotalCollected.IsZero())
	assert.Empty(t, s.DailyBalances)
	assert.Equal(t, 1, s.GetVersion())
}

func TestLedgerSettings_Profit(t *testing.T) {
	tests := []struct {
		name      string
		capital   int64
		collected int64
		want      int64
	}{
		{name: "positive profit", capital: 100000, collected: 150000, want: 50000},
		{name: "negative profit", capital: 200000, collected: 150000, want: -50000},
		{name: "zero profit", capital: 0, collected: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLedgerSettings()
			require.NoError(t, s.SetCapital(valueobject.NewMoneyRWFFromInt(tt.capital)))
			if tt.collected > 0 {
				require.NoError(t, s.AddCollected(valueobject.NewMoneyRWFFromInt(tt.collected)))
			}
			assert.True(t, s.Profit().Amount().Equal(decimal.NewFromInt(tt.want)))
		})
	}
}

func TestLedgerSettings_AddCollected(t *testing.T) {
	s := NewLedgerSettings()

	require.NoError(t, s.AddCollected(valueobject.NewMoneyRWFFromInt(4000)))
	require.NoError(t, s.AddCollected(valueobject.NewMoneyRWFFromInt(6000)))
	assert.True(t, s.TotalCollected.Equal(decimal.NewFromInt(10000)))

	err := s.AddCollected(valueobject.ZeroRWF())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
}

func TestLedgerSettings_SetCapital_Negative(t *testing.T) {
	s := NewLedgerSettings()
	err := s.SetCapital(valueobject.NewMoneyRWFFromInt(-1))
	require.Error(t, err)
	assert.True(t, s.TotalCapital.IsZero())
}

func TestLedgerSettings_DailyBalances(t *testing.T) {
	s := NewLedgerSettings()
	today := time.Now()

	require.NoError(t, s.SetDailyBalance(today, valueobject.NewMoneyRWFFromInt(25000)))

	got, ok := s.TodayBalance()
	require.True(t, ok)
	assert.True(t, got.Amount().Equal(decimal.NewFromInt(25000)))

	// Overwrite for the same day keeps one entry
	require.NoError(t, s.SetDailyBalance(today, valueobject.NewMoneyRWFFromInt(30000)))
	assert.Len(t, s.DailyBalances, 1)
}

func TestLedgerSettings_ResetMoney(t *testing.T) {
	s := NewLedgerSettings()
	require.NoError(t, s.SetCapital(valueobject.NewMoneyRWFFromInt(100000)))
	require.NoError(t, s.AddCollected(valueobject.NewMoneyRWFFromInt(40000)))
	require.NoError(t, s.SetDailyBalance(time.Now(), valueobject.NewMoneyRWFFromInt(5000)))
	versionBefore := s.GetVersion()

	s.ResetMoney()

	assert.True(t, s.TotalCapital.IsZero())
	assert.True(t, s.TotalCollected.IsZero())
	assert.Empty(t, s.DailyBalances)
	assert.Equal(t, versionBefore+1, s.GetVersion())
}
