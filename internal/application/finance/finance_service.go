// Package finance provides the dashboard rollup, money counters, and
// the reset operations.
package finance

import (
	"context"
	"time"

	"github.com/jfjewelry/backend/internal/application/uow"
	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FinanceService reads the dashboard rollup and maintains the money
// counters on the settings singleton.
type FinanceService struct {
	tx     uow.TransactionManager
	logger *zap.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(tx uow.TransactionManager, logger *zap.Logger) *FinanceService {
	return &FinanceService{tx: tx, logger: logger}
}

// SetCapitalRequest is the input for replacing the invested capital
type SetCapitalRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SetDailyBalanceRequest records the cash counted at close for a day.
// Day defaults to today when omitted.
type SetDailyBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Day    *time.Time      `json:"day"`
}

// SettingsResponse represents the money counters in API responses
type SettingsResponse struct {
	TotalCapital   decimal.Decimal            `json:"total_capital"`
	TotalCollected decimal.Decimal            `json:"total_collected"`
	Profit         decimal.Decimal            `json:"profit"`
	DailyBalances  map[string]decimal.Decimal `json:"daily_balances"`
}

// GetSummary computes the dashboard rollup. All figures come from the
// same transaction, so a concurrent settlement cannot split the view.
func (s *FinanceService) GetSummary(ctx context.Context) (*finance.Summary, error) {
	var summary finance.Summary

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		totalUnpaid, err := repos.Debts.SumOutstanding(ctx)
		if err != nil {
			return err
		}

		unpaidCount, err := repos.Debts.CountUnpaid(ctx)
		if err != nil {
			return err
		}

		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}

		summary = finance.Summary{
			TotalUnpaid:    totalUnpaid,
			UnpaidCount:    unpaidCount,
			TotalCollected: settings.TotalCollected,
			TotalCapital:   settings.TotalCapital,
			Profit:         settings.Profit().Amount(),
		}
		if today, ok := settings.TodayBalance(); ok {
			amount := today.Amount()
			summary.TodayBalance = &amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// GetSettings returns the money counters
func (s *FinanceService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	var resp *SettingsResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}
		resp = toSettingsResponse(settings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SetCapital replaces the invested capital figure
func (s *FinanceService) SetCapital(ctx context.Context, req SetCapitalRequest) (*SettingsResponse, error) {
	var resp *SettingsResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}

		expectedVersion := settings.Version
		if err := settings.SetCapital(valueobject.NewMoneyRWF(req.Amount)); err != nil {
			return err
		}

		if err := repos.Settings.SaveWithLock(ctx, settings, expectedVersion); err != nil {
			return err
		}
		resp = toSettingsResponse(settings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("capital updated", zap.String("amount", req.Amount.String()))
	return resp, nil
}

// SetDailyBalance records the cash counted for a day
func (s *FinanceService) SetDailyBalance(ctx context.Context, req SetDailyBalanceRequest) (*SettingsResponse, error) {
	day := time.Now()
	if req.Day != nil {
		day = *req.Day
	}

	var resp *SettingsResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}

		expectedVersion := settings.Version
		if err := settings.SetDailyBalance(day, valueobject.NewMoneyRWF(req.Amount)); err != nil {
			return err
		}

		if err := repos.Settings.SaveWithLock(ctx, settings, expectedVersion); err != nil {
			return err
		}
		resp = toSettingsResponse(settings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("daily balance recorded",
		zap.String("day", finance.DayKey(day)),
		zap.String("amount", req.Amount.String()))
	return resp, nil
}

func toSettingsResponse(settings *finance.LedgerSettings) *SettingsResponse {
	balances := make(map[string]decimal.Decimal, len(settings.DailyBalances))
	for k, v := range settings.DailyBalances {
		balances[k] = v
	}
	return &SettingsResponse{
		TotalCapital:   settings.TotalCapital,
		TotalCollected: settings.TotalCollected,
		Profit:         settings.Profit().Amount(),
		DailyBalances:  balances,
	}
}
