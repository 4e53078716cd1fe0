package finance

import (
	"context"

	"github.com/jfjewelry/backend/internal/application/uow"
	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaintenanceService performs the three reset operations. Every reset
// runs in a single transaction and publishes a LedgerReset event with
// the pre-reset counters.
type MaintenanceService struct {
	tx             uow.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(tx uow.TransactionManager, eventPublisher shared.EventPublisher, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		tx:             tx,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ResetResult reports what a reset cleared
type ResetResult struct {
	Scope             string `json:"scope"`
	RevertedDebtCount int64  `json:"reverted_debt_count,omitempty"`
	DeletedSaleCount  int64  `json:"deleted_sale_count,omitempty"`
}

// ResetMoneyOnly zeroes capital, collected and daily balances. Debt,
// sale and inventory records are untouched.
func (s *MaintenanceService) ResetMoneyOnly(ctx context.Context) (*ResetResult, error) {
	var event *finance.LedgerResetEvent

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}
		event = finance.NewLedgerResetEvent(settings, finance.ResetScopeMoneyOnly)
		return repos.Settings.ResetMoney(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event)
	s.logger.Info("money counters reset",
		zap.String("previous_capital", event.PreviousCapital.String()),
		zap.String("previous_collected", event.PreviousCollected.String()))

	return &ResetResult{Scope: string(finance.ResetScopeMoneyOnly)}, nil
}

// ResetCycle starts a new collection cycle: every settled debt is
// reopened with its full original balance, the sales log is cleared,
// and the money counters are zeroed. Outstanding and partial debts
// keep their balances; contact-only records are untouched.
func (s *MaintenanceService) ResetCycle(ctx context.Context) (*ResetResult, error) {
	var (
		event    *finance.LedgerResetEvent
		reverted int64
		sales    int64
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}
		event = finance.NewLedgerResetEvent(settings, finance.ResetScopeCycle)

		settled, err := repos.Debts.FindSettled(ctx)
		if err != nil {
			return err
		}
		for i := range settled {
			d := &settled[i]
			expectedVersion := d.Version
			if err := d.RevertSettlement(); err != nil {
				return err
			}
			if err := repos.Debts.SaveWithLock(ctx, d, expectedVersion); err != nil {
				return err
			}
			reverted++
		}

		saleTotals, err := repos.Sales.SumTotals(ctx)
		if err != nil {
			return err
		}
		sales = saleTotals.Count

		if err := repos.Sales.DeleteAll(ctx); err != nil {
			return err
		}
		return repos.Settings.ResetMoney(ctx)
	})
	if err != nil {
		return nil, err
	}

	event.RevertedDebtCount = reverted
	event.DeletedSaleCount = sales
	s.publish(ctx, event)

	s.logger.Info("collection cycle reset",
		zap.Int64("reverted_debts", reverted),
		zap.Int64("deleted_sales", sales))

	return &ResetResult{
		Scope:             string(finance.ResetScopeCycle),
		RevertedDebtCount: reverted,
		DeletedSaleCount:  sales,
	}, nil
}

// FactoryReset returns the till to a blank state: the sales log is
// cleared and every money counter is zeroed. Debt records, settled or
// not, and inventory are the shop's history and survive even this.
func (s *MaintenanceService) FactoryReset(ctx context.Context) (*ResetResult, error) {
	var (
		event *finance.LedgerResetEvent
		sales int64
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		settings, err := repos.Settings.Get(ctx)
		if err != nil {
			return err
		}
		event = finance.NewLedgerResetEvent(settings, finance.ResetScopeFactory)

		saleTotals, err := repos.Sales.SumTotals(ctx)
		if err != nil {
			return err
		}
		sales = saleTotals.Count

		if err := repos.Sales.DeleteAll(ctx); err != nil {
			return err
		}
		return repos.Settings.ResetMoney(ctx)
	})
	if err != nil {
		return nil, err
	}

	event.DeletedSaleCount = sales
	s.publish(ctx, event)

	s.logger.Warn("factory reset performed",
		zap.Int64("deleted_sales", sales))

	return &ResetResult{
		Scope:            string(finance.ResetScopeFactory),
		DeletedSaleCount: sales,
	}, nil
}

func (s *MaintenanceService) publish(ctx context.Context, event *finance.LedgerResetEvent) {
	if s.eventPublisher == nil || event == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish reset event", zap.Error(err))
	}
}
