package debt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/application/uow"
	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/inventory"
	"github.com/jfjewelry/backend/internal/domain/notification"
	"github.com/jfjewelry/backend/internal/domain/sale"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementService applies payments to debts. The debt write and the
// collected-total increment share one transaction; stock adjustment is
// a secondary effect that never rolls a payment back.
type SettlementService struct {
	tx             uow.TransactionManager
	debtRepo       debt.Repository
	stockAdjuster  inventory.StockAdjuster
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	tx uow.TransactionManager,
	debtRepo debt.Repository,
	stockAdjuster inventory.StockAdjuster,
	idempotency shared.IdempotencyStore,
	idempotencyCfg shared.IdempotencyConfig,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		tx:             tx,
		debtRepo:       debtRepo,
		stockAdjuster:  stockAdjuster,
		idempotency:    idempotency,
		idempotencyCfg: idempotencyCfg,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ApplyPaymentRequest is the input for applying a payment
type ApplyPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Note           string          `json:"note"`
	ThankYou       string          `json:"thank_you"`
	IdempotencyKey string          `json:"-"`
}

// MarkFullyPaidRequest is the input for settling a debt in one step
// while recording the cost basis of what was sold on credit.
type MarkFullyPaidRequest struct {
	CostPrice      decimal.Decimal `json:"cost_price"`
	Note           string          `json:"note"`
	ThankYou       string          `json:"thank_you"`
	IdempotencyKey string          `json:"-"`
}

// SettlementResult is the outcome of a payment. Warning is set when a
// secondary effect (stock adjustment) failed after the payment landed.
type SettlementResult struct {
	Debt          *DebtResponse   `json:"debt"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	FullySettled  bool            `json:"fully_settled"`
	Message       string          `json:"message"`
	Warning       string          `json:"warning,omitempty"`
}

// ApplyPayment applies a payment to a debt. The balance is reduced by
// at most what is owed, but the collected total grows by the full
// amount the customer handed over: cash tendered is cash in the till,
// owed or not.
func (s *SettlementService) ApplyPayment(ctx context.Context, debtID uuid.UUID, req ApplyPaymentRequest) (*SettlementResult, error) {
	if err := s.guardReplay(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	d, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}

	expectedVersion := d.Version
	applied, err := d.ApplyPayment(valueobject.NewMoneyRWF(req.Amount), req.Note)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		if err := repos.Debts.SaveWithLock(ctx, d, expectedVersion); err != nil {
			return err
		}
		return repos.Settings.IncrementCollected(ctx, req.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	s.logger.Info("payment applied",
		zap.String("debt_id", d.ID.String()),
		zap.String("applied", applied.Amount().String()),
		zap.String("outstanding", d.OutstandingAmount.String()),
		zap.Bool("settled", d.IsSettled()),
	)

	result := &SettlementResult{
		Debt:          toDebtResponse(d),
		AppliedAmount: applied.Amount(),
		FullySettled:  d.IsSettled(),
		Message:       notification.SettlementThanks(req.ThankYou, d.GetOutstandingAmountMoney(), d.IsSettled()),
	}

	if d.IsSettled() {
		result.Warning = s.adjustStock(ctx, d)
	}

	return result, nil
}

// MarkFullyPaid settles the whole balance in one step and records a
// sale row carrying the cost basis, so the margin on credit sales shows
// up in the sales rollups.
func (s *SettlementService) MarkFullyPaid(ctx context.Context, debtID uuid.UUID, req MarkFullyPaidRequest) (*SettlementResult, error) {
	if req.CostPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	if err := s.guardReplay(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	d, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}

	expectedVersion := d.Version
	applied, err := d.Settle(req.Note)
	if err != nil {
		return nil, err
	}

	saleRecord, err := sale.NewSale(
		d.ItemsDescription,
		valueobject.NewMoneyRWF(req.CostPrice),
		d.GetOriginalAmountMoney(),
		1,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos uow.Repos) error {
		if err := repos.Debts.SaveWithLock(ctx, d, expectedVersion); err != nil {
			return err
		}
		if err := repos.Sales.Save(ctx, saleRecord); err != nil {
			return err
		}
		return repos.Settings.IncrementCollected(ctx, applied.Amount())
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)
	s.publishSaleEvents(ctx, saleRecord)

	s.logger.Info("debt marked fully paid",
		zap.String("debt_id", d.ID.String()),
		zap.String("applied", applied.Amount().String()),
		zap.String("cost_price", req.CostPrice.String()),
	)

	return &SettlementResult{
		Debt:          toDebtResponse(d),
		AppliedAmount: applied.Amount(),
		FullySettled:  true,
		Message:       notification.SettlementThanks(req.ThankYou, valueobject.ZeroRWF(), true),
		Warning:       s.adjustStock(ctx, d),
	}, nil
}

// guardReplay rejects a request whose idempotency key was seen before.
// An empty key skips the guard.
func (s *SettlementService) guardReplay(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return nil
	}
	newlyMarked, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyCfg.TTL)
	if err != nil {
		// The guard is best-effort: a broken store must not block payments
		s.logger.Warn("idempotency store unavailable", zap.Error(err))
		return nil
	}
	if !newlyMarked {
		return shared.ErrDuplicateRequest
	}
	return nil
}

// adjustStock decrements stock for each credited line item. Failures
// are reported back as a warning, never as an error: the payment has
// already landed.
func (s *SettlementService) adjustStock(ctx context.Context, d *debt.Debt) string {
	if s.stockAdjuster == nil || len(d.LineItems) == 0 {
		return ""
	}
	for _, li := range d.LineItems {
		if err := s.stockAdjuster.DecrementStock(ctx, li.Name, li.Quantity); err != nil {
			s.logger.Warn("stock adjustment failed after settlement",
				zap.String("debt_id", d.ID.String()),
				zap.String("item", li.Name),
				zap.Int("quantity", li.Quantity),
				zap.Error(err),
			)
			return "Payment recorded, but stock adjustment failed for " + li.Name
		}
	}
	return ""
}

func (s *SettlementService) publishEvents(ctx context.Context, d *debt.Debt) {
	if s.eventPublisher == nil {
		return
	}
	events := d.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish settlement events",
			zap.String("debt_id", d.ID.String()),
			zap.Error(err))
	}
	d.ClearDomainEvents()
}

func (s *SettlementService) publishSaleEvents(ctx context.Context, rec *sale.Sale) {
	if s.eventPublisher == nil {
		return
	}
	events := rec.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish sale events",
			zap.String("sale_id", rec.ID.String()),
			zap.Error(err))
	}
	rec.ClearDomainEvents()
}
