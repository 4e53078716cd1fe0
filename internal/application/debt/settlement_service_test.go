package debt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/application/uow"
	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/jfjewelry/backend/internal/domain/sale"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- fakes ----

type fakeDebtRepo struct {
	debts        map[uuid.UUID]*debt.Debt
	saveLockErr  error
	savedVersion int
}

func newFakeDebtRepo() *fakeDebtRepo {
	return &fakeDebtRepo{debts: make(map[uuid.UUID]*debt.Debt)}
}

func (r *fakeDebtRepo) FindByID(ctx context.Context, id uuid.UUID) (*debt.Debt, error) {
	d, ok := r.debts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDebtRepo) FindAll(ctx context.Context, filter shared.Filter) ([]debt.Debt, error) {
	out := make([]debt.Debt, 0, len(r.debts))
	for _, d := range r.debts {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDebtRepo) FindSettled(ctx context.Context) ([]debt.Debt, error) {
	var out []debt.Debt
	for _, d := range r.debts {
		if d.IsSettled() && !d.IsContactOnly() {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDebtRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.debts)), nil
}

func (r *fakeDebtRepo) Save(ctx context.Context, d *debt.Debt) error {
	copied := *d
	r.debts[d.ID] = &copied
	return nil
}

func (r *fakeDebtRepo) SaveWithLock(ctx context.Context, d *debt.Debt, expectedVersion int) error {
	if r.saveLockErr != nil {
		return r.saveLockErr
	}
	stored, ok := r.debts[d.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.savedVersion = d.Version
	copied := *d
	r.debts[d.ID] = &copied
	return nil
}

func (r *fakeDebtRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.debts, id)
	return nil
}

func (r *fakeDebtRepo) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range r.debts {
		if !d.IsContactOnly() {
			total = total.Add(d.OutstandingAmount)
		}
	}
	return total, nil
}

func (r *fakeDebtRepo) CountUnpaid(ctx context.Context) (int64, error) {
	var count int64
	for _, d := range r.debts {
		if !d.IsContactOnly() && !d.IsSettled() {
			count++
		}
	}
	return count, nil
}

type fakeSettingsRepo struct {
	settings     *finance.LedgerSettings
	collected    decimal.Decimal
	incrementErr error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: finance.NewLedgerSettings(), collected: decimal.Zero}
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*finance.LedgerSettings, error) {
	copied := *r.settings
	copied.TotalCollected = r.collected
	return &copied, nil
}

func (r *fakeSettingsRepo) SaveWithLock(ctx context.Context, s *finance.LedgerSettings, expectedVersion int) error {
	copied := *s
	r.settings = &copied
	return nil
}

func (r *fakeSettingsRepo) IncrementCollected(ctx context.Context, amount decimal.Decimal) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.collected = r.collected.Add(amount)
	return nil
}

func (r *fakeSettingsRepo) ResetMoney(ctx context.Context) error {
	r.collected = decimal.Zero
	r.settings = finance.NewLedgerSettings()
	return nil
}

type fakeSaleRepo struct {
	sales []*sale.Sale
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	return nil, shared.ErrNotFound
}
func (r *fakeSaleRepo) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]sale.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.sales)), nil
}
func (r *fakeSaleRepo) Save(ctx context.Context, s *sale.Sale) error {
	r.sales = append(r.sales, s)
	return nil
}
func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeSaleRepo) DeleteAll(ctx context.Context) error {
	r.sales = nil
	return nil
}
func (r *fakeSaleRepo) SumTotals(ctx context.Context) (*sale.Totals, error) {
	return &sale.Totals{}, nil
}

type fakeTxManager struct {
	repos uow.Repos
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos uow.Repos) error) error {
	return fn(ctx, m.repos)
}

type fakeStockAdjuster struct {
	calls []string
	err   error
}

func (a *fakeStockAdjuster) DecrementStock(ctx context.Context, itemName string, quantity int) error {
	a.calls = append(a.calls, itemName)
	return a.err
}

type fakeIdempotencyStore struct {
	seen map[string]bool
	err  error
}

func (s *fakeIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	return s.seen[key], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

// ---- fixtures ----

type settlementFixture struct {
	svc      *SettlementService
	debts    *fakeDebtRepo
	settings *fakeSettingsRepo
	sales    *fakeSaleRepo
	stock    *fakeStockAdjuster
	idem     *fakeIdempotencyStore
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	debts := newFakeDebtRepo()
	settings := newFakeSettingsRepo()
	sales := &fakeSaleRepo{}
	stock := &fakeStockAdjuster{}
	idem := &fakeIdempotencyStore{}
	tx := &fakeTxManager{repos: uow.Repos{Debts: debts, Sales: sales, Settings: settings}}

	svc := NewSettlementService(tx, debts, stock, idem,
		shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, nil, zap.NewNop())

	return &settlementFixture{svc: svc, debts: debts, settings: settings, sales: sales, stock: stock, idem: idem}
}

func createTestDebt(t *testing.T, repo *fakeDebtRepo, amount int64) *debt.Debt {
	t.Helper()
	d, err := debt.NewDebt("Mukamana", "0788123456", "2 gold rings",
		debt.LineItems{{Name: "gold ring", Quantity: 2}},
		valueobject.NewMoneyRWFFromInt(amount), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), d))
	return d
}

// ---- tests ----

func TestSettlementService_ApplyPayment_Partial(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 10000)

	result, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromInt(4000),
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4000).Equal(result.AppliedAmount))
	assert.False(t, result.FullySettled)
	assert.True(t, decimal.NewFromInt(6000).Equal(result.Debt.OutstandingAmount))
	assert.Equal(t, "Thank you very much!! Mugire ibihe byiza. Asigaye ni 6,000 FRW.", result.Message)
	assert.True(t, decimal.NewFromInt(4000).Equal(f.settings.collected), "collected total grows by the payment")
	assert.Empty(t, f.stock.calls, "stock stays untouched until the debt settles")
}

func TestSettlementService_ApplyPayment_Overpayment(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 5000)

	result, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromInt(7000),
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(result.AppliedAmount), "only the owed amount is applied to the balance")
	assert.True(t, result.FullySettled)
	assert.True(t, result.Debt.OutstandingAmount.IsZero())
	assert.Equal(t, "Thank you very much!! Mugire ibihe byiza.", result.Message)
	assert.True(t, decimal.NewFromInt(7000).Equal(f.settings.collected), "the full cash handed over enters the collected total")
}

func TestSettlementService_ApplyPayment_SettlementAdjustsStock(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 5000)

	result, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromInt(5000),
	})

	require.NoError(t, err)
	assert.True(t, result.FullySettled)
	assert.Equal(t, []string{"gold ring"}, f.stock.calls)
	assert.Empty(t, result.Warning)
}

func TestSettlementService_ApplyPayment_StockFailureIsWarningOnly(t *testing.T) {
	f := newSettlementFixture(t)
	f.stock.err = shared.ErrInsufficientStock
	d := createTestDebt(t, f.debts, 5000)

	result, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromInt(5000),
	})

	require.NoError(t, err, "stock failure must not fail the payment")
	assert.True(t, result.FullySettled)
	assert.Contains(t, result.Warning, "stock adjustment failed")
	assert.True(t, decimal.NewFromInt(5000).Equal(f.settings.collected))
}

func TestSettlementService_ApplyPayment_InvalidAmount(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 5000)

	_, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount: decimal.Zero,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	assert.True(t, f.settings.collected.IsZero())
}

func TestSettlementService_ApplyPayment_AlreadySettled(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 5000)

	_, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{Amount: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	_, err = f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{Amount: decimal.NewFromInt(1000)})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestSettlementService_ApplyPayment_NotFound(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.svc.ApplyPayment(context.Background(), uuid.New(), ApplyPaymentRequest{
		Amount: decimal.NewFromInt(1000),
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSettlementService_ApplyPayment_ConcurrentConflict(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 5000)
	f.debts.saveLockErr = shared.ErrConcurrencyConflict

	_, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromInt(1000),
	})

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.True(t, f.settings.collected.IsZero(), "nothing is booked on conflict")
}

func TestSettlementService_ApplyPayment_DuplicateKeyRejected(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 10000)

	_, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount:         decimal.NewFromInt(4000),
		IdempotencyKey: "pay-1",
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount:         decimal.NewFromInt(4000),
		IdempotencyKey: "pay-1",
	})

	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
	assert.True(t, decimal.NewFromInt(4000).Equal(f.settings.collected), "the replay books nothing")
}

func TestSettlementService_ApplyPayment_BrokenIdempotencyStoreDoesNotBlock(t *testing.T) {
	f := newSettlementFixture(t)
	f.idem.err = errors.New("store down")
	d := createTestDebt(t, f.debts, 10000)

	_, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount:         decimal.NewFromInt(4000),
		IdempotencyKey: "pay-1",
	})

	assert.NoError(t, err)
}

func TestSettlementService_ApplyPayment_CustomThankYou(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 10000)

	result, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{
		Amount:   decimal.NewFromInt(4000),
		ThankYou: "Murakoze cyane!",
	})

	require.NoError(t, err)
	assert.Equal(t, "Murakoze cyane! Asigaye ni 6,000 FRW.", result.Message)
}

func TestSettlementService_MarkFullyPaid(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 8000)

	result, err := f.svc.MarkFullyPaid(context.Background(), d.ID, MarkFullyPaidRequest{
		CostPrice: decimal.NewFromInt(6000),
	})

	require.NoError(t, err)
	assert.True(t, result.FullySettled)
	assert.True(t, decimal.NewFromInt(8000).Equal(result.AppliedAmount))
	assert.True(t, decimal.NewFromInt(8000).Equal(f.settings.collected))

	require.Len(t, f.sales.sales, 1)
	recorded := f.sales.sales[0]
	assert.Equal(t, "2 gold rings", recorded.ItemName)
	assert.True(t, decimal.NewFromInt(6000).Equal(recorded.CostPrice))
	assert.True(t, decimal.NewFromInt(8000).Equal(recorded.SalePrice))
	assert.True(t, decimal.NewFromInt(2000).Equal(recorded.Profit().Amount()))

	assert.Equal(t, []string{"gold ring"}, f.stock.calls)
}

func TestSettlementService_MarkFullyPaid_PartialThenFull(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 10000)

	_, err := f.svc.ApplyPayment(context.Background(), d.ID, ApplyPaymentRequest{Amount: decimal.NewFromInt(4000)})
	require.NoError(t, err)

	result, err := f.svc.MarkFullyPaid(context.Background(), d.ID, MarkFullyPaidRequest{
		CostPrice: decimal.NewFromInt(5000),
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6000).Equal(result.AppliedAmount), "only the balance is applied")
	assert.True(t, decimal.NewFromInt(10000).Equal(f.settings.collected))
}

func TestSettlementService_MarkFullyPaid_NegativeCost(t *testing.T) {
	f := newSettlementFixture(t)
	d := createTestDebt(t, f.debts, 8000)

	_, err := f.svc.MarkFullyPaid(context.Background(), d.ID, MarkFullyPaidRequest{
		CostPrice: decimal.NewFromInt(-100),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_COST", domainErr.Code)
}
