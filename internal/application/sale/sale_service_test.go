package sale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/application/uow"
	"github.com/jfjewelry/backend/internal/domain/finance"
	"github.com/jfjewelry/backend/internal/domain/sale"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSaleRepo struct {
	sales   map[uuid.UUID]*sale.Sale
	saveErr error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*sale.Sale)}
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	out := make([]sale.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSaleRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]sale.Sale, error) {
	var out []sale.Sale
	for _, s := range r.sales {
		if !s.DateSold.Before(from) && s.DateSold.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.sales)), nil
}

func (r *fakeSaleRepo) Save(ctx context.Context, s *sale.Sale) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) DeleteAll(ctx context.Context) error {
	r.sales = make(map[uuid.UUID]*sale.Sale)
	return nil
}

func (r *fakeSaleRepo) SumTotals(ctx context.Context) (*sale.Totals, error) {
	totals := &sale.Totals{Revenue: decimal.Zero, Profit: decimal.Zero}
	for _, s := range r.sales {
		totals.Revenue = totals.Revenue.Add(s.Revenue().Amount())
		totals.Profit = totals.Profit.Add(s.Profit().Amount())
		totals.Count++
	}
	return totals, nil
}

type fakeSettingsRepo struct {
	collected    decimal.Decimal
	incrementErr error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{collected: decimal.Zero}
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*finance.LedgerSettings, error) {
	s := finance.NewLedgerSettings()
	s.TotalCollected = r.collected
	return s, nil
}

func (r *fakeSettingsRepo) SaveWithLock(ctx context.Context, s *finance.LedgerSettings, expectedVersion int) error {
	r.collected = s.TotalCollected
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
	return nil
}

type fakeStockAdjuster struct {
	calls map[string]int
	err   error
}

func newFakeStockAdjuster() *fakeStockAdjuster {
	return &fakeStockAdjuster{calls: make(map[string]int)}
}

func (a *fakeStockAdjuster) DecrementStock(ctx context.Context, itemName string, qty int) error {
	if a.err != nil {
		return a.err
	}
	a.calls[itemName] += qty
	return nil
}

type fakeTxManager struct {
	repos uow.Repos
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos uow.Repos) error) error {
	return fn(ctx, m.repos)
}

type saleFixture struct {
	svc      *SaleService
	repo     *fakeSaleRepo
	settings *fakeSettingsRepo
	stock    *fakeStockAdjuster
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	repo := newFakeSaleRepo()
	settings := newFakeSettingsRepo()
	stock := newFakeStockAdjuster()
	tx := &fakeTxManager{repos: uow.Repos{
		Sales:    repo,
		Settings: settings,
	}}
	svc := NewSaleService(tx, repo, stock, nil, zap.NewNop())
	return &saleFixture{svc: svc, repo: repo, settings: settings, stock: stock}
}

func TestSaleService_RecordSale(t *testing.T) {
	f := newSaleFixture(t)

	result, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{
		ItemName:  "silver bracelet",
		CostPrice: decimal.NewFromInt(3000),
		SalePrice: decimal.NewFromInt(5000),
		Quantity:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, "Muraho neza! Wampaye kuri cash nshuti. Merci!!", result.Message)
	assert.Empty(t, result.Warning)
	assert.True(t, result.Sale.Revenue.Equal(decimal.NewFromInt(10000)))
	assert.True(t, result.Sale.Profit.Equal(decimal.NewFromInt(4000)))
	assert.True(t, f.settings.collected.Equal(decimal.NewFromInt(10000)), "revenue enters the collected total")
	assert.Equal(t, 2, f.stock.calls["silver bracelet"])
}

func TestSaleService_RecordSale_StockFailureWarnsOnly(t *testing.T) {
	f := newSaleFixture(t)
	f.stock.err = shared.ErrInsufficientStock

	result, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{
		ItemName:  "silver bracelet",
		CostPrice: decimal.NewFromInt(3000),
		SalePrice: decimal.NewFromInt(5000),
		Quantity:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Sale recorded, but stock adjustment failed for silver bracelet", result.Warning)
	assert.True(t, f.settings.collected.Equal(decimal.NewFromInt(5000)), "the sale still lands")
}

func TestSaleService_RecordSale_InvalidPrice(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{
		ItemName:  "silver bracelet",
		SalePrice: decimal.Zero,
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Empty(t, f.repo.sales)
	assert.True(t, f.settings.collected.IsZero())
}

func TestSaleService_RecordSale_SaveFailureBooksNothing(t *testing.T) {
	f := newSaleFixture(t)
	f.repo.saveErr = errors.New("connection reset")

	_, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{
		ItemName:  "silver bracelet",
		SalePrice: decimal.NewFromInt(5000),
		Quantity:  1,
	})

	require.Error(t, err)
	assert.True(t, f.settings.collected.IsZero())
	assert.Empty(t, f.stock.calls, "no stock adjustment without a committed sale")
}

func TestSaleService_GetTotals(t *testing.T) {
	f := newSaleFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{
			ItemName:  "earrings",
			CostPrice: decimal.NewFromInt(1000),
			SalePrice: decimal.NewFromInt(1500),
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	totals, err := f.svc.GetTotals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.Count)
	assert.True(t, totals.Revenue.Equal(decimal.NewFromInt(4500)))
	assert.True(t, totals.Profit.Equal(decimal.NewFromInt(1500)))
}

func TestSaleService_DeleteSale_NotFound(t *testing.T) {
	f := newSaleFixture(t)

	err := f.svc.DeleteSale(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSaleService_ListSales_DateRange(t *testing.T) {
	f := newSaleFixture(t)

	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	inside := day.Add(10 * time.Hour)
	outside := day.Add(30 * time.Hour)
	for _, soldAt := range []time.Time{inside, outside} {
		at := soldAt
		_, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{
			ItemName:  "bracelet",
			CostPrice: decimal.NewFromInt(1000),
			SalePrice: decimal.NewFromInt(1500),
			Quantity:  1,
			DateSold:  &at,
		})
		require.NoError(t, err)
	}

	from := day
	to := day.Add(24 * time.Hour)
	sales, total, err := f.svc.ListSales(context.Background(), SaleListFilter{From: &from, To: &to})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sales, 1)
	assert.Equal(t, inside, sales[0].DateSold)
}
