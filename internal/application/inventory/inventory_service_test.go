package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/inventory"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeItemRepo struct {
	items map[uuid.UUID]*inventory.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*inventory.Item)}
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) FindByName(ctx context.Context, name string) (*inventory.Item, error) {
	for _, item := range r.items {
		if item.Name == name {
			copied := *item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Item, error) {
	out := make([]inventory.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeItemRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeItemRepo) Save(ctx context.Context, item *inventory.Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) SaveWithLock(ctx context.Context, item *inventory.Item, expectedVersion int) error {
	stored, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) DecrementQuantity(ctx context.Context, name string, qty int) error {
	for _, item := range r.items {
		if item.Name == name {
			if item.QuantityOnHand < qty {
				return shared.ErrInsufficientStock
			}
			item.QuantityOnHand -= qty
			item.Version++
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func newInventoryService(t *testing.T) (*InventoryService, *fakeItemRepo) {
	t.Helper()
	repo := newFakeItemRepo()
	return NewInventoryService(repo, zap.NewNop()), repo
}

func createTestItem(t *testing.T, svc *InventoryService, name string, qty int) *ItemResponse {
	t.Helper()
	resp, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Name:      name,
		Quantity:  qty,
		CostPrice: decimal.NewFromInt(3000),
		SalePrice: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	return resp
}

func TestInventoryService_CreateItem(t *testing.T) {
	svc, repo := newInventoryService(t)

	resp := createTestItem(t, svc, "gold ring", 5)

	assert.Equal(t, "gold ring", resp.Name)
	assert.Equal(t, 5, resp.QuantityOnHand)
	assert.True(t, resp.InStock)
	assert.Len(t, repo.items, 1)
}

func TestInventoryService_CreateItem_DuplicateName(t *testing.T) {
	svc, _ := newInventoryService(t)
	createTestItem(t, svc, "gold ring", 5)

	_, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Name:      "gold ring",
		Quantity:  2,
		SalePrice: decimal.NewFromInt(4000),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestInventoryService_SetQuantity(t *testing.T) {
	svc, _ := newInventoryService(t)
	created := createTestItem(t, svc, "gold ring", 5)

	resp, err := svc.SetQuantity(context.Background(), created.ID, SetQuantityRequest{Quantity: 12})

	require.NoError(t, err)
	assert.Equal(t, 12, resp.QuantityOnHand)
}

func TestInventoryService_UpdateItem(t *testing.T) {
	svc, _ := newInventoryService(t)
	created := createTestItem(t, svc, "gold ring", 5)

	resp, err := svc.UpdateItem(context.Background(), created.ID, UpdateItemRequest{
		Name:      "gold ring 18k",
		CostPrice: decimal.NewFromInt(4000),
		SalePrice: decimal.NewFromInt(7000),
		Notes:     "resized stock",
	})

	require.NoError(t, err)
	assert.Equal(t, "gold ring 18k", resp.Name)
	assert.True(t, resp.SalePrice.Equal(decimal.NewFromInt(7000)))
	assert.Equal(t, "resized stock", resp.Notes)
}

func TestInventoryService_DecrementStock(t *testing.T) {
	svc, repo := newInventoryService(t)
	created := createTestItem(t, svc, "gold ring", 5)

	err := svc.DecrementStock(context.Background(), "gold ring", 2)

	require.NoError(t, err)
	assert.Equal(t, 3, repo.items[created.ID].QuantityOnHand)
}

func TestInventoryService_DecrementStock_Insufficient(t *testing.T) {
	svc, _ := newInventoryService(t)
	createTestItem(t, svc, "gold ring", 1)

	err := svc.DecrementStock(context.Background(), "gold ring", 2)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestInventoryService_DecrementStock_UnknownItem(t *testing.T) {
	svc, _ := newInventoryService(t)

	err := svc.DecrementStock(context.Background(), "no such thing", 1)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInventoryService_DecrementStock_InvalidQuantity(t *testing.T) {
	svc, _ := newInventoryService(t)

	err := svc.DecrementStock(context.Background(), "gold ring", 0)

	require.Error(t, err)
}

func TestInventoryService_GetItem_NotFound(t *testing.T) {
	svc, _ := newInventoryService(t)

	_, err := svc.GetItem(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
