package debt

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDebtService(t *testing.T) (*DebtService, *fakeDebtRepo) {
	t.Helper()
	repo := newFakeDebtRepo()
	return NewDebtService(repo, nil, zap.NewNop()), repo
}

func TestDebtService_CreateDebt(t *testing.T) {
	svc, repo := newDebtService(t)

	result, err := svc.CreateDebt(context.Background(), CreateDebtRequest{
		CustomerName:     "Mukamana",
		Phone:            "0788123456",
		ItemsDescription: "2 gold rings",
		LineItems:        []LineItemInput{{Name: "gold ring", Quantity: 2}},
		Amount:           decimal.NewFromInt(10000),
	})

	require.NoError(t, err)
	assert.Equal(t, "OUTSTANDING", result.Debt.Status)
	assert.Equal(t, "250788123456", result.Debt.Phone, "phone is normalized on intake")
	assert.Equal(t,
		"Muraho mufashe 2 gold rings amafaranga muzishyura ni 10,000 FRW. MERCI BEAUCOUP CHER CLIENT",
		result.Message)
	assert.Len(t, repo.debts, 1)
}

func TestDebtService_CreateDebt_InvalidAmount(t *testing.T) {
	svc, repo := newDebtService(t)

	_, err := svc.CreateDebt(context.Background(), CreateDebtRequest{
		CustomerName:     "Mukamana",
		ItemsDescription: "necklace",
		Amount:           decimal.Zero,
	})

	require.Error(t, err)
	assert.Empty(t, repo.debts)
}

func TestDebtService_CreateContact(t *testing.T) {
	svc, _ := newDebtService(t)

	resp, err := svc.CreateContact(context.Background(), CreateContactRequest{
		CustomerName: "Uwase",
		Phone:        "0722000111",
	})

	require.NoError(t, err)
	assert.True(t, resp.ContactOnly)
	assert.Equal(t, "SETTLED", resp.Status, "contacts are settled from inception")
	assert.True(t, resp.OriginalAmount.IsZero())
}

func TestDebtService_ReminderMessage(t *testing.T) {
	svc, repo := newDebtService(t)
	d := createTestDebt(t, repo, 6000)

	msg, err := svc.ReminderMessage(context.Background(), d.ID)

	require.NoError(t, err)
	assert.Equal(t, "Muraho, mwampaye kuri 2 gold rings amafaranga muzishyura ni 6,000 FRW", msg)
}

func TestDebtService_ReminderMessage_ContactOnly(t *testing.T) {
	svc, _ := newDebtService(t)

	resp, err := svc.CreateContact(context.Background(), CreateContactRequest{CustomerName: "Uwase"})
	require.NoError(t, err)

	_, err = svc.ReminderMessage(context.Background(), resp.ID)
	require.Error(t, err)
}

func TestDebtService_UpdateDebt(t *testing.T) {
	svc, repo := newDebtService(t)
	d := createTestDebt(t, repo, 6000)

	resp, err := svc.UpdateDebt(context.Background(), d.ID, UpdateDebtRequest{
		CustomerName:     "Mukamana Claire",
		Phone:            "0788999888",
		ItemsDescription: "2 gold rings, resized",
	})

	require.NoError(t, err)
	assert.Equal(t, "Mukamana Claire", resp.CustomerName)
	assert.Equal(t, "250788999888", resp.Phone)
	assert.Equal(t, 2, resp.Version)
}

func TestDebtService_GetDebt_NotFound(t *testing.T) {
	svc, _ := newDebtService(t)

	_, err := svc.GetDebt(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
