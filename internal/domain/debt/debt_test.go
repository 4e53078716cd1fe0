package debt

import (
	"testing"
	"time"

	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDebt(t *testing.T, amount int64) *Debt {
	t.Helper()
	d, err := NewDebt(
		"Mukamana Jeanne",
		"0788123456",
		"2 gold rings",
		LineItems{{Name: "gold ring", Quantity: 2}},
		valueobject.NewMoneyRWFFromInt(amount),
		nil,
	)
	require.NoError(t, err)
	return d
}

func TestNewDebt(t *testing.T) {
	tests := []struct {
		name         string
		customerName string
		items        string
		amount       int64
		wantErr      bool
		wantErrCode  string
	}{
		{
			name:         "valid debt",
			customerName: "Mukamana Jeanne",
			items:        "necklace",
			amount:       10000,
			wantErr:      false,
		},
		{
			name:         "empty customer name",
			customerName: "",
			items:        "necklace",
			amount:       10000,
			wantErr:      true,
			wantErrCode:  "INVALID_CUSTOMER_NAME",
		},
		{
			name:         "empty items description",
			customerName: "Mukamana Jeanne",
			items:        "",
			amount:       10000,
			wantErr:      true,
			wantErrCode:  "INVALID_ITEMS",
		},
		{
			name:         "zero amount",
			customerName: "Mukamana Jeanne",
			items:        "necklace",
			amount:       0,
			wantErr:      true,
			wantErrCode:  "INVALID_AMOUNT",
		},
		{
			name:         "negative amount",
			customerName: "Mukamana Jeanne",
			items:        "necklace",
			amount:       -500,
			wantErr:      true,
			wantErrCode:  "INVALID_AMOUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDebt(tt.customerName, "0788123456", tt.items, nil,
				valueobject.NewMoneyRWFFromInt(tt.amount), nil)
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantErrCode, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusOutstanding, d.Status)
			assert.True(t, d.OutstandingAmount.Equal(decimal.NewFromInt(tt.amount)))
			assert.True(t, d.PaidAmount.IsZero())
			assert.Equal(t, 1, d.GetVersion())
			assert.Len(t, d.GetDomainEvents(), 1)
		})
	}
}

func TestNewContact(t *testing.T) {
	c, err := NewContact("Uwase Claudine", "0722000111")
	require.NoError(t, err)

	assert.True(t, c.IsContactOnly())
	assert.Equal(t, StatusSettled, c.Status)
	assert.True(t, c.OutstandingAmount.IsZero())
	assert.Nil(t, c.PaidAt)
	assert.Equal(t, "250722000111", c.Phone)
}

func TestDebt_ApplyPayment_Partial(t *testing.T) {
	d := createTestDebt(t, 10000)

	applied, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(4000), "")
	require.NoError(t, err)

	assert.True(t, applied.Amount().Equal(decimal.NewFromInt(4000)))
	assert.True(t, d.OutstandingAmount.Equal(decimal.NewFromInt(6000)))
	assert.True(t, d.PaidAmount.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, StatusPartial, d.Status)
	assert.Nil(t, d.PaidAt)
	assert.Equal(t, 1, d.PaymentCount())
	assert.Equal(t, 2, d.GetVersion())
}

func TestDebt_ApplyPayment_ExactSettlement(t *testing.T) {
	d := createTestDebt(t, 10000)

	applied, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(10000), "")
	require.NoError(t, err)

	assert.True(t, applied.Amount().Equal(decimal.NewFromInt(10000)))
	assert.True(t, d.OutstandingAmount.IsZero())
	assert.Equal(t, StatusSettled, d.Status)
	require.NotNil(t, d.PaidAt)
	assert.WithinDuration(t, time.Now(), *d.PaidAt, time.Second)
}

func TestDebt_ApplyPayment_OverpaymentClamps(t *testing.T) {
	d := createTestDebt(t, 5000)

	applied, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(7000), "")
	require.NoError(t, err)

	// Only the balance is applied; the record settles exactly.
	assert.True(t, applied.Amount().Equal(decimal.NewFromInt(5000)))
	assert.True(t, d.OutstandingAmount.IsZero())
	assert.True(t, d.PaidAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, StatusSettled, d.Status)
}

func TestDebt_ApplyPayment_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T) *Debt
		amount      int64
		wantErrCode string
	}{
		{
			name:        "zero amount",
			setup:       func(t *testing.T) *Debt { return createTestDebt(t, 10000) },
			amount:      0,
			wantErrCode: "INVALID_AMOUNT",
		},
		{
			name:        "negative amount",
			setup:       func(t *testing.T) *Debt { return createTestDebt(t, 10000) },
			amount:      -100,
			wantErrCode: "INVALID_AMOUNT",
		},
		{
			name: "already settled",
			setup: func(t *testing.T) *Debt {
				d := createTestDebt(t, 10000)
				_, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(10000), "")
				require.NoError(t, err)
				return d
			},
			amount:      1000,
			wantErrCode: "INVALID_STATE",
		},
		{
			name: "contact-only record",
			setup: func(t *testing.T) *Debt {
				c, err := NewContact("Uwase Claudine", "")
				require.NoError(t, err)
				return c
			},
			amount:      1000,
			wantErrCode: "INVALID_STATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.setup(t)
			before := d.GetVersion()

			_, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(tt.amount), "")
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantErrCode, domainErr.Code)
			assert.Equal(t, before, d.GetVersion(), "failed payment must not mutate the aggregate")
		})
	}
}

func TestDebt_ApplyPayment_Sequence(t *testing.T) {
	d := createTestDebt(t, 10000)

	_, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(3000), "")
	require.NoError(t, err)
	_, err = d.ApplyPayment(valueobject.NewMoneyRWFFromInt(3000), "")
	require.NoError(t, err)

	assert.True(t, d.OutstandingAmount.Equal(decimal.NewFromInt(4000)))
	assert.True(t, d.PaidAmount.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, StatusPartial, d.Status)
	assert.Equal(t, 2, d.PaymentCount())

	_, err = d.ApplyPayment(valueobject.NewMoneyRWFFromInt(4000), "")
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, d.Status)
}

func TestDebt_Settle(t *testing.T) {
	d := createTestDebt(t, 8000)

	applied, err := d.Settle("paid in full with cost basis")
	require.NoError(t, err)

	assert.True(t, applied.Amount().Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, StatusSettled, d.Status)
	assert.NotNil(t, d.PaidAt)
}

func TestDebt_RevertSettlement(t *testing.T) {
	d := createTestDebt(t, 10000)
	_, err := d.ApplyPayment(valueobject.NewMoneyRWFFromInt(10000), "")
	require.NoError(t, err)
	require.Equal(t, StatusSettled, d.Status)

	require.NoError(t, d.RevertSettlement())

	assert.Equal(t, StatusOutstanding, d.Status)
	assert.True(t, d.OutstandingAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, d.PaidAmount.IsZero())
	assert.Nil(t, d.PaidAt)
	assert.Equal(t, 0, d.PaymentCount())
}

func TestDebt_RevertSettlement_Invalid(t *testing.T) {
	t.Run("unpaid debt", func(t *testing.T) {
		d := createTestDebt(t, 10000)
		err := d.RevertSettlement()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("contact-only record", func(t *testing.T) {
		c, err := NewContact("Uwase Claudine", "")
		require.NoError(t, err)
		err = c.RevertSettlement()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "local leading zero", input: "0788123456", want: "250788123456"},
		{name: "already prefixed", input: "250788123456", want: "250788123456"},
		{name: "bare subscriber number", input: "788123456", want: "250788123456"},
		{name: "formatted input", input: "+250 788 123 456", want: "250788123456"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}
