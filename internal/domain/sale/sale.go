package sale

import (
	"time"

	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Sale is the aggregate root for a completed sale. Sales are recorded
// once and never mutated; corrections go through delete-and-re-record.
type Sale struct {
	shared.BaseAggregateRoot
	ItemName  string          `json:"item_name"`
	CostPrice decimal.Decimal `json:"cost_price"` // unit cost
	SalePrice decimal.Decimal `json:"sale_price"` // unit price
	Quantity  int             `json:"quantity"`
	DateSold  time.Time       `json:"date_sold"`
}

// NewSale creates a new sale record
func NewSale(
	itemName string,
	costPrice valueobject.Money,
	salePrice valueobject.Money,
	quantity int,
	dateSold time.Time,
) (*Sale, error) {
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	if salePrice.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sale price must be positive")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if dateSold.IsZero() {
		dateSold = time.Now()
	}

	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemName:          itemName,
		CostPrice:         costPrice.Amount(),
		SalePrice:         salePrice.Amount(),
		Quantity:          quantity,
		DateSold:          dateSold,
	}

	s.AddDomainEvent(NewSaleRecordedEvent(s))

	return s, nil
}

// Revenue returns sale price times quantity
func (s *Sale) Revenue() valueobject.Money {
	return valueobject.NewMoneyRWF(s.SalePrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
}

// Profit returns the margin over cost times quantity. Negative when
// sold below cost.
func (s *Sale) Profit() valueobject.Money {
	return valueobject.NewMoneyRWF(s.SalePrice.Sub(s.CostPrice).Mul(decimal.NewFromInt(int64(s.Quantity))))
}

// GetCostPriceMoney returns the unit cost as Money
func (s *Sale) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(s.CostPrice)
}

// GetSalePriceMoney returns the unit price as Money
func (s *Sale) GetSalePriceMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(s.SalePrice)
}
