package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleRecordedEvent is raised when a sale is recorded
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID       `json:"sale_id"`
	ItemName  string          `json:"item_name"`
	SalePrice decimal.Decimal `json:"sale_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Quantity  int             `json:"quantity"`
	DateSold  time.Time       `json:"date_sold"`
}

// EventType returns the event type name
func (e *SaleRecordedEvent) EventType() string {
	return "SaleRecorded"
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(s *Sale) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SaleRecorded", "Sale", s.ID),
		SaleID:          s.ID,
		ItemName:        s.ItemName,
		SalePrice:       s.SalePrice,
		CostPrice:       s.CostPrice,
		Quantity:        s.Quantity,
		DateSold:        s.DateSold,
	}
}
