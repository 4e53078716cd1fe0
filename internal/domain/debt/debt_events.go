package debt

import (
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DebtCreatedEvent is raised when a new debt record is created
type DebtCreatedEvent struct {
	shared.BaseDomainEvent
	DebtID         uuid.UUID       `json:"debt_id"`
	CustomerName   string          `json:"customer_name"`
	Phone          string          `json:"phone"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
}

// EventType returns the event type name
func (e *DebtCreatedEvent) EventType() string {
	return "DebtCreated"
}

// NewDebtCreatedEvent creates a new DebtCreatedEvent
func NewDebtCreatedEvent(d *Debt) *DebtCreatedEvent {
	return &DebtCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DebtCreated", "Debt", d.ID),
		DebtID:          d.ID,
		CustomerName:    d.CustomerName,
		Phone:           d.Phone,
		OriginalAmount:  d.OriginalAmount,
		DueDate:         d.DueDate,
	}
}

// DebtPartiallyPaidEvent is raised when a payment leaves a balance outstanding
type DebtPartiallyPaidEvent struct {
	shared.BaseDomainEvent
	DebtID            uuid.UUID       `json:"debt_id"`
	CustomerName      string          `json:"customer_name"`
	AppliedAmount     decimal.Decimal `json:"applied_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// EventType returns the event type name
func (e *DebtPartiallyPaidEvent) EventType() string {
	return "DebtPartiallyPaid"
}

// NewDebtPartiallyPaidEvent creates a new DebtPartiallyPaidEvent
func NewDebtPartiallyPaidEvent(d *Debt, applied valueobject.Money) *DebtPartiallyPaidEvent {
	return &DebtPartiallyPaidEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("DebtPartiallyPaid", "Debt", d.ID),
		DebtID:            d.ID,
		CustomerName:      d.CustomerName,
		AppliedAmount:     applied.Amount(),
		OutstandingAmount: d.OutstandingAmount,
	}
}

// DebtSettledEvent is raised when a debt is fully paid
type DebtSettledEvent struct {
	shared.BaseDomainEvent
	DebtID         uuid.UUID       `json:"debt_id"`
	CustomerName   string          `json:"customer_name"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PaidAt         time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *DebtSettledEvent) EventType() string {
	return "DebtSettled"
}

// NewDebtSettledEvent creates a new DebtSettledEvent
func NewDebtSettledEvent(d *Debt) *DebtSettledEvent {
	paidAt := time.Now()
	if d.PaidAt != nil {
		paidAt = *d.PaidAt
	}
	return &DebtSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DebtSettled", "Debt", d.ID),
		DebtID:          d.ID,
		CustomerName:    d.CustomerName,
		OriginalAmount:  d.OriginalAmount,
		PaidAmount:      d.PaidAmount,
		PaidAt:          paidAt,
	}
}

// DebtRevertedEvent is raised when a cycle reset reopens a settled debt
type DebtRevertedEvent struct {
	shared.BaseDomainEvent
	DebtID            uuid.UUID       `json:"debt_id"`
	CustomerName      string          `json:"customer_name"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// EventType returns the event type name
func (e *DebtRevertedEvent) EventType() string {
	return "DebtReverted"
}

// NewDebtRevertedEvent creates a new DebtRevertedEvent
func NewDebtRevertedEvent(d *Debt) *DebtRevertedEvent {
	return &DebtRevertedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("DebtReverted", "Debt", d.ID),
		DebtID:            d.ID,
		CustomerName:      d.CustomerName,
		OutstandingAmount: d.OutstandingAmount,
	}
}
