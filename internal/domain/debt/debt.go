package debt

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a debt record
type Status string

const (
	StatusOutstanding Status = "OUTSTANDING" // Unpaid, no payments yet
	StatusPartial     Status = "PARTIAL"     // Partially paid, balance remaining
	StatusSettled     Status = "SETTLED"     // Fully paid
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusOutstanding, StatusPartial, StatusSettled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanApplyPayment returns true if payments can be applied in this status
func (s Status) CanApplyPayment() bool {
	return s == StatusOutstanding || s == StatusPartial
}

// LineItem is one item taken on credit, kept for stock adjustment and
// message composition. Stored as JSONB within the Debt aggregate.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// LineItems is a slice of LineItem implementing GORM Scanner/Valuer for JSONB storage
type LineItems []LineItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*l = LineItems{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// PaymentEntry is a payment applied to the debt.
// Value object within the Debt aggregate, stored as JSONB.
type PaymentEntry struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt time.Time       `json:"applied_at"`
	Note      string          `json:"note,omitempty"`
}

// PaymentEntries is a slice of PaymentEntry implementing GORM Scanner/Valuer for JSONB storage
type PaymentEntries []PaymentEntry

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentEntries) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentEntries) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentEntries{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentEntries: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentEntries{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// NewPaymentEntry creates a new payment entry
func NewPaymentEntry(amount valueobject.Money, note string) *PaymentEntry {
	return &PaymentEntry{
		ID:        uuid.New(),
		Amount:    amount.Amount(),
		AppliedAt: time.Now(),
		Note:      note,
	}
}

// GetAmountMoney returns the entry amount as Money
func (p *PaymentEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(p.Amount)
}

// Debt is the aggregate root for a customer debt record.
// Contact-only records carry a zero amount and are settled from
// inception; they keep a customer reachable for messaging without
// entering any rollup.
type Debt struct {
	shared.BaseAggregateRoot
	CustomerName      string          `json:"customer_name"`
	Phone             string          `json:"phone"` // normalized to 250-prefixed digits
	ItemsDescription  string          `json:"items_description"`
	LineItems         LineItems       `json:"line_items"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`    // owed at creation
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"` // remaining balance
	PaidAmount        decimal.Decimal `json:"paid_amount"`        // cumulative payments
	Status            Status          `json:"status"`
	ContactOnly       bool            `json:"contact_only"`
	DueDate           *time.Time      `json:"due_date"`
	PaidAt            *time.Time      `json:"paid_at"`
	Payments          PaymentEntries  `json:"payments"`
}

// NewDebt creates a new debt record
func NewDebt(
	customerName string,
	phone string,
	itemsDescription string,
	lineItems LineItems,
	amount valueobject.Money,
	dueDate *time.Time,
) (*Debt, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if itemsDescription == "" {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Items description cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debt amount must be positive")
	}

	d := &Debt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      customerName,
		Phone:             NormalizePhone(phone),
		ItemsDescription:  itemsDescription,
		LineItems:         lineItems,
		OriginalAmount:    amount.Amount(),
		OutstandingAmount: amount.Amount(),
		PaidAmount:        decimal.Zero,
		Status:            StatusOutstanding,
		DueDate:           dueDate,
		Payments:          PaymentEntries{},
	}

	d.AddDomainEvent(NewDebtCreatedEvent(d))

	return d, nil
}

// NewContact creates a contact-only record: zero owed and settled from
// inception, so it never shows up in unpaid rollups or cycle resets.
func NewContact(customerName, phone string) (*Debt, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	d := &Debt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      customerName,
		Phone:             NormalizePhone(phone),
		OriginalAmount:    decimal.Zero,
		OutstandingAmount: decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            StatusSettled,
		ContactOnly:       true,
		Payments:          PaymentEntries{},
	}

	return d, nil
}

// ApplyPayment applies a payment to the debt. Paying more than is owed
// settles the record exactly; the balance never goes negative.
// Returns the amount actually applied to the balance.
func (d *Debt) ApplyPayment(amount valueobject.Money, note string) (valueobject.Money, error) {
	if !d.Status.CanApplyPayment() {
		return valueobject.ZeroRWF(), shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to debt in %s status", d.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return valueobject.ZeroRWF(), shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	// An overpayment settles the balance exactly.
	applied := amount.Amount()
	if applied.GreaterThan(d.OutstandingAmount) {
		applied = d.OutstandingAmount
	}
	appliedMoney := valueobject.NewMoneyRWF(applied)

	entry := NewPaymentEntry(appliedMoney, note)
	d.Payments = append(d.Payments, *entry)

	d.PaidAmount = d.PaidAmount.Add(applied)
	d.OutstandingAmount = d.OutstandingAmount.Sub(applied)

	if d.OutstandingAmount.IsZero() {
		now := time.Now()
		d.Status = StatusSettled
		d.PaidAt = &now
		d.AddDomainEvent(NewDebtSettledEvent(d))
	} else {
		d.Status = StatusPartial
		d.AddDomainEvent(NewDebtPartiallyPaidEvent(d, appliedMoney))
	}

	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return appliedMoney, nil
}

// Settle settles the full outstanding balance in one step.
// Returns the amount that was applied.
func (d *Debt) Settle(note string) (valueobject.Money, error) {
	if !d.Status.CanApplyPayment() {
		return valueobject.ZeroRWF(), shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot settle debt in %s status", d.Status))
	}
	return d.ApplyPayment(valueobject.NewMoneyRWF(d.OutstandingAmount), note)
}

// RevertSettlement reopens a settled debt during a cycle reset. The
// balance is restored from the original owed amount and the cumulative
// paid total is zeroed, so the reverted debt is collectible again.
// Contact-only records are never reverted.
func (d *Debt) RevertSettlement() error {
	if d.ContactOnly {
		return shared.NewDomainError("INVALID_STATE", "Contact-only records cannot be reverted")
	}
	if d.Status != StatusSettled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revert debt in %s status", d.Status))
	}

	d.OutstandingAmount = d.OriginalAmount
	d.PaidAmount = decimal.Zero
	d.Status = StatusOutstanding
	d.PaidAt = nil
	d.Payments = PaymentEntries{}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDebtRevertedEvent(d))

	return nil
}

// UpdateDetails updates the descriptive fields of the record
func (d *Debt) UpdateDetails(customerName, phone, itemsDescription string, dueDate *time.Time) error {
	if customerName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	d.CustomerName = customerName
	d.Phone = NormalizePhone(phone)
	if !d.ContactOnly {
		if itemsDescription == "" {
			return shared.NewDomainError("INVALID_ITEMS", "Items description cannot be empty")
		}
		d.ItemsDescription = itemsDescription
		d.DueDate = dueDate
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// Helper methods

// GetOriginalAmountMoney returns the original owed amount as Money
func (d *Debt) GetOriginalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(d.OriginalAmount)
}

// GetOutstandingAmountMoney returns the remaining balance as Money
func (d *Debt) GetOutstandingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(d.OutstandingAmount)
}

// GetPaidAmountMoney returns the cumulative paid total as Money
func (d *Debt) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyRWF(d.PaidAmount)
}

// IsSettled returns true if the debt is fully paid
func (d *Debt) IsSettled() bool {
	return d.Status == StatusSettled
}

// IsContactOnly returns true for placeholder contact records
func (d *Debt) IsContactOnly() bool {
	return d.ContactOnly
}

// IsOverdue returns true if the debt is past due date and unpaid
func (d *Debt) IsOverdue() bool {
	if d.IsSettled() || d.DueDate == nil {
		return false
	}
	return time.Now().After(*d.DueDate)
}

// PaymentCount returns the number of payments applied
func (d *Debt) PaymentCount() int {
	return len(d.Payments)
}
