// Package debt provides application services for the debt ledger:
// recording debts and contacts, and settling balances.
package debt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jfjewelry/backend/internal/domain/debt"
	"github.com/jfjewelry/backend/internal/domain/notification"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DebtService provides application-level debt ledger operations
type DebtService struct {
	debtRepo       debt.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo debt.Repository, eventPublisher shared.EventPublisher, logger *zap.Logger) *DebtService {
	return &DebtService{
		debtRepo:       debtRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// LineItemInput is one credited item in a create request
type LineItemInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// CreateDebtRequest is the input for recording a new debt
type CreateDebtRequest struct {
	CustomerName     string          `json:"customer_name" binding:"required"`
	Phone            string          `json:"phone"`
	ItemsDescription string          `json:"items_description" binding:"required"`
	LineItems        []LineItemInput `json:"line_items"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	DueDate          *time.Time      `json:"due_date"`
}

// CreateContactRequest is the input for recording a contact-only entry
type CreateContactRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Phone        string `json:"phone"`
}

// UpdateDebtRequest is the input for editing a debt's descriptive fields
type UpdateDebtRequest struct {
	CustomerName     string     `json:"customer_name" binding:"required"`
	Phone            string     `json:"phone"`
	ItemsDescription string     `json:"items_description"`
	DueDate          *time.Time `json:"due_date"`
}

// PaymentEntryResponse represents one applied payment in API responses
type PaymentEntryResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt time.Time       `json:"applied_at"`
	Note      string          `json:"note,omitempty"`
}

// DebtResponse represents a debt record in API responses
type DebtResponse struct {
	ID                uuid.UUID              `json:"id"`
	CustomerName      string                 `json:"customer_name"`
	Phone             string                 `json:"phone"`
	ItemsDescription  string                 `json:"items_description"`
	LineItems         debt.LineItems         `json:"line_items"`
	OriginalAmount    decimal.Decimal        `json:"original_amount"`
	OutstandingAmount decimal.Decimal        `json:"outstanding_amount"`
	PaidAmount        decimal.Decimal        `json:"paid_amount"`
	Status            string                 `json:"status"`
	ContactOnly       bool                   `json:"contact_only"`
	DueDate           *time.Time             `json:"due_date,omitempty"`
	PaidAt            *time.Time             `json:"paid_at,omitempty"`
	Payments          []PaymentEntryResponse `json:"payments"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	Version           int                    `json:"version"`
}

// CreateDebtResult bundles the created record with the confirmation
// message the operator forwards to the customer.
type CreateDebtResult struct {
	Debt    *DebtResponse `json:"debt"`
	Message string        `json:"message"`
}

// DebtListFilter defines filtering options for debt list queries
type DebtListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status"`
	ContactOnly *bool  `form:"contact_only"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// CreateDebt records a new debt and composes the confirmation message
func (s *DebtService) CreateDebt(ctx context.Context, req CreateDebtRequest) (*CreateDebtResult, error) {
	lineItems := make(debt.LineItems, len(req.LineItems))
	for i, li := range req.LineItems {
		lineItems[i] = debt.LineItem{Name: li.Name, Quantity: li.Quantity}
	}

	d, err := debt.NewDebt(
		req.CustomerName,
		req.Phone,
		req.ItemsDescription,
		lineItems,
		valueobject.NewMoneyRWF(req.Amount),
		req.DueDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.debtRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	s.logger.Info("debt recorded",
		zap.String("debt_id", d.ID.String()),
		zap.String("customer", d.CustomerName),
		zap.String("amount", d.OriginalAmount.String()),
	)

	return &CreateDebtResult{
		Debt:    toDebtResponse(d),
		Message: notification.DebtConfirmation(d.ItemsDescription, d.GetOriginalAmountMoney()),
	}, nil
}

// CreateContact records a contact-only entry
func (s *DebtService) CreateContact(ctx context.Context, req CreateContactRequest) (*DebtResponse, error) {
	d, err := debt.NewContact(req.CustomerName, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.debtRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	return toDebtResponse(d), nil
}

// GetDebt gets a debt by ID
func (s *DebtService) GetDebt(ctx context.Context, id uuid.UUID) (*DebtResponse, error) {
	d, err := s.debtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDebtResponse(d), nil
}

// ListDebts lists debts with filtering
func (s *DebtService) ListDebts(ctx context.Context, filter DebtListFilter) ([]DebtResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ContactOnly != nil {
		domainFilter.Filters["contact_only"] = *filter.ContactOnly
	}

	debts, err := s.debtRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.debtRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DebtResponse, len(debts))
	for i, d := range debts {
		responses[i] = *toDebtResponse(&d)
	}

	return responses, total, nil
}

// UpdateDebt updates a debt's descriptive fields
func (s *DebtService) UpdateDebt(ctx context.Context, id uuid.UUID, req UpdateDebtRequest) (*DebtResponse, error) {
	d, err := s.debtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := d.Version
	if err := d.UpdateDetails(req.CustomerName, req.Phone, req.ItemsDescription, req.DueDate); err != nil {
		return nil, err
	}

	if err := s.debtRepo.SaveWithLock(ctx, d, expectedVersion); err != nil {
		return nil, err
	}

	return toDebtResponse(d), nil
}

// DeleteDebt removes a debt record
func (s *DebtService) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	return s.debtRepo.Delete(ctx, id)
}

// ReminderMessage composes the follow-up message for an outstanding
// debt without mutating any state.
func (s *DebtService) ReminderMessage(ctx context.Context, id uuid.UUID) (string, error) {
	d, err := s.debtRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if d.IsContactOnly() {
		return "", shared.NewDomainError("INVALID_STATE", "Contact-only records carry no balance to remind about")
	}
	if d.IsSettled() {
		return "", shared.NewDomainError("INVALID_STATE", "Debt is already settled")
	}
	return notification.DebtReminder(d.ItemsDescription, d.GetOutstandingAmountMoney()), nil
}

// publishEvents publishes and clears the aggregate's pending events
func (s *DebtService) publishEvents(ctx context.Context, d *debt.Debt) {
	if s.eventPublisher == nil {
		return
	}
	events := d.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish debt events",
			zap.String("debt_id", d.ID.String()),
			zap.Error(err))
	}
	d.ClearDomainEvents()
}

// toDebtResponse converts a domain Debt to its API representation
func toDebtResponse(d *debt.Debt) *DebtResponse {
	payments := make([]PaymentEntryResponse, len(d.Payments))
	for i, p := range d.Payments {
		payments[i] = PaymentEntryResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			AppliedAt: p.AppliedAt,
			Note:      p.Note,
		}
	}
	return &DebtResponse{
		ID:                d.ID,
		CustomerName:      d.CustomerName,
		Phone:             d.Phone,
		ItemsDescription:  d.ItemsDescription,
		LineItems:         d.LineItems,
		OriginalAmount:    d.OriginalAmount,
		OutstandingAmount: d.OutstandingAmount,
		PaidAmount:        d.PaidAmount,
		Status:            d.Status.String(),
		ContactOnly:       d.ContactOnly,
		DueDate:           d.DueDate,
		PaidAt:            d.PaidAt,
		Payments:          payments,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}
}
