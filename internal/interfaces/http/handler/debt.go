package handler

import (
	"github.com/gin-gonic/gin"
	debtapp "github.com/jfjewelry/backend/internal/application/debt"
	"github.com/jfjewelry/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client-chosen replay-guard key for
// payment requests
const IdempotencyKeyHeader = "Idempotency-Key"

// DebtHandler handles debt ledger and settlement endpoints
type DebtHandler struct {
	BaseHandler
	debtService       *debtapp.DebtService
	settlementService *debtapp.SettlementService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *debtapp.DebtService, settlementService *debtapp.SettlementService) *DebtHandler {
	return &DebtHandler{
		debtService:       debtService,
		settlementService: settlementService,
	}
}

// RegisterRoutes registers debt routes on the API group
func (h *DebtHandler) RegisterRoutes(rg *gin.RouterGroup) {
	debts := rg.Group("/debts")
	{
		debts.POST("", h.CreateDebt)
		debts.GET("", h.ListDebts)
		debts.POST("/contacts", h.CreateContact)
		debts.GET("/:id", h.GetDebt)
		debts.PUT("/:id", h.UpdateDebt)
		debts.DELETE("/:id", h.DeleteDebt)
		debts.GET("/:id/reminder", h.ReminderMessage)
		debts.POST("/:id/payments", h.ApplyPayment)
		debts.POST("/:id/mark-paid", h.MarkFullyPaid)
	}
}

// CreateDebt records a new credit sale
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	var req debtapp.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.debtService.CreateDebt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// CreateContact records a contact-only entry with no balance
func (h *DebtHandler) CreateContact(c *gin.Context) {
	var req debtapp.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.debtService.CreateContact(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListDebts lists debt records with filtering and pagination
func (h *DebtHandler) ListDebts(c *gin.Context) {
	var filter debtapp.DebtListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	debts, total, err := h.debtService.ListDebts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, debts, total, filter.Page, filter.PageSize)
}

// GetDebt returns a single debt record
func (h *DebtHandler) GetDebt(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.debtService.GetDebt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateDebt edits a debt's descriptive fields
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req debtapp.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.debtService.UpdateDebt(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteDebt removes a debt record
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.debtService.DeleteDebt(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReminderMessage composes the payment reminder for a debt
func (h *DebtHandler) ReminderMessage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	msg, err := h.debtService.ReminderMessage(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": msg})
}

// ApplyPayment applies a payment against a debt's balance
func (h *DebtHandler) ApplyPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req debtapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	result, err := h.settlementService.ApplyPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithWarning(c, result, result.Warning)
}

// MarkFullyPaid settles the whole balance in one step
func (h *DebtHandler) MarkFullyPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req debtapp.MarkFullyPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	result, err := h.settlementService.MarkFullyPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithWarning(c, result, result.Warning)
}
