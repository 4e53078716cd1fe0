package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/jfjewelry/backend/internal/application/finance"
	"github.com/jfjewelry/backend/internal/interfaces/http/middleware"
)

// FinanceHandler handles dashboard rollup, money counters and resets
type FinanceHandler struct {
	BaseHandler
	financeService     *financeapp.FinanceService
	maintenanceService *financeapp.MaintenanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService, maintenanceService *financeapp.MaintenanceService) *FinanceHandler {
	return &FinanceHandler{
		financeService:     financeService,
		maintenanceService: maintenanceService,
	}
}

// RegisterRoutes registers finance routes on the API group
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	{
		finance.GET("/summary", h.GetSummary)
		finance.GET("/settings", h.GetSettings)
		finance.PUT("/capital", h.SetCapital)
		finance.PUT("/daily-balance", h.SetDailyBalance)
		finance.POST("/reset/money", h.ResetMoneyOnly)
		finance.POST("/reset/cycle", h.ResetCycle)
		finance.POST("/reset/factory", h.FactoryReset)
	}
}

// GetSummary returns the dashboard rollup
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.financeService.GetSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetSettings returns the money counters
func (h *FinanceHandler) GetSettings(c *gin.Context) {
	settings, err := h.financeService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// SetCapital replaces the invested capital figure
func (h *FinanceHandler) SetCapital(c *gin.Context) {
	var req financeapp.SetCapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.financeService.SetCapital(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetDailyBalance records the cash counted for a day
func (h *FinanceHandler) SetDailyBalance(c *gin.Context) {
	var req financeapp.SetDailyBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.financeService.SetDailyBalance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ResetMoneyOnly zeroes the money counters
func (h *FinanceHandler) ResetMoneyOnly(c *gin.Context) {
	result, err := h.maintenanceService.ResetMoneyOnly(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ResetCycle starts a new collection cycle
func (h *FinanceHandler) ResetCycle(c *gin.Context) {
	result, err := h.maintenanceService.ResetCycle(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// FactoryReset clears the sales log and zeroes the money counters
func (h *FinanceHandler) FactoryReset(c *gin.Context) {
	result, err := h.maintenanceService.FactoryReset(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
