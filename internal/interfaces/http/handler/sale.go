package handler

import (
	"github.com/gin-gonic/gin"
	saleapp "github.com/jfjewelry/backend/internal/application/sale"
	"github.com/jfjewelry/backend/internal/interfaces/http/middleware"
)

// SaleHandler handles cash sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService *saleapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *saleapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes registers sale routes on the API group
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.RecordSale)
		sales.GET("", h.ListSales)
		sales.GET("/totals", h.GetTotals)
		sales.GET("/:id", h.GetSale)
		sales.DELETE("/:id", h.DeleteSale)
	}
}

// RecordSale records a cash sale
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req saleapp.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.saleService.RecordSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithWarning(c, result, result.Warning)
}

// ListSales lists sales with filtering and pagination
func (h *SaleHandler) ListSales(c *gin.Context) {
	var filter saleapp.SaleListFilter
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

	sales, total, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// GetTotals returns the sales rollup
func (h *SaleHandler) GetTotals(c *gin.Context) {
	totals, err := h.saleService.GetTotals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}

// GetSale returns a single sale record
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteSale removes a sale record
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
