package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	identityapp "github.com/jfjewelry/backend/internal/application/identity"
	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/interfaces/http/dto"
	"github.com/jfjewelry/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles operator authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes on the API group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

// Login authenticates an operator by name and PIN
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a fresh pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		// Token-validation failures from the JWT layer are plain errors
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			h.Error(c, 401, dto.ErrCodeTokenInvalid, "Invalid refresh token")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
