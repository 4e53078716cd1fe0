// Package identity authenticates the shop's operators against the
// provisioned PIN hashes and issues JWT token pairs.
package identity

import (
	"context"
	"time"

	"github.com/jfjewelry/backend/internal/domain/shared"
	"github.com/jfjewelry/backend/internal/infrastructure/auth"
	"github.com/jfjewelry/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown operator or a wrong
// PIN. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid operator name or PIN")

// AuthService verifies operator credentials and issues tokens
type AuthService struct {
	authCfg    *config.AuthConfig
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(authCfg *config.AuthConfig, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		authCfg:    authCfg,
		jwtService: jwtService,
		logger:     logger,
	}
}

// LoginRequest is the input for operator login
type LoginRequest struct {
	Name string `json:"name" binding:"required"`
	PIN  string `json:"pin" binding:"required"`
}

// RefreshRequest is the input for refreshing a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse carries the issued tokens
type LoginResponse struct {
	Operator     string    `json:"operator"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Login verifies an operator's PIN and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	op, ok := s.authCfg.FindOperator(req.Name)
	if !ok {
		s.logger.Warn("login attempt for unknown operator", zap.String("name", req.Name))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PINHash), []byte(req.PIN)); err != nil {
		s.logger.Warn("login attempt with wrong PIN", zap.String("name", req.Name))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(op.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", zap.String("name", op.Name))

	return toLoginResponse(op.Name, pair), nil
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	// The operator may have been deprovisioned since the token was issued
	if _, ok := s.authCfg.FindOperator(claims.Operator); !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(claims.Operator)
	if err != nil {
		return nil, err
	}

	return toLoginResponse(claims.Operator, pair), nil
}

func toLoginResponse(operator string, pair *auth.TokenPair) *LoginResponse {
	return &LoginResponse{
		Operator:     operator,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresAt:    pair.AccessTokenExpiresAt,
	}
}
