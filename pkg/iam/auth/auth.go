package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// TokenClaims son los datos de sesión que viajan en el access token
type TokenClaims struct {
	UserID    kernel.UserID
	TenantID  kernel.TenantID
	Email     string
	Name      string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthContext convierte los claims en la sesión del request
func (c *TokenClaims) AuthContext() *kernel.AuthContext {
	userID := c.UserID
	return &kernel.AuthContext{
		UserID:   &userID,
		TenantID: c.TenantID,
		Email:    c.Email,
		Name:     c.Name,
		Role:     c.Role,
	}
}

// SessionClaims son los datos de identidad con los que se emite un token
type SessionClaims struct {
	Email string
	Name  string
	Role  string
}

// TokenService emite y valida access tokens
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, tenantID kernel.TenantID, claims SessionClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate token")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid or expired token")
	CodeInvalidRole           = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role")
)

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrTokenValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenValidationFailed)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}
