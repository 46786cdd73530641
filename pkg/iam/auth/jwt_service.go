package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService implementación del TokenService usando JWT (HS256)
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	audience       []string
}

var _ TokenService = (*JWTService)(nil)

// NewJWTServiceFromConfig crea el servicio JWT desde la configuración
func NewJWTServiceFromConfig(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		issuer:         cfg.Issuer,
		audience:       cfg.Audience,
	}
}

// Claims personalizados para JWT
type JWTClaims struct {
	UserID   kernel.UserID   `json:"user_id"`
	TenantID kernel.TenantID `json:"tenant_id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     string          `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken genera un token de acceso JWT. El rol debe ser uno de los conocidos.
func (j *JWTService) GenerateAccessToken(userID kernel.UserID, tenantID kernel.TenantID, claims SessionClaims) (string, error) {
	role, ok := access.ParseRole(claims.Role)
	if !ok {
		return "", ErrInvalidRole().WithDetail("role", claims.Role)
	}

	now := time.Now()
	jwtClaims := JWTClaims{
		UserID:   userID,
		TenantID: tenantID,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			Audience:  j.audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithDetail("error", err.Error())
	}

	return tokenString, nil
}

// ValidateAccessToken valida y decodifica un token de acceso.
// Un rol desconocido no invalida el token: la sesión existe pero no tendrá permisos.
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	if len(j.audience) > 0 {
		opts = append(opts, jwt.WithAudience(j.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		// Verificar el método de firma
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, opts...)

	if err != nil {
		return nil, ErrTokenValidationFailed().WithDetail("error", err.Error())
	}

	if !token.Valid {
		return nil, ErrTokenValidationFailed().WithDetail("error", "token is invalid")
	}

	jwtClaims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, ErrTokenValidationFailed().WithDetail("error", "invalid claims type")
	}

	claims := &TokenClaims{
		UserID:   jwtClaims.UserID,
		TenantID: jwtClaims.TenantID,
		Email:    jwtClaims.Email,
		Name:     jwtClaims.Name,
		Role:     jwtClaims.Role,
	}
	if jwtClaims.IssuedAt != nil {
		claims.IssuedAt = jwtClaims.IssuedAt.Time
	}
	if jwtClaims.ExpiresAt != nil {
		claims.ExpiresAt = jwtClaims.ExpiresAt.Time
	}
	return claims, nil
}
