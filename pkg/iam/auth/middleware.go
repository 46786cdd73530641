package auth

import (
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/iam"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

const localsAuthKey = "auth"

// TokenMiddleware autentica requests con el access token y aplica la tabla de permisos
type TokenMiddleware struct {
	tokenService TokenService
}

func NewAuthMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate exige un token válido (header Bearer o cookie access_token)
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return iam.ErrUnauthorized()
		}

		claims, err := am.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		authContext := claims.AuthContext()
		if !authContext.IsValid() {
			return iam.ErrUnauthorized().WithDetail("reason", "token without user or agency")
		}

		SetAuthContext(c, authContext)
		return c.Next()
	}
}

// RequirePermission exige que el rol de la sesión pueda hacer action sobre subject.
// Sin sesión responde 401; con sesión y sin permiso, 403.
func (am *TokenMiddleware) RequirePermission(action, subject string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !access.Authorize(authContext, action, subject) {
			logx.WithFields(logx.Fields{
				"user_id": authContext.UserID.String(),
				"role":    authContext.Role,
				"action":  action,
				"subject": subject,
			}).Debug("permission denied")
			return iam.ErrForbidden().
				WithDetail("action", action).
				WithDetail("subject", subject)
		}

		return c.Next()
	}
}

// RequireRoute aplica la lista de roles permitidos de una ruta de la aplicación
func (am *TokenMiddleware) RequireRoute(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		decision := access.GuardRoute(authContext, path)
		if !decision.Allowed {
			return iam.ErrForbidden().
				WithDetail("route", path).
				WithDetail("redirect", decision.Redirect)
		}
		return c.Next()
	}
}

// Helper functions
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1]
		}
	}

	return c.Cookies("access_token")
}

// GetAuthContext helper to extract auth context from Fiber
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals(localsAuthKey).(*kernel.AuthContext)
	return authContext, ok && authContext != nil && authContext.IsValid()
}

// SetAuthContext deja la sesión validada en el request
func SetAuthContext(c *fiber.Ctx, authContext *kernel.AuthContext) {
	c.Locals(localsAuthKey, authContext)
}
