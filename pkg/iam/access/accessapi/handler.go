package accessapi

import (
	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/gofiber/fiber/v2"
)

// ============================================================================
// Responses
// ============================================================================

type RoleResponse struct {
	Role     access.Role             `json:"role"`
	Wildcard bool                    `json:"wildcard"`
	Rules    []access.PermissionRule `json:"rules"`
}

type MeResponse struct {
	UserID     string                  `json:"user_id"`
	TenantID   string                  `json:"tenant_id"`
	Email      string                  `json:"email"`
	Name       string                  `json:"name"`
	Role       string                  `json:"role"`
	Rules      []access.PermissionRule `json:"rules"`
	Navigation []access.NavItem        `json:"navigation"`
}

type routeQuery struct {
	Path string `query:"path" json:"path" validate:"required"`
}

type canQuery struct {
	Action  string `query:"action" json:"action" validate:"required"`
	Subject string `query:"subject" json:"subject" validate:"required"`
}

type CanResponse struct {
	Role    string `json:"role"`
	Action  string `json:"action"`
	Subject string `json:"subject"`
	Allowed bool   `json:"allowed"`
}

// ============================================================================
// Handlers
// ============================================================================

type AccessHandlers struct{}

func NewAccessHandlers() *AccessHandlers {
	return &AccessHandlers{}
}

func (h *AccessHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	group := router.Group("/access", authMiddleware.Authenticate())

	// la tabla completa y el catálogo alimentan la pantalla de roles de Masters
	masters := authMiddleware.RequireRoute("/masters/roles")

	group.Get("/roles", masters, h.ListRoles)
	group.Get("/catalog", masters, h.GetCatalog)
	group.Get("/routes", h.ListRoutes)
	group.Get("/me", h.Me)
	group.Get("/routes/check", h.CheckRoute)
	group.Get("/can", h.Can)
}

// ListRoles retorna la tabla de permisos completa, en orden de roles
func (h *AccessHandlers) ListRoles(c *fiber.Ctx) error {
	roles := access.Roles()
	response := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		response = append(response, RoleResponse{
			Role:     r,
			Wildcard: access.HasWildcard(r),
			Rules:    access.RulesFor(r),
		})
	}
	return c.JSON(fiber.Map{"roles": response})
}

func (h *AccessHandlers) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"modules": access.Catalog()})
}

func (h *AccessHandlers) ListRoutes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"routes": access.RouteRules()})
}

func (h *AccessHandlers) Me(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	rules := access.RulesFor(access.Role(authContext.CurrentRole()))
	if rules == nil {
		rules = []access.PermissionRule{}
	}

	return c.JSON(MeResponse{
		UserID:     authContext.UserID.String(),
		TenantID:   authContext.TenantID.String(),
		Email:      authContext.Email,
		Name:       authContext.Name,
		Role:       authContext.Role,
		Rules:      rules,
		Navigation: access.Navigation(authContext),
	})
}

// CheckRoute evalúa una navegación del front: ?path=/team/42
func (h *AccessHandlers) CheckRoute(c *fiber.Ctx) error {
	var q routeQuery
	if err := httpx.BindQuery(c, &q); err != nil {
		return err
	}

	authContext, _ := auth.GetAuthContext(c)
	return c.JSON(access.GuardRoute(authContext, q.Path))
}

func (h *AccessHandlers) Can(c *fiber.Ctx) error {
	var q canQuery
	if err := httpx.BindQuery(c, &q); err != nil {
		return err
	}

	authContext, _ := auth.GetAuthContext(c)
	return c.JSON(CanResponse{
		Role:    authContext.CurrentRole(),
		Action:  q.Action,
		Subject: q.Subject,
		Allowed: access.Authorize(authContext, q.Action, q.Subject),
	})
}
