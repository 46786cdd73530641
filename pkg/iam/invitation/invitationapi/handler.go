package invitationapi

import (
	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation/invitationsrv"
	"github.com/gofiber/fiber/v2"
)

// InvitationHandlers maneja las rutas de invitaciones con Fiber
type InvitationHandlers struct {
	service *invitationsrv.InvitationService
}

// NewInvitationHandlers crea un nuevo handler de invitaciones
func NewInvitationHandlers(service *invitationsrv.InvitationService) *InvitationHandlers {
	return &InvitationHandlers{
		service: service,
	}
}

// RegisterRoutes registra las rutas de invitaciones en Fiber
func (h *InvitationHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	// Public routes. Van antes del grupo protegido: su Use también cubre /invitations/public
	public := router.Group("/invitations/public")
	public.Get("/validate", h.ValidateInvitationToken)
	public.Get("/token/:token", h.GetInvitationByToken)
	public.Post("/accept", h.AcceptInvitation)

	invitations := router.Group("/invitations", authMiddleware.Authenticate())

	read := authMiddleware.RequirePermission(access.ActionRead, access.SubjectTeam)
	write := authMiddleware.RequirePermission(access.ActionWrite, access.SubjectTeam)

	// Protected routes
	invitations.Post("/", write, h.CreateInvitation)
	invitations.Get("/", read, h.GetTenantInvitations)
	invitations.Get("/pending", read, h.GetPendingInvitations)
	invitations.Get("/:id", read, h.GetInvitationByID)
	invitations.Delete("/:id", write, h.DeleteInvitation)
	invitations.Post("/:id/revoke", write, h.RevokeInvitation)
}

// CreateInvitation crea una nueva invitación y devuelve el token una sola vez
func (h *InvitationHandlers) CreateInvitation(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok || authContext.UserID == nil {
		return iam.ErrUnauthorized()
	}

	var req invitation.CreateInvitationRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	inv, err := h.service.CreateInvitation(c.Context(), authContext.TenantID, *authContext.UserID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(invitation.CreateInvitationResponse{
		Invitation: inv.ToDTO(),
		Token:      inv.Token,
	})
}

// GetTenantInvitations obtiene todas las invitaciones del tenant
func (h *InvitationHandlers) GetTenantInvitations(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	invitations, err := h.service.GetTenantInvitations(c.Context(), authContext.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(invitations)
}

// GetPendingInvitations obtiene invitaciones pendientes del tenant
func (h *InvitationHandlers) GetPendingInvitations(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	invitations, err := h.service.GetPendingInvitations(c.Context(), authContext.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(invitations)
}

// GetInvitationByID obtiene una invitación por ID
func (h *InvitationHandlers) GetInvitationByID(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	inv, err := h.service.GetInvitationByID(c.Context(), c.Params("id"), authContext.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(inv.ToDTO())
}

// GetInvitationByToken obtiene una invitación por token (público)
func (h *InvitationHandlers) GetInvitationByToken(c *fiber.Ctx) error {
	response, err := h.service.ValidateInvitationToken(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	if response.Invitation == nil {
		return invitation.ErrInvitationInvalid().WithDetail("reason", response.Message)
	}
	return c.JSON(response.Invitation)
}

// ValidateInvitationToken valida un token de invitación (público)
func (h *InvitationHandlers) ValidateInvitationToken(c *fiber.Ctx) error {
	var q invitation.ValidateInvitationQuery
	if err := httpx.BindQuery(c, &q); err != nil {
		return err
	}

	response, err := h.service.ValidateInvitationToken(c.Context(), q.Token)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// AcceptInvitation crea el miembro a partir de la invitación (público)
func (h *InvitationHandlers) AcceptInvitation(c *fiber.Ctx) error {
	var req invitation.AcceptInvitationRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	member, err := h.service.AcceptInvitation(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(member.ToDTO())
}

// RevokeInvitation revoca una invitación
func (h *InvitationHandlers) RevokeInvitation(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.RevokeInvitation(c.Context(), c.Params("id"), authContext.TenantID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Invitation revoked successfully",
	})
}

// DeleteInvitation elimina una invitación
func (h *InvitationHandlers) DeleteInvitation(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteInvitation(c.Context(), c.Params("id"), authContext.TenantID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Invitation deleted successfully",
	})
}
