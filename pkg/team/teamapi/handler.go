package teamapi

import (
	"bytes"
	"fmt"

	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teamexport"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teamsrv"
	"github.com/gofiber/fiber/v2"
)

type TeamHandlers struct {
	service *teamsrv.TeamService
}

func NewTeamHandlers(service *teamsrv.TeamService) *TeamHandlers {
	return &TeamHandlers{service: service}
}

func (h *TeamHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	members := router.Group("/team", authMiddleware.Authenticate())

	read := authMiddleware.RequirePermission(access.ActionRead, access.SubjectTeam)
	write := authMiddleware.RequirePermission(access.ActionWrite, access.SubjectTeam)

	members.Get("/", read, h.ListMembers)
	members.Post("/", write, h.CreateMember)
	members.Get("/hierarchy", read, h.GetHierarchy)
	members.Get("/hierarchy/export", read, h.ExportHierarchy)
	members.Post("/hierarchy/move", write, h.MoveMember)
	members.Get("/:id", read, h.GetMember)
	members.Get("/:id/reports", read, h.GetDirectReports)
	members.Patch("/:id", write, h.UpdateMember)
	members.Delete("/:id", write, h.DeleteMember)
	members.Put("/:id/manager", write, h.ReassignManager)
}

func (h *TeamHandlers) ListMembers(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.ListMembers(c.Context(), authContext.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *TeamHandlers) CreateMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req team.CreateMemberRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	member, err := h.service.CreateMember(c.Context(), authContext.TenantID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(member.ToDTO())
}

func (h *TeamHandlers) GetMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	member, err := h.service.GetMember(c.Context(), authContext.TenantID, kernel.UserID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(member.ToDTO())
}

func (h *TeamHandlers) GetDirectReports(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.DirectReports(c.Context(), authContext.TenantID, kernel.UserID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *TeamHandlers) UpdateMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req team.UpdateMemberRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	member, err := h.service.UpdateMember(c.Context(), authContext.TenantID, kernel.UserID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(member.ToDTO())
}

func (h *TeamHandlers) DeleteMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteMember(c.Context(), authContext.TenantID, kernel.UserID(c.Params("id"))); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Team member removed successfully"})
}

func (h *TeamHandlers) GetHierarchy(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.Hierarchy(c.Context(), authContext.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *TeamHandlers) ReassignManager(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req team.ReassignRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	member, err := h.service.Reassign(c.Context(), authContext.TenantID, kernel.UserID(c.Params("id")), req.ReportsTo)
	if err != nil {
		return err
	}
	return c.JSON(member.ToDTO())
}

// MoveMember recibe el drop del organigrama {active_id, over_id}
func (h *TeamHandlers) MoveMember(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req team.MoveRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	member, moved, err := h.service.Move(c.Context(), authContext.TenantID, req.ActiveID, req.OverID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"moved": moved, "member": member.ToDTO()})
}

func (h *TeamHandlers) ExportHierarchy(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var buf bytes.Buffer
	if err := h.service.ExportHierarchy(c.Context(), authContext.TenantID, &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, teamexport.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "team-hierarchy.xlsx"))
	return c.Send(buf.Bytes())
}
