package teamsrv

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/orgtree"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teamexport"
)

// TeamService proporciona operaciones de negocio sobre el equipo y su jerarquía
type TeamService struct {
	memberRepo team.MemberRepository
	now        func() time.Time
}

// NewTeamService crea una nueva instancia del servicio de equipo
func NewTeamService(memberRepo team.MemberRepository) *TeamService {
	return &TeamService{
		memberRepo: memberRepo,
		now:        time.Now,
	}
}

// ============================================================================
// Members
// ============================================================================

// CreateMember da de alta un miembro. reports_to, si viene, debe ser del mismo tenant.
func (s *TeamService) CreateMember(ctx context.Context, tenantID kernel.TenantID, req team.CreateMemberRequest) (*team.Member, error) {
	role, ok := access.ParseRole(req.Role)
	if !ok {
		return nil, team.ErrInvalidRole().WithDetail("role", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.memberRepo.ExistsByEmail(ctx, email, tenantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check email existence", errx.TypeInternal)
	}
	if exists {
		return nil, team.ErrMemberAlreadyExists().WithDetail("email", email)
	}

	if req.ReportsTo != "" {
		if _, err := s.memberRepo.FindByID(ctx, kernel.UserID(req.ReportsTo), tenantID); err != nil {
			if errx.IsCode(err, team.CodeMemberNotFound) {
				return nil, team.ErrManagerNotFound().WithDetail("reports_to", req.ReportsTo)
			}
			return nil, err
		}
	}

	now := s.now()
	member := &team.Member{
		ID:        kernel.NewUserID(kernel.GenerateID()),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Mobile:    req.Mobile,
		Role:      role,
		Status:    team.MemberStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	member.SetManager(req.ReportsTo)
	member.UpdatedAt = now

	if err := s.memberRepo.Save(ctx, *member); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"member_id": member.ID.String(),
		"tenant_id": tenantID.String(),
		"role":      role.String(),
	}).Info("team member created")

	return member, nil
}

// GetMember obtiene un miembro por ID
func (s *TeamService) GetMember(ctx context.Context, tenantID kernel.TenantID, id kernel.UserID) (*team.Member, error) {
	return s.memberRepo.FindByID(ctx, id, tenantID)
}

// ListMembers lista los miembros en orden de creación
func (s *TeamService) ListMembers(ctx context.Context, tenantID kernel.TenantID) (*team.MemberListResponse, error) {
	members, err := s.memberRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	dtos := make([]team.MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, m.ToDTO())
	}
	return &team.MemberListResponse{Members: dtos, Total: len(dtos)}, nil
}

// UpdateMember actualiza el perfil. El manager se cambia solo con Reassign.
func (s *TeamService) UpdateMember(ctx context.Context, tenantID kernel.TenantID, id kernel.UserID, req team.UpdateMemberRequest) (*team.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		role, ok := access.ParseRole(*req.Role)
		if !ok {
			return nil, team.ErrInvalidRole().WithDetail("role", *req.Role)
		}
		normalized := role.String()
		req.Role = &normalized
	}

	member.UpdateProfile(req)
	member.UpdatedAt = s.now()

	if err := s.memberRepo.Save(ctx, *member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember elimina al miembro; sus reportes directos pasan a ser raíces
func (s *TeamService) DeleteMember(ctx context.Context, tenantID kernel.TenantID, id kernel.UserID) error {
	members, err := s.memberRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	detached := orgtree.DirectReports(team.Nodes(members), id.String())

	if err := s.memberRepo.Delete(ctx, id, tenantID); err != nil {
		return err
	}

	logx.WithFields(logx.Fields{
		"member_id":        id.String(),
		"tenant_id":        tenantID.String(),
		"reports_detached": detached,
	}).Info("team member removed")
	return nil
}

// DirectReports lista los reportes directos de id en orden de alta
func (s *TeamService) DirectReports(ctx context.Context, tenantID kernel.TenantID, id kernel.UserID) (*team.MemberListResponse, error) {
	members, err := s.memberRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*team.Member, len(members))
	for _, m := range members {
		byID[m.ID.String()] = m
	}
	if _, ok := byID[id.String()]; !ok {
		return nil, team.ErrMemberNotFound().WithDetail("member_id", id.String())
	}

	children := orgtree.Children(team.Nodes(members), id.String())
	dtos := make([]team.MemberDTO, 0, len(children))
	for _, n := range children {
		dtos = append(dtos, byID[n.ID].ToDTO())
	}
	return &team.MemberListResponse{Members: dtos, Total: len(dtos)}, nil
}

// ============================================================================
// Hierarchy
// ============================================================================

// Hierarchy recorre el organigrama actual en pre-orden
func (s *TeamService) Hierarchy(ctx context.Context, tenantID kernel.TenantID) (*team.HierarchyResponse, error) {
	members, err := s.memberRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	nodes := team.Nodes(members)
	entries, err := orgtree.Traverse(nodes)
	if err != nil {
		logx.WithField("tenant_id", tenantID.String()).WithError(err).Warn("stored team hierarchy is malformed")
		return nil, err
	}

	return &team.HierarchyResponse{
		Entries: entries,
		Roots:   len(orgtree.Roots(nodes)),
		Total:   len(entries),
	}, nil
}

// Reassign cambia el manager de id. managerID vacío lo convierte en raíz.
// Se rechazan managers desconocidos, el propio miembro y cualquier ciclo.
func (s *TeamService) Reassign(ctx context.Context, tenantID kernel.TenantID, id kernel.UserID, managerID string) (*team.Member, error) {
	members, err := s.memberRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if _, err := orgtree.Reassign(team.Nodes(members), id.String(), managerID); err != nil {
		switch {
		case errx.IsCode(err, orgtree.CodeNodeNotFound):
			return nil, team.ErrMemberNotFound().WithDetail("member_id", id.String())
		case errx.IsCode(err, orgtree.CodeParentNotFound):
			return nil, team.ErrManagerNotFound().WithDetail("reports_to", managerID)
		default:
			return nil, err
		}
	}

	var member *team.Member
	for _, m := range members {
		if m.ID == id {
			member = m
			break
		}
	}

	member.SetManager(managerID)
	member.UpdatedAt = s.now()

	if err := s.memberRepo.UpdateManager(ctx, id, tenantID, member.ReportsTo); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"member_id":  id.String(),
		"reports_to": managerID,
		"tenant_id":  tenantID.String(),
	}).Info("team member reassigned")

	return member, nil
}

// Move aplica el resultado de arrastrar activeID sobre overID en el organigrama.
// Soltar en vacío o sobre sí mismo no cambia nada y retorna moved=false.
func (s *TeamService) Move(ctx context.Context, tenantID kernel.TenantID, activeID, overID string) (*team.Member, bool, error) {
	if overID == "" || overID == activeID {
		member, err := s.memberRepo.FindByID(ctx, kernel.UserID(activeID), tenantID)
		return member, false, err
	}

	member, err := s.Reassign(ctx, tenantID, kernel.UserID(activeID), overID)
	if err != nil {
		return nil, false, err
	}
	return member, true, nil
}

// ExportHierarchy escribe el organigrama en XLSX
func (s *TeamService) ExportHierarchy(ctx context.Context, tenantID kernel.TenantID, w io.Writer) error {
	members, err := s.memberRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	entries, err := orgtree.Traverse(team.Nodes(members))
	if err != nil {
		return err
	}

	if err := teamexport.WriteHierarchy(w, members, entries, s.now()); err != nil {
		return team.ErrExportFailed().WithCause(err)
	}
	return nil
}
