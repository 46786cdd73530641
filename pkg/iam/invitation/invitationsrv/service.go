package invitationsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/google/uuid"
)

// InvitationService proporciona operaciones de negocio para invitaciones al equipo
type InvitationService struct {
	invitationRepo invitation.InvitationRepository
	memberRepo     team.MemberRepository
	config         *config.InvitationConfig
	now            func() time.Time
}

// NewInvitationService crea una nueva instancia del servicio de invitaciones
func NewInvitationService(
	invitationRepo invitation.InvitationRepository,
	memberRepo team.MemberRepository,
	cfg *config.InvitationConfig,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		memberRepo:     memberRepo,
		config:         cfg,
		now:            time.Now,
	}
}

// CreateInvitation crea una nueva invitación. Solo recruiters y managers son invitables.
func (s *InvitationService) CreateInvitation(ctx context.Context, tenantID kernel.TenantID, invitedBy kernel.UserID, req invitation.CreateInvitationRequest) (*invitation.Invitation, error) {
	role, ok := access.ParseRole(req.Role)
	if !ok || !role.Invitable() {
		return nil, invitation.ErrRoleNotInvitable().WithDetail("role", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Verificar que el email no pertenece ya al equipo
	exists, err := s.memberRepo.ExistsByEmail(ctx, email, tenantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check member existence", errx.TypeInternal)
	}
	if exists {
		return nil, invitation.ErrMemberAlreadyExists().WithDetail("email", email)
	}

	// Verificar que no existe una invitación pendiente para este email
	pending, err := s.invitationRepo.ExistsPendingForEmail(ctx, email, tenantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check pending invitation", errx.TypeInternal)
	}
	if pending {
		return nil, invitation.ErrInvitationAlreadyExists().WithDetail("email", email)
	}

	if s.config.MaxPendingPerTenant > 0 {
		count, err := s.invitationRepo.CountPendingByTenant(ctx, tenantID)
		if err != nil {
			return nil, errx.Wrap(err, "failed to count pending invitations", errx.TypeInternal)
		}
		if count >= s.config.MaxPendingPerTenant {
			return nil, invitation.ErrTooManyPending().WithDetail("max_pending", s.config.MaxPendingPerTenant)
		}
	}

	var reportsTo *kernel.UserID
	if req.ReportsTo != "" {
		managerID := kernel.UserID(req.ReportsTo)
		if _, err := s.memberRepo.FindByID(ctx, managerID, tenantID); err != nil {
			if errx.IsCode(err, team.CodeMemberNotFound) {
				return nil, team.ErrManagerNotFound().WithDetail("reports_to", req.ReportsTo)
			}
			return nil, err
		}
		reportsTo = &managerID
	}

	token, err := invitation.GenerateInvitationToken(s.config.TokenByteLength)
	if err != nil {
		return nil, err
	}

	expiresIn := 0
	if req.ExpiresIn != nil {
		expiresIn = *req.ExpiresIn
	}

	now := s.now()
	inv := &invitation.Invitation{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Role:      role,
		ReportsTo: reportsTo,
		Token:     token,
		Status:    invitation.InvitationStatusPending,
		InvitedBy: invitedBy,
		ExpiresAt: invitation.CalculateExpirationDate(expiresIn, s.config.DefaultExpirationDays),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.invitationRepo.Save(ctx, *inv); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"invitation_id": inv.ID,
		"tenant_id":     tenantID.String(),
		"role":          role.String(),
		"invited_by":    invitedBy.String(),
	}).Info("team invitation created")

	return inv, nil
}

// GetInvitationByID obtiene una invitación por ID dentro del tenant
func (s *InvitationService) GetInvitationByID(ctx context.Context, invitationID string, tenantID kernel.TenantID) (*invitation.Invitation, error) {
	inv, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.TenantID != tenantID {
		return nil, invitation.ErrInvitationNotFound()
	}
	return inv, nil
}

// ValidateInvitationToken valida un token de invitación sin aceptarlo
func (s *InvitationService) ValidateInvitationToken(ctx context.Context, token string) (*invitation.ValidateInvitationResponse, error) {
	inv, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		if errx.IsCode(err, invitation.CodeInvitationNotFound) {
			return &invitation.ValidateInvitationResponse{Valid: false, Message: "Invitation not found"}, nil
		}
		return nil, err
	}

	if !inv.CanBeAccepted() {
		message := "Invitation is not valid"
		switch {
		case inv.Status == invitation.InvitationStatusAccepted:
			message = "Invitation already accepted"
		case inv.Status == invitation.InvitationStatusRevoked:
			message = "Invitation revoked"
		case inv.IsExpired() || inv.Status == invitation.InvitationStatusExpired:
			message = "Invitation expired"
		}
		return &invitation.ValidateInvitationResponse{Valid: false, Message: message}, nil
	}

	dto := inv.ToDTO()
	return &invitation.ValidateInvitationResponse{
		Valid:      true,
		Invitation: &dto,
		Message:    "Invitation is valid",
	}, nil
}

// AcceptInvitation da de alta al invitado como miembro del equipo.
// Si el manager propuesto ya no existe, el nuevo miembro queda en la raíz.
func (s *InvitationService) AcceptInvitation(ctx context.Context, req invitation.AcceptInvitationRequest) (*team.Member, error) {
	inv, err := s.invitationRepo.FindByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if inv.Status == invitation.InvitationStatusAccepted {
		return nil, invitation.ErrInvitationAlreadyAccepted()
	}

	exists, err := s.memberRepo.ExistsByEmail(ctx, inv.Email, inv.TenantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check member existence", errx.TypeInternal)
	}
	if exists {
		return nil, invitation.ErrMemberAlreadyExists().WithDetail("email", inv.Email)
	}

	now := s.now()
	member := &team.Member{
		ID:        kernel.NewUserID(kernel.GenerateID()),
		TenantID:  inv.TenantID,
		Name:      inv.Name,
		Email:     inv.Email,
		Mobile:    req.Mobile,
		Role:      inv.Role,
		Status:    team.MemberStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if managerID := inv.ManagerID(); managerID != "" {
		if _, err := s.memberRepo.FindByID(ctx, kernel.UserID(managerID), inv.TenantID); err == nil {
			member.SetManager(managerID)
		} else if !errx.IsCode(err, team.CodeMemberNotFound) {
			return nil, err
		}
	}

	if err := inv.Accept(member.ID); err != nil {
		return nil, err
	}

	if err := s.invitationRepo.SaveAcceptance(ctx, *inv, *member); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"invitation_id": inv.ID,
		"member_id":     member.ID.String(),
		"tenant_id":     inv.TenantID.String(),
	}).Info("team invitation accepted")

	return member, nil
}

// GetTenantInvitations obtiene todas las invitaciones de un tenant
func (s *InvitationService) GetTenantInvitations(ctx context.Context, tenantID kernel.TenantID) (*invitation.InvitationListResponseDTO, error) {
	invitations, err := s.invitationRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := invitation.NewInvitationList(invitations)
	return &response, nil
}

// GetPendingInvitations obtiene invitaciones pendientes de un tenant
func (s *InvitationService) GetPendingInvitations(ctx context.Context, tenantID kernel.TenantID) (*invitation.InvitationListResponseDTO, error) {
	invitations, err := s.invitationRepo.FindPendingByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := invitation.NewInvitationList(invitations)
	return &response, nil
}

// RevokeInvitation revoca una invitación
func (s *InvitationService) RevokeInvitation(ctx context.Context, invitationID string, tenantID kernel.TenantID) error {
	inv, err := s.GetInvitationByID(ctx, invitationID, tenantID)
	if err != nil {
		return err
	}

	if err := inv.Revoke(); err != nil {
		return err
	}
	return s.invitationRepo.Save(ctx, *inv)
}

// DeleteInvitation elimina una invitación que no fue aceptada
func (s *InvitationService) DeleteInvitation(ctx context.Context, invitationID string, tenantID kernel.TenantID) error {
	inv, err := s.GetInvitationByID(ctx, invitationID, tenantID)
	if err != nil {
		return err
	}

	if inv.Status == invitation.InvitationStatusAccepted {
		return invitation.ErrInvitationAlreadyAccepted().WithDetail("reason", "accepted invitations cannot be deleted")
	}
	return s.invitationRepo.Delete(ctx, invitationID)
}

// CleanupExpiredInvitations marca como EXPIRED las invitaciones vencidas.
// Lo llama el ticker del servidor.
func (s *InvitationService) CleanupExpiredInvitations(ctx context.Context) (int, error) {
	expired, err := s.invitationRepo.FindExpired(ctx)
	if err != nil {
		return 0, errx.Wrap(err, "failed to find expired invitations", errx.TypeInternal)
	}

	count := 0
	for _, inv := range expired {
		inv.MarkAsExpired()
		if err := s.invitationRepo.Save(ctx, *inv); err != nil {
			logx.WithError(err).WithField("invitation_id", inv.ID).Warn("failed to expire invitation")
			continue
		}
		count++
	}

	if count > 0 {
		logx.Infof("expired %d invitations", count)
	}
	return count, nil
}
