package invitation

import (
	"context"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
)

// InvitationRepository define el contrato para la persistencia de invitaciones
type InvitationRepository interface {
	FindByID(ctx context.Context, id string) (*Invitation, error)
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*Invitation, error)
	FindPendingByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*Invitation, error)
	ExistsPendingForEmail(ctx context.Context, email string, tenantID kernel.TenantID) (bool, error)
	CountPendingByTenant(ctx context.Context, tenantID kernel.TenantID) (int, error)
	// FindExpired retorna invitaciones PENDING con expires_at vencido
	FindExpired(ctx context.Context) ([]*Invitation, error)
	Save(ctx context.Context, inv Invitation) error
	// SaveAcceptance marca inv como aceptada y da de alta a member en una sola unidad.
	// Si inv ya no está PENDING no escribe nada y retorna ErrInvitationInvalid.
	SaveAcceptance(ctx context.Context, inv Invitation, member team.Member) error
	Delete(ctx context.Context, id string) error
}
