package invitationinfra

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
)

// InMemoryInvitationRepository guarda las invitaciones en memoria.
// Respeta las mismas reglas de vigencia que el repositorio de PostgreSQL.
// members recibe los miembros creados por SaveAcceptance.
type InMemoryInvitationRepository struct {
	mu          sync.RWMutex
	invitations []invitation.Invitation
	members     team.MemberRepository
	now         func() time.Time
}

func NewInMemoryInvitationRepository(members team.MemberRepository) *InMemoryInvitationRepository {
	return &InMemoryInvitationRepository{members: members, now: time.Now}
}

func (r *InMemoryInvitationRepository) pending(inv invitation.Invitation) bool {
	return inv.Status == invitation.InvitationStatusPending && inv.ExpiresAt.After(r.now())
}

func (r *InMemoryInvitationRepository) find(match func(invitation.Invitation) bool) (*invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.invitations, match)
	if i < 0 {
		return nil, invitation.ErrInvitationNotFound()
	}
	inv := r.invitations[i]
	return &inv, nil
}

func (r *InMemoryInvitationRepository) filter(match func(invitation.Invitation) bool) []*invitation.Invitation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*invitation.Invitation{}
	for i := len(r.invitations) - 1; i >= 0; i-- {
		if inv := r.invitations[i]; match(inv) {
			result = append(result, &inv)
		}
	}
	return result
}

func (r *InMemoryInvitationRepository) FindByID(ctx context.Context, id string) (*invitation.Invitation, error) {
	return r.find(func(inv invitation.Invitation) bool { return inv.ID == id })
}

func (r *InMemoryInvitationRepository) FindByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	return r.find(func(inv invitation.Invitation) bool { return inv.Token == token })
}

func (r *InMemoryInvitationRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*invitation.Invitation, error) {
	return r.filter(func(inv invitation.Invitation) bool { return inv.TenantID == tenantID }), nil
}

func (r *InMemoryInvitationRepository) FindPendingByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*invitation.Invitation, error) {
	return r.filter(func(inv invitation.Invitation) bool {
		return inv.TenantID == tenantID && r.pending(inv)
	}), nil
}

func (r *InMemoryInvitationRepository) ExistsPendingForEmail(ctx context.Context, email string, tenantID kernel.TenantID) (bool, error) {
	found := r.filter(func(inv invitation.Invitation) bool {
		return inv.TenantID == tenantID && strings.EqualFold(inv.Email, email) && r.pending(inv)
	})
	return len(found) > 0, nil
}

func (r *InMemoryInvitationRepository) CountPendingByTenant(ctx context.Context, tenantID kernel.TenantID) (int, error) {
	pending, _ := r.FindPendingByTenant(ctx, tenantID)
	return len(pending), nil
}

func (r *InMemoryInvitationRepository) FindExpired(ctx context.Context) ([]*invitation.Invitation, error) {
	return r.filter(func(inv invitation.Invitation) bool {
		return inv.Status == invitation.InvitationStatusPending && !inv.ExpiresAt.After(r.now())
	}), nil
}

func (r *InMemoryInvitationRepository) Save(ctx context.Context, inv invitation.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := slices.IndexFunc(r.invitations, func(x invitation.Invitation) bool { return x.ID == inv.ID }); i >= 0 {
		r.invitations[i] = inv
		return nil
	}
	r.invitations = append(r.invitations, inv)
	return nil
}

// SaveAcceptance guarda el miembro y solo si tuvo éxito marca la invitación
func (r *InMemoryInvitationRepository) SaveAcceptance(ctx context.Context, inv invitation.Invitation, member team.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.invitations, func(x invitation.Invitation) bool { return x.ID == inv.ID })
	if i < 0 {
		return invitation.ErrInvitationNotFound().WithDetail("invitation_id", inv.ID)
	}
	if r.invitations[i].Status != invitation.InvitationStatusPending {
		return invitation.ErrInvitationInvalid().
			WithDetail("invitation_id", inv.ID).
			WithDetail("reason", "invitation is no longer pending")
	}

	if err := r.members.Save(ctx, member); err != nil {
		return err
	}
	r.invitations[i] = inv
	return nil
}

func (r *InMemoryInvitationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.invitations, func(inv invitation.Invitation) bool { return inv.ID == id })
	if i < 0 {
		return invitation.ErrInvitationNotFound().WithDetail("invitation_id", id)
	}
	r.invitations = slices.Delete(r.invitations, i, i+1)
	return nil
}
