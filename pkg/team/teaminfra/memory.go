package teaminfra

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
)

// InMemoryMemberRepository guarda los miembros en orden de inserción.
// Lo usan recruitctl y los tests de handlers.
type InMemoryMemberRepository struct {
	mu      sync.RWMutex
	members []team.Member
}

func NewInMemoryMemberRepository(seed ...team.Member) *InMemoryMemberRepository {
	return &InMemoryMemberRepository{members: slices.Clone(seed)}
}

func (r *InMemoryMemberRepository) indexOf(id kernel.UserID, tenantID kernel.TenantID) int {
	return slices.IndexFunc(r.members, func(m team.Member) bool {
		return m.ID == id && m.TenantID == tenantID
	})
}

func (r *InMemoryMemberRepository) FindByID(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID) (*team.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id, tenantID)
	if i < 0 {
		return nil, team.ErrMemberNotFound().WithDetail("member_id", id.String())
	}
	m := r.members[i]
	return &m, nil
}

func (r *InMemoryMemberRepository) FindByEmail(ctx context.Context, email string, tenantID kernel.TenantID) (*team.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members {
		if m.TenantID == tenantID && strings.EqualFold(m.Email, email) {
			return &m, nil
		}
	}
	return nil, team.ErrMemberNotFound().WithDetail("email", email)
}

func (r *InMemoryMemberRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*team.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*team.Member{}
	for _, m := range r.members {
		if m.TenantID == tenantID {
			result = append(result, &m)
		}
	}
	return result, nil
}

func (r *InMemoryMemberRepository) ExistsByEmail(ctx context.Context, email string, tenantID kernel.TenantID) (bool, error) {
	_, err := r.FindByEmail(ctx, email, tenantID)
	return err == nil, nil
}

func (r *InMemoryMemberRepository) Save(ctx context.Context, m team.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.members {
		if other.TenantID == m.TenantID && other.ID != m.ID && strings.EqualFold(other.Email, m.Email) {
			return team.ErrMemberAlreadyExists().WithDetail("email", m.Email)
		}
	}

	if i := r.indexOf(m.ID, m.TenantID); i >= 0 {
		r.members[i] = m
		return nil
	}
	r.members = append(r.members, m)
	return nil
}

func (r *InMemoryMemberRepository) UpdateManager(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID, reportsTo *kernel.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, tenantID)
	if i < 0 {
		return team.ErrMemberNotFound().WithDetail("member_id", id.String())
	}
	r.members[i].ReportsTo = reportsTo
	return nil
}

func (r *InMemoryMemberRepository) Delete(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, tenantID)
	if i < 0 {
		return team.ErrMemberNotFound().WithDetail("member_id", id.String())
	}
	r.members = slices.Delete(r.members, i, i+1)

	for j := range r.members {
		m := &r.members[j]
		if m.TenantID == tenantID && m.ReportsTo != nil && *m.ReportsTo == id {
			m.ReportsTo = nil
		}
	}
	return nil
}
