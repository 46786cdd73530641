package team

import (
	"context"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// MemberRepository define el contrato para la persistencia de miembros
type MemberRepository interface {
	FindByID(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID) (*Member, error)
	FindByEmail(ctx context.Context, email string, tenantID kernel.TenantID) (*Member, error)
	// FindByTenant retorna los miembros en orden de creación
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*Member, error)
	ExistsByEmail(ctx context.Context, email string, tenantID kernel.TenantID) (bool, error)
	Save(ctx context.Context, m Member) error
	UpdateManager(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID, reportsTo *kernel.UserID) error
	// Delete elimina al miembro y deja como raíces a sus reportes directos
	Delete(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID) error
}
