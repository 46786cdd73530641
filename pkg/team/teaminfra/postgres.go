package teaminfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueEmailConstraint = "team_members_tenant_id_email_key"

// PostgresMemberRepository implementación de PostgreSQL para MemberRepository
type PostgresMemberRepository struct {
	db *sqlx.DB
}

// NewPostgresMemberRepository crea una nueva instancia del repositorio de miembros
func NewPostgresMemberRepository(db *sqlx.DB) team.MemberRepository {
	return &PostgresMemberRepository{db: db}
}

const memberColumns = `
	id, tenant_id, name, email, mobile, role, reports_to, status, created_at, updated_at`

// FindByID busca un miembro por ID y tenant
func (r *PostgresMemberRepository) FindByID(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID) (*team.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM team_members
		WHERE id = $1 AND tenant_id = $2`

	var m team.Member
	if err := r.db.GetContext(ctx, &m, query, id.String(), tenantID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, team.ErrMemberNotFound().WithDetail("member_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find member by id", errx.TypeInternal).
			WithDetail("member_id", id.String()).
			WithDetail("tenant_id", tenantID.String())
	}
	return &m, nil
}

// FindByEmail busca un miembro por email y tenant
func (r *PostgresMemberRepository) FindByEmail(ctx context.Context, email string, tenantID kernel.TenantID) (*team.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM team_members
		WHERE lower(email) = lower($1) AND tenant_id = $2`

	var m team.Member
	if err := r.db.GetContext(ctx, &m, query, email, tenantID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, team.ErrMemberNotFound().WithDetail("email", email)
		}
		return nil, errx.Wrap(err, "failed to find member by email", errx.TypeInternal).
			WithDetail("email", email).
			WithDetail("tenant_id", tenantID.String())
	}
	return &m, nil
}

// FindByTenant busca todos los miembros de un tenant en orden de creación.
// El orden es el que usa el recorrido de la jerarquía.
func (r *PostgresMemberRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*team.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM team_members
		WHERE tenant_id = $1
		ORDER BY created_at ASC, id ASC`

	var members []team.Member
	if err := r.db.SelectContext(ctx, &members, query, tenantID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to find members by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	// Convertir a slice de punteros
	result := make([]*team.Member, len(members))
	for i := range members {
		result[i] = &members[i]
	}
	return result, nil
}

// ExistsByEmail verifica si existe un miembro con el email dado en el tenant
func (r *PostgresMemberRepository) ExistsByEmail(ctx context.Context, email string, tenantID kernel.TenantID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM team_members WHERE lower(email) = lower($1) AND tenant_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, tenantID.String()); err != nil {
		return false, errx.Wrap(err, "failed to check member existence by email", errx.TypeInternal).
			WithDetail("email", email).
			WithDetail("tenant_id", tenantID.String())
	}
	return exists, nil
}

// Save guarda o actualiza un miembro
func (r *PostgresMemberRepository) Save(ctx context.Context, m team.Member) error {
	query := `
		INSERT INTO team_members (` + memberColumns + `
		) VALUES (
			:id, :tenant_id, :name, :email, :mobile, :role, :reports_to, :status, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			mobile = EXCLUDED.mobile,
			role = EXCLUDED.role,
			reports_to = EXCLUDED.reports_to,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		WHERE team_members.tenant_id = EXCLUDED.tenant_id`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return saveError(err, m)
	}
	return nil
}

// InsertMember da de alta un miembro dentro de una transacción abierta por otro agregado
func InsertMember(ctx context.Context, tx *sqlx.Tx, m team.Member) error {
	query := `
		INSERT INTO team_members (` + memberColumns + `
		) VALUES (
			:id, :tenant_id, :name, :email, :mobile, :role, :reports_to, :status, :created_at, :updated_at
		)`

	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return saveError(err, m)
	}
	return nil
}

func saveError(err error, m team.Member) error {
	// Verificar violación de constraint de email único
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == uniqueEmailConstraint {
		return team.ErrMemberAlreadyExists().
			WithDetail("email", m.Email).
			WithDetail("tenant_id", m.TenantID.String())
	}
	return errx.Wrap(err, "failed to save member", errx.TypeInternal).
		WithDetail("member_id", m.ID.String())
}

// UpdateManager cambia solo reports_to, para no pisar ediciones concurrentes del perfil
func (r *PostgresMemberRepository) UpdateManager(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID, reportsTo *kernel.UserID) error {
	query := `UPDATE team_members SET reports_to = $1, updated_at = now() WHERE id = $2 AND tenant_id = $3`

	var manager sql.NullString
	if reportsTo != nil {
		manager = sql.NullString{String: reportsTo.String(), Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, manager, id.String(), tenantID.String())
	if err != nil {
		return errx.Wrap(err, "failed to update member manager", errx.TypeInternal).
			WithDetail("member_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return team.ErrMemberNotFound().WithDetail("member_id", id.String())
	}
	return nil
}

// Delete elimina un miembro; sus reportes directos quedan sin manager
func (r *PostgresMemberRepository) Delete(ctx context.Context, id kernel.UserID, tenantID kernel.TenantID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	detach := `UPDATE team_members SET reports_to = NULL, updated_at = now() WHERE reports_to = $1 AND tenant_id = $2`
	if _, err := tx.ExecContext(ctx, detach, id.String(), tenantID.String()); err != nil {
		return errx.Wrap(err, "failed to detach direct reports", errx.TypeInternal).
			WithDetail("member_id", id.String())
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1 AND tenant_id = $2`, id.String(), tenantID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete member", errx.TypeInternal).
			WithDetail("member_id", id.String()).
			WithDetail("tenant_id", tenantID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return team.ErrMemberNotFound().WithDetail("member_id", id.String())
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit member deletion", errx.TypeInternal)
	}
	return nil
}
