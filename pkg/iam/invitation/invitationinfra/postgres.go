package invitationinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teaminfra"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueTokenConstraint = "invitations_token_key"

// PostgresInvitationRepository implementación de PostgreSQL para InvitationRepository
type PostgresInvitationRepository struct {
	db *sqlx.DB
}

// NewPostgresInvitationRepository crea una nueva instancia del repositorio de invitaciones
func NewPostgresInvitationRepository(db *sqlx.DB) invitation.InvitationRepository {
	return &PostgresInvitationRepository{db: db}
}

const invitationColumns = `
	id, tenant_id, email, name, role, reports_to, token, status, invited_by,
	expires_at, accepted_at, accepted_by, created_at, updated_at`

// FindByID busca una invitación por ID
func (r *PostgresInvitationRepository) FindByID(ctx context.Context, id string) (*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`

	var inv invitation.Invitation
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invitation.ErrInvitationNotFound().WithDetail("invitation_id", id)
		}
		return nil, errx.Wrap(err, "failed to find invitation by id", errx.TypeInternal).
			WithDetail("invitation_id", id)
	}
	return &inv, nil
}

// FindByToken busca una invitación por token
func (r *PostgresInvitationRepository) FindByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`

	var inv invitation.Invitation
	if err := r.db.GetContext(ctx, &inv, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invitation.ErrInvitationNotFound()
		}
		return nil, errx.Wrap(err, "failed to find invitation by token", errx.TypeInternal)
	}
	return &inv, nil
}

// FindByTenant busca todas las invitaciones de un tenant, las más recientes primero
func (r *PostgresInvitationRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + `
		FROM invitations
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	return r.selectInvitations(ctx, query, tenantID.String())
}

// FindPendingByTenant busca las invitaciones pendientes y vigentes de un tenant
func (r *PostgresInvitationRepository) FindPendingByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + `
		FROM invitations
		WHERE tenant_id = $1 AND status = 'PENDING' AND expires_at > now()
		ORDER BY created_at DESC`

	return r.selectInvitations(ctx, query, tenantID.String())
}

// ExistsPendingForEmail verifica si hay una invitación pendiente para el email
func (r *PostgresInvitationRepository) ExistsPendingForEmail(ctx context.Context, email string, tenantID kernel.TenantID) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM invitations
		WHERE lower(email) = lower($1) AND tenant_id = $2 AND status = 'PENDING' AND expires_at > now()
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, tenantID.String()); err != nil {
		return false, errx.Wrap(err, "failed to check pending invitation", errx.TypeInternal).
			WithDetail("email", email)
	}
	return exists, nil
}

// CountPendingByTenant cuenta las invitaciones pendientes y vigentes
func (r *PostgresInvitationRepository) CountPendingByTenant(ctx context.Context, tenantID kernel.TenantID) (int, error) {
	query := `SELECT COUNT(*) FROM invitations WHERE tenant_id = $1 AND status = 'PENDING' AND expires_at > now()`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID.String()); err != nil {
		return 0, errx.Wrap(err, "failed to count pending invitations", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}
	return count, nil
}

// FindExpired busca invitaciones pendientes cuyo plazo ya venció
func (r *PostgresInvitationRepository) FindExpired(ctx context.Context) ([]*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + `
		FROM invitations
		WHERE status = 'PENDING' AND expires_at <= now()`

	return r.selectInvitations(ctx, query)
}

// Save guarda o actualiza una invitación
func (r *PostgresInvitationRepository) Save(ctx context.Context, inv invitation.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `
		) VALUES (
			:id, :tenant_id, :email, :name, :role, :reports_to, :token, :status, :invited_by,
			:expires_at, :accepted_at, :accepted_by, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			accepted_at = EXCLUDED.accepted_at,
			accepted_by = EXCLUDED.accepted_by,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, inv); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == uniqueTokenConstraint {
			return errx.Wrap(err, "invitation token collision", errx.TypeConflict).
				WithDetail("invitation_id", inv.ID)
		}
		return errx.Wrap(err, "failed to save invitation", errx.TypeInternal).
			WithDetail("invitation_id", inv.ID)
	}
	return nil
}

// SaveAcceptance actualiza la invitación y crea el miembro en la misma transacción.
// El UPDATE condicionado a PENDING serializa aceptaciones concurrentes del mismo token.
func (r *PostgresInvitationRepository) SaveAcceptance(ctx context.Context, inv invitation.Invitation, member team.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin invitation acceptance", errx.TypeInternal).
			WithDetail("invitation_id", inv.ID)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE invitations SET
			status = :status,
			accepted_at = :accepted_at,
			accepted_by = :accepted_by,
			updated_at = :updated_at
		WHERE id = :id AND status = 'PENDING'`

	result, err := tx.NamedExecContext(ctx, query, inv)
	if err != nil {
		return errx.Wrap(err, "failed to accept invitation", errx.TypeInternal).
			WithDetail("invitation_id", inv.ID)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return invitation.ErrInvitationInvalid().
			WithDetail("invitation_id", inv.ID).
			WithDetail("reason", "invitation is no longer pending")
	}

	if err := teaminfra.InsertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit invitation acceptance", errx.TypeInternal).
			WithDetail("invitation_id", inv.ID)
	}
	return nil
}

// Delete elimina una invitación
func (r *PostgresInvitationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete invitation", errx.TypeInternal).
			WithDetail("invitation_id", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return invitation.ErrInvitationNotFound().WithDetail("invitation_id", id)
	}
	return nil
}

func (r *PostgresInvitationRepository) selectInvitations(ctx context.Context, query string, args ...any) ([]*invitation.Invitation, error) {
	var rows []invitation.Invitation
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list invitations", errx.TypeInternal)
	}

	result := make([]*invitation.Invitation, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
