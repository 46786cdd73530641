package resumeinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/jmoiron/sqlx"
)

// PostgresDraftRepository implementación de PostgreSQL para DraftRepository
type PostgresDraftRepository struct {
	db *sqlx.DB
}

// NewPostgresDraftRepository crea el repositorio de borradores
func NewPostgresDraftRepository(db *sqlx.DB) resume.DraftRepository {
	return &PostgresDraftRepository{db: db}
}

const draftColumns = `
	id, tenant_id, uploaded_by, file_name, storage_key, content_type, size_bytes,
	fields, source, needs_manual_entry, status, expires_at, created_at`

// Save inserta un borrador nuevo
func (r *PostgresDraftRepository) Save(ctx context.Context, d resume.Draft) error {
	query := `
		INSERT INTO resume_drafts (` + draftColumns + `
		) VALUES (
			:id, :tenant_id, :uploaded_by, :file_name, :storage_key, :content_type, :size_bytes,
			:fields, :source, :needs_manual_entry, :status, :expires_at, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return errx.Wrap(err, "failed to save resume draft", errx.TypeInternal).
			WithDetail("draft_id", d.ID).
			WithDetail("tenant_id", d.TenantID.String())
	}
	return nil
}

// FindByID busca un borrador por ID dentro del tenant
func (r *PostgresDraftRepository) FindByID(ctx context.Context, id string, tenantID kernel.TenantID) (*resume.Draft, error) {
	query := `SELECT ` + draftColumns + `
		FROM resume_drafts
		WHERE id = $1 AND tenant_id = $2`

	var d resume.Draft
	if err := r.db.GetContext(ctx, &d, query, id, tenantID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resume.ErrDraftNotFound().WithDetail("draft_id", id)
		}
		return nil, errx.Wrap(err, "failed to find resume draft", errx.TypeInternal).
			WithDetail("draft_id", id).
			WithDetail("tenant_id", tenantID.String())
	}
	return &d, nil
}

// UpdateStatus cambia el estado de un borrador
func (r *PostgresDraftRepository) UpdateStatus(ctx context.Context, id string, tenantID kernel.TenantID, status resume.DraftStatus) error {
	query := `UPDATE resume_drafts SET status = $1 WHERE id = $2 AND tenant_id = $3`

	result, err := r.db.ExecContext(ctx, query, string(status), id, tenantID.String())
	if err != nil {
		return errx.Wrap(err, "failed to update resume draft status", errx.TypeInternal).
			WithDetail("draft_id", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return resume.ErrDraftNotFound().WithDetail("draft_id", id)
	}
	return nil
}

// FindExpired retorna borradores vencidos o descartados, los más antiguos primero
func (r *PostgresDraftRepository) FindExpired(ctx context.Context, before time.Time, limit int) ([]resume.Draft, error) {
	query := `SELECT ` + draftColumns + `
		FROM resume_drafts
		WHERE expires_at < $1 OR status = $2
		ORDER BY expires_at ASC
		LIMIT $3`

	var drafts []resume.Draft
	if err := r.db.SelectContext(ctx, &drafts, query, before, string(resume.DraftStatusDiscarded), limit); err != nil {
		return nil, errx.Wrap(err, "failed to find expired resume drafts", errx.TypeInternal)
	}
	return drafts, nil
}

// Delete elimina un borrador. Borrar uno inexistente no es un error.
func (r *PostgresDraftRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM resume_drafts WHERE id = $1`, id); err != nil {
		return errx.Wrap(err, "failed to delete resume draft", errx.TypeInternal).
			WithDetail("draft_id", id)
	}
	return nil
}
