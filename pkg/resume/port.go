package resume

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// DraftRepository persiste los borradores de CV
type DraftRepository interface {
	Save(ctx context.Context, draft Draft) error
	FindByID(ctx context.Context, id string, tenantID kernel.TenantID) (*Draft, error)
	UpdateStatus(ctx context.Context, id string, tenantID kernel.TenantID, status DraftStatus) error
	FindExpired(ctx context.Context, before time.Time, limit int) ([]Draft, error)
	Delete(ctx context.Context, id string) error
}

// FieldCache guarda extracciones por CacheKey. Un miss retorna (nil, nil).
type FieldCache interface {
	Get(ctx context.Context, key string) (*Extraction, error)
	Set(ctx context.Context, key string, extraction Extraction, ttl time.Duration) error
}

// Enricher propone valores para los campos que la heurística dejó vacíos
type Enricher interface {
	Enrich(ctx context.Context, text string) (ExtractedResumeFields, error)
}

// TextReader obtiene la capa de texto de un documento ya validado
type TextReader interface {
	ReadText(data []byte) (string, error)
}
