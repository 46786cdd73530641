package resume

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// ============================================================================
// Draft Entity
// ============================================================================

// DraftStatus define los estados de un borrador de candidato
type DraftStatus string

const (
	DraftStatusPending   DraftStatus = "PENDING"
	DraftStatusDiscarded DraftStatus = "DISCARDED"
)

// Source indica qué produjo los campos del borrador
type Source string

const (
	SourceHeuristic   Source = "heuristic"
	SourceHeuristicAI Source = "heuristic+ai"
)

// Draft es el resultado persistido de subir un CV: el archivo guardado y los
// campos sugeridos para prellenar el formulario de candidato
type Draft struct {
	ID               string                `db:"id" json:"id"`
	TenantID         kernel.TenantID       `db:"tenant_id" json:"tenant_id"`
	UploadedBy       kernel.UserID         `db:"uploaded_by" json:"uploaded_by"`
	FileName         string                `db:"file_name" json:"file_name"`
	StorageKey       string                `db:"storage_key" json:"-"`
	ContentType      string                `db:"content_type" json:"content_type"`
	SizeBytes        int64                 `db:"size_bytes" json:"size_bytes"`
	Fields           ExtractedResumeFields `db:"fields" json:"fields"`
	Source           Source                `db:"source" json:"source"`
	NeedsManualEntry bool                  `db:"needs_manual_entry" json:"needs_manual_entry"`
	Status           DraftStatus           `db:"status" json:"status"`
	ExpiresAt        time.Time             `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time             `db:"created_at" json:"created_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsExpired verifica si el borrador ya expiró
func (d *Draft) IsExpired() bool {
	return time.Now().After(d.ExpiresAt)
}

// IsPending verifica si el borrador sigue disponible
func (d *Draft) IsPending() bool {
	return d.Status == DraftStatusPending && !d.IsExpired()
}

// Discard marca el borrador como descartado
func (d *Draft) Discard() error {
	if d.Status == DraftStatusDiscarded {
		return ErrDraftDiscarded()
	}
	d.Status = DraftStatusDiscarded
	return nil
}

// SetFields asigna los campos y recalcula NeedsManualEntry
func (d *Draft) SetFields(fields ExtractedResumeFields, source Source) {
	d.Fields = fields
	d.Source = source
	d.NeedsManualEntry = fields.IsEmpty()
}

// StorageKeyFor returns where the uploaded file of a draft lives
func StorageKeyFor(tenantID kernel.TenantID, draftID string) string {
	return fmt.Sprintf("resumes/%s/%s.pdf", tenantID, draftID)
}

// CacheKey identifica un texto ya normalizado en la caché de extracción
func CacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return "resume:fields:" + hex.EncodeToString(sum[:])
}

// ============================================================================
// JSONB mapping
// ============================================================================

// Value guarda los campos como JSONB
func (f ExtractedResumeFields) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan lee los campos desde JSONB
func (f *ExtractedResumeFields) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = ExtractedResumeFields{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("resume: cannot scan %T into ExtractedResumeFields", src)
	}
}

// ============================================================================
// DTOs
// ============================================================================

// Extraction es el resultado final de extraer un texto, tal como se guarda en caché
type Extraction struct {
	Fields ExtractedResumeFields `json:"fields"`
	Source Source                `json:"source"`
}

// ToResponse convierte la extracción en la respuesta de la API
func (e Extraction) ToResponse() ParseResponse {
	return ParseResponse{
		Fields:           e.Fields,
		Found:            e.Fields.Found(),
		Source:           e.Source,
		NeedsManualEntry: e.Fields.IsEmpty(),
	}
}

// DraftDTO es la vista pública de un borrador
type DraftDTO struct {
	ID               string                `json:"id"`
	FileName         string                `json:"file_name"`
	ContentType      string                `json:"content_type"`
	SizeBytes        int64                 `json:"size_bytes"`
	Fields           ExtractedResumeFields `json:"fields"`
	Found            []string              `json:"found"`
	Source           Source                `json:"source"`
	NeedsManualEntry bool                  `json:"needs_manual_entry"`
	Status           DraftStatus           `json:"status"`
	ExpiresAt        time.Time             `json:"expires_at"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ToDTO convierte la entidad Draft a DraftDTO
func (d *Draft) ToDTO() DraftDTO {
	return DraftDTO{
		ID:               d.ID,
		FileName:         d.FileName,
		ContentType:      d.ContentType,
		SizeBytes:        d.SizeBytes,
		Fields:           d.Fields,
		Found:            d.Fields.Found(),
		Source:           d.Source,
		NeedsManualEntry: d.NeedsManualEntry,
		Status:           d.Status,
		ExpiresAt:        d.ExpiresAt,
		CreatedAt:        d.CreatedAt,
	}
}

// ParseTextRequest pide extraer campos de texto ya disponible
type ParseTextRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}

// ParseResponse es el resultado de una extracción sin persistencia
type ParseResponse struct {
	Fields           ExtractedResumeFields `json:"fields"`
	Found            []string              `json:"found"`
	Source           Source                `json:"source"`
	NeedsManualEntry bool                  `json:"needs_manual_entry"`
}

// UploadInput agrupa lo necesario para crear un borrador a partir de un archivo
type UploadInput struct {
	TenantID   kernel.TenantID
	UploadedBy kernel.UserID
	FileName   string
	Data       []byte
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("RESUME")

var (
	CodeUnsupportedFormat = ErrRegistry.Register("UNSUPPORTED_FORMAT", errx.TypeValidation, http.StatusUnsupportedMediaType, "Invalid file type. Only PDF files are supported.")
	CodeFileTooLarge      = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "File exceeds the maximum upload size")
	CodeEmptyFile         = ErrRegistry.Register("EMPTY_FILE", errx.TypeValidation, http.StatusBadRequest, "Uploaded file is empty")
	CodeDraftNotFound     = ErrRegistry.Register("DRAFT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume draft not found")
	CodeDraftExpired      = ErrRegistry.Register("DRAFT_EXPIRED", errx.TypeBusiness, http.StatusGone, "Resume draft expired")
	CodeDraftDiscarded    = ErrRegistry.Register("DRAFT_DISCARDED", errx.TypeBusiness, http.StatusConflict, "Resume draft already discarded")
)

func ErrUnsupportedFormat() *errx.Error {
	return ErrRegistry.New(CodeUnsupportedFormat)
}

func ErrFileTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileTooLarge)
}

func ErrEmptyFile() *errx.Error {
	return ErrRegistry.New(CodeEmptyFile)
}

func ErrDraftNotFound() *errx.Error {
	return ErrRegistry.New(CodeDraftNotFound)
}

func ErrDraftExpired() *errx.Error {
	return ErrRegistry.New(CodeDraftExpired)
}

func ErrDraftDiscarded() *errx.Error {
	return ErrRegistry.New(CodeDraftDiscarded)
}
