package resumesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/fsx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/document"
)

// ResumeService orquesta la subida de CVs, la extracción de campos y los borradores
type ResumeService struct {
	drafts    resume.DraftRepository
	files     fsx.FileSystem
	reader    resume.TextReader
	extractor *resume.Extractor
	cache     resume.FieldCache
	enricher  resume.Enricher
	config    *config.ResumeConfig
	now       func() time.Time
}

// NewResumeService crea el servicio. cache y enricher son opcionales (nil).
func NewResumeService(
	drafts resume.DraftRepository,
	files fsx.FileSystem,
	reader resume.TextReader,
	cache resume.FieldCache,
	enricher resume.Enricher,
	cfg *config.ResumeConfig,
) *ResumeService {
	return &ResumeService{
		drafts:    drafts,
		files:     files,
		reader:    reader,
		extractor: resume.NewExtractor(nil),
		cache:     cache,
		enricher:  enricher,
		config:    cfg,
		now:       time.Now,
	}
}

// ============================================================================
// Extraction
// ============================================================================

// Parse extrae campos de texto plano sin persistir nada
func (s *ResumeService) Parse(ctx context.Context, text string) resume.ParseResponse {
	return s.extract(ctx, text).ToResponse()
}

// extract nunca falla: la caché y la IA son opcionales y sus errores solo se registran
func (s *ResumeService) extract(ctx context.Context, text string) resume.Extraction {
	start := s.now()
	normalized := resume.Normalize(text)
	if normalized == "" {
		out := resume.Extraction{Source: resume.SourceHeuristic}
		resume.ObserveExtraction(out.Fields, out.Source, false, time.Since(start))
		return out
	}

	key := resume.CacheKey(normalized)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logx.WithError(err).Warn("resume cache lookup failed")
		} else if cached != nil {
			resume.ObserveExtraction(cached.Fields, cached.Source, true, time.Since(start))
			return *cached
		}
	}

	out := resume.Extraction{
		Fields: s.extractor.Extract(normalized),
		Source: resume.SourceHeuristic,
	}
	out = s.enrich(ctx, normalized, out)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.config.CacheTTL); err != nil {
			logx.WithError(err).Warn("resume cache store failed")
		}
	}

	resume.ObserveExtraction(out.Fields, out.Source, false, time.Since(start))
	return out
}

// enrich completa con IA solo los campos ausentes; lo que encontró la heurística se mantiene
func (s *ResumeService) enrich(ctx context.Context, text string, current resume.Extraction) resume.Extraction {
	if s.enricher == nil || !s.config.AIEnrichment || current.Fields.IsComplete() {
		return current
	}

	aiCtx := ctx
	if s.config.AITimeout > 0 {
		var cancel context.CancelFunc
		aiCtx, cancel = context.WithTimeout(ctx, s.config.AITimeout)
		defer cancel()
	}

	suggested, err := s.enricher.Enrich(aiCtx, text)
	if err != nil {
		logx.WithError(err).Warn("resume AI enrichment failed, keeping heuristic fields")
		return current
	}

	merged := current.Fields.FillMissing(suggested)
	if len(merged.Found()) == len(current.Fields.Found()) {
		return current
	}
	return resume.Extraction{Fields: merged, Source: resume.SourceHeuristicAI}
}

// ============================================================================
// Drafts
// ============================================================================

// Upload valida el PDF, lo guarda, extrae los campos y persiste el borrador
func (s *ResumeService) Upload(ctx context.Context, in resume.UploadInput) (*resume.Draft, error) {
	if err := document.Validate(in.Data, s.config.MaxUploadBytes); err != nil {
		return nil, err
	}

	text, err := s.reader.ReadText(in.Data)
	if err != nil {
		return nil, err
	}

	extraction := s.extract(ctx, text)

	now := s.now()
	draft := resume.Draft{
		ID:          kernel.GenerateID(),
		TenantID:    in.TenantID,
		UploadedBy:  in.UploadedBy,
		FileName:    in.FileName,
		ContentType: document.PDFMime,
		SizeBytes:   int64(len(in.Data)),
		Status:      resume.DraftStatusPending,
		ExpiresAt:   now.Add(s.config.DraftTTL),
		CreatedAt:   now,
	}
	draft.StorageKey = resume.StorageKeyFor(in.TenantID, draft.ID)
	draft.SetFields(extraction.Fields, extraction.Source)

	if err := s.files.WriteFile(ctx, draft.StorageKey, in.Data); err != nil {
		return nil, errx.Wrap(err, "failed to store resume file", errx.TypeExternal).
			WithDetail("draft_id", draft.ID)
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		if delErr := s.files.DeleteFile(ctx, draft.StorageKey); delErr != nil {
			logx.WithField("key", draft.StorageKey).WithError(delErr).Warn("failed to remove orphan resume file")
		}
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"draft_id":           draft.ID,
		"tenant_id":          draft.TenantID.String(),
		"found":              len(draft.Fields.Found()),
		"source":             string(draft.Source),
		"needs_manual_entry": draft.NeedsManualEntry,
	}).Info("resume draft created")

	return &draft, nil
}

// GetDraft retorna un borrador vigente del tenant
func (s *ResumeService) GetDraft(ctx context.Context, id string, tenantID kernel.TenantID) (*resume.Draft, error) {
	draft, err := s.drafts.FindByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	if draft.Status == resume.DraftStatusDiscarded {
		return nil, resume.ErrDraftNotFound().WithDetail("draft_id", id)
	}
	if s.now().After(draft.ExpiresAt) {
		return nil, resume.ErrDraftExpired().WithDetail("draft_id", id)
	}
	return draft, nil
}

// DownloadDraftFile retorna el PDF original de un borrador vigente
func (s *ResumeService) DownloadDraftFile(ctx context.Context, id string, tenantID kernel.TenantID) (*resume.Draft, []byte, error) {
	draft, err := s.GetDraft(ctx, id, tenantID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.files.ReadFile(ctx, draft.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return draft, data, nil
}

// Discard descarta el borrador y borra su archivo. La fila la elimina el cleanup.
func (s *ResumeService) Discard(ctx context.Context, id string, tenantID kernel.TenantID) error {
	draft, err := s.drafts.FindByID(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if err := draft.Discard(); err != nil {
		return err
	}
	if err := s.drafts.UpdateStatus(ctx, id, tenantID, draft.Status); err != nil {
		return err
	}
	if err := s.files.DeleteFile(ctx, draft.StorageKey); err != nil {
		logx.WithField("draft_id", id).WithError(err).Warn("failed to delete discarded resume file")
	}
	return nil
}
