package resumeinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/fsx"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
)

const cleanupBatchSize = 100

// CleanupService elimina en background los borradores vencidos o descartados y sus archivos
type CleanupService struct {
	drafts   resume.DraftRepository
	files    fsx.FileSystem
	cache    *InMemoryFieldCache
	interval time.Duration
}

// NewCleanupService crea el servicio de limpieza. cache puede ser nil (Redis expira solo).
func NewCleanupService(drafts resume.DraftRepository, files fsx.FileSystem, cache *InMemoryFieldCache, interval time.Duration) *CleanupService {
	return &CleanupService{
		drafts:   drafts,
		files:    files,
		cache:    cache,
		interval: interval,
	}
}

// Start inicia el servicio de limpieza
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Ejecutar limpieza inicial
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logx.Info("Resume cleanup service stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce ejecuta una pasada y retorna cuántos borradores eliminó
func (s *CleanupService) RunOnce(ctx context.Context) int {
	removed := 0

	for {
		drafts, err := s.drafts.FindExpired(ctx, time.Now(), cleanupBatchSize)
		if err != nil {
			logx.WithError(err).Error("Error finding expired resume drafts")
			break
		}

		batchRemoved := 0
		for _, d := range drafts {
			if d.StorageKey != "" {
				if err := s.files.DeleteFile(ctx, d.StorageKey); err != nil {
					logx.WithFields(logx.Fields{"draft_id": d.ID, "key": d.StorageKey}).
						WithError(err).Warn("Error deleting resume file")
					continue
				}
			}
			if err := s.drafts.Delete(ctx, d.ID); err != nil {
				logx.WithField("draft_id", d.ID).WithError(err).Warn("Error deleting resume draft")
				continue
			}
			batchRemoved++
		}
		removed += batchRemoved

		if len(drafts) < cleanupBatchSize || batchRemoved == 0 || ctx.Err() != nil {
			break
		}
	}

	if s.cache != nil {
		if purged := s.cache.Purge(); purged > 0 {
			logx.Debugf("Purged %d cached extractions", purged)
		}
	}

	if removed > 0 {
		logx.Infof("Resume cleanup removed %d drafts", removed)
	}
	return removed
}
