package resumeinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/resume"
)

// InMemoryFieldCache implementación en memoria de FieldCache (desarrollo y tests)
type InMemoryFieldCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	extraction resume.Extraction
	expiresAt  time.Time
}

func NewInMemoryFieldCache() *InMemoryFieldCache {
	return &InMemoryFieldCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *InMemoryFieldCache) Get(ctx context.Context, key string) (*resume.Extraction, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}

	out := resume.Extraction{Fields: entry.extraction.Fields.Clone(), Source: entry.extraction.Source}
	return &out, nil
}

// Set guarda una copia. ttl <= 0 significa sin expiración.
func (c *InMemoryFieldCache) Set(ctx context.Context, key string, extraction resume.Extraction, ttl time.Duration) error {
	entry := cacheEntry{extraction: resume.Extraction{Fields: extraction.Fields.Clone(), Source: extraction.Source}}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Purge elimina entradas vencidas y retorna cuántas quitó
func (c *InMemoryFieldCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}
