package config

import "time"

const (
	CacheModeRedis  = "redis"
	CacheModeMemory = "memory"
)

type ResumeConfig struct {
	MaxUploadBytes  int64
	CacheMode       string
	CacheTTL        time.Duration
	DraftTTL        time.Duration
	CleanupInterval time.Duration
	AIEnrichment    bool
	AITimeout       time.Duration
}

func loadResumeConfig() ResumeConfig {
	return ResumeConfig{
		MaxUploadBytes:  getEnvInt64("RESUME_MAX_UPLOAD_BYTES", 10*1024*1024),
		CacheMode:       getEnv("RESUME_CACHE", CacheModeRedis),
		CacheTTL:        getEnvDuration("RESUME_CACHE_TTL", 24*time.Hour),
		DraftTTL:        getEnvDuration("RESUME_DRAFT_TTL", 24*time.Hour),
		CleanupInterval: getEnvDuration("RESUME_CLEANUP_INTERVAL", 15*time.Minute),
		AIEnrichment:    getEnvBool("RESUME_AI_ENRICHMENT", false),
		AITimeout:       getEnvDuration("RESUME_AI_TIMEOUT", 15*time.Second),
	}
}

type AIConfig struct {
	OpenAIAPIKey string
	Model        string
	Seed         int64 // 0 deja la semilla al proveedor
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		Model:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Seed:         getEnvInt64("OPENAI_SEED", 0),
	}
}
