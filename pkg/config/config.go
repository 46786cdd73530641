package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Resume      ResumeConfig
	AI          AIConfig
	Environment Environment
}

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

func (c Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}
func (c Config) IsStaging() bool {
	return c.Environment == EnvironmentStaging
}
func (c Config) IsProd() bool {
	return c.Environment == EnvironmentProduction
}

func loadEnvironment() Environment {
	env := getEnv("ENVIRONMENT", "development")
	switch strings.ToLower(env) {
	case "production":
		return EnvironmentProduction
	case "staging":
		return EnvironmentStaging
	default:
		return EnvironmentDevelopment
	}
}

// Load lee la configuración del entorno. Si existe un .env (o los archivos indicados) se carga
// primero, sin pisar variables ya definidas.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Server:      loadServerConfig(),
		Database:    loadDatabaseConfig(),
		Redis:       loadRedisConfig(),
		Auth:        loadAuthConfig(),
		Storage:     loadStorageConfig(),
		Resume:      loadResumeConfig(),
		AI:          loadAIConfig(),
		Environment: loadEnvironment(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.Auth.JWT.SecretKey) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}

	switch c.Storage.Mode {
	case StorageModeLocal:
	case StorageModeS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("AWS_BUCKET is required when STORAGE_MODE=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_MODE %q (use 'local' or 's3')", c.Storage.Mode)
	}

	if c.Resume.MaxUploadBytes <= 0 {
		return fmt.Errorf("RESUME_MAX_UPLOAD_BYTES must be positive")
	}
	if c.Resume.CleanupInterval <= 0 {
		return fmt.Errorf("RESUME_CLEANUP_INTERVAL must be positive")
	}
	if c.Auth.Invitation.SweepInterval <= 0 {
		return fmt.Errorf("INVITATION_SWEEP_INTERVAL must be positive")
	}
	if c.Resume.CacheMode != CacheModeRedis && c.Resume.CacheMode != CacheModeMemory {
		return fmt.Errorf("unknown RESUME_CACHE %q (use 'redis' or 'memory')", c.Resume.CacheMode)
	}
	if c.Resume.AIEnrichment && c.AI.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when RESUME_AI_ENRICHMENT=true")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
