package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StorageModeLocal, cfg.Storage.Mode)
	assert.Equal(t, int64(10*1024*1024), cfg.Resume.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.Resume.DraftTTL)
	assert.False(t, cfg.Resume.AIEnrichment)
	assert.Equal(t, EnvironmentDevelopment, cfg.Environment)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=recruitdesk sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET_KEY="+testSecret+"\nSERVER_PORT=9090\nCORS_ORIGINS=a.com, b.com\n"), 0o600))

	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("CORS_ORIGINS", "")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("JWT_SECRET_KEY")
	os.Unsetenv("CORS_ORIGINS")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"a.com", "b.com"}, cfg.Server.CORSOrigins)
}

func TestLoad_RejectsNonPositiveIntervals(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)
	t.Setenv("RESUME_CLEANUP_INTERVAL", "0s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESUME_CLEANUP_INTERVAL")

	t.Setenv("RESUME_CLEANUP_INTERVAL", "5m")
	t.Setenv("INVITATION_SWEEP_INTERVAL", "-1m")

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVITATION_SWEEP_INTERVAL")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Auth: AuthConfig{
				JWT:        JWTConfig{SecretKey: testSecret},
				Invitation: InvitationConfig{SweepInterval: time.Hour},
			},
			Storage: StorageConfig{Mode: StorageModeLocal},
			Resume:  ResumeConfig{MaxUploadBytes: 1024, CacheMode: CacheModeMemory, CleanupInterval: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.JWT.SecretKey = "" }, "JWT_SECRET_KEY is required"},
		{"short secret", func(c *Config) { c.Auth.JWT.SecretKey = "short" }, "at least 32"},
		{"s3 without bucket", func(c *Config) { c.Storage.Mode = StorageModeS3 }, "AWS_BUCKET"},
		{"unknown storage", func(c *Config) { c.Storage.Mode = "ftp" }, "STORAGE_MODE"},
		{"zero upload limit", func(c *Config) { c.Resume.MaxUploadBytes = 0 }, "RESUME_MAX_UPLOAD_BYTES"},
		{"zero cleanup interval", func(c *Config) { c.Resume.CleanupInterval = 0 }, "RESUME_CLEANUP_INTERVAL"},
		{"negative sweep interval", func(c *Config) { c.Auth.Invitation.SweepInterval = -time.Minute }, "INVITATION_SWEEP_INTERVAL"},
		{"unknown cache", func(c *Config) { c.Resume.CacheMode = "disk" }, "RESUME_CACHE"},
		{"ai without key", func(c *Config) { c.Resume.AIEnrichment = true }, "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
