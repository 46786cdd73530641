package config

import "time"

type AuthConfig struct {
	JWT        JWTConfig
	Invitation InvitationConfig
}

// JWTConfig valida los tokens de sesión emitidos por el proveedor de identidad
type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       []string
}

type InvitationConfig struct {
	DefaultExpirationDays int
	TokenByteLength       int
	MaxPendingPerTenant   int
	SweepInterval         time.Duration
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 8*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "recruitdesk"),
			Audience:       getEnvStringSlice("JWT_AUDIENCE", []string{"recruitdesk-api"}),
		},
		Invitation: InvitationConfig{
			DefaultExpirationDays: getEnvInt("INVITATION_EXPIRATION_DAYS", 7),
			TokenByteLength:       getEnvInt("INVITATION_TOKEN_LENGTH", 32),
			MaxPendingPerTenant:   getEnvInt("INVITATION_MAX_PENDING", 100),
			SweepInterval:         getEnvDuration("INVITATION_SWEEP_INTERVAL", time.Hour),
		},
	}
}
