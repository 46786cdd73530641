package auth

import (
	"testing"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWT(ttl time.Duration) *JWTService {
	return NewJWTServiceFromConfig(&config.JWTConfig{
		SecretKey:      testSecret,
		AccessTokenTTL: ttl,
		Issuer:         "recruitdesk",
		Audience:       []string{"recruitdesk-api"},
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT(time.Hour)

	token, err := svc.GenerateAccessToken("u-1", "agency-1", SessionClaims{
		Email: "ana@agency.io",
		Name:  "Ana",
		Role:  " Manager ",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, kernel.UserID("u-1"), claims.UserID)
	assert.Equal(t, kernel.TenantID("agency-1"), claims.TenantID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "ana@agency.io", claims.Email)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))

	session := claims.AuthContext()
	require.True(t, session.IsValid())
	assert.Equal(t, "manager", session.CurrentRole())
}

func TestJWTService_RejectsUnknownRole(t *testing.T) {
	_, err := newTestJWT(time.Hour).GenerateAccessToken("u-1", "agency-1", SessionClaims{Role: "owner"})
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, CodeInvalidRole))
}

func TestJWTService_ValidationFailures(t *testing.T) {
	good := newTestJWT(time.Hour)
	token, err := good.GenerateAccessToken("u-1", "agency-1", SessionClaims{Role: "recruiter"})
	require.NoError(t, err)

	expired, err := newTestJWT(-time.Minute).GenerateAccessToken("u-1", "agency-1", SessionClaims{Role: "recruiter"})
	require.NoError(t, err)

	otherAudience := NewJWTServiceFromConfig(&config.JWTConfig{
		SecretKey:      testSecret,
		AccessTokenTTL: time.Hour,
		Issuer:         "recruitdesk",
		Audience:       []string{"another-api"},
	})

	wrongSecret := NewJWTServiceFromConfig(&config.JWTConfig{
		SecretKey:      "ffffffffffffffffffffffffffffffff",
		AccessTokenTTL: time.Hour,
		Issuer:         "recruitdesk",
		Audience:       []string{"recruitdesk-api"},
	})

	tests := []struct {
		name  string
		svc   *JWTService
		token string
	}{
		{"garbage", good, "not-a-token"},
		{"expired", good, expired},
		{"wrong secret", wrongSecret, token},
		{"wrong audience", otherAudience, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.svc.ValidateAccessToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, errx.IsCode(err, CodeTokenValidationFailed))
		})
	}
}
