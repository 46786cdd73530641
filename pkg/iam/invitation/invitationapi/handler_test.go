package invitationapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation/invitationinfra"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation/invitationsrv"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teaminfra"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleTokens struct{}

func (roleTokens) GenerateAccessToken(kernel.UserID, kernel.TenantID, auth.SessionClaims) (string, error) {
	return "", nil
}

func (roleTokens) ValidateAccessToken(token string) (*auth.TokenClaims, error) {
	return &auth.TokenClaims{UserID: "u-1", TenantID: "agency-1", Role: token}, nil
}

func setupApp(t *testing.T) (*fiber.App, *teaminfra.InMemoryMemberRepository) {
	t.Helper()
	members := teaminfra.NewInMemoryMemberRepository(
		team.Member{ID: "u-1", TenantID: "agency-1", Name: "Ana", Email: "ana@agency.io", Role: "admin", Status: team.MemberStatusActive},
	)
	svc := invitationsrv.NewInvitationService(invitationinfra.NewInMemoryInvitationRepository(members), members, &config.InvitationConfig{
		DefaultExpirationDays: 7,
		TokenByteLength:       16,
		MaxPendingPerTenant:   5,
	})

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	NewInvitationHandlers(svc).RegisterRoutes(app.Group("/api/v1"), auth.NewAuthMiddleware(roleTokens{}))
	return app, members
}

func call(t *testing.T, app *fiber.App, method, path, role, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+role)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestInvitationLifecycle(t *testing.T) {
	app, members := setupApp(t)

	var created invitation.CreateInvitationResponse
	status := call(t, app, http.MethodPost, "/api/v1/invitations", "admin",
		`{"email":"eva@agency.io","name":"Eva Ruiz","role":"recruiter","reports_to":"u-1"}`, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, invitation.InvitationStatusPending, created.Invitation.Status)

	var pending invitation.InvitationListResponseDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/v1/invitations/pending", "manager", "", &pending))
	assert.Equal(t, 1, pending.Total)

	var validation invitation.ValidateInvitationResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/v1/invitations/public/validate?token="+created.Token, "", "", &validation))
	assert.True(t, validation.Valid)

	var member team.MemberDTO
	status = call(t, app, http.MethodPost, "/api/v1/invitations/public/accept", "", `{"token":"`+created.Token+`"}`, &member)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "eva@agency.io", member.Email)

	all, err := members.FindByTenant(t.Context(), "agency-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	var body map[string]any
	status = call(t, app, http.MethodPost, "/api/v1/invitations/public/accept", "", `{"token":"`+created.Token+`"}`, &body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(invitation.CodeInvitationAlreadyAccepted), body["code"])
}

func TestCreateInvitation_Rejections(t *testing.T) {
	app, _ := setupApp(t)

	tests := []struct {
		name   string
		role   string
		body   string
		status int
	}{
		{"recruiter cannot invite", "recruiter", `{"email":"x@agency.io","name":"Xavi","role":"recruiter"}`, http.StatusForbidden},
		{"admin role is not accepted", "admin", `{"email":"x@agency.io","name":"Xavi","role":"admin"}`, http.StatusBadRequest},
		{"bad email", "admin", `{"email":"nope","name":"Xavi","role":"recruiter"}`, http.StatusBadRequest},
		{"existing member", "admin", `{"email":"ana@agency.io","name":"Ana","role":"manager"}`, http.StatusConflict},
		{"no session", "", `{"email":"x@agency.io","name":"Xavi","role":"recruiter"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, call(t, app, http.MethodPost, "/api/v1/invitations", tt.role, tt.body, nil))
		})
	}
}

func TestRevokeInvitation(t *testing.T) {
	app, _ := setupApp(t)

	var created invitation.CreateInvitationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/v1/invitations", "admin",
		`{"email":"eva@agency.io","name":"Eva Ruiz","role":"manager"}`, &created))

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/v1/invitations/"+created.Invitation.ID+"/revoke", "admin", "", nil))
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/v1/invitations/"+created.Invitation.ID+"/revoke", "admin", "", nil))

	var validation invitation.ValidateInvitationResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/v1/invitations/public/validate?token="+created.Token, "", "", &validation))
	assert.False(t, validation.Valid)
	assert.Equal(t, "Invitation revoked", validation.Message)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/v1/invitations/public/token/"+created.Token, "", "", nil))
	var missing map[string]any
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/v1/invitations/public/validate", "", "", &missing))
	assert.Equal(t, string(httpx.CodeValidation), missing["code"])
	assert.Equal(t, "required", missing["details"].(map[string]any)["token"])
}
