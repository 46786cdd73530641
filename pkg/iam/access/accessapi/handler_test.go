package accessapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roleTokens acepta como token el nombre del rol
type roleTokens struct{}

func (roleTokens) GenerateAccessToken(kernel.UserID, kernel.TenantID, auth.SessionClaims) (string, error) {
	return "", nil
}

func (roleTokens) ValidateAccessToken(token string) (*auth.TokenClaims, error) {
	return &auth.TokenClaims{UserID: "u-1", TenantID: "agency-1", Email: "u@agency.io", Role: token}, nil
}

func setupApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	NewAccessHandlers().RegisterRoutes(app.Group("/api/v1"), auth.NewAuthMiddleware(roleTokens{}))
	return app
}

func get(t *testing.T, app *fiber.App, path, role string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+role)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListRoles(t *testing.T) {
	var body struct {
		Roles []RoleResponse `json:"roles"`
	}
	status := get(t, setupApp(), "/api/v1/access/roles", "admin", &body)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Roles, 3)

	assert.Equal(t, access.RoleAdmin, body.Roles[0].Role)
	assert.True(t, body.Roles[0].Wildcard)
	assert.False(t, body.Roles[2].Wildcard)
	assert.Contains(t, body.Roles[2].Rules, access.PermissionRule{Action: "read", Subject: "candidates"})
}

func TestMastersEndpointsAreAdminOnly(t *testing.T) {
	app := setupApp()

	for _, path := range []string{"/api/v1/access/roles", "/api/v1/access/catalog"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, get(t, app, path, "admin", nil))
			assert.Equal(t, http.StatusForbidden, get(t, app, path, "manager", nil))
			assert.Equal(t, http.StatusForbidden, get(t, app, path, "recruiter", nil))
			assert.Equal(t, http.StatusUnauthorized, get(t, app, path, "", nil))
		})
	}
}

func TestMe(t *testing.T) {
	app := setupApp()

	t.Run("recruiter navigation", func(t *testing.T) {
		var me MeResponse
		require.Equal(t, http.StatusOK, get(t, app, "/api/v1/access/me", "recruiter", &me))
		assert.Equal(t, "u-1", me.UserID)
		assert.Equal(t, "recruiter", me.Role)

		labels := make([]string, 0, len(me.Navigation))
		for _, item := range me.Navigation {
			labels = append(labels, item.Label)
		}
		assert.Equal(t, []string{"Dashboard", "Jobs", "Team", "Candidates"}, labels)
	})

	t.Run("unknown role has no rules", func(t *testing.T) {
		var me MeResponse
		require.Equal(t, http.StatusOK, get(t, app, "/api/v1/access/me", "owner", &me))
		assert.Empty(t, me.Rules)
		assert.Equal(t, "Dashboard", me.Navigation[0].Label)
	})

	t.Run("no session", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(t, app, "/api/v1/access/me", "", nil))
	})
}

func TestCheckRoute(t *testing.T) {
	app := setupApp()

	tests := []struct {
		role     string
		path     string
		allowed  bool
		redirect string
	}{
		{"manager", "/team/42", true, ""},
		{"recruiter", "/team/42", false, access.RedirectUnauthorized},
		{"recruiter", "/candidates/7/edit", true, ""},
		{"admin", "/nowhere", false, access.RedirectUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.path, func(t *testing.T) {
			var decision access.RouteDecision
			require.Equal(t, http.StatusOK, get(t, app, "/api/v1/access/routes/check?path="+tt.path, tt.role, &decision))
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.redirect, decision.Redirect)
		})
	}

	t.Run("missing path", func(t *testing.T) {
		var body map[string]any
		assert.Equal(t, http.StatusBadRequest, get(t, app, "/api/v1/access/routes/check", "admin", &body))
		assert.Equal(t, string(httpx.CodeValidation), body["code"])
		assert.Equal(t, "VALIDATION", body["type"])
		assert.Equal(t, "required", body["details"].(map[string]any)["path"])
	})
}

func TestCan(t *testing.T) {
	app := setupApp()

	tests := []struct {
		role    string
		action  string
		subject string
		allowed bool
	}{
		{"admin", "delete", "jobs", true},
		{"recruiter", "delete", "jobs", false},
		{"manager", "write", "team", true},
		{"owner", "read", "jobs", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.subject, func(t *testing.T) {
			var body CanResponse
			path := "/api/v1/access/can?action=" + tt.action + "&subject=" + tt.subject
			require.Equal(t, http.StatusOK, get(t, app, path, tt.role, &body))
			assert.Equal(t, tt.allowed, body.Allowed)
		})
	}

	t.Run("missing subject", func(t *testing.T) {
		var body map[string]any
		assert.Equal(t, http.StatusBadRequest, get(t, app, "/api/v1/access/can?action=read", "admin", &body))
		assert.Equal(t, string(httpx.CodeValidation), body["code"])
		assert.Equal(t, "required", body["details"].(map[string]any)["subject"])
	})
}
