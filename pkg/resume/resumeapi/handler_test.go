package resumeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumeinfra"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumesrv"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n%fake body\n")

const resumeText = "Jane Doe\nEmail: jane@talent.io\nPhone: +1 555-987-6543\nCurrent Role: QA Lead\nLocation: Austin, Texas"

type roleTokens struct{}

func (roleTokens) GenerateAccessToken(kernel.UserID, kernel.TenantID, auth.SessionClaims) (string, error) {
	return "", nil
}

func (roleTokens) ValidateAccessToken(token string) (*auth.TokenClaims, error) {
	return &auth.TokenClaims{UserID: "u-1", TenantID: "agency-1", Role: token}, nil
}

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]resume.Draft
}

func (r *memDrafts) Save(ctx context.Context, d resume.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = d
	return nil
}

func (r *memDrafts) FindByID(ctx context.Context, id string, tenantID kernel.TenantID) (*resume.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok || d.TenantID != tenantID {
		return nil, resume.ErrDraftNotFound()
	}
	return &d, nil
}

func (r *memDrafts) UpdateStatus(ctx context.Context, id string, tenantID kernel.TenantID, status resume.DraftStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.drafts[id]
	d.Status = status
	r.drafts[id] = d
	return nil
}

func (r *memDrafts) FindExpired(ctx context.Context, before time.Time, limit int) ([]resume.Draft, error) {
	return nil, nil
}

func (r *memDrafts) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

type textReader string

func (t textReader) ReadText(data []byte) (string, error) { return string(t), nil }

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	files, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	cfg := &config.ResumeConfig{MaxUploadBytes: 1024, CacheTTL: time.Hour, DraftTTL: time.Hour}
	svc := resumesrv.NewResumeService(
		&memDrafts{drafts: map[string]resume.Draft{}},
		files,
		textReader(resumeText),
		resumeinfra.NewInMemoryFieldCache(),
		nil,
		cfg,
	)

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	NewResumeHandlers(svc, cfg.MaxUploadBytes).RegisterRoutes(app.Group("/api/v1"), auth.NewAuthMiddleware(roleTokens{}))
	return app
}

func uploadRequest(t *testing.T, role, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+role)
	return req
}

func send(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func authed(method, path, role string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+role)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestUploadAndDraftLifecycle(t *testing.T) {
	app := setupApp(t)

	var draft resume.DraftDTO
	status := send(t, app, uploadRequest(t, "recruiter", "jane.pdf", pdfBytes), &draft)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, draft.ID)
	assert.Equal(t, "jane.pdf", draft.FileName)
	assert.Equal(t, resume.DraftStatusPending, draft.Status)
	assert.Equal(t, "jane@talent.io", *draft.Fields.Email)
	assert.Equal(t, "Austin", *draft.Fields.City)
	assert.False(t, draft.NeedsManualEntry)

	var fetched resume.DraftDTO
	require.Equal(t, http.StatusOK, send(t, app, authed(http.MethodGet, "/api/v1/resumes/"+draft.ID, "manager", nil), &fetched))
	assert.Equal(t, draft.ID, fetched.ID)

	resp, err := app.Test(authed(http.MethodGet, "/api/v1/resumes/"+draft.ID+"/file", "recruiter", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, body)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	require.Equal(t, http.StatusOK, send(t, app, authed(http.MethodDelete, "/api/v1/resumes/"+draft.ID, "recruiter", nil), nil))
	assert.Equal(t, http.StatusNotFound, send(t, app, authed(http.MethodGet, "/api/v1/resumes/"+draft.ID, "recruiter", nil), nil))
}

func TestUploadRejections(t *testing.T) {
	app := setupApp(t)

	t.Run("not a pdf", func(t *testing.T) {
		var body map[string]any
		status := send(t, app, uploadRequest(t, "recruiter", "notes.txt", []byte("plain text resume")), &body)
		assert.Equal(t, http.StatusUnsupportedMediaType, status)
		assert.Equal(t, "Invalid file type. Only PDF files are supported.", body["error"])
	})

	t.Run("too large", func(t *testing.T) {
		big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 2048)...)
		assert.Equal(t, http.StatusRequestEntityTooLarge, send(t, app, uploadRequest(t, "recruiter", "big.pdf", big), nil))
	})

	t.Run("missing file field", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, send(t, app, authed(http.MethodPost, "/api/v1/resumes", "recruiter", nil), nil))
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, send(t, app, uploadRequest(t, "guest", "jane.pdf", pdfBytes), nil))
	})
}

func TestParseText(t *testing.T) {
	app := setupApp(t)

	var parsed resume.ParseResponse
	req := authed(http.MethodPost, "/api/v1/resumes/parse", "manager",
		strings.NewReader(`{"text":"John Smith\nEmail: john.smith@acme.com\nPhone: (555) 123-4567"}`))
	require.Equal(t, http.StatusOK, send(t, app, req, &parsed))
	assert.Equal(t, []string{"name", "email", "mobile"}, parsed.Found)
	assert.Equal(t, "John Smith", *parsed.Fields.Name)

	missing := authed(http.MethodPost, "/api/v1/resumes/parse", "manager", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, send(t, app, missing, nil))
}
