package resumeapi

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/Abraxas-365/recruitdesk/pkg/httpx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/auth"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/Abraxas-365/recruitdesk/pkg/resume/resumesrv"
	"github.com/gofiber/fiber/v2"
)

const formFileField = "file"

type ResumeHandlers struct {
	service  *resumesrv.ResumeService
	maxBytes int64
}

func NewResumeHandlers(service *resumesrv.ResumeService, maxBytes int64) *ResumeHandlers {
	return &ResumeHandlers{service: service, maxBytes: maxBytes}
}

func (h *ResumeHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	resumes := router.Group("/resumes", authMiddleware.Authenticate())

	write := authMiddleware.RequirePermission(access.ActionWrite, access.SubjectCandidates)
	read := authMiddleware.RequirePermission(access.ActionRead, access.SubjectCandidates)

	resumes.Post("/", write, h.Upload)
	resumes.Post("/parse", write, h.ParseText)
	resumes.Get("/:id", read, h.GetDraft)
	resumes.Get("/:id/file", read, h.DownloadFile)
	resumes.Delete("/:id", write, h.Discard)
}

// Upload recibe el PDF en el campo multipart "file" y crea el borrador
func (h *ResumeHandlers) Upload(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	header, err := c.FormFile(formFileField)
	if err != nil {
		return resume.ErrEmptyFile().WithDetail("field", formFileField)
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		return resume.ErrFileTooLarge().
			WithDetail("size_bytes", header.Size).
			WithDetail("max_bytes", h.maxBytes)
	}

	data, err := readFormFile(header, h.maxBytes)
	if err != nil {
		return err
	}

	draft, err := h.service.Upload(c.Context(), resume.UploadInput{
		TenantID:   authContext.TenantID,
		UploadedBy: *authContext.UserID,
		FileName:   header.Filename,
		Data:       data,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(draft.ToDTO())
}

// ParseText extrae campos de texto ya renderizado, sin guardar nada
func (h *ResumeHandlers) ParseText(c *fiber.Ctx) error {
	var req resume.ParseTextRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	return c.JSON(h.service.Parse(c.Context(), req.Text))
}

func (h *ResumeHandlers) GetDraft(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	draft, err := h.service.GetDraft(c.Context(), c.Params("id"), authContext.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(draft.ToDTO())
}

func (h *ResumeHandlers) DownloadFile(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	draft, data, err := h.service.DownloadDraftFile(c.Context(), c.Params("id"), authContext.TenantID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, draft.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(draft.FileName))
	return c.Send(data)
}

func (h *ResumeHandlers) Discard(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.Discard(c.Context(), c.Params("id"), authContext.TenantID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Resume draft discarded successfully"})
}

func readFormFile(header *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, resume.ErrEmptyFile().WithCause(err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		// un byte extra para que Validate detecte el exceso
		r = io.LimitReader(f, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, resume.ErrEmptyFile().WithCause(err)
	}
	return data, nil
}
