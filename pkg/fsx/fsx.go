package fsx

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
)

// FileReader lee archivos por ruta relativa al almacenamiento
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileWriter escribe archivos por ruta relativa al almacenamiento
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// FileSystem es el almacenamiento de archivos subidos (local o S3)
type FileSystem interface {
	FileReader
	FileWriter
	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("FSX")

var (
	CodeFileNotFound = ErrRegistry.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeInvalidPath  = ErrRegistry.Register("INVALID_PATH", errx.TypeValidation, http.StatusBadRequest, "Invalid file path")
	CodeStorage      = ErrRegistry.Register("STORAGE_ERROR", errx.TypeExternal, http.StatusBadGateway, "File storage error")
)

func ErrFileNotFound(path string) *errx.Error {
	return ErrRegistry.New(CodeFileNotFound).WithDetail("path", path)
}

func ErrInvalidPath(path string) *errx.Error {
	return ErrRegistry.New(CodeInvalidPath).WithDetail("path", path)
}

func ErrStorage(err error) *errx.Error {
	return ErrRegistry.New(CodeStorage).WithCause(err)
}
