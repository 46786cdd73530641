package fsxlocal

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/fsx"
)

// LocalFileSystem guarda archivos bajo un directorio base
type LocalFileSystem struct {
	basePath string
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

// NewLocalFileSystem crea el directorio base si no existe
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	if basePath == "" {
		basePath = "."
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileSystem{basePath: abs}, nil
}

// GetBasePath retorna el directorio base absoluto
func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

func (l *LocalFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fsx.ErrFileNotFound(path)
	}
	if err != nil {
		return nil, fsx.ErrStorage(err)
	}
	return data, nil
}

func (l *LocalFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsx.ErrStorage(err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fsx.ErrStorage(err)
	}
	return nil
}

// DeleteFile borra el archivo. Borrar algo inexistente no es un error.
func (l *LocalFileSystem) DeleteFile(ctx context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fsx.ErrStorage(err)
	}
	return nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fsx.ErrStorage(err)
	}
	return true, nil
}

// resolve rechaza rutas vacías o que escapan del directorio base
func (l *LocalFileSystem) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fsx.ErrInvalidPath(path)
	}
	full := filepath.Join(l.basePath, filepath.FromSlash(path))
	rel, err := filepath.Rel(l.basePath, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fsx.ErrInvalidPath(path)
	}
	return full, nil
}
