package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

// LocalStorage guarda archivos bajo un directorio raíz de un afero.Fs.
type LocalStorage struct {
	fs      afero.Fs
	baseURL string
}

// NewLocalStorage crea el directorio raíz si no existe.
func NewLocalStorage(fs afero.Fs, dir, baseURL string) (*LocalStorage, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return &LocalStorage{fs: afero.NewBasePathFs(fs, dir), baseURL: baseURL}, nil
}

// Save escribe el contenido y devuelve baseURL/key (o la clave si no hay baseURL).
func (s *LocalStorage) Save(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(filepath.Dir(k), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	f, err := s.fs.OpenFile(k, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: abrir %s: %w", k, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("storage: escribir %s: %w", k, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return joinURL(s.baseURL, k), nil
}
