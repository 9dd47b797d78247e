// Package storage guarda los documentos subidos por distribuidores y minoristas.
package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/pkg/config"
)

// New construye el almacenamiento configurado (local o s3).
func New(cfg config.StorageConfig) (ports.FileStorage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg)
	case "", "local":
		return NewLocalStorage(afero.NewOsFs(), cfg.LocalDir, cfg.PublicBaseURL)
	}
	return nil, fmt.Errorf("storage: driver %q no soportado", cfg.Driver)
}

// cleanKey normaliza la clave del objeto y evita escapar del directorio raíz.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, `\`, "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", fmt.Errorf("storage: clave vacía")
	}
	return k, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + key
}
