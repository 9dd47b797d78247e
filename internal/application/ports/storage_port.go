package ports

import (
	"context"
	"io"
)

// FileStorage almacena documentos subidos y devuelve una referencia de ubicación.
type FileStorage interface {
	// Save guarda el contenido bajo key y devuelve la ubicación pública o interna del objeto.
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
