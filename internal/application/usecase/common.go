package usecase

import (
	"strings"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

// optionalBool interpreta "true"/"false" de un query string; cualquier otro valor no filtra.
func optionalBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func toPage(p dto.PageRequest) repository.Page {
	return repository.Page{Limit: p.Limit, Offset: p.Offset()}
}

// changed aplica v sobre dst si v no es nil y reporta si hubo cambio.
func changed(dst *string, v *string) bool {
	if v == nil {
		return false
	}
	nv := strings.TrimSpace(*v)
	if nv == *dst {
		return false
	}
	*dst = nv
	return true
}
