package repository

import (
	"context"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// AuditFilter criterios de búsqueda en la bitácora.
type AuditFilter struct {
	EntityType string
	EntityID   string
	ActorID    string
}

// AuditRepository bitácora de acciones (solo inserción y lectura).
type AuditRepository interface {
	Create(ctx context.Context, l *entity.AuditLog) error
	List(ctx context.Context, f AuditFilter, p Page) ([]*entity.AuditLog, int, error)
}
