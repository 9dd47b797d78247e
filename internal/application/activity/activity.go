// Package activity registra auditoría dentro de la transacción y publica eventos después del commit.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// Actor quién ejecuta una operación. ID vacío = sistema o auto-registro.
type Actor struct {
	ID        string
	Role      entity.Role
	IPAddress string
	UserAgent string
}

// Audit escribe una entrada en la bitácora con el repo de la transacción en curso.
func Audit(ctx context.Context, repo repository.AuditRepository, by Actor, action, entityType, entityID string, details map[string]any, at time.Time) error {
	var raw json.RawMessage
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		raw = b
	}
	return repo.Create(ctx, &entity.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    by.ID,
		ActorRole:  by.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
		IPAddress:  by.IPAddress,
		UserAgent:  by.UserAgent,
		CreatedAt:  at,
	})
}

// Outbox acumula eventos durante la transacción; Flush los publica tras el commit.
type Outbox struct {
	events []ports.Event
}

// Add encola un evento.
func (o *Outbox) Add(e ports.Event) {
	o.events = append(o.events, e)
}

// Flush publica todo lo encolado. Los fallos solo se registran: la operación ya está confirmada.
func (o *Outbox) Flush(ctx context.Context, pub ports.EventPublisher, log *logger.Logger) {
	if pub == nil {
		o.events = nil
		return
	}
	for _, e := range o.events {
		if err := pub.Publish(ctx, e); err != nil {
			log.Warn().Err(err).Str("event", e.Type).Str("entity_id", e.EntityID).Msg("no se pudo publicar evento")
		}
	}
	o.events = nil
}
