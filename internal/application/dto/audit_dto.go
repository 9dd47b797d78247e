package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// AuditLogResponse entrada de auditoría.
type AuditLogResponse struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actor_id,omitempty"`
	ActorRole  string          `json:"actor_role,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewAuditLogResponse mapea la entidad.
func NewAuditLogResponse(l *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         l.ID,
		ActorID:    l.ActorID,
		ActorRole:  string(l.ActorRole),
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    l.Details,
		IPAddress:  l.IPAddress,
		CreatedAt:  l.CreatedAt,
	}
}

// AuditListQuery filtros del listado de auditoría.
type AuditListQuery struct {
	EntityType string `query:"entityType"`
	EntityID   string `query:"entityId"`
	ActorID    string `query:"actorId"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

// AuditListResponse lista paginada de auditoría.
type AuditListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}
