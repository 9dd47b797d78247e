package ports

import (
	"context"
	"time"
)

// Tipos de evento publicados.
const (
	EventAccountRegistered  = "account.registered"
	EventAccountApproved    = "account.approved"
	EventAccountRejected    = "account.rejected"
	EventAccountDeactivated = "account.deactivated"
	EventDocumentsSubmitted = "profile.documents_submitted"
	EventProfileVerified    = "profile.verified"
	EventProfileSentBack    = "profile.verification_rejected"
	EventCompanyRenamed     = "company.renamed"
)

// Event evento de dominio publicado después del commit.
type Event struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// EventPublisher publica eventos de dominio. Es best-effort: un fallo no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
