// Package lifecycle define los estados de una cuenta, las transiciones legales
// y los requisitos documentales de cada rol.
package lifecycle

import (
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// Event evento que dispara una transición.
type Event string

const (
	EventApprove         Event = "approve"
	EventReject          Event = "reject"
	EventSubmitDocuments Event = "submit_documents"
	EventVerifyApproved  Event = "verify_approved"
	EventVerifyRejected  Event = "verify_rejected"
	EventDeactivate      Event = "deactivate"
)

type edge struct {
	from  entity.Status
	event Event
}

var table = map[edge]entity.Status{
	{entity.StatusPendingApproval, EventApprove}:            entity.StatusPendingDocuments,
	{entity.StatusPendingApproval, EventReject}:             entity.StatusRejected,
	{entity.StatusPendingDocuments, EventSubmitDocuments}:   entity.StatusPendingVerification,
	{entity.StatusPendingVerification, EventVerifyApproved}: entity.StatusActive,
	{entity.StatusPendingVerification, EventVerifyRejected}: entity.StatusPendingDocuments,
}

// Next devuelve el estado destino de aplicar ev sobre from.
// Desactivar es válido desde cualquier estado salvo deactivated (idempotencia la resuelve el servicio).
func Next(from entity.Status, ev Event) (entity.Status, error) {
	if ev == EventDeactivate {
		if from == entity.StatusDeactivated || !from.Valid() {
			return from, domain.ErrInvalidStateTransition
		}
		return entity.StatusDeactivated, nil
	}
	if to, ok := table[edge{from, ev}]; ok {
		return to, nil
	}
	return from, ErrorFor(ev)
}

// Source estado de origen requerido por un evento (vacío para deactivate).
func Source(ev Event) entity.Status {
	for e := range table {
		if e.event == ev {
			return e.from
		}
	}
	return ""
}

// ErrorFor error específico de aplicar ev desde un estado que no es su origen.
func ErrorFor(ev Event) error {
	switch ev {
	case EventApprove, EventReject:
		return domain.ErrNotPendingApproval
	case EventSubmitDocuments:
		return domain.ErrNotPendingDocuments
	case EventVerifyApproved, EventVerifyRejected:
		return domain.ErrNotPendingVerification
	}
	return domain.ErrInvalidStateTransition
}
