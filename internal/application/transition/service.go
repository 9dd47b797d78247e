// Package transition aplica los cambios de estado del ciclo de vida de una cuenta.
// Cada operación corre en una transacción con un UPDATE condicional al estado esperado,
// así que dos llamadas concurrentes sobre la misma cuenta nunca ganan ambas.
package transition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// DefaultRejectionReason se guarda cuando el admin rechaza sin motivo.
const DefaultRejectionReason = "Application rejected by administrator"

// deactivateAttempts reintentos si el estado cambia entre la lectura y el UPDATE.
const deactivateAttempts = 3

// Service servicio de transiciones.
type Service struct {
	tx     repository.TxRunner
	events ports.EventPublisher
	log    *logger.Logger
	now    func() time.Time
}

// NewService construye el servicio. events puede ser nil.
func NewService(tx repository.TxRunner, events ports.EventPublisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{tx: tx, events: events, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// LicenseData datos de licencia del envío.
type LicenseData struct {
	Number    string
	Type      string
	Expiry    *time.Time
	GSTNumber string
}

// Approve pending_approval -> pending_documents. Registra approved_at y approved_by.
func (s *Service) Approve(ctx context.Context, accountID string, by activity.Actor) (*entity.Account, error) {
	return s.apply(ctx, accountID, lifecycle.EventApprove, by, func(c *repository.StatusChange) {
		c.ApprovedBy = by.ID
	}, entity.AuditAccountApproved, ports.EventAccountApproved, nil)
}

// Reject pending_approval -> rejected con motivo.
func (s *Service) Reject(ctx context.Context, accountID string, by activity.Actor, reason string) (*entity.Account, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	return s.apply(ctx, accountID, lifecycle.EventReject, by, func(c *repository.StatusChange) {
		c.RejectionReason = reason
	}, entity.AuditAccountRejected, ports.EventAccountRejected, map[string]any{"reason": reason})
}

// SubmitDocuments pending_documents -> pending_verification. Valida los requisitos del rol;
// un documento ya cargado en el perfil cuenta como presente. docs ya vienen almacenados.
func (s *Service) SubmitDocuments(ctx context.Context, accountID string, lic LicenseData, docs []entity.Document) (*entity.Account, error) {
	var out *entity.Account
	var box activity.Outbox
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		acc, err := s.load(ctx, r, accountID)
		if err != nil {
			return err
		}
		to, err := lifecycle.Next(acc.Status, lifecycle.EventSubmitDocuments)
		if err != nil {
			return err
		}
		req, profile, err := s.requirements(ctx, r, acc)
		if err != nil {
			return err
		}
		sub := lic.submission(documentTypes(docs))
		if err := lifecycle.Check(req, sub, profile.Documents); err != nil {
			return err
		}

		now := s.now()
		req.Apply(profile, sub)
		profile.UpdatedAt = now
		if err := r.Profiles.SaveSubmission(ctx, profile, docs); err != nil {
			return err
		}
		if err := s.swap(ctx, r, acc, lifecycle.EventSubmitDocuments, repository.StatusChange{To: to, At: now}); err != nil {
			return err
		}

		types := sub.DocumentTypes
		if types == nil {
			types = []string{}
		}
		by := activity.Actor{ID: acc.ID, Role: acc.Role}
		if err := activity.Audit(ctx, r.Audit, by, entity.AuditDocumentsSubmitted, entity.EntityProfile, profile.ID,
			map[string]any{"documents": types, "license_type": sub.LicenseType}, now); err != nil {
			return err
		}
		box.Add(ports.Event{Type: ports.EventDocumentsSubmitted, EntityID: acc.ID, ActorID: acc.ID, OccurredAt: now,
			Data: map[string]any{"documents": types}})
		acc.Status, acc.UpdatedAt = to, now
		out = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, s.events, s.log)
	s.log.Info().Str("account_id", accountID).Str("status", string(out.Status)).Msg("documentos enviados")
	return out, nil
}

// CheckSubmission valida estado y requisitos de un envío sin escribir nada, para
// rechazarlo antes de guardar archivos. SubmitDocuments repite la validación en su transacción.
func (s *Service) CheckSubmission(ctx context.Context, accountID string, lic LicenseData, docTypes []string) error {
	return s.tx.Run(ctx, func(r repository.Repos) error {
		acc, err := s.load(ctx, r, accountID)
		if err != nil {
			return err
		}
		if _, err := lifecycle.Next(acc.Status, lifecycle.EventSubmitDocuments); err != nil {
			return err
		}
		req, profile, err := s.requirements(ctx, r, acc)
		if err != nil {
			return err
		}
		return lifecycle.Check(req, lic.submission(docTypes), profile.Documents)
	})
}

func (s *Service) requirements(ctx context.Context, r repository.Repos, acc *entity.Account) (lifecycle.Requirements, *entity.Profile, error) {
	req, err := lifecycle.RequirementsFor(acc.Role)
	if err != nil {
		return nil, nil, err
	}
	profile, err := r.Profiles.GetByAccountID(ctx, acc.ID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, domain.ErrProfileNotFound
	}
	return req, profile, nil
}

func (l LicenseData) submission(docTypes []string) lifecycle.Submission {
	return lifecycle.Submission{
		LicenseNumber: l.Number,
		LicenseType:   l.Type,
		LicenseExpiry: l.Expiry,
		GSTNumber:     l.GSTNumber,
		DocumentTypes: docTypes,
	}
}

func documentTypes(docs []entity.Document) []string {
	var types []string
	for _, d := range docs {
		types = append(types, d.Type)
	}
	return types
}

// Verify pending_verification -> active (aprobado) o -> pending_documents (devuelto).
// Estado de la cuenta e is_verified del perfil se escriben en la misma transacción.
func (s *Service) Verify(ctx context.Context, accountID string, by activity.Actor, approved bool, notes string) (*entity.Account, error) {
	ev, action, eventType := lifecycle.EventVerifyRejected, entity.AuditProfileSentBack, ports.EventProfileSentBack
	if approved {
		ev, action, eventType = lifecycle.EventVerifyApproved, entity.AuditProfileVerified, ports.EventProfileVerified
	}
	notes = strings.TrimSpace(notes)

	var out *entity.Account
	var box activity.Outbox
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		acc, err := s.load(ctx, r, accountID)
		if err != nil {
			return err
		}
		to, err := lifecycle.Next(acc.Status, ev)
		if err != nil {
			return err
		}
		now := s.now()
		if err := s.swap(ctx, r, acc, ev, repository.StatusChange{To: to, At: now}); err != nil {
			return err
		}
		if err := r.Profiles.SetVerification(ctx, accountID, approved, notes, by.ID, now); err != nil {
			return err
		}
		if err := activity.Audit(ctx, r.Audit, by, action, entity.EntityAccount, acc.ID,
			map[string]any{"from": acc.Status, "to": to, "notes": notes}, now); err != nil {
			return err
		}
		box.Add(ports.Event{Type: eventType, EntityID: acc.ID, ActorID: by.ID, OccurredAt: now,
			Data: map[string]any{"approved": approved, "notes": notes}})
		acc.Status, acc.UpdatedAt = to, now
		out = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, s.events, s.log)
	s.log.Info().Str("account_id", accountID).Bool("approved", approved).Str("by", by.ID).Msg("verificación registrada")
	return out, nil
}

// Deactivate cualquier estado -> deactivated. Desactivar una cuenta ya desactivada no hace nada.
func (s *Service) Deactivate(ctx context.Context, accountID string, by activity.Actor) (*entity.Account, error) {
	for attempt := 1; ; attempt++ {
		acc, err := s.apply(ctx, accountID, lifecycle.EventDeactivate, by, nil,
			entity.AuditAccountDeactivated, ports.EventAccountDeactivated, nil)
		switch {
		case err == nil:
			return acc, nil
		case errors.Is(err, errAlreadyDeactivated):
			return s.current(ctx, accountID)
		case isStale(err) && attempt < deactivateAttempts:
			continue
		default:
			return nil, err
		}
	}
}

var errAlreadyDeactivated = fmt.Errorf("cuenta ya desactivada: %w", domain.ErrInvalidStateTransition)

// staleError el estado leído cambió antes del UPDATE condicional.
type staleError struct{ err error }

func (e *staleError) Error() string { return e.err.Error() }
func (e *staleError) Unwrap() error { return e.err }

func isStale(err error) bool {
	var se *staleError
	return errors.As(err, &se)
}

// apply transición simple: leer, validar, UPDATE condicional, auditar y encolar evento.
func (s *Service) apply(
	ctx context.Context,
	accountID string,
	ev lifecycle.Event,
	by activity.Actor,
	change func(c *repository.StatusChange),
	action, eventType string,
	details map[string]any,
) (*entity.Account, error) {
	var out *entity.Account
	var box activity.Outbox
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		acc, err := s.load(ctx, r, accountID)
		if err != nil {
			return err
		}
		if ev == lifecycle.EventDeactivate && acc.Status == entity.StatusDeactivated {
			return errAlreadyDeactivated
		}
		to, err := lifecycle.Next(acc.Status, ev)
		if err != nil {
			return err
		}
		now := s.now()
		c := repository.StatusChange{To: to, At: now}
		if change != nil {
			change(&c)
		}
		if err := s.swap(ctx, r, acc, ev, c); err != nil {
			return err
		}

		d := map[string]any{"from": acc.Status, "to": to}
		for k, v := range details {
			d[k] = v
		}
		if err := activity.Audit(ctx, r.Audit, by, action, entity.EntityAccount, acc.ID, d, now); err != nil {
			return err
		}
		box.Add(ports.Event{Type: eventType, EntityID: acc.ID, ActorID: by.ID, OccurredAt: now, Data: d})

		acc.Status, acc.UpdatedAt = to, now
		if c.ApprovedBy != "" {
			acc.ApprovedAt, acc.ApprovedBy = &now, c.ApprovedBy
		}
		if to == entity.StatusRejected {
			acc.RejectionReason = c.RejectionReason
		}
		out = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, s.events, s.log)
	s.log.Info().Str("account_id", accountID).Str("event", string(ev)).Str("status", string(out.Status)).Str("by", by.ID).Msg("transición aplicada")
	return out, nil
}

func (s *Service) load(ctx context.Context, r repository.Repos, accountID string) (*entity.Account, error) {
	acc, err := r.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

// swap UPDATE condicional; si otro llamador ganó devuelve el error específico del evento.
func (s *Service) swap(ctx context.Context, r repository.Repos, acc *entity.Account, ev lifecycle.Event, c repository.StatusChange) error {
	ok, err := r.Accounts.CompareAndSwapStatus(ctx, acc.ID, acc.Status, c)
	if err != nil {
		return err
	}
	if !ok {
		return &staleError{err: lifecycle.ErrorFor(ev)}
	}
	return nil
}

func (s *Service) current(ctx context.Context, accountID string) (*entity.Account, error) {
	var out *entity.Account
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		acc, err := s.load(ctx, r, accountID)
		out = acc
		return err
	})
	return out, err
}
