package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// ProfileFilter criterios de búsqueda de perfiles de negocio.
type ProfileFilter struct {
	Role       entity.Role
	Search     string // nombre del negocio, GST o email
	City       string
	IsVerified *bool
	IsActive   *bool // según el estado de la cuenta dueña
}

// ProfileRepository define el puerto de persistencia para Profile (DIP).
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error)
	List(ctx context.Context, f ProfileFilter, p Page) ([]*entity.Profile, int, error)
	// Update persiste datos de negocio, dirección y condiciones comerciales.
	Update(ctx context.Context, p *entity.Profile) error
	// SaveSubmission persiste licencia y GST del perfil y agrega docs al final de la lista.
	SaveSubmission(ctx context.Context, p *entity.Profile, docs []entity.Document) error
	SetVerification(ctx context.Context, accountID string, verified bool, notes, by string, at time.Time) error
	CountVerified(ctx context.Context, role entity.Role) (int, error)
}
