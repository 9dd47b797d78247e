package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// AccountFilter criterios de búsqueda de cuentas. Campos vacíos no filtran.
type AccountFilter struct {
	Role     entity.Role
	Status   entity.Status
	Search   string // nombre o email
	IsActive *bool
}

// StatusChange cambio de estado a aplicar de forma condicional.
// Si ApprovedBy no está vacío se registran approved_at y approved_by.
type StatusChange struct {
	To              entity.Status
	At              time.Time
	ApprovedBy      string
	RejectionReason string
}

// AccountRepository define el puerto de persistencia para Account (DIP).
// Get* devuelve (nil, nil) cuando no existe.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	List(ctx context.Context, f AccountFilter, p Page) ([]*entity.Account, int, error)
	// UpdateContact actualiza nombre y teléfono. Nunca toca rol ni estado.
	UpdateContact(ctx context.Context, a *entity.Account) error
	// CompareAndSwapStatus aplica el cambio solo si el estado actual es from.
	// Devuelve false si la cuenta no existe o su estado ya no es from.
	CompareAndSwapStatus(ctx context.Context, id string, from entity.Status, c StatusChange) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	CountByStatus(ctx context.Context) (map[entity.Status]int, error)
	CountByRole(ctx context.Context) (map[entity.Role]int, error)
}
