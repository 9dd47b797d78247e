package repository

import (
	"context"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// CompanyFilter criterios de búsqueda de empresas.
type CompanyFilter struct {
	Search   string // nombre o corporativo
	Type     string
	IsActive *bool
}

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, c *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByName(ctx context.Context, name string) (*entity.Company, error)
	Update(ctx context.Context, c *entity.Company) error
	List(ctx context.Context, f CompanyFilter, p Page) ([]*entity.Company, int, error)
	SetActive(ctx context.Context, id string, active bool) error
	Count(ctx context.Context) (int, error)
}
