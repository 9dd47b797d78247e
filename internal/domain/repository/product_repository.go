package repository

import (
	"context"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// ProductFilter criterios de búsqueda de productos.
type ProductFilter struct {
	Search       string // nombre, marca, SKU o empresa
	CompanyID    string
	Therapy      string
	DrugType     string
	DrugCategory string
	IsActive     *bool
}

// ProductFilterOptions valores distintos disponibles para filtrar el catálogo.
type ProductFilterOptions struct {
	Therapies      []string
	DrugTypes      []string
	DrugCategories []string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	// List ordena por marca y nombre.
	List(ctx context.Context, f ProductFilter, p Page) ([]*entity.Product, int, error)
	// Search autocompletado sobre productos activos.
	Search(ctx context.Context, q string, limit int) ([]*entity.Product, error)
	SetActive(ctx context.Context, id string, active bool) error
	// RenameCompany sincroniza el nombre desnormalizado; devuelve filas afectadas.
	RenameCompany(ctx context.Context, companyID, name string) (int64, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	Count(ctx context.Context) (int, error)
	FilterOptions(ctx context.Context) (*ProductFilterOptions, error)
}
