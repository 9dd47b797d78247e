package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

// Límites del autocompletado.
const (
	searchDefaultLimit = 10
	searchMaxLimit     = 50
	searchMinQuery     = 2
)

// ProductUseCase aplica reglas de negocio para el catálogo de productos.
type ProductUseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, repos repository.Repos) *ProductUseCase {
	return &ProductUseCase{tx: tx, repos: repos}
}

// Create crea un producto. La empresa debe existir; su nombre se copia al producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, by activity.Actor) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	brandLaunch, _ := dto.ParseDate(in.BrandLaunchDate)
	skuLaunch, _ := dto.ParseDate(in.SKULaunchDate)
	now := time.Now().UTC()
	p := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              in.SKU,
		Name:             strings.TrimSpace(in.Name),
		Brand:            strings.TrimSpace(in.Brand),
		MotherBrand:      in.MotherBrand,
		CompanyID:        in.CompanyID,
		Therapy:          in.Therapy,
		SuperGroup:       in.SuperGroup,
		SubSupergroup:    in.SubSupergroup,
		Group:            in.Group,
		Class:            in.Class,
		DrugType:         in.DrugType,
		DrugCategory:     in.DrugCategory,
		Subgroup:         in.Subgroup,
		Strength:         in.Strength,
		Pack:             in.Pack,
		PackUnit:         in.PackUnit,
		Schedule:         in.Schedule,
		IsRxRequired:     in.IsRxRequired,
		NLEM:             in.NLEM,
		AcuteChronic:     in.AcuteChronic,
		PlainCombination: in.PlainCombination,
		MRP:              in.MRP,
		PTR:              in.PTR,
		PTS:              in.PTS,
		BrandLaunchDate:  brandLaunch,
		SKULaunchDate:    skuLaunch,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		company, err := r.Companies.GetByID(ctx, p.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrInvalidInput
		}
		p.CompanyName = company.Name
		existing, err := r.Products.GetBySKU(ctx, p.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}
		return activity.Audit(ctx, r.Audit, by, entity.AuditProductCreated, entity.EntityProduct, p.ID,
			map[string]any{"sku": p.SKU, "company_id": p.CompanyID}, now)
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// GetByID obtiene un producto. onlyActive oculta los desactivados (catálogo de socios).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string, onlyActive bool) (*dto.ProductResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || (onlyActive && !p.IsActive) {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// Update actualiza un producto (sin SKU). Cambiar de empresa copia el nombre de la nueva.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, by activity.Actor) (*dto.ProductResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if changed(&p.CompanyID, in.CompanyID) {
			company, err := r.Companies.GetByID(ctx, p.CompanyID)
			if err != nil {
				return err
			}
			if company == nil {
				return domain.ErrInvalidInput
			}
			p.CompanyName = company.Name
		}
		applyProductUpdate(p, in)
		now := time.Now().UTC()
		p.UpdatedAt = now
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return activity.Audit(ctx, r.Audit, by, entity.AuditProductUpdated, entity.EntityProduct, p.ID,
			map[string]any{"sku": p.SKU}, now)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(out)
	return &resp, nil
}

func applyProductUpdate(p *entity.Product, in dto.UpdateProductRequest) {
	for _, f := range []struct {
		dst *string
		v   *string
	}{
		{&p.Name, in.Name}, {&p.Brand, in.Brand}, {&p.MotherBrand, in.MotherBrand},
		{&p.Therapy, in.Therapy}, {&p.SuperGroup, in.SuperGroup}, {&p.SubSupergroup, in.SubSupergroup},
		{&p.Group, in.Group}, {&p.Class, in.Class}, {&p.DrugType, in.DrugType},
		{&p.DrugCategory, in.DrugCategory}, {&p.Subgroup, in.Subgroup}, {&p.Strength, in.Strength},
		{&p.Pack, in.Pack}, {&p.PackUnit, in.PackUnit}, {&p.Schedule, in.Schedule},
		{&p.AcuteChronic, in.AcuteChronic}, {&p.PlainCombination, in.PlainCombination},
	} {
		changed(f.dst, f.v)
	}
	if in.IsRxRequired != nil {
		p.IsRxRequired = *in.IsRxRequired
	}
	if in.NLEM != nil {
		p.NLEM = *in.NLEM
	}
	if in.MRP != nil {
		p.MRP = *in.MRP
	}
	if in.PTR != nil {
		p.PTR = *in.PTR
	}
	if in.PTS != nil {
		p.PTS = *in.PTS
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// List lista productos filtrados. onlyActive fuerza is_active=true.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery, onlyActive bool) (*dto.ProductListResponse, error) {
	page := dto.NewPageRequest(q.Page, q.Limit)
	f := repository.ProductFilter{
		Search:       q.Search,
		CompanyID:    q.CompanyID,
		Therapy:      q.Therapy,
		DrugType:     q.DrugType,
		DrugCategory: q.DrugCategory,
		IsActive:     optionalBool(q.IsActive),
	}
	if onlyActive {
		t := true
		f.IsActive = &t
	}
	list, total, err := uc.repos.Products.List(ctx, f, toPage(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Search autocompletado. Consultas de menos de dos caracteres devuelven vacío.
func (uc *ProductUseCase) Search(ctx context.Context, q string, limit int) ([]dto.ProductSearchItem, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < searchMinQuery {
		return []dto.ProductSearchItem{}, nil
	}
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}
	list, err := uc.repos.Products.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductSearchItem, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductSearchItem{
			ID:          p.ID,
			SKU:         p.SKU,
			Name:        p.Name,
			Brand:       p.Brand,
			CompanyName: p.CompanyName,
			Strength:    p.Strength,
			Pack:        p.Pack,
			MRP:         p.MRP,
		})
	}
	return out, nil
}

// FilterOptions valores disponibles para los filtros del catálogo.
func (uc *ProductUseCase) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	opts, err := uc.repos.Products.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.FilterOptionsResponse{
		Therapies:      opts.Therapies,
		DrugTypes:      opts.DrugTypes,
		DrugCategories: opts.DrugCategories,
	}, nil
}

// Deactivate borrado lógico.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string, by activity.Actor) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Products.SetActive(ctx, id, false); err != nil {
			return err
		}
		return activity.Audit(ctx, r.Audit, by, entity.AuditProductDeactivated, entity.EntityProduct, id, nil, time.Now().UTC())
	})
}
