package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// CompanyUseCase aplica reglas de negocio para empresas farmacéuticas.
type CompanyUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	events ports.EventPublisher
	log    *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(tx repository.TxRunner, repos repository.Repos, events ports.EventPublisher, log *logger.Logger) *CompanyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanyUseCase{tx: tx, repos: repos, events: events, log: log}
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el nombre ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest, by activity.Actor) (*dto.CompanyResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	typ := in.Type
	if typ == "" {
		typ = entity.CompanyTypeIndian
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Corporate: strings.TrimSpace(in.Corporate),
		Type:      typ,
		Divisions: cleanList(in.Divisions),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Companies.GetByName(ctx, company.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := r.Companies.Create(ctx, company); err != nil {
			return err
		}
		return activity.Audit(ctx, r.Audit, by, entity.AuditCompanyCreated, entity.EntityCompany, company.ID,
			map[string]any{"name": company.Name}, now)
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	zero := 0
	out.ProductCount = &zero
	return &out, nil
}

// GetByID obtiene una empresa con su número de productos.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repos.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	n, err := uc.repos.Products.CountByCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	out.ProductCount = &n
	return &out, nil
}

// List lista empresas filtradas. onlyActive fuerza is_active=true (catálogo de socios).
func (uc *CompanyUseCase) List(ctx context.Context, q dto.CompanyListQuery, onlyActive bool) (*dto.CompanyListResponse, error) {
	page := dto.NewPageRequest(q.Page, q.Limit)
	f := repository.CompanyFilter{Search: q.Search, Type: q.Type, IsActive: optionalBool(q.IsActive)}
	if onlyActive {
		t := true
		f.IsActive = &t
	}
	list, total, err := uc.repos.Companies.List(ctx, f, toPage(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewCompanyResponse(c))
	}
	return &dto.CompanyListResponse{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Update actualiza una empresa. Un cambio de nombre se propaga al nombre
// desnormalizado de sus productos en la misma transacción.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest, by activity.Actor) (*dto.CompanyResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *entity.Company
	var renamed int64
	var oldName string
	var box activity.Outbox
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		company, err := r.Companies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		oldName = company.Name
		if changed(&company.Name, in.Name) {
			other, err := r.Companies.GetByName(ctx, company.Name)
			if err != nil {
				return err
			}
			if other != nil && other.ID != company.ID {
				return domain.ErrDuplicate
			}
		}
		changed(&company.Corporate, in.Corporate)
		changed(&company.Type, in.Type)
		if in.Divisions != nil {
			company.Divisions = cleanList(in.Divisions)
		}
		if in.IsActive != nil {
			company.IsActive = *in.IsActive
		}
		now := time.Now().UTC()
		company.UpdatedAt = now
		if err := r.Companies.Update(ctx, company); err != nil {
			return err
		}
		if err := activity.Audit(ctx, r.Audit, by, entity.AuditCompanyUpdated, entity.EntityCompany, company.ID, nil, now); err != nil {
			return err
		}
		if company.Name != oldName {
			if renamed, err = r.Products.RenameCompany(ctx, company.ID, company.Name); err != nil {
				return err
			}
			details := map[string]any{"from": oldName, "to": company.Name, "products": renamed}
			if err := activity.Audit(ctx, r.Audit, by, entity.AuditCompanyRenamed, entity.EntityCompany, company.ID, details, now); err != nil {
				return err
			}
			box.Add(ports.Event{Type: ports.EventCompanyRenamed, EntityID: company.ID, ActorID: by.ID, OccurredAt: now, Data: details})
		}
		out = company
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, uc.events, uc.log)
	if out.Name != oldName {
		uc.log.Info().Str("company_id", id).Int64("products", renamed).Msg("empresa renombrada")
	}
	return uc.GetByID(ctx, id)
}

// Deactivate borrado lógico.
func (uc *CompanyUseCase) Deactivate(ctx context.Context, id string, by activity.Actor) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Companies.SetActive(ctx, id, false); err != nil {
			return err
		}
		return activity.Audit(ctx, r.Audit, by, entity.AuditCompanyDeactivated, entity.EntityCompany, id, nil, time.Now().UTC())
	})
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
