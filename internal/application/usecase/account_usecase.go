package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// AccountUseCase administración de cuentas desde el panel. Los cambios de estado
// los aplica transition.Service; aquí solo se crean cuentas y se editan datos de contacto.
type AccountUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	events ports.EventPublisher
	log    *logger.Logger
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(tx repository.TxRunner, repos repository.Repos, events ports.EventPublisher, log *logger.Logger) *AccountUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AccountUseCase{tx: tx, repos: repos, events: events, log: log}
}

// List lista cuentas filtradas y paginadas.
func (uc *AccountUseCase) List(ctx context.Context, q dto.AccountListQuery) (*dto.AccountListResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	page := dto.NewPageRequest(q.Page, q.Limit)
	f := repository.AccountFilter{
		Role:     entity.Role(q.Role),
		Status:   entity.Status(q.Status),
		Search:   q.Search,
		IsActive: optionalBool(q.IsActive),
	}
	list, total, err := uc.repos.Accounts.List(ctx, f, toPage(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.NewAccountResponse(a))
	}
	return &dto.AccountListResponse{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Get cuenta con su perfil, si tiene.
func (uc *AccountUseCase) Get(ctx context.Context, id string) (*dto.MeResponse, error) {
	acc, err := uc.repos.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	out := &dto.MeResponse{Account: dto.NewAccountResponse(acc)}
	if acc.Role.HasProfile() {
		p, err := uc.repos.Profiles.GetByAccountID(ctx, acc.ID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pr := dto.NewProfileResponse(p, nil)
			out.Profile = &pr
		}
	}
	return out, nil
}

// Create alta desde el panel. Un admin nace activo; distribuidores y minoristas
// nacen en pending_approval con su perfil, igual que en el auto-registro.
func (uc *AccountUseCase) Create(ctx context.Context, in dto.RegisterRequest, by activity.Actor) (*dto.AccountResponse, error) {
	in.Normalize()
	if err := in.ValidateFor(true); err != nil {
		return nil, err
	}
	acc, err := auth.Provision(ctx, uc.tx, in, by, entity.AuditAccountCreated, uc.events, uc.log)
	if err != nil {
		return nil, err
	}
	out := dto.NewAccountResponse(acc)
	return &out, nil
}

// UpdateContact edita nombre y teléfono. Rol y estado no se tocan aquí.
func (uc *AccountUseCase) UpdateContact(ctx context.Context, id string, in dto.UpdateAccountRequest, by activity.Actor) (*dto.AccountResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *entity.Account
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		acc, err := r.Accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrAccountNotFound
		}
		before := map[string]any{"name": acc.Name, "phone": acc.Phone}
		dirty := changed(&acc.Name, in.Name)
		if in.Phone != nil {
			phone := dto.NormalizePhone(*in.Phone)
			dirty = changed(&acc.Phone, &phone) || dirty
		}
		out = acc
		if !dirty {
			return nil
		}
		now := time.Now().UTC()
		acc.UpdatedAt = now
		if err := r.Accounts.UpdateContact(ctx, acc); err != nil {
			return err
		}
		return activity.Audit(ctx, r.Audit, by, entity.AuditAccountUpdated, entity.EntityAccount, acc.ID,
			map[string]any{"before": before, "after": map[string]any{"name": acc.Name, "phone": acc.Phone}}, now)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewAccountResponse(out)
	return &resp, nil
}
