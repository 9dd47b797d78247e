package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

// ProfileUseCase consulta y edición de perfiles de distribuidores y minoristas.
type ProfileUseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(tx repository.TxRunner, repos repository.Repos) *ProfileUseCase {
	return &ProfileUseCase{tx: tx, repos: repos}
}

// List perfiles de un rol con la cuenta dueña embebida.
func (uc *ProfileUseCase) List(ctx context.Context, role entity.Role, q dto.ProfileListQuery) (*dto.ProfileListResponse, error) {
	q.Role = string(role)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	page := dto.NewPageRequest(q.Page, q.Limit)
	f := repository.ProfileFilter{
		Role:       role,
		Search:     q.Search,
		City:       q.City,
		IsVerified: optionalBool(q.IsVerified),
		IsActive:   optionalBool(q.IsActive),
	}
	list, total, err := uc.repos.Profiles.List(ctx, f, toPage(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		acc, err := uc.repos.Accounts.GetByID(ctx, p.AccountID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.NewProfileResponse(p, acc))
	}
	return &dto.ProfileListResponse{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Get perfil por ID; debe pertenecer al rol pedido.
func (uc *ProfileUseCase) Get(ctx context.Context, role entity.Role, id string) (*dto.ProfileResponse, error) {
	p, err := uc.repos.Profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Role != role {
		return nil, domain.ErrProfileNotFound
	}
	acc, err := uc.repos.Accounts.GetByID(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	out := dto.NewProfileResponse(p, acc)
	return &out, nil
}

// AccountID resuelve la cuenta dueña de un perfil del rol (para las rutas /:id/verify).
func (uc *ProfileUseCase) AccountID(ctx context.Context, role entity.Role, id string) (string, error) {
	p, err := uc.repos.Profiles.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if p == nil || p.Role != role {
		return "", domain.ErrProfileNotFound
	}
	return p.AccountID, nil
}

// Update edita datos de negocio y condiciones. Documentos, licencia y verificación no se tocan.
func (uc *ProfileUseCase) Update(ctx context.Context, role entity.Role, id string, in dto.UpdateProfileRequest, by activity.Actor) (*dto.ProfileResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *entity.Profile
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Profiles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.Role != role {
			return domain.ErrProfileNotFound
		}
		applyProfileUpdate(p, in)
		now := time.Now().UTC()
		p.UpdatedAt = now
		if err := r.Profiles.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return activity.Audit(ctx, r.Audit, by, entity.AuditProfileUpdated, entity.EntityProfile, p.ID,
			map[string]any{"account_id": p.AccountID}, now)
	})
	if err != nil {
		return nil, err
	}
	acc, err := uc.repos.Accounts.GetByID(ctx, out.AccountID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProfileResponse(out, acc)
	return &resp, nil
}

func applyProfileUpdate(p *entity.Profile, in dto.UpdateProfileRequest) {
	changed(&p.BusinessName, in.BusinessName)
	changed(&p.TradeName, in.TradeName)
	changed(&p.GSTNumber, in.GSTNumber)
	changed(&p.PAN, in.PAN)
	changed(&p.BusinessCategory, in.BusinessCategory)
	changed(&p.Email, in.Email)
	if in.Phone != nil {
		phone := dto.NormalizePhone(*in.Phone)
		changed(&p.Phone, &phone)
	}
	if a := in.Address; a != nil {
		p.Address = entity.Address{Line1: a.Line1, Line2: a.Line2, City: a.City, State: a.State, Pincode: a.Pincode}
	}
	if t := in.Distributor; t != nil && p.Distributor != nil {
		if t.MinOrderValue != nil {
			p.Distributor.MinOrderValue = *t.MinOrderValue
		}
		if t.DeliveryAreas != nil {
			p.Distributor.DeliveryAreas = t.DeliveryAreas
		}
		if t.PaymentTerms != nil {
			p.Distributor.PaymentTerms = *t.PaymentTerms
		}
		if t.DefaultMargin != nil {
			p.Distributor.DefaultMargin = *t.DefaultMargin
		}
	}
	if t := in.Retailer; t != nil && p.Retailer != nil {
		if t.CreditLimit != nil {
			p.Retailer.CreditLimit = *t.CreditLimit
		}
		if t.CreditPeriodDays != nil {
			p.Retailer.CreditPeriodDays = *t.CreditPeriodDays
		}
		if t.DiscountPercentage != nil {
			p.Retailer.DiscountPercentage = *t.DiscountPercentage
		}
	}
}

// Requirements requisitos del rol de la cuenta, lo ya subido y lo que falta.
func (uc *ProfileUseCase) Requirements(ctx context.Context, accountID string) (*dto.RequirementsResponse, error) {
	acc, err := uc.repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	req, err := lifecycle.RequirementsFor(acc.Role)
	if err != nil {
		return nil, err
	}
	p, err := uc.repos.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	sub := lifecycle.Submission{
		LicenseNumber: p.License.Number,
		LicenseType:   p.License.Type,
		LicenseExpiry: p.License.Expiry,
		GSTNumber:     p.GSTNumber,
	}
	uploaded := p.Documents
	if uploaded == nil {
		uploaded = []entity.Document{}
	}
	missing := req.Missing(sub, p.Documents)
	if missing == nil {
		missing = []string{}
	}
	return &dto.RequirementsResponse{
		Role:               string(acc.Role),
		Status:             string(acc.Status),
		CanSubmit:          acc.Status == lifecycle.Source(lifecycle.EventSubmitDocuments),
		Documents:          req.Documents(),
		LicenseFields:      req.LicenseFields(),
		RegistrationFields: req.RegistrationFields(),
		Uploaded:           uploaded,
		Missing:            missing,
	}, nil
}
