package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo perfiles de negocio en memoria.
type ProfileRepo struct {
	v *view
}

func byAccount(d *data, accountID string) *entity.Profile {
	for _, p := range d.profiles {
		if p.AccountID == accountID {
			return p
		}
	}
	return nil
}

func (r *ProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	return r.v.do(func(d *data) error {
		if byAccount(d, p.AccountID) != nil {
			return domain.ErrDuplicate
		}
		if _, ok := d.accounts[p.AccountID]; !ok {
			return domain.ErrAccountNotFound
		}
		d.profiles[p.ID] = copyProfile(p)
		return nil
	})
}

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	var out *entity.Profile
	err := r.v.do(func(d *data) error {
		if p, ok := d.profiles[id]; ok {
			out = copyProfile(p)
		}
		return nil
	})
	return out, err
}

func (r *ProfileRepo) GetByAccountID(_ context.Context, accountID string) (*entity.Profile, error) {
	var out *entity.Profile
	err := r.v.do(func(d *data) error {
		if p := byAccount(d, accountID); p != nil {
			out = copyProfile(p)
		}
		return nil
	})
	return out, err
}

func (r *ProfileRepo) List(_ context.Context, f repository.ProfileFilter, pg repository.Page) ([]*entity.Profile, int, error) {
	var list []*entity.Profile
	err := r.v.do(func(d *data) error {
		for _, p := range d.profiles {
			if f.Role != "" && p.Role != f.Role {
				continue
			}
			if f.Search != "" && !anyContains(f.Search, p.BusinessName, p.TradeName, p.GSTNumber, p.Email) {
				continue
			}
			if f.City != "" && !contains(p.Address.City, f.City) {
				continue
			}
			if f.IsVerified != nil && p.IsVerified != *f.IsVerified {
				continue
			}
			if f.IsActive != nil {
				a, ok := d.accounts[p.AccountID]
				if !ok || a.IsActive() != *f.IsActive {
					continue
				}
			}
			list = append(list, copyProfile(p))
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, pg), len(list), err
}

func (r *ProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	return r.v.do(func(d *data) error {
		cur, ok := d.profiles[p.ID]
		if !ok {
			return domain.ErrProfileNotFound
		}
		next := copyProfile(p)
		// Documentos, licencia y verificación solo cambian por su propio flujo.
		next.Documents = cur.Documents
		next.License = cur.License
		next.IsVerified, next.VerifiedAt, next.VerifiedBy = cur.IsVerified, cur.VerifiedAt, cur.VerifiedBy
		next.VerificationNotes = cur.VerificationNotes
		next.AccountID, next.Role, next.CreatedAt = cur.AccountID, cur.Role, cur.CreatedAt
		d.profiles[p.ID] = next
		return nil
	})
}

func (r *ProfileRepo) SaveSubmission(_ context.Context, p *entity.Profile, docs []entity.Document) error {
	return r.v.do(func(d *data) error {
		cur := byAccount(d, p.AccountID)
		if cur == nil {
			return domain.ErrProfileNotFound
		}
		cur.License = entity.License{Number: p.License.Number, Type: p.License.Type, Expiry: p.License.Expiry}
		cur.GSTNumber = p.GSTNumber
		cur.Documents = append(cur.Documents, docs...)
		cur.UpdatedAt = p.UpdatedAt
		return nil
	})
}

func (r *ProfileRepo) SetVerification(_ context.Context, accountID string, verified bool, notes, by string, at time.Time) error {
	return r.v.do(func(d *data) error {
		cur := byAccount(d, accountID)
		if cur == nil {
			return domain.ErrProfileNotFound
		}
		cur.IsVerified = verified
		cur.License.Verified = verified
		cur.VerificationNotes = notes
		cur.VerifiedBy = by
		cur.VerifiedAt = nil
		if verified {
			t := at
			cur.VerifiedAt = &t
		}
		cur.UpdatedAt = at
		return nil
	})
}

func (r *ProfileRepo) CountVerified(_ context.Context, role entity.Role) (int, error) {
	n := 0
	err := r.v.do(func(d *data) error {
		for _, p := range d.profiles {
			if p.Role == role && p.IsVerified {
				n++
			}
		}
		return nil
	})
	return n, err
}
