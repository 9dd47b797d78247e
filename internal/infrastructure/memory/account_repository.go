package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo cuentas en memoria.
type AccountRepo struct {
	v *view
}

func (r *AccountRepo) Create(_ context.Context, a *entity.Account) error {
	return r.v.do(func(d *data) error {
		for _, x := range d.accounts {
			if x.Email == a.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, ok := d.accounts[a.ID]; ok {
			return domain.ErrDuplicate
		}
		d.accounts[a.ID] = copyAccount(a)
		return nil
	})
}

func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.v.do(func(d *data) error {
		if a, ok := d.accounts[id]; ok {
			out = copyAccount(a)
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	var out *entity.Account
	err := r.v.do(func(d *data) error {
		for _, a := range d.accounts {
			if a.Email == email {
				out = copyAccount(a)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) List(_ context.Context, f repository.AccountFilter, p repository.Page) ([]*entity.Account, int, error) {
	var list []*entity.Account
	err := r.v.do(func(d *data) error {
		for _, a := range d.accounts {
			if f.Role != "" && a.Role != f.Role {
				continue
			}
			if f.Status != "" && a.Status != f.Status {
				continue
			}
			if f.Search != "" && !anyContains(f.Search, a.Name, a.Email) {
				continue
			}
			if f.IsActive != nil && a.IsActive() != *f.IsActive {
				continue
			}
			list = append(list, copyAccount(a))
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, p), len(list), err
}

func (r *AccountRepo) UpdateContact(_ context.Context, a *entity.Account) error {
	return r.v.do(func(d *data) error {
		cur, ok := d.accounts[a.ID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		cur.Name, cur.Phone, cur.UpdatedAt = a.Name, a.Phone, a.UpdatedAt
		return nil
	})
}

func (r *AccountRepo) CompareAndSwapStatus(_ context.Context, id string, from entity.Status, c repository.StatusChange) (bool, error) {
	swapped := false
	err := r.v.do(func(d *data) error {
		a, ok := d.accounts[id]
		if !ok || a.Status != from {
			return nil
		}
		a.Status = c.To
		switch c.To {
		case entity.StatusRejected:
			a.RejectionReason = c.RejectionReason
		case entity.StatusDeactivated:
		default:
			a.RejectionReason = ""
		}
		if c.ApprovedBy != "" {
			at := c.At
			a.ApprovedAt = &at
			a.ApprovedBy = c.ApprovedBy
		}
		a.UpdatedAt = c.At
		swapped = true
		return nil
	})
	return swapped, err
}

func (r *AccountRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	return r.v.do(func(d *data) error {
		if a, ok := d.accounts[id]; ok {
			a.LastLoginAt = &at
		}
		return nil
	})
}

func (r *AccountRepo) CountByStatus(_ context.Context) (map[entity.Status]int, error) {
	out := map[entity.Status]int{}
	err := r.v.do(func(d *data) error {
		for _, a := range d.accounts {
			out[a.Status]++
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) CountByRole(_ context.Context) (map[entity.Role]int, error) {
	out := map[entity.Role]int{}
	err := r.v.do(func(d *data) error {
		for _, a := range d.accounts {
			out[a.Role]++
		}
		return nil
	})
	return out, err
}
