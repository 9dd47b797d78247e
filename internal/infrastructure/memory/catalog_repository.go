package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
)

// ── Empresas ───────────────────────────────────────────────────────────────

// CompanyRepo empresas en memoria. El nombre es único sin distinguir mayúsculas.
type CompanyRepo struct {
	v *view
}

func nameTaken(d *data, name, exceptID string) bool {
	for _, c := range d.companies {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.v.do(func(d *data) error {
		if nameTaken(d, c.Name, "") {
			return domain.ErrDuplicate
		}
		d.companies[c.ID] = copyCompany(c)
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v.do(func(d *data) error {
		if c, ok := d.companies[id]; ok {
			out = copyCompany(c)
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) GetByName(_ context.Context, name string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v.do(func(d *data) error {
		for _, c := range d.companies {
			if strings.EqualFold(c.Name, name) {
				out = copyCompany(c)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.v.do(func(d *data) error {
		cur, ok := d.companies[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if nameTaken(d, c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		next := copyCompany(c)
		next.CreatedAt = cur.CreatedAt
		d.companies[c.ID] = next
		return nil
	})
}

func (r *CompanyRepo) List(_ context.Context, f repository.CompanyFilter, p repository.Page) ([]*entity.Company, int, error) {
	var list []*entity.Company
	err := r.v.do(func(d *data) error {
		for _, c := range d.companies {
			if f.Search != "" && !anyContains(f.Search, c.Name, c.Corporate) {
				continue
			}
			if f.Type != "" && c.Type != f.Type {
				continue
			}
			if f.IsActive != nil && c.IsActive != *f.IsActive {
				continue
			}
			list = append(list, copyCompany(c))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, p), len(list), err
}

func (r *CompanyRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.v.do(func(d *data) error {
		c, ok := d.companies[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.IsActive = active
		c.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *CompanyRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.v.do(func(d *data) error {
		n = len(d.companies)
		return nil
	})
	return n, err
}

// ── Productos ──────────────────────────────────────────────────────────────

// ProductRepo productos en memoria. El SKU es único.
type ProductRepo struct {
	v *view
}

func skuTaken(d *data, sku, exceptID string) bool {
	for _, p := range d.products {
		if p.ID != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.do(func(d *data) error {
		if skuTaken(d, p.SKU, "") {
			return domain.ErrDuplicate
		}
		d.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(d *data) error {
		if p, ok := d.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(d *data) error {
		for _, p := range d.products {
			if p.SKU == sku {
				out = copyProduct(p)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.do(func(d *data) error {
		cur, ok := d.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if skuTaken(d, p.SKU, p.ID) {
			return domain.ErrDuplicate
		}
		next := copyProduct(p)
		next.CreatedAt = cur.CreatedAt
		d.products[p.ID] = next
		return nil
	})
}

func matchProduct(p *entity.Product, f repository.ProductFilter) bool {
	switch {
	case f.Search != "" && !anyContains(f.Search, p.Name, p.Brand, p.SKU, p.CompanyName):
		return false
	case f.CompanyID != "" && p.CompanyID != f.CompanyID:
		return false
	case f.Therapy != "" && p.Therapy != f.Therapy:
		return false
	case f.DrugType != "" && p.DrugType != f.DrugType:
		return false
	case f.DrugCategory != "" && p.DrugCategory != f.DrugCategory:
		return false
	case f.IsActive != nil && p.IsActive != *f.IsActive:
		return false
	}
	return true
}

func sortProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Brand != list[j].Brand {
			return list[i].Brand < list[j].Brand
		}
		return list[i].Name < list[j].Name
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter, p repository.Page) ([]*entity.Product, int, error) {
	var list []*entity.Product
	err := r.v.do(func(d *data) error {
		for _, x := range d.products {
			if matchProduct(x, f) {
				list = append(list, copyProduct(x))
			}
		}
		return nil
	})
	sortProducts(list)
	return paginate(list, p), len(list), err
}

func (r *ProductRepo) Search(_ context.Context, q string, limit int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.v.do(func(d *data) error {
		for _, x := range d.products {
			if x.IsActive && anyContains(q, x.Name, x.Brand, x.SKU) {
				list = append(list, copyProduct(x))
			}
		}
		return nil
	})
	sortProducts(list)
	return paginate(list, repository.Page{Limit: limit}), err
}

func (r *ProductRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.v.do(func(d *data) error {
		p, ok := d.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.IsActive = active
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *ProductRepo) RenameCompany(_ context.Context, companyID, name string) (int64, error) {
	var n int64
	err := r.v.do(func(d *data) error {
		now := time.Now().UTC()
		for _, p := range d.products {
			if p.CompanyID == companyID && p.CompanyName != name {
				p.CompanyName = name
				p.UpdatedAt = now
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	n := 0
	err := r.v.do(func(d *data) error {
		for _, p := range d.products {
			if p.CompanyID == companyID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.v.do(func(d *data) error {
		n = len(d.products)
		return nil
	})
	return n, err
}

func (r *ProductRepo) FilterOptions(_ context.Context) (*repository.ProductFilterOptions, error) {
	therapies, types, categories := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	err := r.v.do(func(d *data) error {
		for _, p := range d.products {
			if !p.IsActive {
				continue
			}
			if p.Therapy != "" {
				therapies[p.Therapy] = struct{}{}
			}
			if p.DrugType != "" {
				types[p.DrugType] = struct{}{}
			}
			if p.DrugCategory != "" {
				categories[p.DrugCategory] = struct{}{}
			}
		}
		return nil
	})
	return &repository.ProductFilterOptions{
		Therapies:      sortedDistinct(therapies),
		DrugTypes:      sortedDistinct(types),
		DrugCategories: sortedDistinct(categories),
	}, err
}
