package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, corporate, type, divisions, is_active, created_at, updated_at`

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Corporate, &c.Type, &c.Divisions, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. Nombre duplicado -> domain.ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	divisions := c.Divisions
	if divisions == nil {
		divisions = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Corporate, c.Type, divisions, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByName obtiene una empresa por su nombre exacto.
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = $1`, name))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by name: %w", err)
	}
	return c, nil
}

// Update actualiza una empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	divisions := c.Divisions
	if divisions == nil {
		divisions = []string{}
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE companies SET name = $2, corporate = $3, type = $4, divisions = $5, is_active = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Corporate, c.Type, divisions, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empresas por nombre con el total sin paginar.
func (r *CompanyRepo) List(ctx context.Context, f repository.CompanyFilter, p repository.Page) ([]*entity.Company, int, error) {
	var c conds
	if f.Search != "" {
		c.add("(name ILIKE ? OR corporate ILIKE ?)", likePattern(f.Search))
	}
	if f.Type != "" {
		c.add("type = ?", f.Type)
	}
	if f.IsActive != nil {
		c.add("is_active = ?", *f.IsActive)
	}
	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM companies`+c.where(), c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}
	limit, args := c.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies`+c.where()+` ORDER BY name`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, co)
	}
	return list, total, rows.Err()
}

// SetActive activa o desactiva una empresa (borrado lógico).
func (r *CompanyRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE companies SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set company active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count total de empresas.
func (r *CompanyRepo) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM companies`, nil)
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}
