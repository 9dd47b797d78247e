package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, brand, mother_brand, company_id, company_name, therapy, super_group,
	sub_supergroup, product_group, product_class, drug_type, drug_category, subgroup, strength, pack,
	pack_unit, schedule, is_rx_required, nlem, acute_chronic, plain_combination, mrp, ptr, pts,
	brand_launch_date, sku_launch_date, is_active, created_at, updated_at`

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Brand, &p.MotherBrand, &p.CompanyID, &p.CompanyName, &p.Therapy, &p.SuperGroup,
		&p.SubSupergroup, &p.Group, &p.Class, &p.DrugType, &p.DrugCategory, &p.Subgroup, &p.Strength, &p.Pack,
		&p.PackUnit, &p.Schedule, &p.IsRxRequired, &p.NLEM, &p.AcuteChronic, &p.PlainCombination, &p.MRP, &p.PTR, &p.PTS,
		&p.BrandLaunchDate, &p.SKULaunchDate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productArgs(p *entity.Product) []any {
	return []any{
		p.ID, p.SKU, p.Name, p.Brand, p.MotherBrand, p.CompanyID, p.CompanyName, p.Therapy, p.SuperGroup,
		p.SubSupergroup, p.Group, p.Class, p.DrugType, p.DrugCategory, p.Subgroup, p.Strength, p.Pack,
		p.PackUnit, p.Schedule, p.IsRxRequired, p.NLEM, p.AcuteChronic, p.PlainCombination, p.MRP, p.PTR, p.PTS,
		p.BrandLaunchDate, p.SKULaunchDate, p.IsActive, p.CreatedAt, p.UpdatedAt,
	}
}

// Create persiste un producto. SKU duplicado -> domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	if _, err := r.q.Exec(ctx, query, productArgs(p)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update reescribe todos los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, brand = $4, mother_brand = $5, company_id = $6,
			company_name = $7, therapy = $8, super_group = $9, sub_supergroup = $10, product_group = $11,
			product_class = $12, drug_type = $13, drug_category = $14, subgroup = $15, strength = $16,
			pack = $17, pack_unit = $18, schedule = $19, is_rx_required = $20, nlem = $21,
			acute_chronic = $22, plain_combination = $23, mrp = $24, ptr = $25, pts = $26,
			brand_launch_date = $27, sku_launch_date = $28, is_active = $29, updated_at = $30
		WHERE id = $1`
	args := productArgs(p)
	args = append(args[:29], p.UpdatedAt) // sin created_at
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func productConds(f repository.ProductFilter) conds {
	var c conds
	if f.Search != "" {
		c.add("(name ILIKE ? OR brand ILIKE ? OR sku ILIKE ? OR company_name ILIKE ?)", likePattern(f.Search))
	}
	if f.CompanyID != "" {
		c.add("company_id = ?", f.CompanyID)
	}
	if f.Therapy != "" {
		c.add("therapy = ?", f.Therapy)
	}
	if f.DrugType != "" {
		c.add("drug_type = ?", f.DrugType)
	}
	if f.DrugCategory != "" {
		c.add("drug_category = ?", f.DrugCategory)
	}
	if f.IsActive != nil {
		c.add("is_active = ?", *f.IsActive)
	}
	return c
}

// List lista productos ordenados por marca y nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, p repository.Page) ([]*entity.Product, int, error) {
	c := productConds(f)
	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM products`+c.where(), c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	limit, args := c.page(p.Limit, p.Offset)
	list, err := r.query(ctx, `SELECT `+productColumns+` FROM products`+c.where()+` ORDER BY brand, name`+limit, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// Search autocompletado por nombre, marca o SKU sobre productos activos.
func (r *ProductRepo) Search(ctx context.Context, q string, limit int) ([]*entity.Product, error) {
	list, err := r.query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active AND (name ILIKE $1 OR brand ILIKE $1 OR sku ILIKE $1)
		ORDER BY brand, name LIMIT $2`, []any{likePattern(q), limit})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return list, nil
}

func (r *ProductRepo) query(ctx context.Context, sql string, args []any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva un producto (borrado lógico).
func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RenameCompany propaga el nuevo nombre de la empresa a sus productos.
func (r *ProductRepo) RenameCompany(ctx context.Context, companyID, name string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET company_name = $2, updated_at = NOW() WHERE company_id = $1 AND company_name <> $2`,
		companyID, name)
	if err != nil {
		return 0, fmt.Errorf("rename company in products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// CountByCompany productos de una empresa.
func (r *ProductRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM products WHERE company_id = $1`, []any{companyID})
	if err != nil {
		return 0, fmt.Errorf("count products by company: %w", err)
	}
	return n, nil
}

// Count total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM products`, nil)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// FilterOptions valores distintos de terapia, tipo y categoría entre productos activos.
func (r *ProductRepo) FilterOptions(ctx context.Context) (*repository.ProductFilterOptions, error) {
	var out repository.ProductFilterOptions
	targets := []struct {
		column string
		dst    *[]string
	}{
		{"therapy", &out.Therapies},
		{"drug_type", &out.DrugTypes},
		{"drug_category", &out.DrugCategories},
	}
	for _, t := range targets {
		rows, err := r.q.Query(ctx, `SELECT DISTINCT `+t.column+` FROM products WHERE is_active AND `+t.column+` <> '' ORDER BY 1`)
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", t.column, err)
		}
		values := []string{}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s: %w", t.column, err)
			}
			values = append(values, v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		*t.dst = values
	}
	return &out, nil
}
