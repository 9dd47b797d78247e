package dto

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un SKU del catálogo.
type CreateProductRequest struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Brand            string          `json:"brand"`
	MotherBrand      string          `json:"mother_brand"`
	CompanyID        string          `json:"company_id"`
	Therapy          string          `json:"therapy"`
	SuperGroup       string          `json:"super_group"`
	SubSupergroup    string          `json:"sub_supergroup"`
	Group            string          `json:"group"`
	Class            string          `json:"class"`
	DrugType         string          `json:"drug_type"`
	DrugCategory     string          `json:"drug_category"`
	Subgroup         string          `json:"subgroup"`
	Strength         string          `json:"strength"`
	Pack             string          `json:"pack"`
	PackUnit         string          `json:"pack_unit"`
	Schedule         string          `json:"schedule"`
	IsRxRequired     bool            `json:"is_rx_required"`
	NLEM             bool            `json:"nlem"`
	AcuteChronic     string          `json:"acute_chronic"`
	PlainCombination string          `json:"plain_combination"`
	MRP              decimal.Decimal `json:"mrp"`
	PTR              decimal.Decimal `json:"ptr"`
	PTS              decimal.Decimal `json:"pts"`
	BrandLaunchDate  string          `json:"brand_launch_date"`
	SKULaunchDate    string          `json:"sku_launch_date"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SKU, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Brand, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CompanyID, validation.Required),
		validation.Field(&r.MRP, validation.By(nonNegative)),
		validation.Field(&r.PTR, validation.By(nonNegative)),
		validation.Field(&r.PTS, validation.By(nonNegative)),
		validation.Field(&r.BrandLaunchDate, validation.By(validDate)),
		validation.Field(&r.SKULaunchDate, validation.By(validDate)),
	)
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	Brand            *string          `json:"brand"`
	MotherBrand      *string          `json:"mother_brand"`
	CompanyID        *string          `json:"company_id"`
	Therapy          *string          `json:"therapy"`
	SuperGroup       *string          `json:"super_group"`
	SubSupergroup    *string          `json:"sub_supergroup"`
	Group            *string          `json:"group"`
	Class            *string          `json:"class"`
	DrugType         *string          `json:"drug_type"`
	DrugCategory     *string          `json:"drug_category"`
	Subgroup         *string          `json:"subgroup"`
	Strength         *string          `json:"strength"`
	Pack             *string          `json:"pack"`
	PackUnit         *string          `json:"pack_unit"`
	Schedule         *string          `json:"schedule"`
	IsRxRequired     *bool            `json:"is_rx_required"`
	NLEM             *bool            `json:"nlem"`
	AcuteChronic     *string          `json:"acute_chronic"`
	PlainCombination *string          `json:"plain_combination"`
	MRP              *decimal.Decimal `json:"mrp"`
	PTR              *decimal.Decimal `json:"ptr"`
	PTS              *decimal.Decimal `json:"pts"`
	IsActive         *bool            `json:"is_active"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Brand, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.CompanyID, validation.NilOrNotEmpty),
		validation.Field(&r.MRP, validation.By(nonNegative)),
		validation.Field(&r.PTR, validation.By(nonNegative)),
		validation.Field(&r.PTS, validation.By(nonNegative)),
	)
}

func nonNegative(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}
	if d.IsNegative() {
		return errors.New("no puede ser negativo")
	}
	return nil
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Brand            string          `json:"brand"`
	MotherBrand      string          `json:"mother_brand,omitempty"`
	CompanyID        string          `json:"company_id"`
	CompanyName      string          `json:"company_name"`
	Therapy          string          `json:"therapy,omitempty"`
	SuperGroup       string          `json:"super_group,omitempty"`
	SubSupergroup    string          `json:"sub_supergroup,omitempty"`
	Group            string          `json:"group,omitempty"`
	Class            string          `json:"class,omitempty"`
	DrugType         string          `json:"drug_type,omitempty"`
	DrugCategory     string          `json:"drug_category,omitempty"`
	Subgroup         string          `json:"subgroup,omitempty"`
	Strength         string          `json:"strength,omitempty"`
	Pack             string          `json:"pack,omitempty"`
	PackUnit         string          `json:"pack_unit,omitempty"`
	Schedule         string          `json:"schedule,omitempty"`
	IsRxRequired     bool            `json:"is_rx_required"`
	NLEM             bool            `json:"nlem"`
	AcuteChronic     string          `json:"acute_chronic,omitempty"`
	PlainCombination string          `json:"plain_combination,omitempty"`
	MRP              decimal.Decimal `json:"mrp"`
	PTR              decimal.Decimal `json:"ptr"`
	PTS              decimal.Decimal `json:"pts"`
	BrandLaunchDate  *time.Time      `json:"brand_launch_date,omitempty"`
	SKULaunchDate    *time.Time      `json:"sku_launch_date,omitempty"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewProductResponse mapea la entidad.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Brand:            p.Brand,
		MotherBrand:      p.MotherBrand,
		CompanyID:        p.CompanyID,
		CompanyName:      p.CompanyName,
		Therapy:          p.Therapy,
		SuperGroup:       p.SuperGroup,
		SubSupergroup:    p.SubSupergroup,
		Group:            p.Group,
		Class:            p.Class,
		DrugType:         p.DrugType,
		DrugCategory:     p.DrugCategory,
		Subgroup:         p.Subgroup,
		Strength:         p.Strength,
		Pack:             p.Pack,
		PackUnit:         p.PackUnit,
		Schedule:         p.Schedule,
		IsRxRequired:     p.IsRxRequired,
		NLEM:             p.NLEM,
		AcuteChronic:     p.AcuteChronic,
		PlainCombination: p.PlainCombination,
		MRP:              p.MRP,
		PTR:              p.PTR,
		PTS:              p.PTS,
		BrandLaunchDate:  p.BrandLaunchDate,
		SKULaunchDate:    p.SKULaunchDate,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ProductSearchItem resultado compacto de autocompletado.
type ProductSearchItem struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	CompanyName string          `json:"company_name"`
	Strength    string          `json:"strength,omitempty"`
	Pack        string          `json:"pack,omitempty"`
	MRP         decimal.Decimal `json:"mrp"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	Search       string `query:"search"`
	CompanyID    string `query:"companyId"`
	Therapy      string `query:"therapy"`
	DrugType     string `query:"drugType"`
	DrugCategory string `query:"drugCategory"`
	IsActive     string `query:"isActive"`
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// FilterOptionsResponse valores disponibles para los filtros del catálogo.
type FilterOptionsResponse struct {
	Therapies      []string `json:"therapies"`
	DrugTypes      []string `json:"drugTypes"`
	DrugCategories []string `json:"drugCategories"`
}
