package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// CreateCompanyRequest entrada para crear una empresa farmacéutica.
type CreateCompanyRequest struct {
	Name      string   `json:"name"`
	Corporate string   `json:"corporate"`
	Type      string   `json:"type"`
	Divisions []string `json:"divisions"`
}

func (r CreateCompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Corporate, validation.Length(0, 200)),
		validation.Field(&r.Type, validation.In(entity.CompanyTypeIndian, entity.CompanyTypeMNC)),
	)
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name      *string  `json:"name"`
	Corporate *string  `json:"corporate"`
	Type      *string  `json:"type"`
	Divisions []string `json:"divisions"`
	IsActive  *bool    `json:"is_active"`
}

func (r UpdateCompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Type, validation.In(entity.CompanyTypeIndian, entity.CompanyTypeMNC)),
	)
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Corporate    string    `json:"corporate,omitempty"`
	Type         string    `json:"type"`
	Divisions    []string  `json:"divisions"`
	IsActive     bool      `json:"is_active"`
	ProductCount *int      `json:"productCount,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCompanyResponse mapea la entidad.
func NewCompanyResponse(c *entity.Company) CompanyResponse {
	divs := c.Divisions
	if divs == nil {
		divs = []string{}
	}
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Corporate: c.Corporate,
		Type:      c.Type,
		Divisions: divs,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CompanyListQuery filtros del listado de empresas.
type CompanyListQuery struct {
	Search   string `query:"search"`
	Type     string `query:"type"`
	IsActive string `query:"isActive"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items      []CompanyResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
