package dto

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// RegisterRequest entrada de auto-registro (distribuidor o minorista).
// Los admins solo se crean desde el panel (AllowAdmin).
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
	TradeName   string `json:"trade_name"`
	StoreName   string `json:"store_name"`
	GSTNumber   string `json:"gst_number"`
	PAN         string `json:"pan"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// Validate reglas del registro público.
func (r RegisterRequest) Validate() error {
	return r.ValidateFor(false)
}

// ValidateFor valida permitiendo el rol admin cuando allowAdmin es true.
func (r RegisterRequest) ValidateFor(allowAdmin bool) error {
	roles := []interface{}{string(entity.RoleDistributor), string(entity.RoleRetailer)}
	if allowAdmin {
		roles = append(roles, string(entity.RoleAdmin))
	}
	role := entity.Role(r.Role)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Phone, requiredIf(role.HasProfile()), phoneRule),
		validation.Field(&r.Role, validation.Required, validation.In(roles...)),
		validation.Field(&r.CompanyName, requiredIf(role == entity.RoleDistributor), validation.Length(0, 200)),
		validation.Field(&r.StoreName, requiredIf(role == entity.RoleRetailer), validation.Length(0, 200)),
		validation.Field(&r.GSTNumber, gstinRule),
		validation.Field(&r.PAN, panRule),
		validation.Field(&r.City, requiredIf(role.HasProfile())),
		validation.Field(&r.State, requiredIf(role.HasProfile())),
		validation.Field(&r.Pincode, pincodeRule),
	)
}

// Normalize limpia espacios, baja el email a minúsculas y pasa GSTIN/PAN a mayúsculas.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.TradeName = strings.TrimSpace(r.TradeName)
	r.StoreName = strings.TrimSpace(r.StoreName)
	r.GSTNumber = strings.ToUpper(strings.TrimSpace(r.GSTNumber))
	r.PAN = strings.ToUpper(strings.TrimSpace(r.PAN))
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Pincode = strings.TrimSpace(r.Pincode)
	r.Phone = strings.TrimSpace(r.Phone)
}

// BusinessName nombre de negocio según el rol.
func (r RegisterRequest) BusinessName() string {
	if entity.Role(r.Role) == entity.RoleRetailer {
		return r.StoreName
	}
	return r.CompanyName
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse token más la cuenta y la ruta de aterrizaje según su estado.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
	Landing string          `json:"landing"`
}

// AccountResponse salida pública de una cuenta. Nunca incluye el hash.
type AccountResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	IsActive        bool       `json:"is_active"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	EmailVerified   bool       `json:"email_verified"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewAccountResponse mapea la entidad.
func NewAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:              a.ID,
		Email:           a.Email,
		Name:            a.Name,
		Phone:           a.Phone,
		Role:            string(a.Role),
		Status:          string(a.Status),
		IsActive:        a.IsActive(),
		RejectionReason: a.RejectionReason,
		ApprovedAt:      a.ApprovedAt,
		ApprovedBy:      a.ApprovedBy,
		EmailVerified:   a.EmailVerified,
		LastLoginAt:     a.LastLoginAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// MeResponse cuenta autenticada con su perfil (si tiene).
type MeResponse struct {
	Account AccountResponse  `json:"account"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Landing string           `json:"landing"`
}

// UpdateAccountRequest datos de contacto editables por un admin.
type UpdateAccountRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (r UpdateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&r.Phone, phoneRule),
	)
}

// RejectRequest motivo de rechazo (opcional).
type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r RejectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

// AccountListQuery filtros del listado de usuarios.
type AccountListQuery struct {
	Role     string `query:"role"`
	Status   string `query:"status"`
	Search   string `query:"search"`
	IsActive string `query:"isActive"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

func (q AccountListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Role, validation.In(string(entity.RoleAdmin), string(entity.RoleDistributor), string(entity.RoleRetailer))),
		validation.Field(&q.Status, validation.By(validStatus)),
		validation.Field(&q.IsActive, validation.In("true", "false")),
	)
}

func validStatus(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s == "" || entity.Status(s).Valid() {
		return nil
	}
	return errors.New("estado desconocido")
}

// AccountListResponse lista paginada de cuentas.
type AccountListResponse struct {
	Items      []AccountResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
