package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
)

// AddressDTO dirección postal.
type AddressDTO struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// LicenseDTO licencia de venta de medicamentos.
type LicenseDTO struct {
	Number   string     `json:"number"`
	Type     string     `json:"type"`
	Expiry   *time.Time `json:"expiry,omitempty"`
	Verified bool       `json:"verified"`
}

// ProfileResponse perfil de negocio con condiciones según el rol.
type ProfileResponse struct {
	ID                string                   `json:"id"`
	AccountID         string                   `json:"account_id"`
	Role              string                   `json:"role"`
	BusinessName      string                   `json:"business_name"`
	TradeName         string                   `json:"trade_name,omitempty"`
	GSTNumber         string                   `json:"gst_number,omitempty"`
	PAN               string                   `json:"pan,omitempty"`
	BusinessCategory  string                   `json:"business_category,omitempty"`
	Address           AddressDTO               `json:"address"`
	Phone             string                   `json:"phone,omitempty"`
	Email             string                   `json:"email,omitempty"`
	License           LicenseDTO               `json:"license"`
	Documents         []entity.Document        `json:"documents"`
	VerificationNotes string                   `json:"verification_notes,omitempty"`
	IsVerified        bool                     `json:"is_verified"`
	VerifiedAt        *time.Time               `json:"verified_at,omitempty"`
	VerifiedBy        string                   `json:"verified_by,omitempty"`
	Distributor       *entity.DistributorTerms `json:"distributor,omitempty"`
	Retailer          *entity.RetailerTerms    `json:"retailer,omitempty"`
	Account           *AccountResponse         `json:"account,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// NewProfileResponse mapea la entidad; account es opcional.
func NewProfileResponse(p *entity.Profile, account *entity.Account) ProfileResponse {
	docs := p.Documents
	if docs == nil {
		docs = []entity.Document{}
	}
	out := ProfileResponse{
		ID:               p.ID,
		AccountID:        p.AccountID,
		Role:             string(p.Role),
		BusinessName:     p.BusinessName,
		TradeName:        p.TradeName,
		GSTNumber:        p.GSTNumber,
		PAN:              p.PAN,
		BusinessCategory: p.BusinessCategory,
		Address: AddressDTO{
			Line1:   p.Address.Line1,
			Line2:   p.Address.Line2,
			City:    p.Address.City,
			State:   p.Address.State,
			Pincode: p.Address.Pincode,
		},
		Phone: p.Phone,
		Email: p.Email,
		License: LicenseDTO{
			Number:   p.License.Number,
			Type:     p.License.Type,
			Expiry:   p.License.Expiry,
			Verified: p.License.Verified,
		},
		Documents:         docs,
		VerificationNotes: p.VerificationNotes,
		IsVerified:        p.IsVerified,
		VerifiedAt:        p.VerifiedAt,
		VerifiedBy:        p.VerifiedBy,
		Distributor:       p.Distributor,
		Retailer:          p.Retailer,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if account != nil {
		a := NewAccountResponse(account)
		out.Account = &a
	}
	return out
}

// DistributorTermsDTO cambios a condiciones de distribuidor.
type DistributorTermsDTO struct {
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	DeliveryAreas []string         `json:"delivery_areas"`
	PaymentTerms  *string          `json:"payment_terms"`
	DefaultMargin *decimal.Decimal `json:"default_margin"`
}

// RetailerTermsDTO cambios a condiciones de minorista.
type RetailerTermsDTO struct {
	CreditLimit        *decimal.Decimal `json:"credit_limit"`
	CreditPeriodDays   *int             `json:"credit_period_days"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
}

// UpdateProfileRequest campos editables del perfil (todos opcionales).
type UpdateProfileRequest struct {
	BusinessName     *string              `json:"business_name"`
	TradeName        *string              `json:"trade_name"`
	GSTNumber        *string              `json:"gst_number"`
	PAN              *string              `json:"pan"`
	BusinessCategory *string              `json:"business_category"`
	Phone            *string              `json:"phone"`
	Email            *string              `json:"email"`
	Address          *AddressDTO          `json:"address"`
	Distributor      *DistributorTermsDTO `json:"distributor"`
	Retailer         *RetailerTermsDTO    `json:"retailer"`
}

func (r UpdateProfileRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.BusinessName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.GSTNumber, gstinRule),
		validation.Field(&r.PAN, panRule),
		validation.Field(&r.Phone, phoneRule),
	)
	if err != nil {
		return err
	}
	if r.Address != nil {
		a := *r.Address
		if err := validation.ValidateStruct(&a, validation.Field(&a.Pincode, pincodeRule)); err != nil {
			return err
		}
	}
	if r.Distributor != nil && r.Distributor.PaymentTerms != nil {
		t := *r.Distributor
		if err := validation.ValidateStruct(&t,
			validation.Field(&t.PaymentTerms, validation.In("advance", "credit_7", "credit_15", "credit_30")),
		); err != nil {
			return err
		}
	}
	return nil
}

// VerifyRequest decisión del admin sobre los documentos.
type VerifyRequest struct {
	Approved *bool  `json:"approved"`
	Notes    string `json:"notes"`
}

func (r VerifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Approved, validation.NotNil),
		validation.Field(&r.Notes, validation.Length(0, 1000)),
	)
}

// SubmitLicenseData campos de licencia del envío de documentos (formulario multipart).
type SubmitLicenseData struct {
	DrugLicenseNumber string `json:"drug_license_number" form:"drug_license_number"`
	DrugLicenseType   string `json:"drug_license_type" form:"drug_license_type"`
	DrugLicenseExpiry string `json:"drug_license_expiry" form:"drug_license_expiry"`
	GSTNumber         string `json:"gst_number" form:"gst_number"`
}

// Validate solo formato; la obligatoriedad depende del rol y la decide el ciclo de vida.
func (r SubmitLicenseData) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DrugLicenseNumber, validation.Length(0, 100)),
		validation.Field(&r.DrugLicenseExpiry, validation.By(validDate)),
		validation.Field(&r.GSTNumber, gstinRule),
	)
}

// RequirementsResponse requisitos del rol más lo ya entregado.
type RequirementsResponse struct {
	Role               string                          `json:"role"`
	Status             string                          `json:"status"`
	CanSubmit          bool                            `json:"can_submit"`
	Documents          []lifecycle.DocumentRequirement `json:"documents"`
	LicenseFields      []lifecycle.FieldRequirement    `json:"license_fields"`
	RegistrationFields []lifecycle.FieldRequirement    `json:"registration_fields"`
	Uploaded           []entity.Document               `json:"uploaded"`
	Missing            []string                        `json:"missing"`
}

// ProfileListQuery filtros del listado de perfiles.
type ProfileListQuery struct {
	Role       string `query:"role"`
	Search     string `query:"search"`
	City       string `query:"city"`
	IsVerified string `query:"isVerified"`
	IsActive   string `query:"isActive"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

func (q ProfileListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Role, validation.In(string(entity.RoleDistributor), string(entity.RoleRetailer))),
		validation.Field(&q.IsVerified, validation.In("true", "false")),
		validation.Field(&q.IsActive, validation.In("true", "false")),
	)
}

// ProfileListResponse lista paginada de perfiles.
type ProfileListResponse struct {
	Items      []ProfileResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
