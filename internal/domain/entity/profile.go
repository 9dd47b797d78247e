package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento soportados.
const (
	DocDrugLicense    = "drug_license"
	DocGSTCertificate = "gst_certificate"
	DocPANCard        = "pan_card"
	DocTradeLicense   = "trade_license"
	DocShopPhoto      = "shop_photo"
)

// Document documento subido por el negocio. Location es la referencia devuelta por el almacenamiento.
type Document struct {
	Type       string    `json:"type"`
	Location   string    `json:"location"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Verified   bool      `json:"verified"`
}

// License licencia de venta de medicamentos.
type License struct {
	Number   string
	Type     string
	Expiry   *time.Time
	Verified bool
}

// Address dirección postal del negocio.
type Address struct {
	Line1   string
	Line2   string
	City    string
	State   string
	Pincode string
}

// DistributorTerms condiciones comerciales de un distribuidor.
type DistributorTerms struct {
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	DeliveryAreas []string        `json:"delivery_areas"`
	PaymentTerms  string          `json:"payment_terms"`
	DefaultMargin decimal.Decimal `json:"default_margin"`
}

// RetailerTerms condiciones de crédito de un minorista.
type RetailerTerms struct {
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	CreditUsed         decimal.Decimal `json:"credit_used"`
	CreditPeriodDays   int             `json:"credit_period_days"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// Profile perfil de negocio 1:1 con una cuenta de distribuidor o minorista.
// BusinessName es el nombre de la empresa (distribuidor) o de la tienda (minorista).
type Profile struct {
	ID                string
	AccountID         string
	Role              Role
	BusinessName      string
	TradeName         string // nombre comercial (distribuidor) o razón social (minorista)
	GSTNumber         string
	PAN               string
	BusinessCategory  string
	Address           Address
	Phone             string
	Email             string
	License           License
	Documents         []Document
	VerificationNotes string
	IsVerified        bool
	VerifiedAt        *time.Time
	VerifiedBy        string
	Distributor       *DistributorTerms // solo si Role == distributor
	Retailer          *RetailerTerms    // solo si Role == retailer
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultTermsFor inicializa las condiciones comerciales según el rol.
func (p *Profile) DefaultTermsFor(role Role) {
	switch role {
	case RoleDistributor:
		p.Distributor = &DistributorTerms{
			MinOrderValue: decimal.Zero,
			DeliveryAreas: []string{},
			PaymentTerms:  "advance",
			DefaultMargin: decimal.NewFromInt(10),
		}
	case RoleRetailer:
		p.Retailer = &RetailerTerms{
			CreditLimit:        decimal.Zero,
			CreditUsed:         decimal.Zero,
			CreditPeriodDays:   0,
			DiscountPercentage: decimal.Zero,
		}
	}
}

// HasDocument indica si el perfil ya tiene un documento del tipo dado.
func (p *Profile) HasDocument(docType string) bool {
	for _, d := range p.Documents {
		if d.Type == docType {
			return true
		}
	}
	return false
}
