package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// Claves de campos de licencia y registro.
const (
	FieldDrugLicenseNumber = "drug_license_number"
	FieldDrugLicenseType   = "drug_license_type"
	FieldDrugLicenseExpiry = "drug_license_expiry"
	FieldGSTNumber         = "gst_number"
	FieldCompanyName       = "company_name"
	FieldTradeName         = "trade_name"
	FieldStoreName         = "store_name"
	FieldPhone             = "phone"
	FieldCity              = "city"
	FieldState             = "state"
)

// FieldKind tipo de dato de un campo de formulario.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindDate   FieldKind = "date"
	KindSelect FieldKind = "select"
)

// Option valor permitido de un campo select.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldRequirement campo requerido u opcional de un formulario.
type FieldRequirement struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"type"`
	Required bool      `json:"required"`
	Options  []Option  `json:"options,omitempty"`
}

// DocumentRequirement documento requerido u opcional.
type DocumentRequirement struct {
	Type        string `json:"key"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Submission datos de licencia y tipos de documento entregados en un envío.
type Submission struct {
	LicenseNumber string
	LicenseType   string
	LicenseExpiry *time.Time
	GSTNumber     string
	DocumentTypes []string
}

// Requirements conjunto de requisitos de un rol con perfil de negocio.
type Requirements interface {
	Role() entity.Role
	Documents() []DocumentRequirement
	LicenseFields() []FieldRequirement
	RegistrationFields() []FieldRequirement
	// Missing lista, en orden de configuración, documentos y luego campos de licencia faltantes.
	// Un documento cuenta como presente si viene en el envío o ya está en onFile.
	Missing(sub Submission, onFile []entity.Document) []string
	// Apply vuelca los datos de licencia del envío sobre el perfil.
	Apply(p *entity.Profile, sub Submission)
}

// RequirementsFor devuelve el conjunto del rol. Los admins no tienen perfil.
func RequirementsFor(role entity.Role) (Requirements, error) {
	switch role {
	case entity.RoleDistributor:
		return DistributorRequirements{}, nil
	case entity.RoleRetailer:
		return RetailerRequirements{}, nil
	}
	return nil, fmt.Errorf("rol %q sin requisitos de perfil: %w", role, domain.ErrInvalidInput)
}

// Check valida el envío completo: faltantes (MissingFieldsError) y tipo de licencia permitido.
func Check(req Requirements, sub Submission, onFile []entity.Document) error {
	if missing := req.Missing(sub, onFile); len(missing) > 0 {
		return &domain.MissingFieldsError{Missing: missing}
	}
	for _, f := range req.LicenseFields() {
		if f.Key != FieldDrugLicenseType {
			continue
		}
		for _, o := range f.Options {
			if o.Value == sub.LicenseType {
				return nil
			}
		}
		return fmt.Errorf("%s %q no permitido: %w", FieldDrugLicenseType, sub.LicenseType, domain.ErrInvalidInput)
	}
	return nil
}

// ── Distribuidor ────────────────────────────────────────────────────────────

// DistributorRequirements requisitos de un distribuidor mayorista.
type DistributorRequirements struct{}

func (DistributorRequirements) Role() entity.Role { return entity.RoleDistributor }

func (DistributorRequirements) Documents() []DocumentRequirement {
	return []DocumentRequirement{
		{Type: entity.DocDrugLicense, Label: "Drug License (Form 20B/21B)", Required: true, Description: "Valid wholesale drug license"},
		{Type: entity.DocGSTCertificate, Label: "GST Certificate", Required: true, Description: "GST registration certificate"},
		{Type: entity.DocPANCard, Label: "PAN Card", Required: true, Description: "Company PAN card"},
		{Type: entity.DocTradeLicense, Label: "Trade License", Required: false, Description: "Municipal trade license (optional)"},
	}
}

func (DistributorRequirements) LicenseFields() []FieldRequirement {
	return []FieldRequirement{
		{Key: FieldDrugLicenseNumber, Label: "Drug License Number", Kind: KindText, Required: true},
		{Key: FieldDrugLicenseType, Label: "License Type", Kind: KindSelect, Required: true, Options: []Option{
			{Value: "wholesale", Label: "Wholesale (Form 20B)"},
			{Value: "retail_wholesale", Label: "Retail + Wholesale (Form 21B)"},
		}},
		{Key: FieldDrugLicenseExpiry, Label: "License Expiry Date", Kind: KindDate, Required: true},
		{Key: FieldGSTNumber, Label: "GST Number", Kind: KindText, Required: true},
	}
}

func (DistributorRequirements) RegistrationFields() []FieldRequirement {
	return []FieldRequirement{
		{Key: FieldCompanyName, Label: "Company Name", Kind: KindText, Required: true},
		{Key: FieldTradeName, Label: "Trade Name", Kind: KindText, Required: false},
		{Key: FieldPhone, Label: "Phone Number", Kind: KindText, Required: true},
		{Key: FieldGSTNumber, Label: "GST Number", Kind: KindText, Required: false},
		{Key: FieldCity, Label: "City", Kind: KindText, Required: true},
		{Key: FieldState, Label: "State", Kind: KindText, Required: true},
	}
}

func (r DistributorRequirements) Missing(sub Submission, onFile []entity.Document) []string {
	return missing(r, sub, onFile)
}

// Apply el distribuidor también fija su GSTIN en este paso.
func (DistributorRequirements) Apply(p *entity.Profile, sub Submission) {
	applyLicense(p, sub)
	p.GSTNumber = strings.TrimSpace(sub.GSTNumber)
}

// ── Minorista ───────────────────────────────────────────────────────────────

// RetailerRequirements requisitos de una farmacia minorista.
type RetailerRequirements struct{}

func (RetailerRequirements) Role() entity.Role { return entity.RoleRetailer }

func (RetailerRequirements) Documents() []DocumentRequirement {
	return []DocumentRequirement{
		{Type: entity.DocDrugLicense, Label: "Drug License (Form 20/21)", Required: true, Description: "Valid retail drug license"},
		{Type: entity.DocGSTCertificate, Label: "GST Certificate", Required: false, Description: "GST registration (if applicable)"},
		{Type: entity.DocShopPhoto, Label: "Shop Photo", Required: true, Description: "Photo of your pharmacy storefront"},
	}
}

func (RetailerRequirements) LicenseFields() []FieldRequirement {
	return []FieldRequirement{
		{Key: FieldDrugLicenseNumber, Label: "Drug License Number", Kind: KindText, Required: true},
		{Key: FieldDrugLicenseType, Label: "License Type", Kind: KindSelect, Required: true, Options: []Option{
			{Value: "retail", Label: "Retail (Form 20)"},
			{Value: "retail_restricted", Label: "Retail Restricted (Form 21)"},
		}},
		{Key: FieldDrugLicenseExpiry, Label: "License Expiry Date", Kind: KindDate, Required: true},
	}
}

func (RetailerRequirements) RegistrationFields() []FieldRequirement {
	return []FieldRequirement{
		{Key: FieldStoreName, Label: "Store/Pharmacy Name", Kind: KindText, Required: true},
		{Key: FieldPhone, Label: "Phone Number", Kind: KindText, Required: true},
		{Key: FieldCity, Label: "City", Kind: KindText, Required: true},
		{Key: FieldState, Label: "State", Kind: KindText, Required: true},
	}
}

func (r RetailerRequirements) Missing(sub Submission, onFile []entity.Document) []string {
	return missing(r, sub, onFile)
}

func (RetailerRequirements) Apply(p *entity.Profile, sub Submission) {
	applyLicense(p, sub)
}

// ── comunes ─────────────────────────────────────────────────────────────────

func missing(req Requirements, sub Submission, onFile []entity.Document) []string {
	present := make(map[string]bool, len(sub.DocumentTypes)+len(onFile))
	for _, t := range sub.DocumentTypes {
		present[t] = true
	}
	for _, d := range onFile {
		present[d.Type] = true
	}
	var out []string
	for _, d := range req.Documents() {
		if d.Required && !present[d.Type] {
			out = append(out, d.Type)
		}
	}
	for _, f := range req.LicenseFields() {
		if f.Required && !licenseFieldPresent(f.Key, sub) {
			out = append(out, f.Key)
		}
	}
	return out
}

func licenseFieldPresent(key string, sub Submission) bool {
	switch key {
	case FieldDrugLicenseNumber:
		return strings.TrimSpace(sub.LicenseNumber) != ""
	case FieldDrugLicenseType:
		return strings.TrimSpace(sub.LicenseType) != ""
	case FieldDrugLicenseExpiry:
		return sub.LicenseExpiry != nil && !sub.LicenseExpiry.IsZero()
	case FieldGSTNumber:
		return strings.TrimSpace(sub.GSTNumber) != ""
	}
	return false
}

func applyLicense(p *entity.Profile, sub Submission) {
	p.License.Number = strings.TrimSpace(sub.LicenseNumber)
	p.License.Type = strings.TrimSpace(sub.LicenseType)
	p.License.Expiry = sub.LicenseExpiry
	p.License.Verified = false
}
