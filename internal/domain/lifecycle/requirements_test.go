package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
)

func expiry() *time.Time {
	t := time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRequirementsFor(t *testing.T) {
	d, err := lifecycle.RequirementsFor(entity.RoleDistributor)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDistributor, d.Role())

	r, err := lifecycle.RequirementsFor(entity.RoleRetailer)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleRetailer, r.Role())

	_, err = lifecycle.RequirementsFor(entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMissing_EnvioVacioDistribuidor_OrdenDeterminista(t *testing.T) {
	req := lifecycle.DistributorRequirements{}
	got := req.Missing(lifecycle.Submission{}, nil)
	assert.Equal(t, []string{
		"drug_license", "gst_certificate", "pan_card",
		"drug_license_number", "drug_license_type", "drug_license_expiry", "gst_number",
	}, got)
}

func TestMissing_MinoristaNoPideGST(t *testing.T) {
	req := lifecycle.RetailerRequirements{}
	got := req.Missing(lifecycle.Submission{
		LicenseNumber: "20-MH-1",
		LicenseType:   "retail",
		LicenseExpiry: expiry(),
		DocumentTypes: []string{entity.DocDrugLicense},
	}, nil)
	assert.Equal(t, []string{"shop_photo"}, got)
}

func TestMissing_DocumentoYaEnPerfilCuenta(t *testing.T) {
	req := lifecycle.RetailerRequirements{}
	onFile := []entity.Document{{Type: entity.DocShopPhoto, Location: "x"}}
	got := req.Missing(lifecycle.Submission{
		LicenseNumber: "20-MH-1",
		LicenseType:   "retail",
		LicenseExpiry: expiry(),
		DocumentTypes: []string{entity.DocDrugLicense},
	}, onFile)
	assert.Empty(t, got)
}

func TestCheck_TipoLicenciaNoPermitido(t *testing.T) {
	req := lifecycle.RetailerRequirements{}
	err := lifecycle.Check(req, lifecycle.Submission{
		LicenseNumber: "20-MH-1",
		LicenseType:   "wholesale",
		LicenseExpiry: expiry(),
		DocumentTypes: []string{entity.DocDrugLicense, entity.DocShopPhoto},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheck_FaltantesDevuelveMissingFieldsError(t *testing.T) {
	err := lifecycle.Check(lifecycle.DistributorRequirements{}, lifecycle.Submission{
		LicenseNumber: "20B-MH-1",
		LicenseType:   "wholesale",
		LicenseExpiry: expiry(),
		GSTNumber:     "27AAAAA0000A1Z5",
		DocumentTypes: []string{entity.DocDrugLicense, entity.DocGSTCertificate},
	}, nil)
	require.ErrorIs(t, err, domain.ErrMissingRequiredField)
	var mf *domain.MissingFieldsError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, []string{"pan_card"}, mf.Missing)
}

func TestApply_DistribuidorFijaGST(t *testing.T) {
	p := &entity.Profile{}
	sub := lifecycle.Submission{LicenseNumber: " 20B ", LicenseType: "wholesale", LicenseExpiry: expiry(), GSTNumber: "27AAAAA0000A1Z5"}
	lifecycle.DistributorRequirements{}.Apply(p, sub)
	assert.Equal(t, "20B", p.License.Number)
	assert.Equal(t, "27AAAAA0000A1Z5", p.GSTNumber)

	r := &entity.Profile{GSTNumber: "previo"}
	lifecycle.RetailerRequirements{}.Apply(r, sub)
	assert.Equal(t, "previo", r.GSTNumber, "el minorista no cambia su GST en este paso")
}
