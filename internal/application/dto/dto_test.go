package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
)

func validRetailer() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "Shop@Example.com",
		Password:  "supersecret",
		Name:      "Ravi Kumar",
		Phone:     "9876543210",
		Role:      "retailer",
		StoreName: "Ravi Medicals",
		City:      "Pune",
		State:     "Maharashtra",
	}
}

func TestRegisterRequest_MinoristaValido(t *testing.T) {
	r := validRetailer()
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, "shop@example.com", r.Email)
	assert.Equal(t, "Ravi Medicals", r.BusinessName())
}

func TestRegisterRequest_DistribuidorSinEmpresa(t *testing.T) {
	r := validRetailer()
	r.Role = "distributor"
	err := r.Validate()
	require.Error(t, err)
	details := dto.ValidationDetails(err)
	assert.Contains(t, details, "company_name")
}

func TestRegisterRequest_AdminSoloDesdePanel(t *testing.T) {
	r := dto.RegisterRequest{Email: "root@example.com", Password: "supersecret", Name: "Root", Role: "admin"}
	assert.Error(t, r.Validate())
	assert.NoError(t, r.ValidateFor(true))
}

func TestRegisterRequest_FormatosIndios(t *testing.T) {
	r := validRetailer()
	r.GSTNumber = "27AAPFU0939F1ZV"
	r.PAN = "AAPFU0939F"
	r.Pincode = "411001"
	require.NoError(t, r.Validate())

	r.GSTNumber = "27AAPFU0939F1XV"
	r.Phone = "12"
	r.Pincode = "011001"
	details := dto.ValidationDetails(r.Validate())
	assert.Contains(t, details, "gst_number")
	assert.Contains(t, details, "phone")
	assert.Contains(t, details, "pincode")
}

func TestNormalizePhone_E164(t *testing.T) {
	assert.Equal(t, "+919876543210", dto.NormalizePhone("98765 43210"))
	assert.Equal(t, "", dto.NormalizePhone("  "))
}

func TestNewPageRequest_Limites(t *testing.T) {
	p := dto.NewPageRequest(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, dto.DefaultLimit, p.Limit)

	p = dto.NewPageRequest(3, 500)
	assert.Equal(t, dto.MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Offset())

	pg := dto.NewPagination(dto.NewPageRequest(1, 20), 41)
	assert.Equal(t, 3, pg.TotalPages)
}

func TestVerifyRequest_DecisionObligatoria(t *testing.T) {
	assert.Error(t, dto.VerifyRequest{}.Validate())
	ok := true
	assert.NoError(t, dto.VerifyRequest{Approved: &ok}.Validate())
}

func TestSubmitLicenseData_FechaInvalida(t *testing.T) {
	err := dto.SubmitLicenseData{DrugLicenseExpiry: "31/12/2027"}.Validate()
	require.Error(t, err)
	assert.Contains(t, dto.ValidationDetails(err), "drug_license_expiry")
}
