package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Pharmahub-api/internal/application/analytics"
	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/memory"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/Pharmahub-api/internal/interfaces/http"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación de prueba sobre el almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app   *fiber.App
	store *memory.Store
	fs    afero.Fs // almacenamiento de documentos
	admin string   // token del admin sembrado
}

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	Error      string            `json:"error"`
	Redirect   string            `json:"redirect"`
	Reason     string            `json:"reason"`
	Missing    []string          `json:"missing"`
	Details    map[string]string `json:"details"`
	Pagination *dto.Pagination   `json:"pagination"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	s := memory.NewStore()
	repos := s.Repos()
	log := logger.Nop()
	gate := access.NewGate(access.DefaultRoutes())
	fs := afero.NewMemMapFs()
	files, err := storage.NewLocalStorage(fs, "/uploads", "https://cdn.test/docs")
	require.NoError(t, err)

	accountUC := usecase.NewAccountUseCase(s, repos, nil, log)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(log, "production")})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(s, repos, gate, nil,
			auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		AccountUC:   accountUC,
		ProfileUC:   usecase.NewProfileUseCase(s, repos),
		CompanyUC:   usecase.NewCompanyUseCase(s, repos, nil, log),
		ProductUC:   usecase.NewProductUseCase(s, repos),
		AuditUC:     usecase.NewAuditUseCase(repos.Audit),
		DashboardUC: appanalytics.NewDashboardUseCase(repos),
		Transitions: transition.NewService(s, nil, log),
		Gate:        gate,
		Accounts:    repos.Accounts,
		Files:       files,
		UploadMaxMB: 1,
		JWTSecret:   testJWTSecret,
	})

	_, err = accountUC.Create(context.Background(), dto.RegisterRequest{
		Email: "admin@pharmahub.in", Password: "admin-pass-1", Name: "Admin", Role: "admin",
	}, activity.Actor{})
	require.NoError(t, err)

	api := &testAPI{app: app, store: s, fs: fs}
	api.admin = api.login(t, "admin@pharmahub.in", "admin-pass-1")
	return api
}

func (a *testAPI) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(t, req, token)
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, env.Error)
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.Token
}

// submit envía el formulario de complete-profile con un archivo por tipo.
func (a *testAPI) submit(t *testing.T, token string, license map[string]string, docTypes ...string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	lic, err := json.Marshal(license)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("licenseData", string(lic)))
	for _, dt := range docTypes {
		part, err := w.CreateFormFile(dt, dt+".PDF")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 " + dt))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/complete-profile", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.send(t, req, token)
}

// storedFiles cuenta los archivos guardados en el almacenamiento de documentos.
func (a *testAPI) storedFiles(t *testing.T) int {
	t.Helper()
	n := 0
	err := afero.Walk(a.fs, "/uploads", func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func retailerRegistration() map[string]string {
	return map[string]string{
		"email":      "orders@sharmapharmacy.in",
		"password":   "retailer-pass-1",
		"name":       "Ravi Sharma",
		"phone":      "9820012345",
		"role":       "retailer",
		"store_name": "Sharma Pharmacy",
		"city":       "Pune",
		"state":      "Maharashtra",
		"pincode":    "411001",
	}
}

var retailerLicense = map[string]string{
	"drug_license_number": "MH-PUN-20-123456",
	"drug_license_type":   "retail",
	"drug_license_expiry": "2030-12-31",
}

// registerRetailer registra y devuelve el ID de la cuenta y un token.
func (a *testAPI) registerRetailer(t *testing.T) (string, string) {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/auth/register", "", retailerRegistration())
	require.Equal(t, http.StatusCreated, status, env.Error)
	acc := decode[dto.AccountResponse](t, env.Data)
	return acc.ID, a.login(t, "orders@sharmapharmacy.in", "retailer-pass-1")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CicloCompletoMinorista(t *testing.T) {
	api := newTestAPI(t)
	accountID, token := api.registerRetailer(t)

	// pending_approval: el catálogo redirige al aviso de pendiente
	status, env := api.do(t, http.MethodGet, "/api/retailer/products", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/pending-approval", env.Redirect)
	assert.Equal(t, access.ReasonPending, env.Reason)

	// un punto en la ruta de la API no la vuelve archivo estático
	status, env = api.do(t, http.MethodGet, "/api/retailer/products/a.b", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/pending-approval", env.Redirect)

	status, env = api.do(t, http.MethodPost, "/api/admin/users/"+accountID+"/approve", api.admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, string(entity.StatusPendingDocuments), decode[dto.AccountResponse](t, env.Data).Status)

	// pending_documents: solo complete-profile
	status, env = api.do(t, http.MethodGet, "/api/retailer/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/complete-profile", env.Redirect)

	status, env = api.do(t, http.MethodGet, "/api/complete-profile/requirements", token, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	req := decode[dto.RequirementsResponse](t, env.Data)
	assert.Equal(t, []string{entity.DocDrugLicense, entity.DocShopPhoto, "drug_license_number", "drug_license_type", "drug_license_expiry"}, req.Missing)

	// falta la foto del local
	status, env = api.submit(t, token, retailerLicense, entity.DocDrugLicense)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", env.Code)
	assert.Equal(t, []string{entity.DocShopPhoto}, env.Missing)

	status, env = api.submit(t, token, retailerLicense, entity.DocDrugLicense, entity.DocShopPhoto)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, string(entity.StatusPendingVerification), decode[dto.AccountResponse](t, env.Data).Status)

	profile, err := api.store.Repos().Profiles.GetByAccountID(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, profile.Documents, 2)
	for _, d := range profile.Documents {
		assert.True(t, strings.HasPrefix(d.Location, "https://cdn.test/docs/"+accountID+"/"+d.Type+"/"), d.Location)
		assert.True(t, strings.HasSuffix(d.Location, ".pdf"), d.Location)
	}
	assert.Equal(t, "MH-PUN-20-123456", profile.License.Number)

	// pending_verification: el panel propio sí, el catálogo también (bajo la raíz del rol)
	status, _ = api.do(t, http.MethodGet, "/api/retailer/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = api.do(t, http.MethodPost, "/api/admin/retailers/"+profile.ID+"/verify", api.admin, map[string]any{"approved": true})
	require.Equal(t, http.StatusOK, status, env.Error)
	verified := decode[dto.ProfileResponse](t, env.Data)
	assert.True(t, verified.IsVerified)

	acc, err := api.store.Repos().Accounts.GetByID(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, acc.Status)

	status, env = api.do(t, http.MethodGet, "/api/retailer/products", token, nil)
	assert.Equal(t, http.StatusOK, status, env.Error)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, dto.DefaultLimit, env.Pagination.Limit)
}

func TestAPI_EnvioRechazadoNoGuardaArchivos(t *testing.T) {
	api := newTestAPI(t)
	accountID, token := api.registerRetailer(t)
	status, env := api.do(t, http.MethodPost, "/api/admin/users/"+accountID+"/approve", api.admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = api.do(t, http.MethodGet, "/api/complete-profile/requirements", token, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.True(t, decode[dto.RequirementsResponse](t, env.Data).CanSubmit)

	// incompleto: 422 sin escribir nada
	status, env = api.submit(t, token, retailerLicense, entity.DocDrugLicense)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{entity.DocShopPhoto}, env.Missing)
	assert.Zero(t, api.storedFiles(t))

	status, env = api.submit(t, token, retailerLicense, entity.DocDrugLicense, entity.DocShopPhoto)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, 2, api.storedFiles(t))

	// pending_verification: el gate deja pasar pero el estado ya no admite envíos
	status, env = api.do(t, http.MethodGet, "/api/complete-profile/requirements", token, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.False(t, decode[dto.RequirementsResponse](t, env.Data).CanSubmit)

	status, env = api.submit(t, token, retailerLicense, entity.DocDrugLicense, entity.DocShopPhoto)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", env.Code)
	assert.Equal(t, 2, api.storedFiles(t))

	profile, err := api.store.Repos().Profiles.GetByAccountID(context.Background(), accountID)
	require.NoError(t, err)
	status, env = api.do(t, http.MethodPost, "/api/admin/retailers/"+profile.ID+"/verify", api.admin, map[string]any{"approved": true})
	require.Equal(t, http.StatusOK, status, env.Error)

	// activo
	status, env = api.submit(t, token, retailerLicense, entity.DocDrugLicense, entity.DocShopPhoto)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", env.Code)
	assert.Equal(t, 2, api.storedFiles(t))
}

func TestAPI_VerificacionRechazadaVuelveADocumentos(t *testing.T) {
	api := newTestAPI(t)
	accountID, token := api.registerRetailer(t)
	status, _ := api.do(t, http.MethodPost, "/api/admin/users/"+accountID+"/approve", api.admin, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = api.submit(t, token, retailerLicense, entity.DocDrugLicense, entity.DocShopPhoto)
	require.Equal(t, http.StatusOK, status)

	profile, err := api.store.Repos().Profiles.GetByAccountID(context.Background(), accountID)
	require.NoError(t, err)
	status, env := api.do(t, http.MethodPost, "/api/admin/retailers/"+profile.ID+"/verify", api.admin,
		map[string]any{"approved": false, "notes": "licencia ilegible"})
	require.Equal(t, http.StatusOK, status, env.Error)
	out := decode[dto.ProfileResponse](t, env.Data)
	assert.False(t, out.IsVerified)

	status, env = api.do(t, http.MethodGet, "/api/retailer/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/complete-profile", env.Redirect)

	// los documentos ya cargados cuentan: basta reenviar la licencia
	status, env = api.submit(t, token, retailerLicense)
	assert.Equal(t, http.StatusOK, status, env.Error)
}

func TestAPI_VerificarSinApprovedEs400(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodPost, "/api/admin/retailers/no-existe/verify", api.admin, map[string]any{"notes": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "approved")
}

func TestAPI_AprobarDosVecesEsConflicto(t *testing.T) {
	api := newTestAPI(t)
	accountID, _ := api.registerRetailer(t)

	status, _ := api.do(t, http.MethodPost, "/api/admin/users/"+accountID+"/approve", api.admin, nil)
	require.Equal(t, http.StatusOK, status)

	status, env := api.do(t, http.MethodPost, "/api/admin/users/"+accountID+"/approve", api.admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", env.Code)
}

func TestAPI_RechazoSinMotivoUsaElPorDefecto(t *testing.T) {
	api := newTestAPI(t)
	accountID, token := api.registerRetailer(t)

	status, env := api.do(t, http.MethodPost, "/api/admin/users/"+accountID+"/reject", api.admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	out := decode[dto.AccountResponse](t, env.Data)
	assert.Equal(t, string(entity.StatusRejected), out.Status)
	assert.Equal(t, transition.DefaultRejectionReason, out.RejectionReason)

	status, env = api.do(t, http.MethodGet, "/api/retailer/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/pending-approval", env.Redirect)
	assert.Equal(t, access.ReasonRejected, env.Reason)
}

func TestAPI_AprobarCuentaInexistenteEs404(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodPost, "/api/admin/users/no-existe/approve", api.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gate de acceso
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinTokenRedirigeAlLoginConCallback(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Code)
	assert.Equal(t, "/login?callbackUrl=/admin/users", env.Redirect)
}

func TestAPI_AdminFueraDeSuRaizVuelveAlPanel(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodGet, "/api/retailer/products", api.admin, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/admin/dashboard", env.Redirect)

	status, env = api.do(t, http.MethodGet, "/api/complete-profile/requirements", api.admin, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/admin/dashboard", env.Redirect)
}

func TestAPI_DesactivacionCortaElAccesoConTokenVigente(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodPost, "/api/admin/users", api.admin, map[string]string{
		"email": "ops@pharmahub.in", "password": "ops-pass-123", "name": "Ops", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	other := decode[dto.AccountResponse](t, env.Data)
	assert.Equal(t, string(entity.StatusActive), other.Status)
	otherToken := api.login(t, "ops@pharmahub.in", "ops-pass-123")

	status, _ = api.do(t, http.MethodGet, "/api/admin/dashboard", otherToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = api.do(t, http.MethodDelete, "/api/admin/users/"+other.ID, api.admin, nil)
	require.Equal(t, http.StatusOK, status)
	// idempotente
	status, _ = api.do(t, http.MethodPost, "/api/admin/users/"+other.ID+"/deactivate", api.admin, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(t, http.MethodGet, "/api/admin/dashboard", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, access.ReasonDeactivated, env.Reason)

	status, env = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ops@pharmahub.in", "password": "ops-pass-123"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", env.Code)
}

func TestAPI_AdminNoSePuedeDesactivarASiMismo(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodGet, "/api/auth/me", api.admin, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[dto.MeResponse](t, env.Data)
	assert.Equal(t, "/admin/dashboard", me.Landing)

	status, env = api.do(t, http.MethodPost, "/api/admin/users/"+me.Account.ID+"/deactivate", api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SELF_DEACTIVATION", env.Code)
}

func TestAPI_DecideParaElFrontEnd(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(t, http.MethodGet, "/api/access/decide?path=/retailer/dashboard", "", nil)
	require.Equal(t, http.StatusOK, status)
	d := decode[access.Decision](t, env.Data)
	assert.Equal(t, access.Unauthenticated, d.Kind)
	assert.Equal(t, "/login?callbackUrl=/retailer/dashboard", d.Location)

	status, env = api.do(t, http.MethodGet, "/api/access/decide?path=/", api.admin, nil)
	require.Equal(t, http.StatusOK, status)
	d = decode[access.Decision](t, env.Data)
	assert.Equal(t, access.Redirect, d.Kind)
	assert.Equal(t, "/admin/dashboard", d.Location)

	status, _ = api.do(t, http.MethodGet, "/api/access/decide", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro, login y catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RegistroInvalidoDevuelveDetallesPorCampo(t *testing.T) {
	api := newTestAPI(t)
	in := retailerRegistration()
	in["pincode"] = "01234"
	delete(in, "store_name")

	status, env := api.do(t, http.MethodPost, "/api/auth/register", "", in)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "pincode")
	assert.Contains(t, env.Details, "store_name")
}

func TestAPI_RegistroDuplicadoEs409(t *testing.T) {
	api := newTestAPI(t)
	api.registerRetailer(t)
	status, env := api.do(t, http.MethodPost, "/api/auth/register", "", retailerRegistration())
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", env.Code)
}

func TestAPI_LoginPendienteAterrizaEnAviso(t *testing.T) {
	api := newTestAPI(t)
	api.registerRetailer(t)
	status, env := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "orders@sharmapharmacy.in", "password": "retailer-pass-1",
	})
	require.Equal(t, http.StatusOK, status)
	out := decode[dto.LoginResponse](t, env.Data)
	assert.Equal(t, "/pending-approval", out.Landing)

	status, env = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "orders@sharmapharmacy.in", "password": "otra-cosa",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestAPI_CatalogoAdminYListadoPaginado(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodPost, "/api/admin/companies", api.admin, map[string]any{
		"name": "Sun Pharma", "type": "INDIAN",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	company := decode[dto.CompanyResponse](t, env.Data)

	status, env = api.do(t, http.MethodPost, "/api/admin/companies", api.admin, map[string]any{
		"name": "sun pharma", "type": "INDIAN",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", env.Code)

	status, env = api.do(t, http.MethodGet, "/api/admin/companies?limit=500", api.admin, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, dto.MaxLimit, env.Pagination.Limit)
	assert.Equal(t, 1, env.Pagination.Total)

	status, _ = api.do(t, http.MethodDelete, "/api/admin/companies/"+company.ID, api.admin, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(t, http.MethodGet, "/api/admin/audit-logs?entityType="+entity.EntityCompany, api.admin, nil)
	require.Equal(t, http.StatusOK, status)
	logs := decode[[]dto.AuditLogResponse](t, env.Data)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.AuditCompanyDeactivated, logs[0].Action)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traducción de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorHandler_OcultaErroresInternosEnProduccion(t *testing.T) {
	for env, want := range map[string]string{
		"production":  "error interno del servidor",
		"development": "pgx: conexión perdida",
	} {
		app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop(), env)})
		app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pgx: conexión perdida") })
		app.Get("/missing", func(c *fiber.Ctx) error {
			return &domain.MissingFieldsError{Missing: []string{"drug_license"}}
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
		require.NoError(t, err)
		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL", body.Code)
		assert.Equal(t, want, body.Error)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
		require.NoError(t, err)
		body = dto.ErrorResponse{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, []string{"drug_license"}, body.Missing)
	}
}
