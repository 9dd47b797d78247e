package transition_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var admin = activity.Actor{ID: "admin-1", Role: entity.RoleAdmin}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker caído")
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func seed(t *testing.T, s *memory.Store, id string, role entity.Role, status entity.Status) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	repos := s.Repos()
	require.NoError(t, repos.Accounts.Create(ctx, &entity.Account{
		ID: id, Email: id + "@example.com", Name: id, Role: role, Status: status, CreatedAt: now, UpdatedAt: now,
	}))
	if role.HasProfile() {
		p := &entity.Profile{ID: "p-" + id, AccountID: id, Role: role, BusinessName: "Negocio " + id, CreatedAt: now, UpdatedAt: now}
		p.DefaultTermsFor(role)
		require.NoError(t, repos.Profiles.Create(ctx, p))
	}
}

func statusOf(t *testing.T, s *memory.Store, id string) entity.Status {
	t.Helper()
	a, err := s.Repos().Accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Status
}

func expiry() *time.Time {
	t := time.Date(2030, 3, 31, 0, 0, 0, 0, time.UTC)
	return &t
}

func retailerDocs() []entity.Document {
	now := time.Now().UTC()
	return []entity.Document{
		{Type: entity.DocDrugLicense, Location: "mem://dl.pdf", FileName: "dl.pdf", UploadedAt: now},
		{Type: entity.DocShopPhoto, Location: "mem://shop.jpg", FileName: "shop.jpg", UploadedAt: now},
	}
}

func retailerLicense() transition.LicenseData {
	return transition.LicenseData{Number: "MH-RET-1", Type: "retail", Expiry: expiry()}
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_PasaADocumentosYRegistraAprobador(t *testing.T) {
	s := memory.NewStore()
	pub := &recordingPublisher{}
	svc := transition.NewService(s, pub, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingApproval)

	acc, err := svc.Approve(context.Background(), "r1", admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingDocuments, acc.Status)
	assert.Equal(t, "admin-1", acc.ApprovedBy)
	require.NotNil(t, acc.ApprovedAt)
	assert.Equal(t, []string{ports.EventAccountApproved}, pub.types())

	logs, total, err := s.Repos().Audit.List(context.Background(), repository.AuditFilter{EntityID: "r1"}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, entity.AuditAccountApproved, logs[0].Action)
}

func TestApprove_DesdeOtroEstadoNoCambiaNada(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingDocuments)

	_, err := svc.Approve(context.Background(), "r1", admin)
	assert.ErrorIs(t, err, domain.ErrNotPendingApproval)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, entity.StatusPendingDocuments, statusOf(t, s, "r1"))
}

func TestApprove_CuentaInexistente(t *testing.T) {
	svc := transition.NewService(memory.NewStore(), nil, nil)
	_, err := svc.Approve(context.Background(), "nadie", admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_ConcurrenteSoloUnoGana(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "d1", entity.RoleDistributor, entity.StatusPendingApproval)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), "d1", admin)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrNotPendingApproval)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, entity.StatusPendingDocuments, statusOf(t, s, "d1"))
}

// staleReads simula una escritura concurrente que gana entre la lectura y el UPDATE
// condicional: las primeras left lecturas ven status en lugar del estado guardado.
type staleReads struct {
	status entity.Status
	left   int
	swaps  int
}

type staleTx struct {
	*memory.Store
	r *staleReads
}

func (t staleTx) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return t.Store.Run(ctx, func(repos repository.Repos) error {
		repos.Accounts = staleAccounts{AccountRepository: repos.Accounts, r: t.r}
		return fn(repos)
	})
}

type staleAccounts struct {
	repository.AccountRepository
	r *staleReads
}

func (a staleAccounts) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := a.AccountRepository.GetByID(ctx, id)
	if err != nil || acc == nil || a.r.left == 0 {
		return acc, err
	}
	a.r.left--
	acc.Status = a.r.status
	return acc, nil
}

func (a staleAccounts) CompareAndSwapStatus(ctx context.Context, id string, from entity.Status, c repository.StatusChange) (bool, error) {
	a.r.swaps++
	return a.AccountRepository.CompareAndSwapStatus(ctx, id, from, c)
}

func auditCount(t *testing.T, s *memory.Store, id string) int {
	t.Helper()
	_, total, err := s.Repos().Audit.List(context.Background(), repository.AuditFilter{EntityID: id}, repository.Page{})
	require.NoError(t, err)
	return total
}

func TestApprove_LecturaDesactualizadaPierdeEnElUpdateCondicional(t *testing.T) {
	s := memory.NewStore()
	// otro admin ya aprobó; esta llamada todavía lee pending_approval
	seed(t, s, "d1", entity.RoleDistributor, entity.StatusPendingDocuments)
	reads := &staleReads{status: entity.StatusPendingApproval, left: 1}
	svc := transition.NewService(staleTx{Store: s, r: reads}, nil, nil)

	_, err := svc.Approve(context.Background(), "d1", admin)
	assert.ErrorIs(t, err, domain.ErrNotPendingApproval)
	assert.Equal(t, 1, reads.swaps)
	assert.Equal(t, entity.StatusPendingDocuments, statusOf(t, s, "d1"))
	assert.Zero(t, auditCount(t, s, "d1"))
}

func TestDeactivate_ReintentaTrasLecturaDesactualizada(t *testing.T) {
	s := memory.NewStore()
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusActive)
	reads := &staleReads{status: entity.StatusPendingVerification, left: 2}
	svc := transition.NewService(staleTx{Store: s, r: reads}, nil, nil)

	acc, err := svc.Deactivate(context.Background(), "r1", admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeactivated, acc.Status)
	assert.Equal(t, 3, reads.swaps)
	assert.Equal(t, entity.StatusDeactivated, statusOf(t, s, "r1"))
	assert.Equal(t, 1, auditCount(t, s, "r1"))
}

func TestDeactivate_AgotaReintentos(t *testing.T) {
	s := memory.NewStore()
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusActive)
	reads := &staleReads{status: entity.StatusPendingVerification, left: 10}
	svc := transition.NewService(staleTx{Store: s, r: reads}, nil, nil)

	_, err := svc.Deactivate(context.Background(), "r1", admin)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, 3, reads.swaps)
	assert.Equal(t, entity.StatusActive, statusOf(t, s, "r1"))
}

func TestReject_MotivoPorDefecto(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingApproval)

	acc, err := svc.Reject(context.Background(), "r1", admin, "  ")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, acc.Status)
	assert.Equal(t, transition.DefaultRejectionReason, acc.RejectionReason)

	_, err = svc.Approve(context.Background(), "r1", admin)
	assert.ErrorIs(t, err, domain.ErrNotPendingApproval)
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitDocuments
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitDocuments_FaltaDocumentoNoCambiaEstado(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingDocuments)

	_, err := svc.SubmitDocuments(context.Background(), "r1", retailerLicense(), retailerDocs()[:1])
	require.ErrorIs(t, err, domain.ErrMissingRequiredField)
	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{entity.DocShopPhoto}, missing.Missing)

	assert.Equal(t, entity.StatusPendingDocuments, statusOf(t, s, "r1"))
	p, _ := s.Repos().Profiles.GetByAccountID(context.Background(), "r1")
	assert.Empty(t, p.Documents)
}

func TestSubmitDocuments_ListaTodosLosFaltantesEnOrden(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "d1", entity.RoleDistributor, entity.StatusPendingDocuments)

	_, err := svc.SubmitDocuments(context.Background(), "d1", transition.LicenseData{}, nil)
	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{
		entity.DocDrugLicense, entity.DocGSTCertificate, entity.DocPANCard,
		"drug_license_number", "drug_license_type", "drug_license_expiry", "gst_number",
	}, missing.Missing)
}

func TestSubmitDocuments_DesdeEstadoIncorrecto(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingApproval)

	_, err := svc.SubmitDocuments(context.Background(), "r1", retailerLicense(), retailerDocs())
	assert.ErrorIs(t, err, domain.ErrNotPendingDocuments)
	assert.Equal(t, entity.StatusPendingApproval, statusOf(t, s, "r1"))
}

func TestSubmitDocuments_GuardaLicenciaYDocumentos(t *testing.T) {
	s := memory.NewStore()
	pub := &recordingPublisher{}
	svc := transition.NewService(s, pub, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingDocuments)

	acc, err := svc.SubmitDocuments(context.Background(), "r1", retailerLicense(), retailerDocs())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, acc.Status)

	p, err := s.Repos().Profiles.GetByAccountID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Len(t, p.Documents, 2)
	assert.Equal(t, "MH-RET-1", p.License.Number)
	assert.Equal(t, "retail", p.License.Type)
	assert.Equal(t, []string{ports.EventDocumentsSubmitted}, pub.types())
}

func TestSubmitDocuments_TipoDeLicenciaNoPermitido(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingDocuments)

	lic := retailerLicense()
	lic.Type = "wholesale"
	_, err := svc.SubmitDocuments(context.Background(), "r1", lic, retailerDocs())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.StatusPendingDocuments, statusOf(t, s, "r1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Verify
// ──────────────────────────────────────────────────────────────────────────────

func TestVerify_RechazoDevuelveADocumentosConNotas(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingDocuments)
	ctx := context.Background()
	_, err := svc.SubmitDocuments(ctx, "r1", retailerLicense(), retailerDocs())
	require.NoError(t, err)

	acc, err := svc.Verify(ctx, "r1", admin, false, "foto ilegible")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingDocuments, acc.Status)

	p, _ := s.Repos().Profiles.GetByAccountID(ctx, "r1")
	assert.False(t, p.IsVerified)
	assert.Equal(t, "foto ilegible", p.VerificationNotes)

	// Reenvío: los documentos ya cargados cuentan como presentes.
	acc, err = svc.SubmitDocuments(ctx, "r1", retailerLicense(), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, acc.Status)
}

func TestVerify_DesdeEstadoIncorrecto(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusActive)

	_, err := svc.Verify(context.Background(), "r1", admin, true, "")
	assert.ErrorIs(t, err, domain.ErrNotPendingVerification)
}

func TestVerify_SinPerfilRevierteEstado(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	now := time.Now().UTC()
	require.NoError(t, s.Repos().Accounts.Create(context.Background(), &entity.Account{
		ID: "x1", Email: "x1@example.com", Role: entity.RoleRetailer, Status: entity.StatusPendingVerification, CreatedAt: now, UpdatedAt: now,
	}))

	_, err := svc.Verify(context.Background(), "x1", admin, true, "")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Equal(t, entity.StatusPendingVerification, statusOf(t, s, "x1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Deactivate
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_Idempotente(t *testing.T) {
	s := memory.NewStore()
	pub := &recordingPublisher{}
	svc := transition.NewService(s, pub, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusActive)

	acc, err := svc.Deactivate(context.Background(), "r1", admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeactivated, acc.Status)
	assert.False(t, acc.IsActive())

	acc, err = svc.Deactivate(context.Background(), "r1", admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeactivated, acc.Status)
	assert.Equal(t, []string{ports.EventAccountDeactivated}, pub.types())
}

func TestDeactivate_FalloDePublicacionNoRevierte(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, &recordingPublisher{fail: true}, nil)
	seed(t, s, "r1", entity.RoleRetailer, entity.StatusPendingApproval)

	_, err := svc.Deactivate(context.Background(), "r1", admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeactivated, statusOf(t, s, "r1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestCicloCompleto_DistribuidorTerminaActivoYVerificado(t *testing.T) {
	s := memory.NewStore()
	svc := transition.NewService(s, nil, nil)
	seed(t, s, "d1", entity.RoleDistributor, entity.StatusPendingApproval)
	ctx := context.Background()

	_, err := svc.Approve(ctx, "d1", admin)
	require.NoError(t, err)

	now := time.Now().UTC()
	docs := []entity.Document{
		{Type: entity.DocDrugLicense, Location: "mem://1", UploadedAt: now},
		{Type: entity.DocGSTCertificate, Location: "mem://2", UploadedAt: now},
		{Type: entity.DocPANCard, Location: "mem://3", UploadedAt: now},
	}
	lic := transition.LicenseData{Number: "DL-20B-1", Type: "wholesale", Expiry: expiry(), GSTNumber: "27AAPFU0939F1ZV"}
	_, err = svc.SubmitDocuments(ctx, "d1", lic, docs)
	require.NoError(t, err)

	acc, err := svc.Verify(ctx, "d1", admin, true, "ok")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, acc.Status)

	list, total, err := s.Repos().Profiles.List(ctx, repository.ProfileFilter{}, repository.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.True(t, list[0].IsVerified)
	assert.True(t, list[0].License.Verified)
	assert.Equal(t, "27AAPFU0939F1ZV", list[0].GSTNumber)
	require.NotNil(t, list[0].VerifiedAt)
}
