package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/memory"
	"github.com/jhoicas/Pharmahub-api/pkg/jwt"
)

const testSecret = "test-secret"

func newUseCase(s *memory.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s, s.Repos(), access.NewGate(access.DefaultRoutes()), nil,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "pharmahub-test"}, nil)
}

func distributorRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:       "Ventas@MediDist.in",
		Password:    "password-123",
		Name:        "Anil Shah",
		Phone:       "+91 98200 12345",
		Role:        "distributor",
		CompanyName: "MediDist Pvt Ltd",
		GSTNumber:   "27aapfu0939f1zv",
		City:        "Mumbai",
		State:       "Maharashtra",
		Pincode:     "400001",
	}
}

func TestRegister_CreaCuentaPendienteYPerfil(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	ctx := context.Background()

	out, err := uc.Register(ctx, distributorRequest(), activity.Actor{IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "ventas@medidist.in", out.Email)
	assert.Equal(t, string(entity.StatusPendingApproval), out.Status)
	assert.True(t, out.IsActive)

	p, err := s.Repos().Profiles.GetByAccountID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "MediDist Pvt Ltd", p.BusinessName)
	assert.Equal(t, "27AAPFU0939F1ZV", p.GSTNumber)
	assert.Equal(t, "+919820012345", p.Phone)
	require.NotNil(t, p.Distributor)
	assert.Equal(t, "advance", p.Distributor.PaymentTerms)
	assert.Nil(t, p.Retailer)
}

func TestRegister_EmailDuplicadoSinDistinguirMayusculas(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	_, err := uc.Register(context.Background(), distributorRequest(), activity.Actor{})
	require.NoError(t, err)

	again := distributorRequest()
	again.Email = "VENTAS@medidist.in"
	_, err = uc.Register(context.Background(), again, activity.Actor{})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_RolAdminRechazado(t *testing.T) {
	uc := newUseCase(memory.NewStore())
	in := distributorRequest()
	in.Role = "admin"
	_, err := uc.Register(context.Background(), in, activity.Actor{})
	require.Error(t, err)
	assert.True(t, dto.IsValidationError(err))
}

func TestProvision_AdminNaceActivoSinPerfil(t *testing.T) {
	s := memory.NewStore()
	in := dto.RegisterRequest{Email: "root@pharmahub.in", Password: "password-123", Name: "Root", Role: "admin"}
	in.Normalize()
	require.NoError(t, in.ValidateFor(true))

	acc, err := auth.Provision(context.Background(), s, in, activity.Actor{}, entity.AuditAccountCreated, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, acc.Status)

	p, err := s.Repos().Profiles.GetByAccountID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLogin_TokenYAterrizajeSegunEstado(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	ctx := context.Background()
	reg, err := uc.Register(ctx, distributorRequest(), activity.Actor{})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ventas@medidist.in", Password: "password-123"})
	require.NoError(t, err)
	assert.Equal(t, "/pending-approval", out.Landing)
	require.NotNil(t, out.Account.LastLoginAt)

	id, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id)
	assert.Equal(t, "distributor", role)

	svc := transition.NewService(s, nil, nil)
	_, err = svc.Approve(ctx, reg.ID, activity.Actor{ID: "admin"})
	require.NoError(t, err)
	me, err := uc.Me(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "/complete-profile", me.Landing)
	require.NotNil(t, me.Profile)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	_, err := uc.Register(context.Background(), distributorRequest(), activity.Actor{})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ventas@medidist.in", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@medidist.in", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaDesactivadaRechazada(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	ctx := context.Background()
	reg, err := uc.Register(ctx, distributorRequest(), activity.Actor{})
	require.NoError(t, err)
	_, err = transition.NewService(s, nil, nil).Deactivate(ctx, reg.ID, activity.Actor{ID: "admin"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ventas@medidist.in", Password: "password-123"})
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
