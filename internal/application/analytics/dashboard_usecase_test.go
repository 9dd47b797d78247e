package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/analytics"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/memory"
)

func seedAccount(t *testing.T, s *memory.Store, id string, role entity.Role, status entity.Status) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, s.Repos().Accounts.Create(ctx, &entity.Account{ID: id, Email: id + "@example.com", Role: role, Status: status, CreatedAt: now, UpdatedAt: now}))
	if role.HasProfile() {
		p := &entity.Profile{ID: "p-" + id, AccountID: id, Role: role, CreatedAt: now, UpdatedAt: now}
		p.DefaultTermsFor(role)
		require.NoError(t, s.Repos().Profiles.Create(ctx, p))
	}
}

func TestAdminStats_Contadores(t *testing.T) {
	s := memory.NewStore()
	seedAccount(t, s, "admin", entity.RoleAdmin, entity.StatusActive)
	seedAccount(t, s, "d1", entity.RoleDistributor, entity.StatusPendingApproval)
	seedAccount(t, s, "r1", entity.RoleRetailer, entity.StatusPendingApproval)
	seedAccount(t, s, "r2", entity.RoleRetailer, entity.StatusPendingVerification)

	_, err := transition.NewService(s, nil, nil).Approve(context.Background(), "d1", activity.Actor{ID: "admin"})
	require.NoError(t, err)

	out, err := analytics.NewDashboardUseCase(s.Repos()).AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Accounts)
	assert.Equal(t, 1, out.PendingApproval)
	assert.Equal(t, 1, out.PendingVerify)
	assert.Equal(t, 2, out.ByRole["retailer"])
	assert.Equal(t, 1, out.ByStatus["pending_documents"])
	require.Len(t, out.RecentActivity, 1)
	assert.Equal(t, entity.AuditAccountApproved, out.RecentActivity[0].Action)
}

func TestPartnerDashboard_FaltantesYComercio(t *testing.T) {
	s := memory.NewStore()
	seedAccount(t, s, "r1", entity.RoleRetailer, entity.StatusPendingDocuments)

	out, err := analytics.NewDashboardUseCase(s.Repos()).PartnerDashboard(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, out.CanTrade)
	assert.Contains(t, out.Missing, entity.DocDrugLicense)
	require.NotNil(t, out.Profile)
}
