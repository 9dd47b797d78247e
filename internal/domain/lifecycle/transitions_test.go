package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
)

func TestNext_TransicionesLegales(t *testing.T) {
	cases := []struct {
		from entity.Status
		ev   lifecycle.Event
		to   entity.Status
	}{
		{entity.StatusPendingApproval, lifecycle.EventApprove, entity.StatusPendingDocuments},
		{entity.StatusPendingApproval, lifecycle.EventReject, entity.StatusRejected},
		{entity.StatusPendingDocuments, lifecycle.EventSubmitDocuments, entity.StatusPendingVerification},
		{entity.StatusPendingVerification, lifecycle.EventVerifyApproved, entity.StatusActive},
		{entity.StatusPendingVerification, lifecycle.EventVerifyRejected, entity.StatusPendingDocuments},
		{entity.StatusActive, lifecycle.EventDeactivate, entity.StatusDeactivated},
		{entity.StatusRejected, lifecycle.EventDeactivate, entity.StatusDeactivated},
	}
	for _, tc := range cases {
		got, err := lifecycle.Next(tc.from, tc.ev)
		require.NoError(t, err, "%s --%s-->", tc.from, tc.ev)
		assert.Equal(t, tc.to, got)
	}
}

func TestNext_AprobarFueraDePendingApproval(t *testing.T) {
	for _, from := range []entity.Status{
		entity.StatusPendingDocuments, entity.StatusPendingVerification,
		entity.StatusActive, entity.StatusRejected, entity.StatusDeactivated,
	} {
		got, err := lifecycle.Next(from, lifecycle.EventApprove)
		assert.ErrorIs(t, err, domain.ErrNotPendingApproval)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		assert.Equal(t, from, got, "el estado no cambia")
	}
}

func TestNext_SinAtajosNiResurreccion(t *testing.T) {
	_, err := lifecycle.Next(entity.StatusPendingApproval, lifecycle.EventVerifyApproved)
	assert.ErrorIs(t, err, domain.ErrNotPendingVerification)

	_, err = lifecycle.Next(entity.StatusRejected, lifecycle.EventSubmitDocuments)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = lifecycle.Next(entity.StatusDeactivated, lifecycle.EventDeactivate)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestSource(t *testing.T) {
	assert.Equal(t, entity.StatusPendingApproval, lifecycle.Source(lifecycle.EventReject))
	assert.Equal(t, entity.StatusPendingDocuments, lifecycle.Source(lifecycle.EventSubmitDocuments))
	assert.Equal(t, entity.StatusPendingVerification, lifecycle.Source(lifecycle.EventVerifyRejected))
	assert.Equal(t, entity.Status(""), lifecycle.Source(lifecycle.EventDeactivate))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, entity.StatusActive, entity.InitialStatus(entity.RoleAdmin))
	assert.Equal(t, entity.StatusPendingApproval, entity.InitialStatus(entity.RoleDistributor))
	assert.Equal(t, entity.StatusPendingApproval, entity.InitialStatus(entity.RoleRetailer))
}
