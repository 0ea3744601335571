package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCan_ResponsesAreReadOnly(t *testing.T) {
	require.True(t, Can(EntityResponse, OpRead))
	require.False(t, Can(EntityResponse, OpCreate))
	require.False(t, Can(EntityResponse, OpUpdate))
	require.False(t, Can(EntityResponse, OpDelete))
}

func TestCan_FullCRUDEntities(t *testing.T) {
	for _, entity := range []Entity{EntityOrganization, EntityEmployee, EntityQuestion, EntitySurvey} {
		require.True(t, Can(entity, OpCreate), string(entity))
		require.True(t, Can(entity, OpRead), string(entity))
		require.True(t, Can(entity, OpUpdate), string(entity))
		require.True(t, Can(entity, OpDelete), string(entity))
	}
}

func TestCan_UnknownEntity(t *testing.T) {
	require.False(t, Can(Entity("tasks"), OpRead))
}

func TestForceOrganization(t *testing.T) {
	tenant := Caller{AdminID: 1, OrganizationID: 7}
	super := Caller{AdminID: 2, Superuser: true, OrganizationID: 1}

	// Non-superusers always write into their own tenant, whatever the
	// request claimed.
	require.Equal(t, uint64(7), ForceOrganization(tenant, 0))
	require.Equal(t, uint64(7), ForceOrganization(tenant, 9))

	// Superusers may address any tenant, falling back to their own when
	// the request names none.
	require.Equal(t, uint64(9), ForceOrganization(super, 9))
	require.Equal(t, uint64(1), ForceOrganization(super, 0))
}
