package activity

import (
	"testing"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEditPolicyAllowsAuthor(t *testing.T) {
	policy := EditPolicy{}
	author := uuid.New()
	entry := types.ActivityEntry{UserID: author, FarmID: uuid.New()}

	actor := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker}
	require.NoError(t, policy.Allow(actor, author, types.ScopeFilter{}, entry))
}

func TestEditPolicyAllowsOwnerWithFarmAccess(t *testing.T) {
	policy := EditPolicy{}
	farmID := uuid.New()
	entry := types.ActivityEntry{UserID: uuid.New(), FarmID: farmID}

	owner := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner}
	require.NoError(t, policy.Allow(owner, uuid.New(), types.ScopeFilter{}, entry))
	require.NoError(t, policy.Allow(owner, uuid.New(), types.ScopeFilter{FarmIDs: []uuid.UUID{farmID}}, entry))
}

func TestEditPolicyRejectsOwnerOutsideScope(t *testing.T) {
	policy := EditPolicy{}
	entry := types.ActivityEntry{UserID: uuid.New(), FarmID: uuid.New()}

	owner := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner}
	err := policy.Allow(owner, uuid.New(), types.ScopeFilter{FarmIDs: []uuid.UUID{uuid.New()}}, entry)
	require.ErrorIs(t, err, ErrEditForbidden)
}

func TestEditPolicyRejectsNonAuthorStaff(t *testing.T) {
	policy := EditPolicy{}
	entry := types.ActivityEntry{UserID: uuid.New(), FarmID: uuid.New()}

	manager := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleManager}
	err := policy.Allow(manager, uuid.New(), types.ScopeFilter{}, entry)
	require.ErrorIs(t, err, ErrEditForbidden)
}
