package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/preferences"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPreferenceQuery_ResolvesWithEnforcedScope(t *testing.T) {
	hatcheryID := uuid.New()
	userID := uuid.New()
	resolver := &fakeResolver{
		snapshot: types.PreferenceSnapshot{
			Effective: map[string]any{types.PreferenceKeyChartStyle: map[string]any{"style": "line"}},
		},
	}

	q := NewPreferenceQuery(resolver, nil)
	snapshot, err := q.Query(context.Background(), PreferenceQueryInput{
		UserID: userID,
		Scope:  types.ScopeFilter{HatcheryID: hatcheryID},
		Keys:   []string{types.PreferenceKeyChartStyle},
		Actor:  types.ActorRef{ID: userID, Type: types.ActorRoleWorker},
	})

	require.NoError(t, err)
	require.Contains(t, snapshot.Effective, types.PreferenceKeyChartStyle)
	require.Equal(t, userID, resolver.lastInput.UserID)
	require.Equal(t, hatcheryID, resolver.lastInput.Scope.HatcheryID)
	require.Equal(t, []string{types.PreferenceKeyChartStyle}, resolver.lastInput.Keys)
}

func TestPreferenceQuery_MissingResolver(t *testing.T) {
	q := NewPreferenceQuery(nil, nil)

	_, err := q.Query(context.Background(), PreferenceQueryInput{
		Actor: types.ActorRef{ID: uuid.New()},
	})
	require.ErrorIs(t, err, types.ErrMissingPreferenceResolver)
}

type fakeResolver struct {
	snapshot  types.PreferenceSnapshot
	lastInput preferences.ResolveInput
}

func (f *fakeResolver) Resolve(_ context.Context, input preferences.ResolveInput) (types.PreferenceSnapshot, error) {
	f.lastInput = input
	return f.snapshot, nil
}
