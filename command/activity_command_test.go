package command

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-hatchery/activity"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestActivityRecordCommand_InsertsEntry(t *testing.T) {
	repo := &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}}
	actorID := uuid.New()
	hatcheryID := uuid.New()
	fixedTime := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	var event types.ActivityEvent
	cmd := NewActivityRecordCommand(ActivityCommandConfig{
		Repository: repo,
		Clock:      fixedClock{t: fixedTime},
		Hooks: types.Hooks{
			AfterActivity: func(_ context.Context, e types.ActivityEvent) {
				event = e
			},
		},
	})

	result := &types.ActivityEntry{}
	err := cmd.Execute(context.Background(), ActivityRecordInput{
		Entry: types.ActivityEntry{
			TankID:       uuid.New(),
			ActivityType: types.ActivityFeed,
			Data: map[string]any{
				types.FieldFeedType: "Starter Feed",
				types.FieldFeedQty:  "2.5",
				types.FieldFeedUnit: "kg",
			},
		},
		Actor:  types.ActorRef{ID: actorID, Type: types.ActorRoleWorker},
		Scope:  types.ScopeFilter{HatcheryID: hatcheryID},
		Result: result,
	})

	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, result.ID)
	require.Equal(t, actorID, result.UserID, "author defaults to the acting user")
	require.Equal(t, hatcheryID, result.HatcheryID)
	require.Equal(t, "activity.recorded", event.Action)
	require.Equal(t, result.ID, event.Entry.ID)
	require.Equal(t, fixedTime, event.OccurredAt)
}

func TestActivityRecordCommand_RejectsInvalidPayload(t *testing.T) {
	repo := &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}}
	cmd := NewActivityRecordCommand(ActivityCommandConfig{Repository: repo})

	err := cmd.Execute(context.Background(), ActivityRecordInput{
		Entry: types.ActivityEntry{
			TankID:       uuid.New(),
			ActivityType: types.ActivityStocking,
			Data:         map[string]any{},
		},
		Actor: types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker},
	})

	require.True(t, types.IsValidationError(err))
	require.Nil(t, repo.inserted, "invalid payloads must not reach storage")
}

func TestActivityRecordCommand_ScopeDenied(t *testing.T) {
	repo := &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}}
	cmd := NewActivityRecordCommand(ActivityCommandConfig{Repository: repo})

	err := cmd.Execute(context.Background(), ActivityRecordInput{
		Entry: types.ActivityEntry{
			TankID:       uuid.New(),
			FarmID:       uuid.New(),
			ActivityType: types.ActivityFeed,
			Data:         map[string]any{},
		},
		Actor: types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker},
		Scope: types.ScopeFilter{FarmIDs: []uuid.UUID{uuid.New()}},
	})

	require.ErrorIs(t, err, types.ErrUnauthorizedScope)
	require.Nil(t, repo.inserted)
}

func TestActivityUpdateCommand_AuthorCanEdit(t *testing.T) {
	repo := &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}}
	authorID := uuid.New()
	entryID := uuid.New()
	repo.entries[entryID] = &types.ActivityEntry{
		ID:           entryID,
		UserID:       authorID,
		TankID:       uuid.New(),
		ActivityType: types.ActivityFeed,
		Data:         map[string]any{types.FieldFeedType: "Starter Feed"},
	}

	cmd := NewActivityUpdateCommand(ActivityUpdateConfig{
		Repository:  repo,
		FeatureGate: &stubFeatureGate{enabled: true},
	})

	result := &types.ActivityEntry{}
	err := cmd.Execute(context.Background(), ActivityUpdateInput{
		ActivityID: entryID,
		Data:       map[string]any{types.FieldFeedType: "Grower Feed"},
		ProfileID:  authorID,
		Actor:      types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker},
		Result:     result,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	require.Equal(t, "Grower Feed", repo.updated.Data[types.FieldFeedType])
	require.Equal(t, entryID, result.ID)
}

func TestActivityUpdateCommand_FeatureGateDisabled(t *testing.T) {
	gate := &stubFeatureGate{enabled: false}
	cmd := NewActivityUpdateCommand(ActivityUpdateConfig{
		Repository:  &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}},
		FeatureGate: gate,
	})

	err := cmd.Execute(context.Background(), ActivityUpdateInput{
		ActivityID: uuid.New(),
		Actor:      types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker},
	})

	require.ErrorIs(t, err, ErrActivityEditDisabled)
	require.Equal(t, []string{featureActivityEdit}, gate.keys)
}

func TestActivityUpdateCommand_RejectsOtherWorker(t *testing.T) {
	repo := &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}}
	entryID := uuid.New()
	repo.entries[entryID] = &types.ActivityEntry{
		ID:           entryID,
		UserID:       uuid.New(),
		TankID:       uuid.New(),
		ActivityType: types.ActivityFeed,
	}

	cmd := NewActivityUpdateCommand(ActivityUpdateConfig{Repository: repo})

	err := cmd.Execute(context.Background(), ActivityUpdateInput{
		ActivityID: entryID,
		ProfileID:  uuid.New(),
		Actor:      types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker},
	})

	require.ErrorIs(t, err, activity.ErrEditForbidden)
	require.Nil(t, repo.updated)
}

func TestActivityUpdateCommand_UnknownEntry(t *testing.T) {
	cmd := NewActivityUpdateCommand(ActivityUpdateConfig{
		Repository: &fakeActivityRepo{entries: map[uuid.UUID]*types.ActivityEntry{}},
	})

	err := cmd.Execute(context.Background(), ActivityUpdateInput{
		ActivityID: uuid.New(),
		Actor:      types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner},
	})
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestPreferenceUpsertCommand_PersistsAndNotifies(t *testing.T) {
	repo := &fakePreferenceRepo{}
	userID := uuid.New()
	actorID := uuid.New()

	var event types.PreferenceEvent
	cmd := NewPreferenceUpsertCommand(PreferenceCommandConfig{
		Repository: repo,
		Hooks: types.Hooks{
			AfterPreferenceChange: func(_ context.Context, e types.PreferenceEvent) {
				event = e
			},
		},
	})

	result := &types.PreferenceRecord{}
	err := cmd.Execute(context.Background(), PreferenceUpsertInput{
		UserID: userID,
		Key:    types.PreferenceKeyChartStyle,
		Value:  map[string]any{"style": "line"},
		Actor:  types.ActorRef{ID: actorID, Type: types.ActorRoleOwner},
		Result: result,
	})

	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)
	require.Equal(t, types.PreferenceLevelUser, repo.upserts[0].Level)
	require.Equal(t, actorID, repo.upserts[0].UpdatedBy)
	require.Equal(t, types.PreferenceKeyChartStyle, result.Key)
	require.Equal(t, "preference.upsert", event.Action)
	require.Equal(t, userID, event.UserID)
}

func TestPreferenceUpsertCommand_UserLevelNeedsUser(t *testing.T) {
	cmd := NewPreferenceUpsertCommand(PreferenceCommandConfig{Repository: &fakePreferenceRepo{}})

	err := cmd.Execute(context.Background(), PreferenceUpsertInput{
		Key:   types.PreferenceKeyChartStyle,
		Value: map[string]any{"style": "line"},
		Actor: types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner},
	})
	require.ErrorIs(t, err, types.ErrUserIDRequired)
}

func TestPreferenceDeleteCommand_RemovesEntry(t *testing.T) {
	repo := &fakePreferenceRepo{}

	var event types.PreferenceEvent
	cmd := NewPreferenceDeleteCommand(PreferenceCommandConfig{
		Repository: repo,
		Hooks: types.Hooks{
			AfterPreferenceChange: func(_ context.Context, e types.PreferenceEvent) {
				event = e
			},
		},
	})

	err := cmd.Execute(context.Background(), PreferenceDeleteInput{
		UserID: uuid.New(),
		Level:  types.PreferenceLevelHatchery,
		Key:    types.PreferenceKeyDefaultFilter,
		Actor:  types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner},
	})

	require.NoError(t, err)
	require.Len(t, repo.deleted, 1)
	require.Equal(t, types.PreferenceLevelHatchery, repo.deleted[0].level)
	require.Equal(t, types.PreferenceKeyDefaultFilter, repo.deleted[0].key)
	require.Equal(t, "preference.delete", event.Action)
}
