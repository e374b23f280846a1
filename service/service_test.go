package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-hatchery/command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/query"
	"github.com/goliatone/go-hatchery/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestService_ReadyAndHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	require.True(t, env.svc.Ready())
	require.NoError(t, env.svc.HealthCheck(context.Background()))
}

func TestService_HealthCheckReportsMissingDependencies(t *testing.T) {
	svc := service.New(service.Config{})

	require.False(t, svc.Ready())
	require.ErrorIs(t, svc.HealthCheck(context.Background()), types.ErrServiceNotReady)
}

func TestService_HatcheryIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cmds := env.svc.Commands()
	queries := env.svc.Queries()

	var farmA types.Farm
	err := cmds.FarmCreate.Execute(ctx, command.FarmCreateInput{
		Name: "North Farm",
		Sections: []types.SectionDraft{
			{Name: "Larval", Tanks: []types.TankDraft{
				{Name: "L1", Shape: types.ShapeRectangle, Dims: types.TankDims{HeightM: 1.2, LengthM: 4, WidthM: 2}},
			}},
		},
		Actor:  env.ownerA,
		Scope:  types.ScopeFilter{HatcheryID: env.hatcheryA},
		Result: &farmA,
	})
	require.NoError(t, err)
	require.Equal(t, env.hatcheryA, farmA.HatcheryID)

	// An actor from another hatchery cannot write into this one.
	err = cmds.FarmCreate.Execute(ctx, command.FarmCreateInput{
		Name:  "Intruder Farm",
		Actor: env.ownerB,
		Scope: types.ScopeFilter{HatcheryID: env.hatcheryA},
	})
	require.ErrorIs(t, err, types.ErrUnauthorizedScope)

	var entry types.ActivityEntry
	err = cmds.ActivityRecord.Execute(ctx, command.ActivityRecordInput{
		Entry: types.ActivityEntry{
			FarmID:       farmA.ID,
			TankID:       uuid.New(),
			ActivityType: types.ActivityFeed,
			Data: map[string]any{
				types.FieldFeedType: "Artemia",
				types.FieldFeedQty:  "2.5",
			},
		},
		Actor:  env.ownerA,
		Scope:  types.ScopeFilter{HatcheryID: env.hatcheryA},
		Result: &entry,
	})
	require.NoError(t, err)
	require.Equal(t, env.hatcheryA, entry.HatcheryID)
	require.Equal(t, env.ownerA.ID, entry.UserID)

	pageA, err := queries.ActivityFeed.Query(ctx, types.ActivityFilter{
		Actor: env.ownerA,
		Scope: types.ScopeFilter{HatcheryID: env.hatcheryA},
	})
	require.NoError(t, err)
	require.Len(t, pageA.Records, 1)

	pageB, err := queries.ActivityFeed.Query(ctx, types.ActivityFilter{
		Actor: env.ownerB,
		Scope: types.ScopeFilter{HatcheryID: env.hatcheryB},
	})
	require.NoError(t, err)
	require.Empty(t, pageB.Records)

	treesA, err := queries.FarmTree.Query(ctx, query.FarmTreeInput{
		Actor: env.ownerA,
		Scope: types.ScopeFilter{HatcheryID: env.hatcheryA},
	})
	require.NoError(t, err)
	require.Len(t, treesA, 1)
	require.Equal(t, farmA.ID, treesA[0].Farm.ID)

	treesB, err := queries.FarmTree.Query(ctx, query.FarmTreeInput{
		Actor: env.ownerB,
		Scope: types.ScopeFilter{HatcheryID: env.hatcheryB},
	})
	require.NoError(t, err)
	require.Empty(t, treesB)

	// Requesting the other hatchery's scope is rejected before any read.
	_, err = queries.ActivityFeed.Query(ctx, types.ActivityFilter{
		Actor: env.ownerB,
		Scope: types.ScopeFilter{HatcheryID: env.hatcheryA},
	})
	require.ErrorIs(t, err, types.ErrUnauthorizedScope)
}

func TestService_PreferenceRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.Commands().PreferenceUpsert.Execute(ctx, command.PreferenceUpsertInput{
		UserID: env.ownerA.ID,
		Scope:  types.ScopeFilter{HatcheryID: env.hatcheryA},
		Level:  types.PreferenceLevelUser,
		Key:    types.PreferenceKeyChartStyle,
		Value:  map[string]any{"style": "line"},
		Actor:  env.ownerA,
	})
	require.NoError(t, err)

	snapshot, err := env.svc.Queries().Preferences.Query(ctx, query.PreferenceQueryInput{
		UserID: env.ownerA.ID,
		Scope:  types.ScopeFilter{HatcheryID: env.hatcheryA},
		Keys:   []string{types.PreferenceKeyChartStyle},
		Actor:  env.ownerA,
	})
	require.NoError(t, err)
	require.Contains(t, snapshot.Effective, types.PreferenceKeyChartStyle)
}

// --- Test environment ---

type testEnv struct {
	svc       *service.Service
	hatcheryA uuid.UUID
	hatcheryB uuid.UUID
	ownerA    types.ActorRef
	ownerB    types.ActorRef
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hatcheryA := uuid.New()
	hatcheryB := uuid.New()
	ownerA := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner}
	ownerB := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner}

	resolver := staticScopeResolver{scopes: map[uuid.UUID]types.ScopeFilter{
		ownerA.ID: {HatcheryID: hatcheryA},
		ownerB.ID: {HatcheryID: hatcheryB},
	}}
	policy := hatcheryPolicy{allowed: map[uuid.UUID]uuid.UUID{
		ownerA.ID: hatcheryA,
		ownerB.ID: hatcheryB,
	}}

	svc := service.New(service.Config{
		HatcheryRepository:   &memHatcheryRepo{hatcheries: map[uuid.UUID]types.Hatchery{}},
		HierarchyRepository:  &memHierarchyRepo{},
		ActivityRepository:   &memActivityRepo{},
		AccessRepository:     &memAccessRepo{grants: map[uuid.UUID][]uuid.UUID{}},
		ProfileRepository:    &memProfileRepo{profiles: map[uuid.UUID]types.Profile{}},
		PreferenceRepository: &memPreferenceRepo{},
		ScopeResolver:        resolver,
		AuthorizationPolicy:  policy,
	})

	return &testEnv{
		svc:       svc,
		hatcheryA: hatcheryA,
		hatcheryB: hatcheryB,
		ownerA:    ownerA,
		ownerB:    ownerB,
	}
}

type staticScopeResolver struct {
	scopes map[uuid.UUID]types.ScopeFilter
}

func (r staticScopeResolver) ResolveScope(_ context.Context, actor types.ActorRef, requested types.ScopeFilter) (types.ScopeFilter, error) {
	scope, ok := r.scopes[actor.ID]
	if !ok {
		return types.ScopeFilter{}, types.ErrUnauthorizedScope
	}
	if requested.HatcheryID != uuid.Nil && requested.HatcheryID != scope.HatcheryID {
		return types.ScopeFilter{}, types.ErrUnauthorizedScope
	}
	return scope, nil
}

type hatcheryPolicy struct {
	allowed map[uuid.UUID]uuid.UUID
}

func (p hatcheryPolicy) Authorize(_ context.Context, check types.PolicyCheck) error {
	if p.allowed[check.Actor.ID] != check.Scope.HatcheryID {
		return types.ErrUnauthorizedScope
	}
	return nil
}

// --- In-memory repositories ---

type memHatcheryRepo struct {
	hatcheries map[uuid.UUID]types.Hatchery
}

func (r *memHatcheryRepo) CreateHatchery(_ context.Context, hatchery types.Hatchery) (*types.Hatchery, error) {
	if hatchery.ID == uuid.Nil {
		hatchery.ID = uuid.New()
	}
	r.hatcheries[hatchery.ID] = hatchery
	return &hatchery, nil
}

func (r *memHatcheryRepo) GetHatchery(_ context.Context, id uuid.UUID) (*types.Hatchery, error) {
	if hatchery, ok := r.hatcheries[id]; ok {
		return &hatchery, nil
	}
	return nil, nil
}

func (r *memHatcheryRepo) RenameHatchery(_ context.Context, id uuid.UUID, name string) error {
	hatchery, ok := r.hatcheries[id]
	if !ok {
		return types.ErrHatcheryIDRequired
	}
	hatchery.Name = name
	r.hatcheries[id] = hatchery
	return nil
}

type memHierarchyRepo struct {
	farms []types.Farm
}

func (r *memHierarchyRepo) GetFarm(_ context.Context, farmID uuid.UUID) (*types.Farm, error) {
	for _, farm := range r.farms {
		if farm.ID == farmID {
			copy := farm
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memHierarchyRepo) ListFarms(_ context.Context, scope types.ScopeFilter) ([]types.Farm, error) {
	out := make([]types.Farm, 0)
	for _, farm := range r.farms {
		if farm.HatcheryID == scope.HatcheryID {
			out = append(out, farm)
		}
	}
	return out, nil
}

func (r *memHierarchyRepo) CreateFarm(_ context.Context, farm types.Farm, _ []types.SectionDraft) (*types.Farm, error) {
	if farm.ID == uuid.Nil {
		farm.ID = uuid.New()
	}
	r.farms = append(r.farms, farm)
	return &farm, nil
}

func (r *memHierarchyRepo) RenameFarm(context.Context, uuid.UUID, string) error {
	return nil
}

func (r *memHierarchyRepo) DeleteFarm(_ context.Context, farmID uuid.UUID) error {
	kept := r.farms[:0]
	for _, farm := range r.farms {
		if farm.ID != farmID {
			kept = append(kept, farm)
		}
	}
	r.farms = kept
	return nil
}

func (r *memHierarchyRepo) Snapshot(context.Context, uuid.UUID) (*types.HierarchySnapshot, error) {
	return &types.HierarchySnapshot{}, nil
}

func (r *memHierarchyRepo) Apply(context.Context, types.ReconcilePlan) error {
	return nil
}

func (r *memHierarchyRepo) FullTree(_ context.Context, scope types.ScopeFilter) ([]types.FarmTree, error) {
	trees := make([]types.FarmTree, 0)
	for _, farm := range r.farms {
		if farm.HatcheryID == scope.HatcheryID {
			trees = append(trees, types.FarmTree{Farm: farm})
		}
	}
	return trees, nil
}

type memActivityRepo struct {
	entries []types.ActivityEntry
}

func (r *memActivityRepo) InsertActivity(_ context.Context, entry types.ActivityEntry) (*types.ActivityEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *memActivityRepo) UpdateActivity(_ context.Context, entry types.ActivityEntry) (*types.ActivityEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = entry
		}
	}
	return &entry, nil
}

func (r *memActivityRepo) GetActivity(_ context.Context, id uuid.UUID) (*types.ActivityEntry, error) {
	for _, entry := range r.entries {
		if entry.ID == id {
			copy := entry
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memActivityRepo) ListActivity(_ context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	records := make([]types.ActivityEntry, 0)
	for _, entry := range r.entries {
		if entry.HatcheryID == filter.Scope.HatcheryID {
			records = append(records, entry)
		}
	}
	return types.ActivityPage{Records: records, Total: len(records)}, nil
}

func (r *memActivityRepo) ListWindow(_ context.Context, filter types.ReportFilter) ([]types.ActivityEntry, error) {
	out := make([]types.ActivityEntry, 0)
	for _, entry := range r.entries {
		if entry.FarmID == filter.FarmID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memActivityRepo) DeleteActivityByUser(_ context.Context, userID uuid.UUID) error {
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.UserID != userID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

type memAccessRepo struct {
	grants map[uuid.UUID][]uuid.UUID
}

func (r *memAccessRepo) ReplaceGrants(_ context.Context, userID uuid.UUID, farmIDs []uuid.UUID) error {
	r.grants[userID] = append([]uuid.UUID(nil), farmIDs...)
	return nil
}

func (r *memAccessRepo) ListGrants(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.grants[userID], nil
}

func (r *memAccessRepo) DeleteGrantsByUser(_ context.Context, userID uuid.UUID) error {
	delete(r.grants, userID)
	return nil
}

type memProfileRepo struct {
	profiles map[uuid.UUID]types.Profile
}

func (r *memProfileRepo) GetProfile(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	if profile, ok := r.profiles[id]; ok {
		return &profile, nil
	}
	return nil, nil
}

func (r *memProfileRepo) GetProfileByUsername(_ context.Context, username string) (*types.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Username == username {
			copy := profile
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memProfileRepo) CreateProfile(_ context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	r.profiles[profile.ID] = profile
	return &profile, nil
}

func (r *memProfileRepo) UpdateProfile(_ context.Context, profile types.Profile) (*types.Profile, error) {
	r.profiles[profile.ID] = profile
	return &profile, nil
}

func (r *memProfileRepo) ClaimProfile(_ context.Context, username string, authUserID uuid.UUID, email string) (*types.Profile, error) {
	for id, profile := range r.profiles {
		if profile.Username == username {
			profile.AuthUserID = &authUserID
			profile.Email = email
			profile.Status = types.ProfileStatusActive
			r.profiles[id] = profile
			return &profile, nil
		}
	}
	return nil, types.ErrProfileNotFound
}

func (r *memProfileRepo) DeleteProfile(_ context.Context, id uuid.UUID) error {
	delete(r.profiles, id)
	return nil
}

func (r *memProfileRepo) ListProfiles(_ context.Context, filter types.StaffFilter) (types.StaffPage, error) {
	records := make([]types.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		records = append(records, profile)
	}
	return types.StaffPage{Profiles: records, Total: len(records)}, nil
}

type memPreferenceRepo struct {
	records []types.PreferenceRecord
}

func (r *memPreferenceRepo) ListPreferences(_ context.Context, filter types.PreferenceFilter) ([]types.PreferenceRecord, error) {
	out := make([]types.PreferenceRecord, 0)
	for _, record := range r.records {
		if record.Level != filter.Level {
			continue
		}
		if filter.Level == types.PreferenceLevelUser && record.UserID != filter.UserID {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *memPreferenceRepo) UpsertPreference(_ context.Context, record types.PreferenceRecord) (*types.PreferenceRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.UpdatedAt = time.Now()
	for i := range r.records {
		if r.records[i].UserID == record.UserID && r.records[i].Level == record.Level && r.records[i].Key == record.Key {
			r.records[i] = record
			return &record, nil
		}
	}
	r.records = append(r.records, record)
	return &record, nil
}

func (r *memPreferenceRepo) DeletePreference(_ context.Context, userID uuid.UUID, _ types.ScopeFilter, level types.PreferenceLevel, key string) error {
	kept := r.records[:0]
	for _, record := range r.records {
		if record.UserID == userID && record.Level == level && record.Key == key {
			continue
		}
		kept = append(kept, record)
	}
	r.records = kept
	return nil
}
