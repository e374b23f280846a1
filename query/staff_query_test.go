package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStaffDirectoryQuery_NormalizesPagination(t *testing.T) {
	repo := &fakeProfileRepo{page: types.StaffPage{Total: 3}}
	q := NewStaffDirectoryQuery(repo, nil)

	page, err := q.Query(context.Background(), types.StaffFilter{
		Actor:      types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner},
		Pagination: types.Pagination{Limit: 0, Offset: -5},
	})

	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Equal(t, defaultStaffLimit, repo.lastFilter.Pagination.Limit)
	require.Equal(t, 0, repo.lastFilter.Pagination.Offset)
}

func TestStaffDirectoryQuery_CapsLimit(t *testing.T) {
	repo := &fakeProfileRepo{}
	q := NewStaffDirectoryQuery(repo, nil)

	_, err := q.Query(context.Background(), types.StaffFilter{
		Actor:      types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner},
		Pagination: types.Pagination{Limit: 5000},
	})

	require.NoError(t, err)
	require.Equal(t, maxStaffLimit, repo.lastFilter.Pagination.Limit)
}

func TestStaffDirectoryQuery_RequiresActor(t *testing.T) {
	q := NewStaffDirectoryQuery(&fakeProfileRepo{}, nil)

	_, err := q.Query(context.Background(), types.StaffFilter{})
	require.ErrorIs(t, err, types.ErrActorRequired)
}

// --- Test helpers ---

type fakeProfileRepo struct {
	page       types.StaffPage
	lastFilter types.StaffFilter
}

func (f *fakeProfileRepo) GetProfile(context.Context, uuid.UUID) (*types.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) GetProfileByUsername(context.Context, string) (*types.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) CreateProfile(_ context.Context, profile types.Profile) (*types.Profile, error) {
	return &profile, nil
}

func (f *fakeProfileRepo) UpdateProfile(_ context.Context, profile types.Profile) (*types.Profile, error) {
	return &profile, nil
}

func (f *fakeProfileRepo) ClaimProfile(context.Context, string, uuid.UUID, string) (*types.Profile, error) {
	return nil, types.ErrProfileNotFound
}

func (f *fakeProfileRepo) DeleteProfile(context.Context, uuid.UUID) error {
	return nil
}

func (f *fakeProfileRepo) ListProfiles(_ context.Context, filter types.StaffFilter) (types.StaffPage, error) {
	f.lastFilter = filter
	return f.page, nil
}
