package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

const (
	defaultStaffLimit = 25
	maxStaffLimit     = 200
)

// StaffDirectoryQuery lists staff profiles for the management screens.
type StaffDirectoryQuery struct {
	repo  types.ProfileRepository
	guard scope.Guard
}

// NewStaffDirectoryQuery constructs the directory query helper.
func NewStaffDirectoryQuery(repo types.ProfileRepository, guard scope.Guard) *StaffDirectoryQuery {
	return &StaffDirectoryQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.StaffFilter, types.StaffPage] = (*StaffDirectoryQuery)(nil)

// Query delegates to the configured repository after normalizing pagination.
func (q *StaffDirectoryQuery) Query(ctx context.Context, filter types.StaffFilter) (types.StaffPage, error) {
	if q.repo == nil {
		return types.StaffPage{}, types.ErrMissingProfileRepository
	}
	if err := filter.Validate(); err != nil {
		return types.StaffPage{}, err
	}
	scope, err := q.guard.Enforce(ctx, filter.Actor, filter.Scope, types.PolicyActionProfilesRead, uuid.Nil)
	if err != nil {
		return types.StaffPage{}, err
	}
	filter.Scope = scope
	normalized := normalizeStaffFilter(filter)
	return q.repo.ListProfiles(ctx, normalized)
}

func normalizeStaffFilter(filter types.StaffFilter) types.StaffFilter {
	out := filter
	if out.Pagination.Limit <= 0 {
		out.Pagination.Limit = defaultStaffLimit
	}
	if out.Pagination.Limit > maxStaffLimit {
		out.Pagination.Limit = maxStaffLimit
	}
	if out.Pagination.Offset < 0 {
		out.Pagination.Offset = 0
	}
	return out
}
