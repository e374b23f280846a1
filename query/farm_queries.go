package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/access"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// FarmTreeInput scopes farm tree lookups.
type FarmTreeInput struct {
	Actor types.ActorRef
	Scope types.ScopeFilter
}

// Type implements gocommand.Message.
func (FarmTreeInput) Type() string {
	return "query.farm.tree"
}

// Validate implements gocommand.Message.
func (input FarmTreeInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return types.ErrActorRequired
	}
	return nil
}

// FarmTreeQuery loads every visible farm joined with its sections and tanks,
// for the management views.
type FarmTreeQuery struct {
	repo  types.HierarchyRepository
	guard scope.Guard
}

// NewFarmTreeQuery constructs the tree query helper.
func NewFarmTreeQuery(repo types.HierarchyRepository, guard scope.Guard) *FarmTreeQuery {
	return &FarmTreeQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[FarmTreeInput, []types.FarmTree] = (*FarmTreeQuery)(nil)

// Query returns the joined farm trees within the resolved scope.
func (q *FarmTreeQuery) Query(ctx context.Context, input FarmTreeInput) ([]types.FarmTree, error) {
	if q.repo == nil {
		return nil, types.ErrMissingHierarchyRepository
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	scope, err := q.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionFarmsRead, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return q.repo.FullTree(ctx, scope)
}

// TankPickerInput scopes the tank picker projection to one staff member.
type TankPickerInput struct {
	UserID uuid.UUID
	Actor  types.ActorRef
	Scope  types.ScopeFilter
}

// Type implements gocommand.Message.
func (TankPickerInput) Type() string {
	return "query.farm.tank_picker"
}

// Validate implements gocommand.Message.
func (input TankPickerInput) Validate() error {
	switch {
	case input.UserID == uuid.Nil:
		return types.ErrUserIDRequired
	case input.Actor.ID == uuid.Nil:
		return types.ErrActorRequired
	default:
		return nil
	}
}

// TankPickerQuery projects the hierarchy down to the sections and tanks one
// staff member may record against: their granted farms only, sections without
// tanks dropped. An empty grant set means owner visibility.
type TankPickerQuery struct {
	hierarchy types.HierarchyRepository
	access    types.AccessRepository
	guard     scope.Guard
}

// NewTankPickerQuery constructs the picker query helper.
func NewTankPickerQuery(hierarchy types.HierarchyRepository, accessRepo types.AccessRepository, guard scope.Guard) *TankPickerQuery {
	return &TankPickerQuery{
		hierarchy: hierarchy,
		access:    accessRepo,
		guard:     safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[TankPickerInput, []types.SectionView] = (*TankPickerQuery)(nil)

// Query loads the user's grants, the visible trees, and projects the picker.
func (q *TankPickerQuery) Query(ctx context.Context, input TankPickerInput) ([]types.SectionView, error) {
	if q.hierarchy == nil {
		return nil, types.ErrMissingHierarchyRepository
	}
	if q.access == nil {
		return nil, types.ErrMissingAccessRepository
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	scope, err := q.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionFarmsRead, input.UserID)
	if err != nil {
		return nil, err
	}

	grants, err := q.access.ListGrants(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	trees, err := q.hierarchy.FullTree(ctx, types.ScopeFilter{HatcheryID: scope.HatcheryID})
	if err != nil {
		return nil, err
	}
	return access.VisibleTanks(input.Actor, grants, trees), nil
}
