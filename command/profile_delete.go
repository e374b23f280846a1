package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// ProfileDeleteInput identifies the staff profile to remove.
type ProfileDeleteInput struct {
	ProfileID uuid.UUID
	Actor     types.ActorRef
	Scope     types.ScopeFilter
}

// Type implements gocommand.Message.
func (ProfileDeleteInput) Type() string {
	return "command.profile.delete"
}

// Validate implements gocommand.Message.
func (input ProfileDeleteInput) Validate() error {
	switch {
	case input.ProfileID == uuid.Nil:
		return ErrProfileIDRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// ProfileDeleteCommand removes a staff member and everything keyed to them.
// Cascade order is activity logs, then farm grants, then the profile row, so
// an interrupted delete never leaves grants or logs pointing at a missing
// profile's dependents.
type ProfileDeleteCommand struct {
	profiles types.ProfileRepository
	access   types.AccessRepository
	activity types.ActivityRepository
	clock    types.Clock
	hooks    types.Hooks
	logger   types.Logger
	guard    scope.Guard
}

// ProfileDeleteConfig wires dependencies for the cascade delete.
type ProfileDeleteConfig struct {
	ProfileRepository  types.ProfileRepository
	AccessRepository   types.AccessRepository
	ActivityRepository types.ActivityRepository
	Clock              types.Clock
	Hooks              types.Hooks
	Logger             types.Logger
	ScopeGuard         scope.Guard
}

// NewProfileDeleteCommand constructs the delete handler.
func NewProfileDeleteCommand(cfg ProfileDeleteConfig) *ProfileDeleteCommand {
	return &ProfileDeleteCommand{
		profiles: cfg.ProfileRepository,
		access:   cfg.AccessRepository,
		activity: cfg.ActivityRepository,
		clock:    safeClock(cfg.Clock),
		hooks:    safeHooks(cfg.Hooks),
		logger:   safeLogger(cfg.Logger),
		guard:    safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ProfileDeleteInput] = (*ProfileDeleteCommand)(nil)

// Execute cascades the delete in fixed order.
func (c *ProfileDeleteCommand) Execute(ctx context.Context, input ProfileDeleteInput) error {
	if c.profiles == nil {
		return types.ErrMissingProfileRepository
	}
	if c.access == nil {
		return types.ErrMissingAccessRepository
	}
	if c.activity == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if !input.Actor.CanManageStaff() {
		return types.ErrUnauthorizedScope
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionProfilesWrite, input.ProfileID)
	if err != nil {
		return err
	}

	profile, err := c.profiles.GetProfile(ctx, input.ProfileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return types.ErrProfileNotFound
	}

	if err := c.activity.DeleteActivityByUser(ctx, input.ProfileID); err != nil {
		return err
	}
	if err := c.access.DeleteGrantsByUser(ctx, input.ProfileID); err != nil {
		return err
	}
	if err := c.profiles.DeleteProfile(ctx, input.ProfileID); err != nil {
		return err
	}

	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		ProfileID:  input.ProfileID,
		ActorID:    input.Actor.ID,
		Action:     "profile.deleted",
		Scope:      scopeFilter,
		OccurredAt: now(c.clock),
		Profile:    *profile,
	})
	return nil
}
