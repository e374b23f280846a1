package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// ActivityRecordInput carries a new activity entry to persist.
type ActivityRecordInput struct {
	Entry  types.ActivityEntry
	Actor  types.ActorRef
	Scope  types.ScopeFilter
	Result *types.ActivityEntry
}

// Type implements gocommand.Message.
func (ActivityRecordInput) Type() string {
	return "command.activity.record"
}

// Validate implements gocommand.Message.
func (input ActivityRecordInput) Validate() error {
	switch {
	case input.Entry.TankID == uuid.Nil:
		return ErrTankRequired
	case input.Entry.ActivityType == "":
		return ErrActivityTypeRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// ActivityRecordCommand validates and persists a single activity log entry.
type ActivityRecordCommand struct {
	repo   types.ActivityRepository
	clock  types.Clock
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// ActivityCommandConfig wires dependencies shared by record and update.
type ActivityCommandConfig struct {
	Repository types.ActivityRepository
	Clock      types.Clock
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewActivityRecordCommand constructs the record handler.
func NewActivityRecordCommand(cfg ActivityCommandConfig) *ActivityRecordCommand {
	return &ActivityRecordCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ActivityRecordInput] = (*ActivityRecordCommand)(nil)

// Execute validates the payload for the activity type and inserts the entry.
func (c *ActivityRecordCommand) Execute(ctx context.Context, input ActivityRecordInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionActivityWrite, input.Entry.TankID)
	if err != nil {
		return err
	}
	if input.Entry.FarmID != uuid.Nil && !scopeFilter.GrantsFarm(input.Entry.FarmID) {
		return types.ErrUnauthorizedScope
	}

	entry := input.Entry
	if err := types.ValidatePayload(entry.ActivityType, entry.Data); err != nil {
		return err
	}
	if entry.UserID == uuid.Nil {
		entry.UserID = input.Actor.ID
	}
	if entry.HatcheryID == uuid.Nil {
		entry.HatcheryID = scopeFilter.HatcheryID
	}

	created, err := c.repo.InsertActivity(ctx, entry)
	if err != nil {
		return err
	}

	emitActivityHook(ctx, c.hooks, types.ActivityEvent{
		Entry:      *created,
		ActorID:    input.Actor.ID,
		Action:     "activity.recorded",
		OccurredAt: now(c.clock),
	})

	if input.Result != nil && created != nil {
		*input.Result = *created
	}
	return nil
}
