package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-hatchery/activity"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// ActivityUpdateInput carries replacement data for an existing entry.
type ActivityUpdateInput struct {
	ActivityID   uuid.UUID
	ActivityType types.ActivityType
	Data         map[string]any
	ProfileID    uuid.UUID
	Actor        types.ActorRef
	Scope        types.ScopeFilter
	Result       *types.ActivityEntry
}

// Type implements gocommand.Message.
func (ActivityUpdateInput) Type() string {
	return "command.activity.update"
}

// Validate implements gocommand.Message.
func (input ActivityUpdateInput) Validate() error {
	switch {
	case input.ActivityID == uuid.Nil:
		return ErrActivityIDRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// ActivityUpdateCommand edits a recorded entry. Edits are feature gated and
// restricted to the original author, or to an owner whose scope covers the
// entry's farm.
type ActivityUpdateCommand struct {
	repo        types.ActivityRepository
	clock       types.Clock
	hooks       types.Hooks
	logger      types.Logger
	guard       scope.Guard
	featureGate featuregate.FeatureGate
	editPolicy  activity.EditPolicy
}

// ActivityUpdateConfig wires dependencies for the edit flow.
type ActivityUpdateConfig struct {
	Repository  types.ActivityRepository
	Clock       types.Clock
	Hooks       types.Hooks
	Logger      types.Logger
	ScopeGuard  scope.Guard
	FeatureGate featuregate.FeatureGate
}

// NewActivityUpdateCommand constructs the update handler.
func NewActivityUpdateCommand(cfg ActivityUpdateConfig) *ActivityUpdateCommand {
	return &ActivityUpdateCommand{
		repo:        cfg.Repository,
		clock:       safeClock(cfg.Clock),
		hooks:       safeHooks(cfg.Hooks),
		logger:      safeLogger(cfg.Logger),
		guard:       safeScopeGuard(cfg.ScopeGuard),
		featureGate: cfg.FeatureGate,
	}
}

var _ gocommand.Commander[ActivityUpdateInput] = (*ActivityUpdateCommand)(nil)

// Execute checks the edit gate and policy, then persists the replacement.
func (c *ActivityUpdateCommand) Execute(ctx context.Context, input ActivityUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionActivityWrite, input.ActivityID)
	if err != nil {
		return err
	}

	if enabled, err := featureEnabled(ctx, c.featureGate, featureActivityEdit, scopeFilter, input.Actor.ID); err != nil {
		return err
	} else if !enabled {
		return ErrActivityEditDisabled
	}

	existing, err := c.repo.GetActivity(ctx, input.ActivityID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrActivityNotFound
	}

	if err := c.editPolicy.Allow(input.Actor, input.ProfileID, scopeFilter, *existing); err != nil {
		return err
	}

	entry := *existing
	if input.ActivityType != "" {
		entry.ActivityType = input.ActivityType
	}
	if input.Data != nil {
		entry.Data = cloneMap(input.Data)
	}
	if err := types.ValidatePayload(entry.ActivityType, entry.Data); err != nil {
		return err
	}

	updated, err := c.repo.UpdateActivity(ctx, entry)
	if err != nil {
		return err
	}

	emitActivityHook(ctx, c.hooks, types.ActivityEvent{
		Entry:      *updated,
		ActorID:    input.Actor.ID,
		Action:     "activity.updated",
		OccurredAt: now(c.clock),
	})

	if input.Result != nil && updated != nil {
		*input.Result = *updated
	}
	return nil
}
