package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// FarmDeleteInput identifies the farm to remove.
type FarmDeleteInput struct {
	FarmID uuid.UUID
	Actor  types.ActorRef
	Scope  types.ScopeFilter
}

// Type implements gocommand.Message.
func (FarmDeleteInput) Type() string {
	return "command.farm.delete"
}

// Validate implements gocommand.Message.
func (input FarmDeleteInput) Validate() error {
	switch {
	case input.FarmID == uuid.Nil:
		return ErrFarmIDRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// FarmDeleteCommand removes a farm and cascades its sections and tanks.
type FarmDeleteCommand struct {
	repo   types.HierarchyRepository
	clock  types.Clock
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// NewFarmDeleteCommand constructs the delete handler.
func NewFarmDeleteCommand(cfg FarmCommandConfig) *FarmDeleteCommand {
	return &FarmDeleteCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[FarmDeleteInput] = (*FarmDeleteCommand)(nil)

// Execute removes the farm tree.
func (c *FarmDeleteCommand) Execute(ctx context.Context, input FarmDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingHierarchyRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionFarmsWrite, input.FarmID)
	if err != nil {
		return err
	}
	if !scopeFilter.GrantsFarm(input.FarmID) {
		return types.ErrUnauthorizedScope
	}

	if err := c.repo.DeleteFarm(ctx, input.FarmID); err != nil {
		return err
	}

	emitHierarchyHook(ctx, c.hooks, types.HierarchyEvent{
		FarmID:     input.FarmID,
		ActorID:    input.Actor.ID,
		Action:     "farm.deleted",
		Scope:      scopeFilter,
		OccurredAt: now(c.clock),
	})
	return nil
}
