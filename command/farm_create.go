package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// FarmCreateInput carries the full farm tree built by the editor: the farm
// name plus its sections and tanks.
type FarmCreateInput struct {
	Name     string
	Sections []types.SectionDraft
	Actor    types.ActorRef
	Scope    types.ScopeFilter
	Result   *types.Farm
}

// Type implements gocommand.Message.
func (FarmCreateInput) Type() string {
	return "command.farm.create"
}

// Validate implements gocommand.Message.
func (input FarmCreateInput) Validate() error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return ErrFarmNameRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	case input.Scope.HatcheryID == uuid.Nil:
		return types.ErrHatcheryIDRequired
	default:
		return nil
	}
}

// FarmCommandConfig wires dependencies shared by the farm commands.
type FarmCommandConfig struct {
	Repository types.HierarchyRepository
	Clock      types.Clock
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// FarmCreateCommand persists a new farm with its section/tank tree. Tank
// geometry is computed by the repository before every write.
type FarmCreateCommand struct {
	repo   types.HierarchyRepository
	clock  types.Clock
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// NewFarmCreateCommand constructs the create handler.
func NewFarmCreateCommand(cfg FarmCommandConfig) *FarmCreateCommand {
	return &FarmCreateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[FarmCreateInput] = (*FarmCreateCommand)(nil)

// Execute creates the farm tree and emits the hierarchy event.
func (c *FarmCreateCommand) Execute(ctx context.Context, input FarmCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingHierarchyRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionFarmsWrite, uuid.Nil)
	if err != nil {
		return err
	}

	created, err := c.repo.CreateFarm(ctx, types.Farm{
		HatcheryID: scopeFilter.HatcheryID,
		Name:       strings.TrimSpace(input.Name),
	}, input.Sections)
	if err != nil {
		return err
	}

	emitHierarchyHook(ctx, c.hooks, types.HierarchyEvent{
		FarmID:     created.ID,
		ActorID:    input.Actor.ID,
		Action:     "farm.created",
		Scope:      scopeFilter,
		OccurredAt: now(c.clock),
	})

	if input.Result != nil && created != nil {
		*input.Result = *created
	}
	return nil
}
