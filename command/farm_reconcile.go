package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/hierarchy"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// FarmReconcileInput carries the complete edited tree for one farm. The
// differ decides what to insert, overwrite, and delete; the edit surface
// never submits partial patches.
type FarmReconcileInput struct {
	Draft  types.FarmDraft
	Actor  types.ActorRef
	Scope  types.ScopeFilter
	Result *types.ReconcilePlan
}

// Type implements gocommand.Message.
func (FarmReconcileInput) Type() string {
	return "command.farm.reconcile"
}

// Validate implements gocommand.Message.
func (input FarmReconcileInput) Validate() error {
	switch {
	case input.Draft.FarmID == uuid.Nil:
		return ErrFarmIDRequired
	case strings.TrimSpace(input.Draft.Name) == "":
		return ErrFarmNameRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// FarmReconcileCommand loads the persisted snapshot, diffs it against the
// edited draft, and applies the resulting plan in pass order.
type FarmReconcileCommand struct {
	repo   types.HierarchyRepository
	differ *hierarchy.Differ
	clock  types.Clock
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// FarmReconcileConfig wires dependencies for the reconcile command.
type FarmReconcileConfig struct {
	Repository types.HierarchyRepository
	Differ     *hierarchy.Differ
	Clock      types.Clock
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewFarmReconcileCommand constructs the reconcile handler.
func NewFarmReconcileCommand(cfg FarmReconcileConfig) *FarmReconcileCommand {
	differ := cfg.Differ
	if differ == nil {
		differ = hierarchy.NewDiffer(nil)
	}
	return &FarmReconcileCommand{
		repo:   cfg.Repository,
		differ: differ,
		clock:  safeClock(cfg.Clock),
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[FarmReconcileInput] = (*FarmReconcileCommand)(nil)

// Execute diffs and applies the edited tree. The executed plan is copied to
// Result so callers can inspect what changed.
func (c *FarmReconcileCommand) Execute(ctx context.Context, input FarmReconcileInput) error {
	if c.repo == nil {
		return types.ErrMissingHierarchyRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionFarmsWrite, input.Draft.FarmID)
	if err != nil {
		return err
	}
	if !scopeFilter.GrantsFarm(input.Draft.FarmID) {
		return types.ErrUnauthorizedScope
	}

	snapshot, err := c.repo.Snapshot(ctx, input.Draft.FarmID)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return ErrFarmNotFound
	}

	plan := c.differ.Diff(*snapshot, input.Draft)
	if err := c.repo.Apply(ctx, plan); err != nil {
		return err
	}

	emitHierarchyHook(ctx, c.hooks, types.HierarchyEvent{
		FarmID:     input.Draft.FarmID,
		ActorID:    input.Actor.ID,
		Action:     "farm.reconciled",
		Scope:      scopeFilter,
		OccurredAt: now(c.clock),
	})

	if input.Result != nil {
		*input.Result = plan
	}
	return nil
}
