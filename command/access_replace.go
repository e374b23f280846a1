package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

// AccessReplaceInput swaps a staff member's farm grant set wholesale.
type AccessReplaceInput struct {
	UserID  uuid.UUID
	FarmIDs []uuid.UUID
	Actor   types.ActorRef
	Scope   types.ScopeFilter
}

// Type implements gocommand.Message.
func (AccessReplaceInput) Type() string {
	return "command.access.replace"
}

// Validate implements gocommand.Message.
func (input AccessReplaceInput) Validate() error {
	switch {
	case input.UserID == uuid.Nil:
		return ErrUserIDRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// AccessReplaceCommand replaces the full grant set for one user. The store
// deletes every existing grant before inserting the new set; an empty FarmIDs
// slice revokes all access.
type AccessReplaceCommand struct {
	repo   types.AccessRepository
	clock  types.Clock
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// AccessReplaceConfig wires dependencies for grant replacement.
type AccessReplaceConfig struct {
	Repository types.AccessRepository
	Clock      types.Clock
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewAccessReplaceCommand constructs the handler.
func NewAccessReplaceCommand(cfg AccessReplaceConfig) *AccessReplaceCommand {
	return &AccessReplaceCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[AccessReplaceInput] = (*AccessReplaceCommand)(nil)

// Execute swaps the grant set and emits the access event.
func (c *AccessReplaceCommand) Execute(ctx context.Context, input AccessReplaceInput) error {
	if c.repo == nil {
		return types.ErrMissingAccessRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionAccessWrite, input.UserID)
	if err != nil {
		return err
	}

	if err := c.repo.ReplaceGrants(ctx, input.UserID, input.FarmIDs); err != nil {
		return err
	}

	emitAccessHook(ctx, c.hooks, types.AccessEvent{
		UserID:     input.UserID,
		ActorID:    input.Actor.ID,
		FarmIDs:    append([]uuid.UUID(nil), input.FarmIDs...),
		Scope:      scopeFilter,
		OccurredAt: now(c.clock),
	})
	return nil
}
