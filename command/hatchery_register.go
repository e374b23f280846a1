package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
)

// HatcheryRegisterInput captures the owner signup payload: the hatchery
// organization plus its owner profile, created together.
type HatcheryRegisterInput struct {
	Name     string
	Location string
	Owner    *types.Profile
	Result   *HatcheryRegisterResult
}

// Type implements gocommand.Message.
func (HatcheryRegisterInput) Type() string {
	return "command.hatchery.register"
}

// Validate implements gocommand.Message.
func (input HatcheryRegisterInput) Validate() error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return ErrHatcheryNameRequired
	case input.Owner == nil:
		return ErrOwnerProfileRequired
	case strings.TrimSpace(input.Owner.Username) == "":
		return ErrUsernameRequired
	default:
		return nil
	}
}

// HatcheryRegisterResult exposes the created hatchery and owner profile.
type HatcheryRegisterResult struct {
	Hatchery *types.Hatchery
	Owner    *types.Profile
}

// HatcheryRegisterCommand provisions a hatchery together with its owner
// profile and seeds the default option catalogs. This is the self-signup
// entry point, so no actor or scope is enforced.
type HatcheryRegisterCommand struct {
	hatcheries types.HatcheryRepository
	profiles   types.ProfileRepository
	catalogs   types.CatalogRepository
	clock      types.Clock
	idGen      types.IDGenerator
	hooks      types.Hooks
	logger     types.Logger
}

// HatcheryRegisterConfig wires dependencies for owner signup.
type HatcheryRegisterConfig struct {
	HatcheryRepository types.HatcheryRepository
	ProfileRepository  types.ProfileRepository
	CatalogRepository  types.CatalogRepository
	Clock              types.Clock
	IDGen              types.IDGenerator
	Hooks              types.Hooks
	Logger             types.Logger
}

// NewHatcheryRegisterCommand constructs the signup handler.
func NewHatcheryRegisterCommand(cfg HatcheryRegisterConfig) *HatcheryRegisterCommand {
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &HatcheryRegisterCommand{
		hatcheries: cfg.HatcheryRepository,
		profiles:   cfg.ProfileRepository,
		catalogs:   cfg.CatalogRepository,
		clock:      safeClock(cfg.Clock),
		idGen:      idGen,
		hooks:      safeHooks(cfg.Hooks),
		logger:     safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[HatcheryRegisterInput] = (*HatcheryRegisterCommand)(nil)

// Execute creates the hatchery, the active owner profile, and the default
// catalogs.
func (c *HatcheryRegisterCommand) Execute(ctx context.Context, input HatcheryRegisterInput) error {
	if c.hatcheries == nil {
		return types.ErrMissingHatcheryRepository
	}
	if c.profiles == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	hatcheryID := c.idGen.UUID()
	occurredAt := now(c.clock)

	owner := *input.Owner
	owner.HatcheryID = hatcheryID
	owner.Role = types.ActorRoleOwner
	owner.Status = types.ProfileStatusActive
	createdOwner, err := c.profiles.CreateProfile(ctx, owner)
	if err != nil {
		return err
	}

	created, err := c.hatcheries.CreateHatchery(ctx, types.Hatchery{
		ID:             hatcheryID,
		Name:           strings.TrimSpace(input.Name),
		Location:       strings.TrimSpace(input.Location),
		OwnerProfileID: createdOwner.ID,
	})
	if err != nil {
		return err
	}

	if c.catalogs != nil {
		if err := c.catalogs.SeedDefaults(ctx, hatcheryID); err != nil {
			c.logger.Error("catalog seeding failed", err, "hatchery_id", hatcheryID)
		}
	}

	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		ProfileID:  createdOwner.ID,
		ActorID:    createdOwner.ID,
		Action:     "hatchery.registered",
		Scope:      types.ScopeFilter{HatcheryID: hatcheryID},
		OccurredAt: occurredAt,
		Profile:    *createdOwner,
	})

	if input.Result != nil {
		input.Result.Hatchery = created
		input.Result.Owner = createdOwner
	}
	return nil
}
