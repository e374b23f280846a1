package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

// ProfileClaimInput binds an external auth identity to a pre-provisioned
// profile via its claim token.
type ProfileClaimInput struct {
	Token      string
	Username   string
	AuthUserID uuid.UUID
	Email      string
	Scope      types.ScopeFilter
	Result     *types.Profile
}

// Type implements gocommand.Message.
func (ProfileClaimInput) Type() string {
	return "command.profile.claim"
}

// Validate implements gocommand.Message.
func (input ProfileClaimInput) Validate() error {
	switch {
	case strings.TrimSpace(input.Token) == "":
		return ErrTokenRequired
	case input.AuthUserID == uuid.Nil:
		return ErrAuthIdentityRequired
	default:
		return nil
	}
}

// ProfileClaimCommand validates the claim token, consumes it, and activates
// the profile by binding the auth identity to the pre-assigned username.
type ProfileClaimCommand struct {
	profiles    types.ProfileRepository
	tokens      types.ActivationTokenRepository
	auth        types.AuthRepository
	validator   tokenValidator
	clock       types.Clock
	hooks       types.Hooks
	logger      types.Logger
	featureGate featuregate.FeatureGate
}

// ProfileClaimConfig holds dependencies for the claim flow.
type ProfileClaimConfig struct {
	ProfileRepository types.ProfileRepository
	TokenRepository   types.ActivationTokenRepository
	AuthRepository    types.AuthRepository
	SecureLinks       types.SecureLinkManager
	ScopeEnforcer     types.ScopeEnforcer
	Clock             types.Clock
	Hooks             types.Hooks
	Logger            types.Logger
	FeatureGate       featuregate.FeatureGate
}

// NewProfileClaimCommand constructs the claim handler.
func NewProfileClaimCommand(cfg ProfileClaimConfig) *ProfileClaimCommand {
	clock := safeClock(cfg.Clock)
	return &ProfileClaimCommand{
		profiles:    cfg.ProfileRepository,
		tokens:      cfg.TokenRepository,
		auth:        cfg.AuthRepository,
		validator:   newTokenValidator(clock, cfg.TokenRepository, cfg.SecureLinks, cfg.ScopeEnforcer),
		clock:       clock,
		hooks:       safeHooks(cfg.Hooks),
		logger:      safeLogger(cfg.Logger),
		featureGate: cfg.FeatureGate,
	}
}

var _ gocommand.Commander[ProfileClaimInput] = (*ProfileClaimCommand)(nil)

// Execute validates and consumes the token, then activates the profile.
func (c *ProfileClaimCommand) Execute(ctx context.Context, input ProfileClaimInput) error {
	if c.profiles == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	payload, record, err := c.validator.validate(ctx, input.Token, types.ActivationTokenClaim, input.Scope)
	if err != nil {
		return err
	}

	claimScope := scopeFromPayload(payload)
	if enabled, err := featureEnabled(ctx, c.featureGate, featureStaffSignup, claimScope, input.AuthUserID); err != nil {
		return err
	} else if !enabled {
		return ErrSignupDisabled
	}

	username := types.NormalizeUsername(input.Username)
	if username == "" {
		username = types.NormalizeUsername(payloadString(payload, "username"))
	}
	if username == "" {
		return ErrUsernameRequired
	}

	if profileID := payloadUUID(payload, "profile_id"); profileID != uuid.Nil {
		existing, err := c.profiles.GetProfile(ctx, profileID)
		if err != nil {
			return err
		}
		if existing == nil || types.NormalizeUsername(existing.Username) != username {
			return ErrTokenProfileMismatch
		}
	}

	email := strings.TrimSpace(input.Email)
	if c.auth != nil {
		identity, err := c.auth.GetByID(ctx, input.AuthUserID)
		if err != nil {
			return err
		}
		if identity == nil {
			return ErrAuthIdentityRequired
		}
		if email == "" {
			email = strings.TrimSpace(identity.Email)
		}
	}

	usedAt := now(c.clock)
	if err := c.validator.consume(ctx, types.ActivationTokenClaim, record, usedAt); err != nil {
		return err
	}

	claimed, err := c.profiles.ClaimProfile(ctx, username, input.AuthUserID, email)
	if err != nil {
		return err
	}

	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		ProfileID:  claimed.ID,
		ActorID:    input.AuthUserID,
		Action:     "profile.claimed",
		Scope:      types.ScopeFilter{HatcheryID: claimed.HatcheryID},
		OccurredAt: usedAt,
		Profile:    *claimed,
	})

	if input.Result != nil && claimed != nil {
		*input.Result = *claimed
	}
	return nil
}
