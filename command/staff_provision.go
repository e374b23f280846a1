package command

import (
	"context"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/google/uuid"
)

const defaultClaimTTL = 72 * time.Hour

// StaffProvisionInput carries the data required to pre-provision a staff
// member: the profile fields, the farms they may record against, and the
// acting owner.
type StaffProvisionInput struct {
	Profile *types.Profile
	FarmIDs []uuid.UUID
	Actor   types.ActorRef
	Scope   types.ScopeFilter
	Result  *StaffProvisionResult
}

// Type implements gocommand.Message.
func (StaffProvisionInput) Type() string {
	return "command.staff.provision"
}

// Validate implements gocommand.Message.
func (input StaffProvisionInput) Validate() error {
	switch {
	case input.Profile == nil:
		return ErrProfileRequired
	case strings.TrimSpace(input.Profile.Username) == "":
		return ErrUsernameRequired
	case input.Actor.ID == uuid.Nil:
		return ErrActorRequired
	default:
		return nil
	}
}

// StaffProvisionResult exposes the created profile and the claim link data.
type StaffProvisionResult struct {
	Profile   *types.Profile
	Token     string
	ExpiresAt time.Time
}

// StaffProvisionCommand creates a pending profile with no auth identity,
// replaces its farm grants, and issues a signed claim link the staff member
// uses to activate the account.
type StaffProvisionCommand struct {
	profiles types.ProfileRepository
	access   types.AccessRepository
	tokens   types.ActivationTokenRepository
	manager  types.SecureLinkManager
	clock    types.Clock
	idGen    types.IDGenerator
	hooks    types.Hooks
	logger   types.Logger
	tokenTTL time.Duration
	guard    scope.Guard
	route    string
}

// StaffProvisionConfig holds dependencies for the provisioning flow.
type StaffProvisionConfig struct {
	ProfileRepository types.ProfileRepository
	AccessRepository  types.AccessRepository
	TokenRepository   types.ActivationTokenRepository
	SecureLinks       types.SecureLinkManager
	Clock             types.Clock
	IDGen             types.IDGenerator
	Hooks             types.Hooks
	Logger            types.Logger
	TokenTTL          time.Duration
	ScopeGuard        scope.Guard
	Route             string
}

// NewStaffProvisionCommand constructs the provisioning handler.
func NewStaffProvisionCommand(cfg StaffProvisionConfig) *StaffProvisionCommand {
	ttl := cfg.TokenTTL
	if ttl == 0 && cfg.SecureLinks != nil {
		ttl = cfg.SecureLinks.GetExpiration()
	}
	if ttl == 0 {
		ttl = defaultClaimTTL
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	route := strings.TrimSpace(cfg.Route)
	if route == "" {
		route = SecureLinkRouteStaffClaim
	}
	return &StaffProvisionCommand{
		profiles: cfg.ProfileRepository,
		access:   cfg.AccessRepository,
		tokens:   cfg.TokenRepository,
		manager:  cfg.SecureLinks,
		clock:    safeClock(cfg.Clock),
		idGen:    idGen,
		hooks:    safeHooks(cfg.Hooks),
		logger:   safeLogger(cfg.Logger),
		tokenTTL: ttl,
		guard:    safeScopeGuard(cfg.ScopeGuard),
		route:    route,
	}
}

var _ gocommand.Commander[StaffProvisionInput] = (*StaffProvisionCommand)(nil)

// Execute provisions the profile, grants, and claim token.
func (c *StaffProvisionCommand) Execute(ctx context.Context, input StaffProvisionInput) error {
	if c.profiles == nil {
		return types.ErrMissingProfileRepository
	}
	if c.access == nil {
		return types.ErrMissingAccessRepository
	}
	if c.manager == nil {
		return types.ErrMissingSecureLinkManager
	}
	if c.tokens == nil {
		return types.ErrMissingTokenRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if !input.Actor.CanManageStaff() {
		return types.ErrUnauthorizedScope
	}

	scopeFilter, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionProfilesWrite, uuid.Nil)
	if err != nil {
		return err
	}

	profile := *input.Profile
	if profile.HatcheryID == uuid.Nil {
		profile.HatcheryID = scopeFilter.HatcheryID
	}
	if strings.TrimSpace(profile.Role) == "" {
		profile.Role = types.ActorRoleWorker
	}
	profile.AuthUserID = nil
	profile.Status = types.ProfileStatusPending

	created, err := c.profiles.CreateProfile(ctx, profile)
	if err != nil {
		return err
	}

	if err := c.access.ReplaceGrants(ctx, created.ID, input.FarmIDs); err != nil {
		return err
	}

	issuedAt := now(c.clock)
	expiresAt := issuedAt.Add(c.tokenTTL)
	jti := c.idGen.UUID().String()

	payload := buildSecureLinkPayload(
		SecureLinkActionClaim,
		created,
		scopeFilter,
		jti,
		issuedAt,
		expiresAt,
		secureLinkSourceDefault,
	)
	token, err := c.manager.Generate(c.route, payload)
	if err != nil {
		return err
	}

	if _, err := c.tokens.CreateToken(ctx, types.ActivationToken{
		ProfileID: created.ID,
		Type:      types.ActivationTokenClaim,
		JTI:       jti,
		Status:    types.ActivationTokenStatusIssued,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}); err != nil {
		return err
	}

	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		ProfileID:  created.ID,
		ActorID:    input.Actor.ID,
		Action:     "profile.provisioned",
		Scope:      scopeFilter,
		OccurredAt: issuedAt,
		Profile:    *created,
	})
	emitAccessHook(ctx, c.hooks, types.AccessEvent{
		UserID:     created.ID,
		ActorID:    input.Actor.ID,
		FarmIDs:    append([]uuid.UUID(nil), input.FarmIDs...),
		Scope:      scopeFilter,
		OccurredAt: issuedAt,
	})

	if input.Result != nil {
		*input.Result = StaffProvisionResult{
			Profile:   created,
			Token:     token,
			ExpiresAt: expiresAt,
		}
	}
	return nil
}
