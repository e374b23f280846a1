package command

import (
	"context"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type tokenValidator struct {
	tokens   types.ActivationTokenRepository
	manager  types.SecureLinkManager
	clock    types.Clock
	enforcer types.ScopeEnforcer
}

func newTokenValidator(clock types.Clock, tokens types.ActivationTokenRepository, manager types.SecureLinkManager, enforcer types.ScopeEnforcer) tokenValidator {
	return tokenValidator{
		tokens:   tokens,
		manager:  manager,
		clock:    safeClock(clock),
		enforcer: enforcer,
	}
}

func (v tokenValidator) validate(ctx context.Context, token string, tokenType types.ActivationTokenType, scope types.ScopeFilter) (types.SecureLinkPayload, *types.ActivationToken, error) {
	if v.manager == nil {
		return nil, nil, types.ErrMissingSecureLinkManager
	}
	if v.tokens == nil {
		return nil, nil, types.ErrMissingTokenRepository
	}
	if strings.TrimSpace(token) == "" {
		return nil, nil, ErrTokenRequired
	}
	if tokenType == "" {
		return nil, nil, ErrTokenTypeRequired
	}

	payloadMap, err := v.manager.Validate(token)
	if err != nil {
		return nil, nil, err
	}
	payload := types.SecureLinkPayload(payloadMap)
	jti := payloadString(payload, "jti")
	if jti == "" {
		return nil, nil, ErrTokenJTIRequired
	}

	record, err := v.tokens.GetTokenByJTI(ctx, tokenType, jti)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, ErrTokenNotFound
	}
	if record.Status == types.ActivationTokenStatusUsed || !record.UsedAt.IsZero() {
		return nil, nil, ErrTokenAlreadyUsed
	}
	if record.Status == types.ActivationTokenStatusExpired {
		return nil, nil, ErrTokenExpired
	}

	expiresAt := record.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = payloadTime(payload, "expires_at")
	}
	if !expiresAt.IsZero() && now(v.clock).After(expiresAt) {
		_ = v.tokens.UpdateTokenStatus(ctx, tokenType, jti, types.ActivationTokenStatusExpired, time.Time{})
		return nil, nil, ErrTokenExpired
	}

	payloadProfileID := payloadUUID(payload, "profile_id")
	if payloadProfileID != uuid.Nil && record.ProfileID != uuid.Nil && payloadProfileID != record.ProfileID {
		return nil, nil, ErrTokenProfileMismatch
	}

	if v.enforcer != nil {
		if err := v.enforcer(ctx, payload, scope); err != nil {
			return nil, nil, err
		}
	}

	return payload, record, nil
}

func (v tokenValidator) consume(ctx context.Context, tokenType types.ActivationTokenType, record *types.ActivationToken, usedAt time.Time) error {
	if record == nil {
		return ErrTokenNotFound
	}
	if err := v.tokens.UpdateTokenStatus(ctx, tokenType, record.JTI, types.ActivationTokenStatusUsed, usedAt); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			latest, lookupErr := v.tokens.GetTokenByJTI(ctx, tokenType, record.JTI)
			if lookupErr == nil {
				if latest == nil {
					return ErrTokenNotFound
				}
				if !latest.ExpiresAt.IsZero() && usedAt.After(latest.ExpiresAt) {
					return ErrTokenExpired
				}
				if latest.Status == types.ActivationTokenStatusExpired {
					return ErrTokenExpired
				}
				if latest.Status == types.ActivationTokenStatusUsed || !latest.UsedAt.IsZero() {
					return ErrTokenAlreadyUsed
				}
			}
			return ErrTokenAlreadyUsed
		}
		if repository.IsRecordNotFound(err) {
			return ErrTokenNotFound
		}
		return err
	}
	record.Status = types.ActivationTokenStatusUsed
	record.UsedAt = usedAt
	return nil
}

// TokenValidateInput validates an activation token without consuming it, so
// claim pages can render the pre-assigned username before the user commits.
type TokenValidateInput struct {
	Token     string
	TokenType types.ActivationTokenType
	Scope     types.ScopeFilter
	Result    *TokenValidateResult
}

// Type implements gocommand.Message.
func (TokenValidateInput) Type() string {
	return "command.token.validate"
}

// Validate implements gocommand.Message.
func (input TokenValidateInput) Validate() error {
	if strings.TrimSpace(input.Token) == "" {
		return ErrTokenRequired
	}
	if input.TokenType == "" {
		return ErrTokenTypeRequired
	}
	return nil
}

// TokenValidateResult exposes the decoded payload and token record.
type TokenValidateResult struct {
	Token   *types.ActivationToken
	Payload types.SecureLinkPayload
}

// TokenValidateCommand verifies securelink tokens against stored metadata.
type TokenValidateCommand struct {
	validator tokenValidator
}

// TokenValidateConfig holds dependencies for validation.
type TokenValidateConfig struct {
	TokenRepository types.ActivationTokenRepository
	SecureLinks     types.SecureLinkManager
	Clock           types.Clock
	ScopeEnforcer   types.ScopeEnforcer
}

// NewTokenValidateCommand constructs the validation handler.
func NewTokenValidateCommand(cfg TokenValidateConfig) *TokenValidateCommand {
	return &TokenValidateCommand{
		validator: newTokenValidator(cfg.Clock, cfg.TokenRepository, cfg.SecureLinks, cfg.ScopeEnforcer),
	}
}

var _ gocommand.Commander[TokenValidateInput] = (*TokenValidateCommand)(nil)

// Execute validates the token and returns the payload.
func (c *TokenValidateCommand) Execute(ctx context.Context, input TokenValidateInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	payload, record, err := c.validator.validate(ctx, input.Token, input.TokenType, input.Scope)
	if err != nil {
		return err
	}
	if input.Result != nil {
		input.Result.Token = record
		input.Result.Payload = payload
	}
	return nil
}
