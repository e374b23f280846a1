package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivationTokenType identifies token kinds stored in activation_tokens.
type ActivationTokenType string

const (
	// ActivationTokenClaim is issued when staff are provisioned and consumed
	// when they claim their pre-assigned username.
	ActivationTokenClaim ActivationTokenType = "claim"
)

// ActivationTokenStatus tracks lifecycle state for activation_tokens records.
type ActivationTokenStatus string

const (
	ActivationTokenStatusIssued  ActivationTokenStatus = "issued"
	ActivationTokenStatusUsed    ActivationTokenStatus = "used"
	ActivationTokenStatusExpired ActivationTokenStatus = "expired"
)

// ActivationToken captures persisted staff activation token metadata.
type ActivationToken struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Type      ActivationTokenType
	JTI       string
	Status    ActivationTokenStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
	UsedAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivationTokenRepository persists staff claim tokens.
type ActivationTokenRepository interface {
	CreateToken(ctx context.Context, token ActivationToken) (*ActivationToken, error)
	GetTokenByJTI(ctx context.Context, tokenType ActivationTokenType, jti string) (*ActivationToken, error)
	UpdateTokenStatus(ctx context.Context, tokenType ActivationTokenType, jti string, status ActivationTokenStatus, usedAt time.Time) error
}

var (
	// ErrMissingSecureLinkManager occurs when securelink manager is not configured.
	ErrMissingSecureLinkManager = errors.New("go-hatchery: missing securelink manager")
	// ErrMissingTokenRepository occurs when token persistence is unavailable.
	ErrMissingTokenRepository = errors.New("go-hatchery: missing activation token repository")
	// ErrTokenExpired indicates the claim token is past its expiry.
	ErrTokenExpired = errors.New("go-hatchery: activation token expired")
	// ErrTokenConsumed indicates the claim token was already used.
	ErrTokenConsumed = errors.New("go-hatchery: activation token already used")
)
