package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMissingAuthRepository occurs when an identity lookup is requested but no
// upstream auth repository was configured.
var ErrMissingAuthRepository = errors.New("go-hatchery: missing auth repository")

// AuthUser is the storage-agnostic representation of an upstream identity
// provider account. Credentials and sessions live entirely upstream; the
// library only ever reads identity attributes to bind them to a profile.
type AuthUser struct {
	ID        uuid.UUID
	Email     string
	Username  string
	Role      string
	Metadata  map[string]any
	CreatedAt *time.Time
	UpdatedAt *time.Time
	Raw       any
}

// AuthRepository abstracts whichever upstream identity store the host sits
// on. Implementations typically wrap go-auth's Users repository, but any
// store that honors these semantics can be injected.
type AuthRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AuthUser, error)
	GetByIdentifier(ctx context.Context, identifier string) (*AuthUser, error)
}
