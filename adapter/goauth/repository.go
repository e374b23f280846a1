package goauth

import (
	"context"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

// IdentityStore is the subset of go-auth's Users repository the adapter
// needs. Credentials, sessions, and lifecycle transitions stay upstream;
// profile claiming only ever reads identity attributes.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (*auth.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error)
}

// UsersAdapter wraps a go-auth Users repository so it satisfies the
// go-hatchery AuthRepository interface used during staff claim.
type UsersAdapter struct {
	repo IdentityStore
}

// NewUsersAdapter builds a UsersAdapter around the upstream identity store.
func NewUsersAdapter(repo IdentityStore) *UsersAdapter {
	return &UsersAdapter{repo: repo}
}

var _ types.AuthRepository = (*UsersAdapter)(nil)

// GetByID loads an identity by UUID.
func (a *UsersAdapter) GetByID(ctx context.Context, id uuid.UUID) (*types.AuthUser, error) {
	if a == nil || a.repo == nil {
		return nil, types.ErrMissingAuthRepository
	}
	record, err := a.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}
	return toAuthUser(record), nil
}

// GetByIdentifier loads an identity using email/username/UUID.
func (a *UsersAdapter) GetByIdentifier(ctx context.Context, identifier string) (*types.AuthUser, error) {
	if a == nil || a.repo == nil {
		return nil, types.ErrMissingAuthRepository
	}
	record, err := a.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return toAuthUser(record), nil
}
