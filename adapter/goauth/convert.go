package goauth

import (
	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-hatchery/pkg/types"
)

// UserToDomain converts the go-auth user model into the AuthUser consumed by
// profile claim commands.
func UserToDomain(user *auth.User) *types.AuthUser {
	return toAuthUser(user)
}

func toAuthUser(user *auth.User) *types.AuthUser {
	if user == nil {
		return nil
	}
	return &types.AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      string(user.Role),
		Metadata:  copyMetadata(user.Metadata),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Raw:       user,
	}
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for k, v := range origin {
		out[k] = v
	}
	return out
}
