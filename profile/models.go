package profile

import (
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the profiles row.
type Record struct {
	bun.BaseModel `bun:"table:profiles"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	AuthUserID *uuid.UUID `bun:"auth_user_id,type:uuid,nullzero"`
	Username   string     `bun:"username"`
	FullName   string     `bun:"full_name"`
	Email      string     `bun:"email"`
	Phone      string     `bun:"phone"`
	Role       string     `bun:"role"`
	HatcheryID uuid.UUID  `bun:"hatchery_id,type:uuid"`
	Status     string     `bun:"status"`
	CreatedAt  time.Time  `bun:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at"`
}

func toDomain(rec *Record) *types.Profile {
	if rec == nil {
		return nil
	}
	return &types.Profile{
		ID:         rec.ID,
		AuthUserID: rec.AuthUserID,
		Username:   rec.Username,
		FullName:   rec.FullName,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Role:       rec.Role,
		HatcheryID: rec.HatcheryID,
		Status:     types.ProfileStatus(rec.Status),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func fromDomain(profile types.Profile) *Record {
	return &Record{
		ID:         profile.ID,
		AuthUserID: profile.AuthUserID,
		Username:   types.NormalizeUsername(profile.Username),
		FullName:   profile.FullName,
		Email:      profile.Email,
		Phone:      profile.Phone,
		Role:       profile.Role,
		HatcheryID: profile.HatcheryID,
		Status:     string(profile.Status),
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
}
