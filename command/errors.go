package command

import (
	"errors"

	"github.com/goliatone/go-hatchery/pkg/types"
)

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = types.ErrActorRequired
	// ErrHatcheryNameRequired indicates owner registration omitted the name.
	ErrHatcheryNameRequired = errors.New("go-hatchery: hatchery name required")
	// ErrOwnerProfileRequired indicates owner registration omitted the owner.
	ErrOwnerProfileRequired = errors.New("go-hatchery: owner profile required")
	// ErrFarmNameRequired indicates a farm command omitted the farm name.
	ErrFarmNameRequired = errors.New("go-hatchery: farm name required")
	// ErrFarmIDRequired indicates a farm command omitted the farm id.
	ErrFarmIDRequired = types.ErrFarmIDRequired
	// ErrFarmNotFound indicates the requested farm does not exist.
	ErrFarmNotFound = errors.New("go-hatchery: farm not found")
	// ErrProfileRequired indicates a staff command omitted the profile payload.
	ErrProfileRequired = errors.New("go-hatchery: profile payload required")
	// ErrUsernameRequired indicates a staff command omitted the username.
	ErrUsernameRequired = errors.New("go-hatchery: username required")
	// ErrProfileIDRequired indicates a profile command omitted the profile id.
	ErrProfileIDRequired = errors.New("go-hatchery: profile id required")
	// ErrUserIDRequired occurs when grant commands omit the user.
	ErrUserIDRequired = types.ErrUserIDRequired
	// ErrTankRequired indicates an activity entry omitted the tank.
	ErrTankRequired = errors.New("go-hatchery: tank required")
	// ErrActivityTypeRequired indicates an activity entry omitted its type.
	ErrActivityTypeRequired = errors.New("go-hatchery: activity type required")
	// ErrActivityIDRequired indicates an activity edit omitted the entry id.
	ErrActivityIDRequired = errors.New("go-hatchery: activity id required")
	// ErrActivityNotFound indicates the requested activity entry is missing.
	ErrActivityNotFound = errors.New("go-hatchery: activity not found")
	// ErrActivityEditDisabled indicates the edit flow is disabled via feature gate.
	ErrActivityEditDisabled = errors.New("go-hatchery: activity edit disabled")
	// ErrSignupDisabled indicates the staff claim flow is disabled via feature gate.
	ErrSignupDisabled = errors.New("go-hatchery: staff signup disabled")
	// ErrPreferenceKeyRequired indicates the preference key was missing.
	ErrPreferenceKeyRequired = errors.New("go-hatchery: preference key required")
	// ErrPreferenceValueRequired indicates the preference value payload was missing.
	ErrPreferenceValueRequired = errors.New("go-hatchery: preference value required")
	// ErrTokenRequired indicates a securelink token was missing.
	ErrTokenRequired = errors.New("go-hatchery: token required")
	// ErrTokenTypeRequired indicates a token type was missing.
	ErrTokenTypeRequired = errors.New("go-hatchery: token type required")
	// ErrTokenJTIRequired indicates the token payload lacked a JTI.
	ErrTokenJTIRequired = errors.New("go-hatchery: token jti required")
	// ErrTokenNotFound indicates the token registry has no matching record.
	ErrTokenNotFound = errors.New("go-hatchery: token not found")
	// ErrTokenExpired indicates the token has expired.
	ErrTokenExpired = types.ErrTokenExpired
	// ErrTokenAlreadyUsed indicates the token has already been consumed.
	ErrTokenAlreadyUsed = types.ErrTokenConsumed
	// ErrTokenProfileMismatch indicates the token was minted for another profile.
	ErrTokenProfileMismatch = errors.New("go-hatchery: token profile mismatch")
	// ErrAuthIdentityRequired indicates a claim omitted the auth identity.
	ErrAuthIdentityRequired = errors.New("go-hatchery: auth identity required")
)
