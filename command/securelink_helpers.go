package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

const (
	SecureLinkActionClaim = "claim"
)

const (
	SecureLinkRouteStaffClaim = "staff_claim"
)

const secureLinkSourceDefault = "go-hatchery"

func buildSecureLinkPayload(action string, profile *types.Profile, scope types.ScopeFilter, jti string, issuedAt, expiresAt time.Time, source string) types.SecureLinkPayload {
	payload := types.SecureLinkPayload{
		"action": action,
		"jti":    strings.TrimSpace(jti),
	}
	if profile != nil {
		if profile.ID != uuid.Nil {
			payload["profile_id"] = profile.ID.String()
		}
		if username := strings.TrimSpace(profile.Username); username != "" {
			payload["username"] = username
		}
		if email := strings.TrimSpace(profile.Email); email != "" {
			payload["email"] = email
		}
	}
	if !issuedAt.IsZero() {
		payload["issued_at"] = issuedAt.Format(time.RFC3339Nano)
	}
	if !expiresAt.IsZero() {
		payload["expires_at"] = expiresAt.Format(time.RFC3339Nano)
	}
	if scope.HatcheryID != uuid.Nil {
		payload["hatchery_id"] = scope.HatcheryID.String()
	}
	if strings.TrimSpace(source) != "" {
		payload["source"] = strings.TrimSpace(source)
	}
	return payload
}

func payloadString(payload types.SecureLinkPayload, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func payloadUUID(payload types.SecureLinkPayload, key string) uuid.UUID {
	value := payloadString(payload, key)
	if value == "" {
		return uuid.Nil
	}
	id, _ := uuid.Parse(value)
	return id
}

func payloadTime(payload types.SecureLinkPayload, key string) time.Time {
	if payload == nil {
		return time.Time{}
	}
	value, ok := payload[key]
	if !ok {
		return time.Time{}
	}
	return parseTimeValue(value)
}

func parseTimeValue(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v)); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func scopeFromPayload(payload types.SecureLinkPayload) types.ScopeFilter {
	return types.ScopeFilter{
		HatcheryID: payloadUUID(payload, "hatchery_id"),
	}
}
