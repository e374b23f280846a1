package crudsvc

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

func queryUUID(ctx crud.Context, key string) uuid.UUID {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func queryStringSlice(ctx crud.Context, key string) []string {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func queryInt(ctx crud.Context, key string, def int) int {
	if value := ctx.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

func queryTime(ctx crud.Context, key string) *time.Time {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseProfileStatuses(ctx crud.Context, key string) []types.ProfileStatus {
	values := queryStringSlice(ctx, key)
	if len(values) == 0 {
		return nil
	}
	statuses := make([]types.ProfileStatus, 0, len(values))
	for _, value := range values {
		statuses = append(statuses, types.ProfileStatus(strings.ToLower(value)))
	}
	return statuses
}

func parseActivityType(value string) types.ActivityType {
	activityType := types.ActivityType(strings.TrimSpace(value))
	if !types.KnownActivityType(activityType) {
		return ""
	}
	return activityType
}

func parseCatalogKind(value string) types.CatalogKind {
	kind := types.CatalogKind(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range types.CatalogKinds() {
		if kind == known {
			return kind
		}
	}
	return ""
}

func parsePreferenceLevel(value string) types.PreferenceLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(types.PreferenceLevelSystem):
		return types.PreferenceLevelSystem
	case string(types.PreferenceLevelHatchery):
		return types.PreferenceLevelHatchery
	case string(types.PreferenceLevelUser):
		return types.PreferenceLevelUser
	default:
		return ""
	}
}

// actorLimitedToSelf reports whether row access must collapse to the actor's
// own records. Workers and technicians only see their own rows; owners and
// managers see the whole hatchery.
func actorLimitedToSelf(actor types.ActorRef) bool {
	return !actor.IsOwner() && !actor.IsManager()
}
