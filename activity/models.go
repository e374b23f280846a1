package activity

import (
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the activity_logs row. Data holds the activity-type
// specific payload as stored, unknown keys included.
type LogEntry struct {
	bun.BaseModel `bun:"table:activity_logs"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid"`
	HatcheryID   uuid.UUID      `bun:"hatchery_id,type:uuid"`
	FarmID       uuid.UUID      `bun:"farm_id,type:uuid"`
	SectionID    uuid.UUID      `bun:"section_id,type:uuid"`
	TankID       uuid.UUID      `bun:"tank_id,type:uuid"`
	UserID       uuid.UUID      `bun:"user_id,type:uuid"`
	ActivityType string         `bun:"activity_type"`
	Data         map[string]any `bun:"data,type:jsonb"`
	CreatedAt    time.Time      `bun:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at"`
}

func toDomain(rec *LogEntry) *types.ActivityEntry {
	if rec == nil {
		return nil
	}
	return &types.ActivityEntry{
		ID:           rec.ID,
		HatcheryID:   rec.HatcheryID,
		FarmID:       rec.FarmID,
		SectionID:    rec.SectionID,
		TankID:       rec.TankID,
		UserID:       rec.UserID,
		ActivityType: types.ActivityType(rec.ActivityType),
		Data:         cloneData(rec.Data),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func fromDomain(entry types.ActivityEntry) *LogEntry {
	return &LogEntry{
		ID:           entry.ID,
		HatcheryID:   entry.HatcheryID,
		FarmID:       entry.FarmID,
		SectionID:    entry.SectionID,
		TankID:       entry.TankID,
		UserID:       entry.UserID,
		ActivityType: string(entry.ActivityType),
		Data:         cloneData(entry.Data),
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}

func cloneData(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
