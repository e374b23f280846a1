package preferences

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the reporting_preferences row.
type Record struct {
	bun.BaseModel `bun:"table:reporting_preferences"`

	ID         uuid.UUID      `bun:"id,pk,type:uuid"`
	UserID     uuid.UUID      `bun:"user_id,type:uuid"`
	HatcheryID uuid.UUID      `bun:"hatchery_id,type:uuid"`
	Level      string         `bun:"level"`
	Key        string         `bun:"key"`
	Value      map[string]any `bun:"value,type:jsonb"`
	Version    int            `bun:"version"`
	CreatedAt  time.Time      `bun:"created_at"`
	CreatedBy  uuid.UUID      `bun:"created_by,type:uuid"`
	UpdatedAt  time.Time      `bun:"updated_at"`
	UpdatedBy  uuid.UUID      `bun:"updated_by,type:uuid"`
}
