package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PreferenceLevel identifies the precedence layer for a stored reporting
// preference. User overrides hatchery, hatchery overrides system defaults.
type PreferenceLevel string

const (
	PreferenceLevelSystem   PreferenceLevel = "system"
	PreferenceLevelHatchery PreferenceLevel = "hatchery"
	PreferenceLevelUser     PreferenceLevel = "user"
)

// Well-known reporting preference keys.
const (
	PreferenceKeyChartStyle    = "report.chart_style"
	PreferenceKeyDefaultFilter = "report.default_activity_type"
)

// PreferenceRecord represents a stored scoped preference entry.
type PreferenceRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Scope     ScopeFilter
	Level     PreferenceLevel
	Key       string
	Value     map[string]any
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
}

// PreferenceFilter narrows preference listing queries.
type PreferenceFilter struct {
	UserID uuid.UUID
	Scope  ScopeFilter
	Level  PreferenceLevel
	Keys   []string
}

// PreferenceRepository exposes CRUD helpers for scoped preferences.
type PreferenceRepository interface {
	ListPreferences(ctx context.Context, filter PreferenceFilter) ([]PreferenceRecord, error)
	UpsertPreference(ctx context.Context, record PreferenceRecord) (*PreferenceRecord, error)
	DeletePreference(ctx context.Context, userID uuid.UUID, scope ScopeFilter, level PreferenceLevel, key string) error
}

// PreferenceSnapshot depicts the effective settings plus provenance per key.
type PreferenceSnapshot struct {
	Effective map[string]any
	Traces    []PreferenceTrace
}

// PreferenceTrace captures how each scope contributed to a key.
type PreferenceTrace struct {
	Key    string
	Layers []PreferenceTraceLayer
}

// PreferenceTraceLayer captures a single scope contribution.
type PreferenceTraceLayer struct {
	Level      PreferenceLevel
	UserID     uuid.UUID
	Scope      ScopeFilter
	SnapshotID string
	Value      any
	Found      bool
}
