package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TankShape enumerates the supported tank footprints.
type TankShape string

const (
	ShapeCircle    TankShape = "CIRCLE"
	ShapeRectangle TankShape = "RECTANGLE"
)

// TankType enumerates construction materials tracked per tank.
type TankType string

const (
	TankTypeFRP      TankType = "FRP"
	TankTypeConcrete TankType = "CONCRETE"
)

// ActivityType identifies the six husbandry record variants.
type ActivityType string

const (
	ActivityFeed          ActivityType = "Feed"
	ActivityTreatment     ActivityType = "Treatment"
	ActivityWaterQuality  ActivityType = "Water Quality"
	ActivityAnimalQuality ActivityType = "Animal Quality"
	ActivityStocking      ActivityType = "Stocking"
	ActivityObservation   ActivityType = "Observation"
)

// ActivityTypes lists every variant in display order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityFeed,
		ActivityTreatment,
		ActivityWaterQuality,
		ActivityAnimalQuality,
		ActivityStocking,
		ActivityObservation,
	}
}

// KnownActivityType reports whether the value belongs to the closed set.
func KnownActivityType(t ActivityType) bool {
	switch t {
	case ActivityFeed, ActivityTreatment, ActivityWaterQuality,
		ActivityAnimalQuality, ActivityStocking, ActivityObservation:
		return true
	}
	return false
}

// ScopeFilter carries hatchery scoping plus the actor's granted farm set.
// Commands and queries receive it already resolved by the scope guard.
type ScopeFilter struct {
	HatcheryID uuid.UUID
	FarmIDs    []uuid.UUID
}

// Clone returns a copy with the farm grant slice detached so callers can
// mutate safely.
func (s ScopeFilter) Clone() ScopeFilter {
	clone := ScopeFilter{HatcheryID: s.HatcheryID}
	if len(s.FarmIDs) > 0 {
		clone.FarmIDs = make([]uuid.UUID, len(s.FarmIDs))
		copy(clone.FarmIDs, s.FarmIDs)
	}
	return clone
}

// WithFarms returns a cloned scope restricted to the supplied farm grants.
func (s ScopeFilter) WithFarms(farmIDs ...uuid.UUID) ScopeFilter {
	clone := s.Clone()
	clone.FarmIDs = nil
	for _, id := range farmIDs {
		if id != uuid.Nil {
			clone.FarmIDs = append(clone.FarmIDs, id)
		}
	}
	return clone
}

// GrantsFarm reports whether the scope includes the farm. An empty grant set
// means unrestricted within the hatchery (owner scope).
func (s ScopeFilter) GrantsFarm(farmID uuid.UUID) bool {
	if len(s.FarmIDs) == 0 {
		return true
	}
	for _, id := range s.FarmIDs {
		if id == farmID {
			return true
		}
	}
	return false
}

// Pagination supports list queries across dashboards.
type Pagination struct {
	Limit  int
	Offset int
}

// Hatchery is the top-level owner organization.
type Hatchery struct {
	ID             uuid.UUID
	Name           string
	Location       string
	OwnerProfileID uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Farm is a named group of sections within a hatchery.
type Farm struct {
	ID         uuid.UUID
	HatcheryID uuid.UUID
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Section is a named group of tanks within a farm.
type Section struct {
	ID        uuid.UUID
	FarmID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TankDims carries the geometry inputs in meters. Only the dimensions
// meaningful for the tank shape are consulted; the rest are ignored by the
// calculator.
type TankDims struct {
	HeightM float64
	RadiusM float64
	LengthM float64
	WidthM  float64
}

// Tank is a persisted tank row including the derived geometry cache. The
// derived fields are never edited directly; they are recomputed from Dims on
// every write.
type Tank struct {
	ID           uuid.UUID
	SectionID    uuid.UUID
	FarmID       uuid.UUID
	Name         string
	Type         TankType
	Shape        TankShape
	Dims         TankDims
	VolumeLitres float64
	AreaSqm      float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileStatus mirrors the staff lifecycle: provisioned profiles start
// pending (no auth identity) and become active once claimed.
type ProfileStatus string

const (
	ProfileStatusPending   ProfileStatus = "pending"
	ProfileStatusActive    ProfileStatus = "active"
	ProfileStatusSuspended ProfileStatus = "suspended"
	ProfileStatusDisabled  ProfileStatus = "disabled"
)

// Profile is a staff account row. AuthUserID stays nil until the user claims
// the pre-assigned username against the external identity provider.
type Profile struct {
	ID         uuid.UUID
	AuthUserID *uuid.UUID
	Username   string
	FullName   string
	Email      string
	Phone      string
	Role       string
	HatcheryID uuid.UUID
	Status     ProfileStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FarmGrant links a staff profile to a farm it may record activity against.
type FarmGrant struct {
	UserID uuid.UUID
	FarmID uuid.UUID
}

// ActivityEntry is a single husbandry record against one tank. Data carries
// the activity-type-specific payload (see payload.go); the display-name
// fields are populated by list/report queries that join the hierarchy.
type ActivityEntry struct {
	ID           uuid.UUID
	HatcheryID   uuid.UUID
	FarmID       uuid.UUID
	SectionID    uuid.UUID
	TankID       uuid.UUID
	UserID       uuid.UUID
	ActivityType ActivityType
	Data         map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FarmName       string
	SectionName    string
	TankName       string
	AuthorName     string
	AuthorUsername string
}

// ActivityFilter narrows activity feed queries.
type ActivityFilter struct {
	Actor        ActorRef
	Scope        ScopeFilter
	ActivityType ActivityType
	FarmID       uuid.UUID
	TankID       uuid.UUID
	UserID       uuid.UUID
	Since        *time.Time
	Until        *time.Time
	Pagination   Pagination
}

// Type implements gocommand.Message for query inputs.
func (ActivityFilter) Type() string {
	return "query.activity.feed"
}

// Validate implements gocommand.Message.
func (filter ActivityFilter) Validate() error {
	if filter.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	return nil
}

// ActivityPage represents a paginated feed response.
type ActivityPage struct {
	Records    []ActivityEntry
	Total      int
	NextOffset int
	HasMore    bool
}

// StaffFilter narrows staff directory queries.
type StaffFilter struct {
	Actor      ActorRef
	Scope      ScopeFilter
	Statuses   []ProfileStatus
	Role       string
	Keyword    string
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (StaffFilter) Type() string {
	return "query.staff.directory"
}

// Validate implements gocommand.Message.
func (filter StaffFilter) Validate() error {
	if filter.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	return nil
}

// StaffPage represents a paginated staff listing.
type StaffPage struct {
	Profiles   []Profile
	Total      int
	NextOffset int
	HasMore    bool
}

// SectionView is one entry of the activity-entry tank picker: a section of a
// granted farm together with its tanks and the owning farm's display name.
type SectionView struct {
	Section  Section
	FarmName string
	Tanks    []Tank
}

// HierarchyEvent is emitted after a farm tree mutation.
type HierarchyEvent struct {
	FarmID     uuid.UUID
	ActorID    uuid.UUID
	Action     string
	Scope      ScopeFilter
	OccurredAt time.Time
}

// ProfileEvent signals that a staff profile mutation occurred.
type ProfileEvent struct {
	ProfileID  uuid.UUID
	ActorID    uuid.UUID
	Action     string
	Scope      ScopeFilter
	OccurredAt time.Time
	Profile    Profile
}

// AccessEvent signals a farm grant replacement.
type AccessEvent struct {
	UserID     uuid.UUID
	ActorID    uuid.UUID
	FarmIDs    []uuid.UUID
	Scope      ScopeFilter
	OccurredAt time.Time
}

// ActivityEvent signals an activity log insert or edit.
type ActivityEvent struct {
	Entry      ActivityEntry
	ActorID    uuid.UUID
	Action     string
	OccurredAt time.Time
}

// PreferenceEvent signals preference mutations so downstream systems can
// invalidate caches.
type PreferenceEvent struct {
	UserID     uuid.UUID
	Scope      ScopeFilter
	Key        string
	Action     string
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterHierarchyChange  func(context.Context, HierarchyEvent)
	AfterProfileChange    func(context.Context, ProfileEvent)
	AfterAccessChange     func(context.Context, AccessEvent)
	AfterActivity         func(context.Context, ActivityEvent)
	AfterPreferenceChange func(context.Context, PreferenceEvent)
}

// HatcheryRepository persists owner organizations.
type HatcheryRepository interface {
	CreateHatchery(ctx context.Context, hatchery Hatchery) (*Hatchery, error)
	GetHatchery(ctx context.Context, id uuid.UUID) (*Hatchery, error)
	RenameHatchery(ctx context.Context, id uuid.UUID, name string) error
}

// HierarchyRepository persists the farm → section → tank tree.
type HierarchyRepository interface {
	GetFarm(ctx context.Context, farmID uuid.UUID) (*Farm, error)
	ListFarms(ctx context.Context, scope ScopeFilter) ([]Farm, error)
	CreateFarm(ctx context.Context, farm Farm, sections []SectionDraft) (*Farm, error)
	RenameFarm(ctx context.Context, farmID uuid.UUID, name string) error
	DeleteFarm(ctx context.Context, farmID uuid.UUID) error
	Snapshot(ctx context.Context, farmID uuid.UUID) (*HierarchySnapshot, error)
	Apply(ctx context.Context, plan ReconcilePlan) error
	FullTree(ctx context.Context, scope ScopeFilter) ([]FarmTree, error)
}

// ActivityRepository persists husbandry records and read-side joins.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, entry ActivityEntry) (*ActivityEntry, error)
	UpdateActivity(ctx context.Context, entry ActivityEntry) (*ActivityEntry, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*ActivityEntry, error)
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
	ListWindow(ctx context.Context, filter ReportFilter) ([]ActivityEntry, error)
	DeleteActivityByUser(ctx context.Context, userID uuid.UUID) error
}

// AccessRepository persists farm grants. ReplaceGrants is a full
// delete-then-insert swap, never an incremental diff.
type AccessRepository interface {
	ReplaceGrants(ctx context.Context, userID uuid.UUID, farmIDs []uuid.UUID) error
	ListGrants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteGrantsByUser(ctx context.Context, userID uuid.UUID) error
}

// ProfileRepository persists staff accounts.
type ProfileRepository interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*Profile, error)
	CreateProfile(ctx context.Context, profile Profile) (*Profile, error)
	UpdateProfile(ctx context.Context, profile Profile) (*Profile, error)
	ClaimProfile(ctx context.Context, username string, authUserID uuid.UUID, email string) (*Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	ListProfiles(ctx context.Context, filter StaffFilter) (StaffPage, error)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

// ValidationError identifies the first missing/invalid required field found
// at save time. Partial in-progress payloads are never validated; only a save
// attempt produces one of these, and it must not reach storage.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("go-hatchery: field %q is required", e.Field)
	}
	return fmt.Sprintf("go-hatchery: field %q %s", e.Field, e.Message)
}

// NewValidationError builds a field-identifying validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NormalizeUsername lowercases and trims usernames so uniqueness checks stay
// case-insensitive across transports.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = errors.New("go-hatchery: actor reference required")
	// ErrHatcheryIDRequired indicates a hatchery identifier was omitted.
	ErrHatcheryIDRequired = errors.New("go-hatchery: hatchery id required")
	// ErrFarmIDRequired indicates a farm identifier was omitted.
	ErrFarmIDRequired = errors.New("go-hatchery: farm id required")
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-hatchery: user id required")
	// ErrProfileNotFound indicates no profile matched the lookup.
	ErrProfileNotFound = errors.New("go-hatchery: profile not found")
	// ErrUsernameTaken indicates the requested username is already claimed.
	ErrUsernameTaken = errors.New("go-hatchery: username already taken")
	// ErrServiceNotReady indicates the service has not been configured.
	ErrServiceNotReady = errors.New("go-hatchery: service not ready")
	// ErrMissingHatcheryRepository occurs when no hatchery repository was supplied.
	ErrMissingHatcheryRepository = errors.New("go-hatchery: missing hatchery repository")
	// ErrMissingHierarchyRepository occurs when no hierarchy repository was supplied.
	ErrMissingHierarchyRepository = errors.New("go-hatchery: missing hierarchy repository")
	// ErrMissingActivityRepository occurs when no activity repository was supplied.
	ErrMissingActivityRepository = errors.New("go-hatchery: missing activity repository")
	// ErrMissingAccessRepository occurs when no access repository was supplied.
	ErrMissingAccessRepository = errors.New("go-hatchery: missing access repository")
	// ErrMissingProfileRepository occurs when no profile repository was supplied.
	ErrMissingProfileRepository = errors.New("go-hatchery: missing profile repository")
	// ErrMissingPreferenceRepository occurs when preference commands or queries lack storage.
	ErrMissingPreferenceRepository = errors.New("go-hatchery: missing preference repository")
	// ErrMissingPreferenceResolver occurs when preference queries lack a resolver.
	ErrMissingPreferenceResolver = errors.New("go-hatchery: missing preference resolver")
	// ErrMissingCatalogRepository occurs when catalog commands lack storage.
	ErrMissingCatalogRepository = errors.New("go-hatchery: missing catalog repository")
)
