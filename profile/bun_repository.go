package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed profile repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type profileStore interface {
	repository.Repository[*Record]
}

// Repository implements types.ProfileRepository using Bun.
type Repository struct {
	profileStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default profile repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
			NewRecord: func() *Record { return &Record{} },
			GetID: func(rec *Record) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *Record, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Repository{
		profileStore: repo,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.ProfileRepository        = (*Repository)(nil)
)

// GetProfile returns the profile by id, or nil when absent.
func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	if id == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", id.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// GetProfileByUsername looks a profile up case-insensitively.
func (r *Repository) GetProfileByUsername(ctx context.Context, username string) (*types.Profile, error) {
	username = types.NormalizeUsername(username)
	if username == "" {
		return nil, types.NewValidationError("username", "is required")
	}
	rec, err := r.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("lower(username) = ?", username)
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// CreateProfile inserts a new staff profile. New profiles start pending until
// the staff member claims the username; owners provisioned through hatchery
// registration come in already active.
func (r *Repository) CreateProfile(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.HatcheryID == uuid.Nil {
		return nil, types.ErrHatcheryIDRequired
	}
	if strings.TrimSpace(profile.Username) == "" {
		return nil, types.NewValidationError("username", "is required")
	}
	existing, err := r.GetProfileByUsername(ctx, profile.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.ErrUsernameTaken
	}

	now := r.clock.Now()
	rec := fromDomain(profile)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	if rec.Status == "" {
		rec.Status = string(types.ProfileStatusPending)
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

// UpdateProfile overwrites the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.ID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", profile.ID.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, err
	}
	rec.FullName = profile.FullName
	rec.Email = profile.Email
	rec.Phone = profile.Phone
	rec.Role = profile.Role
	if profile.Status != "" {
		rec.Status = string(profile.Status)
	}
	rec.UpdatedAt = r.clock.Now()
	updated, err := r.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(updated), nil
}

// ClaimProfile binds an auth identity to a pre-assigned username and
// activates the profile. The claim fails when the username is unknown or was
// already bound to a different identity.
func (r *Repository) ClaimProfile(ctx context.Context, username string, authUserID uuid.UUID, email string) (*types.Profile, error) {
	if authUserID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	rec, err := r.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("lower(username) = ?", types.NormalizeUsername(username))
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, err
	}
	if rec.AuthUserID != nil && *rec.AuthUserID != authUserID {
		return nil, types.ErrUsernameTaken
	}
	bound := authUserID
	rec.AuthUserID = &bound
	if email != "" {
		rec.Email = email
	}
	rec.Status = string(types.ProfileStatusActive)
	rec.UpdatedAt = r.clock.Now()
	updated, err := r.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(updated), nil
}

// DeleteProfile removes the profile row. Dependent rows (activity, grants)
// are the caller's responsibility; the cascade command deletes them first.
func (r *Repository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return types.ErrUserIDRequired
	}
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", id.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return types.ErrProfileNotFound
		}
		return err
	}
	return r.Delete(ctx, rec)
}

// ListProfiles returns a filtered, paginated staff directory.
func (r *Repository) ListProfiles(ctx context.Context, filter types.StaffFilter) (types.StaffPage, error) {
	pagination := filter.Pagination
	if pagination.Limit <= 0 {
		pagination.Limit = 50
	}
	if pagination.Limit > 200 {
		pagination.Limit = 200
	}
	rows, total, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.OrderExpr("created_at ASC, username ASC").
			Limit(pagination.Limit).
			Offset(pagination.Offset)
		return applyStaffFilter(q, filter)
	})
	if err != nil {
		return types.StaffPage{}, err
	}
	profiles := make([]types.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, *toDomain(row))
	}
	return types.StaffPage{
		Profiles:   profiles,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

func applyStaffFilter(q *bun.SelectQuery, filter types.StaffFilter) *bun.SelectQuery {
	if filter.Scope.HatcheryID != uuid.Nil {
		q = q.Where("hatchery_id = ?", filter.Scope.HatcheryID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		q = q.Where("status IN (?)", bun.In(statuses))
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		q = q.Where("(lower(username) LIKE ? OR lower(full_name) LIKE ? OR lower(email) LIKE ?)", pattern, pattern, pattern)
	}
	return q
}
