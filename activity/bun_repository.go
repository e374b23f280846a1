package activity

import (
	"context"
	"errors"

	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed activity repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type activityStore interface {
	repository.Repository[*LogEntry]
}

// Repository persists husbandry records and serves the feed and report reads.
type Repository struct {
	activityStore
	db       *bun.DB
	clock    types.Clock
	idGen    types.IDGenerator
	enricher *LocationEnricher
}

// NewRepository constructs the default activity repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("activity: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
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
		activityStore: repo,
		db:            cfg.DB,
		clock:         clock,
		idGen:         idGen,
		enricher:      NewLocationEnricher(cfg.DB),
	}, nil
}

var (
	_ repository.Repository[*LogEntry] = (*Repository)(nil)
	_ types.ActivityRepository         = (*Repository)(nil)
)

// InsertActivity persists a new husbandry record.
func (r *Repository) InsertActivity(ctx context.Context, entry types.ActivityEntry) (*types.ActivityEntry, error) {
	rec := fromDomain(entry)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	now := r.clock.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

// UpdateActivity overwrites the payload of an existing record in place. The
// row identity, tank binding and author never change on edit.
func (r *Repository) UpdateActivity(ctx context.Context, entry types.ActivityEntry) (*types.ActivityEntry, error) {
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", entry.ID.String()))
	if err != nil {
		return nil, err
	}
	rec.ActivityType = string(entry.ActivityType)
	rec.Data = cloneData(entry.Data)
	rec.UpdatedAt = r.clock.Now()
	updated, err := r.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(updated), nil
}

// GetActivity returns one record by id, or nil when absent.
func (r *Repository) GetActivity(ctx context.Context, id uuid.UUID) (*types.ActivityEntry, error) {
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", id.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// ListActivity returns a filtered, paginated feed enriched with location and
// author names, newest first.
func (r *Repository) ListActivity(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	pagination := filter.Pagination
	if pagination.Limit <= 0 {
		pagination.Limit = 50
	}
	if pagination.Limit > 200 {
		pagination.Limit = 200
	}
	rows, total, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.OrderExpr("created_at DESC, id DESC").
			Limit(pagination.Limit).
			Offset(pagination.Offset)
		return applyActivityFilter(q, filter)
	})
	if err != nil {
		return types.ActivityPage{}, err
	}
	entries := make([]types.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *toDomain(row))
	}
	entries, err = r.enricher.Enrich(ctx, entries)
	if err != nil {
		return types.ActivityPage{}, err
	}
	return types.ActivityPage{
		Records:    entries,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// ListWindow returns every enriched record of one activity type inside the
// reporting window, oldest first. The aggregator consumes this directly.
func (r *Repository) ListWindow(ctx context.Context, filter types.ReportFilter) ([]types.ActivityEntry, error) {
	start := filter.WindowStart()
	end := filter.WindowEnd
	if end.IsZero() {
		end = r.clock.Now()
	}
	rows, _, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.OrderExpr("created_at ASC, id ASC").
			Where("activity_type = ?", string(filter.ActivityType)).
			Where("created_at >= ?", start).
			Where("created_at <= ?", end)
		if filter.Scope.HatcheryID != uuid.Nil {
			q = q.Where("hatchery_id = ?", filter.Scope.HatcheryID)
		}
		if len(filter.Scope.FarmIDs) > 0 {
			q = q.Where("farm_id IN (?)", bun.In(filter.Scope.FarmIDs))
		}
		if filter.FarmID != uuid.Nil {
			q = q.Where("farm_id = ?", filter.FarmID)
		}
		return q
	})
	if err != nil {
		return nil, err
	}
	entries := make([]types.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *toDomain(row))
	}
	return r.enricher.Enrich(ctx, entries)
}

// DeleteActivityByUser removes every record authored by the user. Used by
// the profile delete cascade, which runs it before grants and profile.
func (r *Repository) DeleteActivityByUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return types.ErrUserIDRequired
	}
	_, err := r.db.NewDelete().Model((*LogEntry)(nil)).Where("user_id = ?", userID).Exec(ctx)
	return err
}

func applyActivityFilter(q *bun.SelectQuery, filter types.ActivityFilter) *bun.SelectQuery {
	if filter.Scope.HatcheryID != uuid.Nil {
		q = q.Where("hatchery_id = ?", filter.Scope.HatcheryID)
	}
	if len(filter.Scope.FarmIDs) > 0 {
		q = q.Where("farm_id IN (?)", bun.In(filter.Scope.FarmIDs))
	}
	if filter.ActivityType != "" {
		q = q.Where("activity_type = ?", string(filter.ActivityType))
	}
	if filter.FarmID != uuid.Nil {
		q = q.Where("farm_id = ?", filter.FarmID)
	}
	if filter.TankID != uuid.Nil {
		q = q.Where("tank_id = ?", filter.TankID)
	}
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	return q
}
