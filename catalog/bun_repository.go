package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig configures the Bun-backed catalog repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository persists hatchery option lists using Bun.
type Repository struct {
	db    *bun.DB
	store repository.Repository[*Record]
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default catalog repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("catalog: db or repository required")
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
	db := cfg.DB
	if db == nil {
		if withDB, ok := repo.(interface{ DB() *bun.DB }); ok {
			db = withDB.DB()
		}
	}
	return &Repository{db: db, store: repo, clock: clock, idGen: idGen}, nil
}

var _ types.CatalogRepository = (*Repository)(nil)

// ListCatalog returns the options for one kind, or every kind when kind is
// empty. Results are ordered by position, then label.
func (r *Repository) ListCatalog(ctx context.Context, hatcheryID uuid.UUID, kind types.CatalogKind) ([]types.CatalogItem, error) {
	if hatcheryID == uuid.Nil {
		return nil, types.ErrHatcheryIDRequired
	}
	records, _, err := r.store.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("hatchery_id = ?", hatcheryID).
			OrderExpr("kind ASC, position ASC, LOWER(label) ASC")
		if kind != "" {
			q = q.Where("kind = ?", string(kind))
		}
		return q
	})
	if err != nil {
		return nil, err
	}
	items := make([]types.CatalogItem, 0, len(records))
	for _, record := range records {
		items = append(items, *toDomain(record))
	}
	return items, nil
}

// UpsertCatalogItem inserts a new option or updates the position of an
// existing one. Labels are unique per hatchery and kind.
func (r *Repository) UpsertCatalogItem(ctx context.Context, item types.CatalogItem) (*types.CatalogItem, error) {
	if item.HatcheryID == uuid.Nil {
		return nil, types.ErrHatcheryIDRequired
	}
	item.Label = strings.TrimSpace(item.Label)
	if item.Label == "" {
		return nil, types.NewValidationError("label", "label is required")
	}
	if !knownKind(item.Kind) {
		return nil, types.NewValidationError("kind", "unknown catalog kind")
	}

	now := r.clock.Now()
	existing, err := r.findByIdentity(ctx, item.HatcheryID, item.Kind, item.Label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Position = item.Position
		existing.UpdatedAt = now
		updated, err := r.store.Update(ctx, existing)
		if err != nil {
			return nil, err
		}
		return toDomain(updated), nil
	}

	rec := fromDomain(item)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

// DeleteCatalogItem removes one option by ID.
func (r *Repository) DeleteCatalogItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return types.NewValidationError("id", "id is required")
	}
	rec, err := r.store.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return err
	}
	return r.store.Delete(ctx, rec)
}

// SeedDefaults installs the stock option lists for a hatchery. Kinds that
// already have entries are left untouched so operator edits survive reseeds.
func (r *Repository) SeedDefaults(ctx context.Context, hatcheryID uuid.UUID) error {
	if hatcheryID == uuid.Nil {
		return types.ErrHatcheryIDRequired
	}
	now := r.clock.Now()
	for kind, labels := range defaultOptions() {
		existing, _, err := r.store.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("hatchery_id = ?", hatcheryID).Where("kind = ?", string(kind)).Limit(1)
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		for position, label := range labels {
			rec := &Record{
				ID:         r.idGen.UUID(),
				HatcheryID: hatcheryID,
				Kind:       string(kind),
				Label:      label,
				Position:   position,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if _, err := r.store.Create(ctx, rec); err != nil {
				if repository.IsDuplicatedKey(err) {
					continue
				}
				return err
			}
		}
	}
	return nil
}

func (r *Repository) findByIdentity(ctx context.Context, hatcheryID uuid.UUID, kind types.CatalogKind, label string) (*Record, error) {
	rec, err := r.store.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("hatchery_id = ?", hatcheryID).
			Where("kind = ?", string(kind)).
			Where("LOWER(label) = ?", strings.ToLower(label))
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func knownKind(kind types.CatalogKind) bool {
	for _, known := range types.CatalogKinds() {
		if kind == known {
			return true
		}
	}
	return false
}

func defaultOptions() map[types.CatalogKind][]string {
	return map[types.CatalogKind][]string{
		types.CatalogFeedType:      {"Starter Feed", "Grower Feed", "Finisher Feed", "Supplement"},
		types.CatalogFeedUnit:      {"kg", "g", "lb"},
		types.CatalogTreatmentType: {"Probiotics", "Antibiotics", "Mineral Supplement", "Disinfectant", "Vitamin"},
		types.CatalogTreatmentUnit: {"ml", "L", "g", "kg", "ppm"},
	}
}
