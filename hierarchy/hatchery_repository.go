package hierarchy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// HatcheryRecord models the hatcheries row.
type HatcheryRecord struct {
	bun.BaseModel `bun:"table:hatcheries"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	Name           string    `bun:"name"`
	Location       string    `bun:"location"`
	OwnerProfileID uuid.UUID `bun:"owner_profile_id,type:uuid"`
	CreatedAt      time.Time `bun:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at"`
}

// HatcheryRepositoryConfig wires the Bun-backed hatchery repository.
type HatcheryRepositoryConfig struct {
	DB         *bun.DB
	Hatcheries repository.Repository[*HatcheryRecord]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type hatcheryStore interface {
	repository.Repository[*HatcheryRecord]
}

// HatcheryRepository persists owner organizations.
type HatcheryRepository struct {
	hatcheryStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewHatcheryRepository constructs the default hatchery repository.
func NewHatcheryRepository(cfg HatcheryRepositoryConfig) (*HatcheryRepository, error) {
	store := cfg.Hatcheries
	if store == nil {
		if cfg.DB == nil {
			return nil, errors.New("hierarchy: bun DB required")
		}
		store = repository.NewRepository(cfg.DB, repository.ModelHandlers[*HatcheryRecord]{
			NewRecord: func() *HatcheryRecord { return &HatcheryRecord{} },
			GetID: func(rec *HatcheryRecord) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *HatcheryRecord, id uuid.UUID) {
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
		if provider, ok := store.(interface{ DB() *bun.DB }); ok {
			db = provider.DB()
		}
	}
	return &HatcheryRepository{
		hatcheryStore: store,
		db:            db,
		clock:         clock,
		idGen:         idGen,
	}, nil
}

var _ types.HatcheryRepository = (*HatcheryRepository)(nil)

// CreateHatchery inserts the owner organization row.
func (r *HatcheryRepository) CreateHatchery(ctx context.Context, hatchery types.Hatchery) (*types.Hatchery, error) {
	name := strings.TrimSpace(hatchery.Name)
	if name == "" {
		return nil, types.NewValidationError("name", "is required")
	}
	now := r.clock.Now()
	rec := &HatcheryRecord{
		ID:             hatchery.ID,
		Name:           name,
		Location:       strings.TrimSpace(hatchery.Location),
		OwnerProfileID: hatchery.OwnerProfileID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return hatcheryToDomain(created), nil
}

// GetHatchery returns the hatchery row or nil when absent.
func (r *HatcheryRepository) GetHatchery(ctx context.Context, id uuid.UUID) (*types.Hatchery, error) {
	if id == uuid.Nil {
		return nil, types.ErrHatcheryIDRequired
	}
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", id.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return hatcheryToDomain(rec), nil
}

// RenameHatchery updates the display name.
func (r *HatcheryRepository) RenameHatchery(ctx context.Context, id uuid.UUID, name string) error {
	if id == uuid.Nil {
		return types.ErrHatcheryIDRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.NewValidationError("name", "is required")
	}
	res, err := r.db.NewUpdate().
		Model((*HatcheryRecord)(nil)).
		Set("name = ?", name).
		Set("updated_at = ?", r.clock.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return repository.SQLExpectedCount(res, 1)
}

func hatcheryToDomain(rec *HatcheryRecord) *types.Hatchery {
	if rec == nil {
		return nil
	}
	return &types.Hatchery{
		ID:             rec.ID,
		Name:           rec.Name,
		Location:       rec.Location,
		OwnerProfileID: rec.OwnerProfileID,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}
