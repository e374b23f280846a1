package hierarchy

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/goliatone/go-hatchery/geometry"
	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed hierarchy repository.
type RepositoryConfig struct {
	DB    *bun.DB
	Farms repository.Repository[*FarmRecord]
	Clock types.Clock
	IDGen types.IDGenerator
}

type farmStore interface {
	repository.Repository[*FarmRecord]
}

// Repository persists the farm tree and executes reconcile plans.
type Repository struct {
	farmStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default hierarchy repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("hierarchy: bun DB required")
	}
	farms := cfg.Farms
	if farms == nil {
		farms = repository.NewRepository(cfg.DB, repository.ModelHandlers[*FarmRecord]{
			NewRecord: func() *FarmRecord { return &FarmRecord{} },
			GetID: func(rec *FarmRecord) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *FarmRecord, id uuid.UUID) {
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
		farmStore: farms,
		db:        cfg.DB,
		clock:     clock,
		idGen:     idGen,
	}, nil
}

var _ types.HierarchyRepository = (*Repository)(nil)

// GetFarm returns the farm row or nil when absent.
func (r *Repository) GetFarm(ctx context.Context, farmID uuid.UUID) (*types.Farm, error) {
	if farmID == uuid.Nil {
		return nil, types.ErrFarmIDRequired
	}
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", farmID.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return farmToDomain(rec), nil
}

// ListFarms returns the farms visible within the scope, restricted to the
// granted farm set when one is present.
func (r *Repository) ListFarms(ctx context.Context, scope types.ScopeFilter) ([]types.Farm, error) {
	rows, _, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.OrderExpr("name ASC")
		return applyScope(q, scope)
	})
	if err != nil {
		return nil, err
	}
	farms := make([]types.Farm, 0, len(rows))
	for _, row := range rows {
		farms = append(farms, *farmToDomain(row))
	}
	return farms, nil
}

// CreateFarm persists a farm together with its initial section/tank tree in
// one transaction. Drafts come in with geometry already derived by the differ
// or the create command.
func (r *Repository) CreateFarm(ctx context.Context, farm types.Farm, sections []types.SectionDraft) (*types.Farm, error) {
	if farm.HatcheryID == uuid.Nil {
		return nil, types.ErrHatcheryIDRequired
	}
	now := r.clock.Now()
	if farm.ID == uuid.Nil {
		farm.ID = r.idGen.UUID()
	}
	farm.CreatedAt = now
	farm.UpdatedAt = now

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		farmRec := &FarmRecord{
			ID:         farm.ID,
			HatcheryID: farm.HatcheryID,
			Name:       farm.Name,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := tx.NewInsert().Model(farmRec).Exec(ctx); err != nil {
			return err
		}
		for _, sectionDraft := range sections {
			sectionID := sectionDraft.ID
			if sectionID == uuid.Nil {
				sectionID = r.idGen.UUID()
			}
			sectionRec := &SectionRecord{
				ID:        sectionID,
				FarmID:    farm.ID,
				Name:      sectionDraft.Name,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := tx.NewInsert().Model(sectionRec).Exec(ctx); err != nil {
				return err
			}
			for _, tankDraft := range sectionDraft.Tanks {
				tank := types.Tank{
					ID:        tankDraft.ID,
					SectionID: sectionID,
					FarmID:    farm.ID,
					Name:      tankDraft.Name,
					Type:      tankDraft.Type,
					Shape:     tankDraft.Shape,
					Dims:      tankDraft.Dims,
				}
				if tank.ID == uuid.Nil {
					tank.ID = r.idGen.UUID()
				}
				tank.CreatedAt = now
				tank.UpdatedAt = now
				geometry.Apply(&tank)
				if _, err := tx.NewInsert().Model(tankFromDomain(tank)).Exec(ctx); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// RenameFarm updates the farm display name.
func (r *Repository) RenameFarm(ctx context.Context, farmID uuid.UUID, name string) error {
	if farmID == uuid.Nil {
		return types.ErrFarmIDRequired
	}
	_, err := r.db.NewUpdate().
		Model((*FarmRecord)(nil)).
		Set("name = ?", name).
		Set("updated_at = ?", r.clock.Now()).
		Where("id = ?", farmID).
		Exec(ctx)
	return err
}

// DeleteFarm removes the farm and its tree, children first.
func (r *Repository) DeleteFarm(ctx context.Context, farmID uuid.UUID) error {
	if farmID == uuid.Nil {
		return types.ErrFarmIDRequired
	}
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*TankRecord)(nil)).Where("farm_id = ?", farmID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*SectionRecord)(nil)).Where("farm_id = ?", farmID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*FarmRecord)(nil)).Where("id = ?", farmID).Exec(ctx)
		return err
	})
}

// Snapshot loads the persisted tree for one farm.
func (r *Repository) Snapshot(ctx context.Context, farmID uuid.UUID) (*types.HierarchySnapshot, error) {
	if farmID == uuid.Nil {
		return nil, types.ErrFarmIDRequired
	}
	snapshot := &types.HierarchySnapshot{FarmID: farmID}

	var sections []SectionRecord
	if err := r.db.NewSelect().Model(&sections).
		Where("farm_id = ?", farmID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	for i := range sections {
		snapshot.Sections = append(snapshot.Sections, sectionToDomain(&sections[i]))
	}

	var tanks []TankRecord
	if err := r.db.NewSelect().Model(&tanks).
		Where("farm_id = ?", farmID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	for i := range tanks {
		snapshot.Tanks = append(snapshot.Tanks, tankToDomain(&tanks[i]))
	}
	return snapshot, nil
}

// Apply executes a reconcile plan in pass order inside one transaction: tank
// deletes, section deletes, section upserts, tank upserts. The first failing
// write aborts the transaction and is reported with its pass and entity.
func (r *Repository) Apply(ctx context.Context, plan types.ReconcilePlan) error {
	if plan.FarmID == uuid.Nil {
		return types.ErrFarmIDRequired
	}
	now := r.clock.Now()
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, tankID := range plan.TankDeletes {
			if _, err := tx.NewDelete().Model((*TankRecord)(nil)).Where("id = ?", tankID).Exec(ctx); err != nil {
				return &types.ReconciliationError{Pass: types.PassTankDelete, Entity: "tank", EntityID: tankID, Err: err}
			}
		}
		for _, sectionID := range plan.SectionDeletes {
			if _, err := tx.NewDelete().Model((*SectionRecord)(nil)).Where("id = ?", sectionID).Exec(ctx); err != nil {
				return &types.ReconciliationError{Pass: types.PassSectionDelete, Entity: "section", EntityID: sectionID, Err: err}
			}
		}
		for _, sectionPlan := range plan.SectionUpserts {
			if err := upsertSection(ctx, tx, sectionPlan, now); err != nil {
				return &types.ReconciliationError{Pass: types.PassSectionUpsert, Entity: "section", EntityID: sectionPlan.Section.ID, Err: err}
			}
		}
		for _, sectionPlan := range plan.SectionUpserts {
			for _, tankPlan := range sectionPlan.Tanks {
				if err := upsertTank(ctx, tx, tankPlan, now); err != nil {
					return &types.ReconciliationError{Pass: types.PassTankUpsert, Entity: "tank", EntityID: tankPlan.Tank.ID, Err: err}
				}
			}
		}
		if plan.FarmName != "" {
			if _, err := tx.NewUpdate().
				Model((*FarmRecord)(nil)).
				Set("name = ?", plan.FarmName).
				Set("updated_at = ?", now).
				Where("id = ?", plan.FarmID).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// FullTree loads every visible farm joined with its sections and tanks.
func (r *Repository) FullTree(ctx context.Context, scope types.ScopeFilter) ([]types.FarmTree, error) {
	farms, err := r.ListFarms(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(farms) == 0 {
		return nil, nil
	}
	farmIDs := make([]uuid.UUID, 0, len(farms))
	farmNames := make(map[uuid.UUID]string, len(farms))
	for _, farm := range farms {
		farmIDs = append(farmIDs, farm.ID)
		farmNames[farm.ID] = farm.Name
	}

	var sections []SectionRecord
	if err := r.db.NewSelect().Model(&sections).
		Where("farm_id IN (?)", bun.In(farmIDs)).
		OrderExpr("name ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	var tanks []TankRecord
	if err := r.db.NewSelect().Model(&tanks).
		Where("farm_id IN (?)", bun.In(farmIDs)).
		OrderExpr("name ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	tanksBySection := make(map[uuid.UUID][]types.Tank)
	for i := range tanks {
		tank := tankToDomain(&tanks[i])
		tanksBySection[tank.SectionID] = append(tanksBySection[tank.SectionID], tank)
	}

	viewsByFarm := make(map[uuid.UUID][]types.SectionView)
	for i := range sections {
		section := sectionToDomain(&sections[i])
		viewsByFarm[section.FarmID] = append(viewsByFarm[section.FarmID], types.SectionView{
			Section:  section,
			FarmName: farmNames[section.FarmID],
			Tanks:    tanksBySection[section.ID],
		})
	}

	trees := make([]types.FarmTree, 0, len(farms))
	for _, farm := range farms {
		trees = append(trees, types.FarmTree{
			Farm:     farm,
			Sections: viewsByFarm[farm.ID],
		})
	}
	sort.SliceStable(trees, func(i, j int) bool { return trees[i].Farm.Name < trees[j].Farm.Name })
	return trees, nil
}

func upsertSection(ctx context.Context, tx bun.Tx, plan types.SectionPlan, now time.Time) error {
	rec := &SectionRecord{
		ID:        plan.Section.ID,
		FarmID:    plan.Section.FarmID,
		Name:      plan.Section.Name,
		UpdatedAt: now,
	}
	if plan.Create {
		rec.CreatedAt = now
		_, err := tx.NewInsert().Model(rec).Exec(ctx)
		return err
	}
	_, err := tx.NewUpdate().Model(rec).
		Column("farm_id", "name", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func upsertTank(ctx context.Context, tx bun.Tx, plan types.TankPlan, now time.Time) error {
	rec := tankFromDomain(plan.Tank)
	rec.UpdatedAt = now
	if plan.Create {
		rec.CreatedAt = now
		_, err := tx.NewInsert().Model(rec).Exec(ctx)
		return err
	}
	_, err := tx.NewUpdate().Model(rec).
		Column("section_id", "farm_id", "name", "type", "shape",
			"height_m", "radius_m", "length_m", "width_m",
			"volume_litres", "area_sqm", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func applyScope(q *bun.SelectQuery, scope types.ScopeFilter) *bun.SelectQuery {
	if scope.HatcheryID != uuid.Nil {
		q = q.Where("hatchery_id = ?", scope.HatcheryID)
	}
	if len(scope.FarmIDs) > 0 {
		q = q.Where("id IN (?)", bun.In(scope.FarmIDs))
	}
	return q
}
