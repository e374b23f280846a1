package hierarchy

import (
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FarmRecord models the farms row.
type FarmRecord struct {
	bun.BaseModel `bun:"table:farms"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	HatcheryID uuid.UUID `bun:"hatchery_id,type:uuid"`
	Name       string    `bun:"name"`
	CreatedAt  time.Time `bun:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at"`
}

// SectionRecord models the sections row.
type SectionRecord struct {
	bun.BaseModel `bun:"table:sections"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	FarmID    uuid.UUID `bun:"farm_id,type:uuid"`
	Name      string    `bun:"name"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}

// TankRecord models the tanks row. Volume and area are derived caches; the
// geometry calculator rewrites them on every upsert.
type TankRecord struct {
	bun.BaseModel `bun:"table:tanks"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	SectionID    uuid.UUID       `bun:"section_id,type:uuid"`
	FarmID       uuid.UUID       `bun:"farm_id,type:uuid"`
	Name         string          `bun:"name"`
	Type         types.TankType  `bun:"type"`
	Shape        types.TankShape `bun:"shape"`
	HeightM      float64         `bun:"height_m"`
	RadiusM      float64         `bun:"radius_m"`
	LengthM      float64         `bun:"length_m"`
	WidthM       float64         `bun:"width_m"`
	VolumeLitres float64         `bun:"volume_litres"`
	AreaSqm      float64         `bun:"area_sqm"`
	CreatedAt    time.Time       `bun:"created_at"`
	UpdatedAt    time.Time       `bun:"updated_at"`
}

func farmToDomain(rec *FarmRecord) *types.Farm {
	if rec == nil {
		return nil
	}
	return &types.Farm{
		ID:         rec.ID,
		HatcheryID: rec.HatcheryID,
		Name:       rec.Name,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func sectionToDomain(rec *SectionRecord) types.Section {
	return types.Section{
		ID:        rec.ID,
		FarmID:    rec.FarmID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func tankToDomain(rec *TankRecord) types.Tank {
	return types.Tank{
		ID:        rec.ID,
		SectionID: rec.SectionID,
		FarmID:    rec.FarmID,
		Name:      rec.Name,
		Type:      rec.Type,
		Shape:     rec.Shape,
		Dims: types.TankDims{
			HeightM: rec.HeightM,
			RadiusM: rec.RadiusM,
			LengthM: rec.LengthM,
			WidthM:  rec.WidthM,
		},
		VolumeLitres: rec.VolumeLitres,
		AreaSqm:      rec.AreaSqm,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func tankFromDomain(tank types.Tank) *TankRecord {
	return &TankRecord{
		ID:           tank.ID,
		SectionID:    tank.SectionID,
		FarmID:       tank.FarmID,
		Name:         tank.Name,
		Type:         tank.Type,
		Shape:        tank.Shape,
		HeightM:      tank.Dims.HeightM,
		RadiusM:      tank.Dims.RadiusM,
		LengthM:      tank.Dims.LengthM,
		WidthM:       tank.Dims.WidthM,
		VolumeLitres: tank.VolumeLitres,
		AreaSqm:      tank.AreaSqm,
		CreatedAt:    tank.CreatedAt,
		UpdatedAt:    tank.UpdatedAt,
	}
}
