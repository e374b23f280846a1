package catalog

import (
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record represents the schema stored in catalog_items.
type Record struct {
	bun.BaseModel `bun:"table:catalog_items"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	HatcheryID uuid.UUID `bun:"hatchery_id,notnull,type:uuid"`
	Kind       string    `bun:"kind,notnull"`
	Label      string    `bun:"label,notnull"`
	Position   int       `bun:"position,notnull,default:0"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

func toDomain(rec *Record) *types.CatalogItem {
	if rec == nil {
		return nil
	}
	return &types.CatalogItem{
		ID:         rec.ID,
		HatcheryID: rec.HatcheryID,
		Kind:       types.CatalogKind(rec.Kind),
		Label:      rec.Label,
		Position:   rec.Position,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func fromDomain(item types.CatalogItem) *Record {
	return &Record{
		ID:         item.ID,
		HatcheryID: item.HatcheryID,
		Kind:       string(item.Kind),
		Label:      item.Label,
		Position:   item.Position,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
