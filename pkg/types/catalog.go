package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CatalogKind identifies the per-hatchery option lists that feed the activity
// entry forms.
type CatalogKind string

const (
	CatalogFeedType      CatalogKind = "feed_type"
	CatalogFeedUnit      CatalogKind = "feed_unit"
	CatalogTreatmentType CatalogKind = "treatment_type"
	CatalogTreatmentUnit CatalogKind = "treatment_unit"
)

// CatalogKinds lists every option list kind.
func CatalogKinds() []CatalogKind {
	return []CatalogKind{CatalogFeedType, CatalogFeedUnit, CatalogTreatmentType, CatalogTreatmentUnit}
}

// CatalogItem is one selectable option within a hatchery-scoped list.
type CatalogItem struct {
	ID         uuid.UUID
	HatcheryID uuid.UUID
	Kind       CatalogKind
	Label      string
	Position   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CatalogRepository describes catalog CRUD operations.
type CatalogRepository interface {
	ListCatalog(ctx context.Context, hatcheryID uuid.UUID, kind CatalogKind) ([]CatalogItem, error)
	UpsertCatalogItem(ctx context.Context, item CatalogItem) (*CatalogItem, error)
	DeleteCatalogItem(ctx context.Context, id uuid.UUID) error
	SeedDefaults(ctx context.Context, hatcheryID uuid.UUID) error
}
