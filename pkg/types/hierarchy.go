package types

import (
	"fmt"

	"github.com/google/uuid"
)

// TankDraft is an edited tank as held by the farm editor. A Nil ID marks a
// tank that does not exist in the persisted snapshot yet.
type TankDraft struct {
	ID    uuid.UUID
	Name  string
	Type  TankType
	Shape TankShape
	Dims  TankDims
}

// SectionDraft is an edited section together with its edited tanks. A Nil ID
// marks a new section whose tanks need the freshly assigned section id.
type SectionDraft struct {
	ID    uuid.UUID
	Name  string
	Tanks []TankDraft
}

// FarmDraft carries the complete edited tree submitted by a farm editor.
type FarmDraft struct {
	FarmID   uuid.UUID
	Name     string
	Sections []SectionDraft
}

// HierarchySnapshot is the persisted state of one farm's tree, as loaded from
// the store before reconciliation.
type HierarchySnapshot struct {
	FarmID   uuid.UUID
	Sections []Section
	Tanks    []Tank
}

// FarmTree is a fully joined farm used by projections and management views.
type FarmTree struct {
	Farm     Farm
	Sections []SectionView
}

// ReconcilePass names the four ordered phases of plan application. Tank
// deletes run before section deletes so no tank ever references a removed
// section; section upserts run before tank upserts so new tanks can take
// their new section's id.
type ReconcilePass string

const (
	PassTankDelete    ReconcilePass = "tank-delete"
	PassSectionDelete ReconcilePass = "section-delete"
	PassSectionUpsert ReconcilePass = "section-upsert"
	PassTankUpsert    ReconcilePass = "tank-upsert"
)

// TankPlan is one tank write in a reconcile plan. Create distinguishes insert
// from full-overwrite update; the Tank carries recomputed geometry.
type TankPlan struct {
	Tank   Tank
	Create bool
}

// SectionPlan is one section write together with the tank writes that depend
// on it.
type SectionPlan struct {
	Section Section
	Create  bool
	Tanks   []TankPlan
}

// ReconcilePlan is the pure output of the hierarchy differ: two delete sets
// and an ordered upsert sequence. Executing it against the store is the
// caller's job; the plan itself holds no connection state.
type ReconcilePlan struct {
	FarmID         uuid.UUID
	FarmName       string
	TankDeletes    []uuid.UUID
	SectionDeletes []uuid.UUID
	SectionUpserts []SectionPlan
}

// Empty reports whether applying the plan would be a no-op apart from the
// farm rename.
func (p ReconcilePlan) Empty() bool {
	return len(p.TankDeletes) == 0 && len(p.SectionDeletes) == 0 && len(p.SectionUpserts) == 0
}

// ReconciliationError reports which entity failed during which pass when a
// plan is applied. Earlier completed passes are not rolled back; the caller
// may re-run the differ against the partially applied state and retry.
type ReconciliationError struct {
	Pass     ReconcilePass
	Entity   string
	EntityID uuid.UUID
	Err      error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("go-hatchery: reconcile %s failed for %s %s: %v", e.Pass, e.Entity, e.EntityID, e.Err)
}

// Unwrap exposes the underlying store error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
