package hierarchy

import (
	"github.com/goliatone/go-hatchery/geometry"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

// Differ turns a persisted snapshot plus an edited tree into an executable
// reconcile plan. It owns no storage; Diff only classifies and orders writes.
type Differ struct {
	idGen types.IDGenerator
}

// NewDiffer constructs a differ with the supplied ID generator, defaulting to
// UUIDv4.
func NewDiffer(idGen types.IDGenerator) *Differ {
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Differ{idGen: idGen}
}

// Diff classifies every entity by identity, not content:
//
//   - no id on the draft: create, with a freshly assigned id
//   - id present in the snapshot but absent from the draft: delete
//   - id present in both: full-overwrite update, even when nothing changed
//
// Geometry is recomputed for every upserted tank, so the derived columns can
// never go stale through the editor. Tanks of a deleted section are folded
// into the tank delete set; tanks of a new section take the new section id.
func (d *Differ) Diff(snapshot types.HierarchySnapshot, draft types.FarmDraft) types.ReconcilePlan {
	plan := types.ReconcilePlan{
		FarmID:   snapshot.FarmID,
		FarmName: draft.Name,
	}

	editedSections := make(map[uuid.UUID]bool, len(draft.Sections))
	editedTanks := make(map[uuid.UUID]bool)
	for _, section := range draft.Sections {
		if section.ID != uuid.Nil {
			editedSections[section.ID] = true
		}
		for _, tank := range section.Tanks {
			if tank.ID != uuid.Nil {
				editedTanks[tank.ID] = true
			}
		}
	}

	for _, tank := range snapshot.Tanks {
		if !editedTanks[tank.ID] {
			plan.TankDeletes = append(plan.TankDeletes, tank.ID)
		}
	}
	for _, section := range snapshot.Sections {
		if !editedSections[section.ID] {
			plan.SectionDeletes = append(plan.SectionDeletes, section.ID)
		}
	}

	for _, sectionDraft := range draft.Sections {
		sectionPlan := types.SectionPlan{
			Section: types.Section{
				ID:     sectionDraft.ID,
				FarmID: snapshot.FarmID,
				Name:   sectionDraft.Name,
			},
			Create: sectionDraft.ID == uuid.Nil,
		}
		if sectionPlan.Create {
			sectionPlan.Section.ID = d.idGen.UUID()
		}
		for _, tankDraft := range sectionDraft.Tanks {
			tank := types.Tank{
				ID:        tankDraft.ID,
				SectionID: sectionPlan.Section.ID,
				FarmID:    snapshot.FarmID,
				Name:      tankDraft.Name,
				Type:      tankDraft.Type,
				Shape:     tankDraft.Shape,
				Dims:      tankDraft.Dims,
			}
			create := tank.ID == uuid.Nil
			if create {
				tank.ID = d.idGen.UUID()
			}
			geometry.Apply(&tank)
			sectionPlan.Tanks = append(sectionPlan.Tanks, types.TankPlan{Tank: tank, Create: create})
		}
		plan.SectionUpserts = append(plan.SectionUpserts, sectionPlan)
	}

	return plan
}
