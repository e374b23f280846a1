package hierarchy

import (
	"testing"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDiffClassifiesCreates(t *testing.T) {
	differ := NewDiffer(nil)
	farmID := uuid.New()

	plan := differ.Diff(types.HierarchySnapshot{FarmID: farmID}, types.FarmDraft{
		FarmID: farmID,
		Name:   "North Farm",
		Sections: []types.SectionDraft{
			{
				Name: "Larval",
				Tanks: []types.TankDraft{
					{Name: "L1", Type: types.TankTypeFRP, Shape: types.ShapeCircle, Dims: types.TankDims{HeightM: 1, RadiusM: 1}},
				},
			},
		},
	})

	require.Empty(t, plan.TankDeletes)
	require.Empty(t, plan.SectionDeletes)
	require.Len(t, plan.SectionUpserts, 1)

	section := plan.SectionUpserts[0]
	require.True(t, section.Create)
	require.NotEqual(t, uuid.Nil, section.Section.ID)
	require.Equal(t, farmID, section.Section.FarmID)
	require.Len(t, section.Tanks, 1)

	tank := section.Tanks[0]
	require.True(t, tank.Create)
	require.NotEqual(t, uuid.Nil, tank.Tank.ID)
	require.Equal(t, section.Section.ID, tank.Tank.SectionID)
	require.InDelta(t, 3.14, tank.Tank.AreaSqm, 0.001)
	require.InDelta(t, 3141.59, tank.Tank.VolumeLitres, 0.001)
}

func TestDiffClassifiesDeletes(t *testing.T) {
	differ := NewDiffer(nil)
	farmID := uuid.New()
	keepSection := uuid.New()
	dropSection := uuid.New()
	keepTank := uuid.New()
	dropTank := uuid.New()
	orphanTank := uuid.New()

	snapshot := types.HierarchySnapshot{
		FarmID: farmID,
		Sections: []types.Section{
			{ID: keepSection, FarmID: farmID, Name: "A"},
			{ID: dropSection, FarmID: farmID, Name: "B"},
		},
		Tanks: []types.Tank{
			{ID: keepTank, SectionID: keepSection, FarmID: farmID, Name: "A1"},
			{ID: dropTank, SectionID: keepSection, FarmID: farmID, Name: "A2"},
			{ID: orphanTank, SectionID: dropSection, FarmID: farmID, Name: "B1"},
		},
	}
	plan := differ.Diff(snapshot, types.FarmDraft{
		FarmID: farmID,
		Name:   "Renamed",
		Sections: []types.SectionDraft{
			{
				ID:   keepSection,
				Name: "A",
				Tanks: []types.TankDraft{
					{ID: keepTank, Name: "A1", Shape: types.ShapeCircle, Dims: types.TankDims{HeightM: 1, RadiusM: 1}},
				},
			},
		},
	})

	require.ElementsMatch(t, []uuid.UUID{dropTank, orphanTank}, plan.TankDeletes)
	require.Equal(t, []uuid.UUID{dropSection}, plan.SectionDeletes)
	require.Len(t, plan.SectionUpserts, 1)
	require.False(t, plan.SectionUpserts[0].Create)
	require.False(t, plan.SectionUpserts[0].Tanks[0].Create)
}

func TestDiffRecomputesGeometryOnUnchangedTank(t *testing.T) {
	differ := NewDiffer(nil)
	farmID := uuid.New()
	sectionID := uuid.New()
	tankID := uuid.New()

	snapshot := types.HierarchySnapshot{
		FarmID:   farmID,
		Sections: []types.Section{{ID: sectionID, FarmID: farmID, Name: "A"}},
		Tanks: []types.Tank{{
			ID: tankID, SectionID: sectionID, FarmID: farmID, Name: "A1",
			Shape: types.ShapeRectangle,
			Dims:  types.TankDims{HeightM: 2, LengthM: 3, WidthM: 2},
			// stale derived values on purpose
			VolumeLitres: 1, AreaSqm: 1,
		}},
	}
	plan := differ.Diff(snapshot, types.FarmDraft{
		FarmID: farmID,
		Sections: []types.SectionDraft{{
			ID:   sectionID,
			Name: "A",
			Tanks: []types.TankDraft{{
				ID: tankID, Name: "A1",
				Shape: types.ShapeRectangle,
				Dims:  types.TankDims{HeightM: 2, LengthM: 3, WidthM: 2},
			}},
		}},
	})

	tank := plan.SectionUpserts[0].Tanks[0].Tank
	require.Equal(t, 6.0, tank.AreaSqm)
	require.Equal(t, 12000.0, tank.VolumeLitres)
}

func TestDiffMovesTankBetweenSections(t *testing.T) {
	differ := NewDiffer(nil)
	farmID := uuid.New()
	fromSection := uuid.New()
	toSection := uuid.New()
	tankID := uuid.New()

	snapshot := types.HierarchySnapshot{
		FarmID: farmID,
		Sections: []types.Section{
			{ID: fromSection, FarmID: farmID, Name: "From"},
			{ID: toSection, FarmID: farmID, Name: "To"},
		},
		Tanks: []types.Tank{{ID: tankID, SectionID: fromSection, FarmID: farmID, Name: "T"}},
	}
	plan := differ.Diff(snapshot, types.FarmDraft{
		FarmID: farmID,
		Sections: []types.SectionDraft{
			{ID: fromSection, Name: "From"},
			{ID: toSection, Name: "To", Tanks: []types.TankDraft{{ID: tankID, Name: "T"}}},
		},
	})

	require.Empty(t, plan.TankDeletes)
	var moved types.TankPlan
	for _, section := range plan.SectionUpserts {
		for _, tank := range section.Tanks {
			moved = tank
		}
	}
	require.Equal(t, tankID, moved.Tank.ID)
	require.Equal(t, toSection, moved.Tank.SectionID)
	require.False(t, moved.Create)
}

func TestDiffIdempotentAfterApply(t *testing.T) {
	differ := NewDiffer(nil)
	farmID := uuid.New()
	sectionID := uuid.New()

	snapshot := types.HierarchySnapshot{
		FarmID:   farmID,
		Sections: []types.Section{{ID: sectionID, FarmID: farmID, Name: "Old"}},
		Tanks:    []types.Tank{{ID: uuid.New(), SectionID: sectionID, FarmID: farmID, Name: "Old tank"}},
	}
	draft := types.FarmDraft{
		FarmID: farmID,
		Name:   "Edited",
		Sections: []types.SectionDraft{{
			ID:   sectionID,
			Name: "Kept",
			Tanks: []types.TankDraft{
				{Name: "New tank", Shape: types.ShapeCircle, Dims: types.TankDims{HeightM: 1, RadiusM: 1}},
			},
		}},
	}

	plan := differ.Diff(snapshot, draft)
	require.Len(t, plan.TankDeletes, 1)
	require.Len(t, plan.SectionUpserts, 1)

	// Fold the plan back into a snapshot as the store would.
	next := types.HierarchySnapshot{FarmID: farmID}
	for _, section := range plan.SectionUpserts {
		next.Sections = append(next.Sections, section.Section)
		for _, tank := range section.Tanks {
			next.Tanks = append(next.Tanks, tank.Tank)
		}
	}

	// Re-submitting the same draft with the assigned ids yields no deletes and
	// only overwrite upserts.
	redraft := types.FarmDraft{FarmID: farmID, Name: "Edited"}
	for _, section := range next.Sections {
		sectionDraft := types.SectionDraft{ID: section.ID, Name: section.Name}
		for _, tank := range next.Tanks {
			if tank.SectionID == section.ID {
				sectionDraft.Tanks = append(sectionDraft.Tanks, types.TankDraft{
					ID: tank.ID, Name: tank.Name, Type: tank.Type, Shape: tank.Shape, Dims: tank.Dims,
				})
			}
		}
		redraft.Sections = append(redraft.Sections, sectionDraft)
	}

	second := differ.Diff(next, redraft)
	require.Empty(t, second.TankDeletes)
	require.Empty(t, second.SectionDeletes)
	require.Len(t, second.SectionUpserts, 1)
	require.False(t, second.SectionUpserts[0].Create)
	for _, tank := range second.SectionUpserts[0].Tanks {
		require.False(t, tank.Create)
	}
}
