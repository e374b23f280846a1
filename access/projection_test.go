package access

import (
	"testing"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tree(farmID uuid.UUID, farmName string, sections ...types.SectionView) types.FarmTree {
	return types.FarmTree{
		Farm:     types.Farm{ID: farmID, Name: farmName},
		Sections: sections,
	}
}

func section(name string, tanks int) types.SectionView {
	view := types.SectionView{Section: types.Section{ID: uuid.New(), Name: name}}
	for i := 0; i < tanks; i++ {
		view.Tanks = append(view.Tanks, types.Tank{ID: uuid.New()})
	}
	return view
}

func worker() types.ActorRef {
	return types.ActorRef{ID: uuid.New(), Type: types.ActorRoleWorker}
}

func TestVisibleTanksFiltersByGrant(t *testing.T) {
	grantedFarm := uuid.New()
	hiddenFarm := uuid.New()

	trees := []types.FarmTree{
		tree(grantedFarm, "Granted", section("S1", 2)),
		tree(hiddenFarm, "Hidden", section("S2", 3)),
	}

	views := VisibleTanks(worker(), []uuid.UUID{grantedFarm}, trees)
	require.Len(t, views, 1)
	require.Equal(t, "S1", views[0].Section.Name)
	require.Equal(t, "Granted", views[0].FarmName)
	require.Len(t, views[0].Tanks, 2)
}

func TestVisibleTanksSkipsEmptySections(t *testing.T) {
	farmID := uuid.New()
	trees := []types.FarmTree{
		tree(farmID, "Farm", section("Empty", 0), section("Full", 1)),
	}

	views := VisibleTanks(worker(), []uuid.UUID{farmID}, trees)
	require.Len(t, views, 1)
	require.Equal(t, "Full", views[0].Section.Name)
}

func TestVisibleTanksOwnerBypassesGrants(t *testing.T) {
	trees := []types.FarmTree{
		tree(uuid.New(), "A", section("S1", 1)),
		tree(uuid.New(), "B", section("S2", 1)),
	}
	owner := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOwner}

	views := VisibleTanks(owner, nil, trees)
	require.Len(t, views, 2)
}

func TestVisibleTanksRevokedGrantsSeeNothing(t *testing.T) {
	trees := []types.FarmTree{
		tree(uuid.New(), "A", section("S1", 1)),
		tree(uuid.New(), "B", section("S2", 1)),
	}

	views := VisibleTanks(worker(), []uuid.UUID{}, trees)
	require.Empty(t, views)

	views = VisibleTanks(worker(), nil, trees)
	require.Empty(t, views)
}

func TestVisibleTanksNoGrantedFarmsWithTanks(t *testing.T) {
	trees := []types.FarmTree{
		tree(uuid.New(), "A", section("S1", 1)),
	}

	views := VisibleTanks(worker(), []uuid.UUID{uuid.New()}, trees)
	require.Empty(t, views)
}
