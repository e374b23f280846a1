package access

import (
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

// VisibleTanks projects the farm trees down to the tank picker a staff member
// sees: sections of granted farms that hold at least one tank, with the farm
// display name carried alongside. Owners bypass the grant filter; for every
// other role an empty grant set projects nothing, so a staff member whose
// grants were revoked sees no tanks.
func VisibleTanks(actor types.ActorRef, grants []uuid.UUID, trees []types.FarmTree) []types.SectionView {
	granted := make(map[uuid.UUID]bool, len(grants))
	for _, id := range grants {
		granted[id] = true
	}

	var views []types.SectionView
	for _, tree := range trees {
		if !actor.IsOwner() && !granted[tree.Farm.ID] {
			continue
		}
		for _, section := range tree.Sections {
			if len(section.Tanks) == 0 {
				continue
			}
			view := section
			view.FarmName = tree.Farm.Name
			views = append(views, view)
		}
	}
	return views
}
