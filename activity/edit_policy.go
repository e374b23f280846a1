package activity

import (
	"errors"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

// ErrEditForbidden indicates the actor may not edit the record.
var ErrEditForbidden = errors.New("go-hatchery: activity edit forbidden")

// EditPolicy decides who may edit an existing husbandry record: the original
// author always can; an owner can when the record's farm is inside their
// scope. Everyone else is rejected, including managers supervising the farm.
type EditPolicy struct{}

// Allow returns nil when the actor may edit the entry.
func (EditPolicy) Allow(actor types.ActorRef, profileID uuid.UUID, scope types.ScopeFilter, entry types.ActivityEntry) error {
	if profileID != uuid.Nil && entry.UserID == profileID {
		return nil
	}
	if actor.IsOwner() && scope.GrantsFarm(entry.FarmID) {
		return nil
	}
	return ErrEditForbidden
}
