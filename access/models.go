package access

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GrantRecord models the farm_access row. The pair is the identity; grants
// carry no other state.
type GrantRecord struct {
	bun.BaseModel `bun:"table:farm_access"`

	UserID uuid.UUID `bun:"user_id,pk,type:uuid"`
	FarmID uuid.UUID `bun:"farm_id,pk,type:uuid"`
}
