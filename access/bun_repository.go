package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed access repository.
type RepositoryConfig struct {
	DB *bun.DB
}

// Repository persists farm grants.
type Repository struct {
	db *bun.DB
}

// NewRepository constructs the default access repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("access: bun DB required")
	}
	return &Repository{db: cfg.DB}, nil
}

var _ types.AccessRepository = (*Repository)(nil)

// ReplaceGrants swaps the user's grant set wholesale: delete everything, then
// insert the new rows. The editor always submits the complete set, so a diff
// would only add failure modes.
func (r *Repository) ReplaceGrants(ctx context.Context, userID uuid.UUID, farmIDs []uuid.UUID) error {
	if userID == uuid.Nil {
		return types.ErrUserIDRequired
	}
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*GrantRecord)(nil)).Where("user_id = ?", userID).Exec(ctx); err != nil {
			return err
		}
		seen := make(map[uuid.UUID]bool, len(farmIDs))
		for _, farmID := range farmIDs {
			if farmID == uuid.Nil || seen[farmID] {
				continue
			}
			seen[farmID] = true
			grant := &GrantRecord{UserID: userID, FarmID: farmID}
			if _, err := tx.NewInsert().Model(grant).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListGrants returns the farm ids granted to the user.
func (r *Repository) ListGrants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	var rows []GrantRecord
	if err := r.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("farm_id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.FarmID)
	}
	return out, nil
}

// DeleteGrantsByUser removes every grant for the user. Used by the profile
// delete cascade.
func (r *Repository) DeleteGrantsByUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return types.ErrUserIDRequired
	}
	_, err := r.db.NewDelete().Model((*GrantRecord)(nil)).Where("user_id = ?", userID).Exec(ctx)
	return err
}
