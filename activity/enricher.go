package activity

import (
	"context"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LocationEnricher resolves display names for activity entries: farm, section
// and tank labels plus the author's name and username. Feeds and reports both
// depend on it; the chart location key is built from the resolved names.
type LocationEnricher struct {
	db *bun.DB
}

// NewLocationEnricher constructs an enricher over the shared database.
func NewLocationEnricher(db *bun.DB) *LocationEnricher {
	return &LocationEnricher{db: db}
}

// Enrich fills the display-name fields in place using batched lookups, one
// per referenced table. Entries pointing at deleted hierarchy rows keep empty
// names; readers apply their own Unknown placeholders.
func (e *LocationEnricher) Enrich(ctx context.Context, entries []types.ActivityEntry) ([]types.ActivityEntry, error) {
	if len(entries) == 0 || e.db == nil {
		return entries, nil
	}

	farmIDs := make(map[uuid.UUID]bool)
	sectionIDs := make(map[uuid.UUID]bool)
	tankIDs := make(map[uuid.UUID]bool)
	userIDs := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		farmIDs[entry.FarmID] = true
		sectionIDs[entry.SectionID] = true
		tankIDs[entry.TankID] = true
		userIDs[entry.UserID] = true
	}

	farms, err := e.lookupNames(ctx, "farms", farmIDs)
	if err != nil {
		return entries, err
	}
	sections, err := e.lookupNames(ctx, "sections", sectionIDs)
	if err != nil {
		return entries, err
	}
	tanks, err := e.lookupNames(ctx, "tanks", tankIDs)
	if err != nil {
		return entries, err
	}
	authors, err := e.lookupAuthors(ctx, userIDs)
	if err != nil {
		return entries, err
	}

	for i := range entries {
		entries[i].FarmName = farms[entries[i].FarmID]
		entries[i].SectionName = sections[entries[i].SectionID]
		entries[i].TankName = tanks[entries[i].TankID]
		if author, ok := authors[entries[i].UserID]; ok {
			entries[i].AuthorName = author.fullName
			entries[i].AuthorUsername = author.username
		}
	}
	return entries, nil
}

func (e *LocationEnricher) lookupNames(ctx context.Context, table string, ids map[uuid.UUID]bool) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	list := idList(ids)
	if len(list) == 0 {
		return out, nil
	}
	type row struct {
		ID   uuid.UUID `bun:"id"`
		Name string    `bun:"name"`
	}
	var rows []row
	if err := e.db.NewSelect().
		Table(table).
		Column("id", "name").
		Where("id IN (?)", bun.In(list)).
		Scan(ctx, &rows); err != nil {
		return nil, err
	}
	for _, rec := range rows {
		out[rec.ID] = rec.Name
	}
	return out, nil
}

type authorNames struct {
	fullName string
	username string
}

func (e *LocationEnricher) lookupAuthors(ctx context.Context, ids map[uuid.UUID]bool) (map[uuid.UUID]authorNames, error) {
	out := make(map[uuid.UUID]authorNames, len(ids))
	list := idList(ids)
	if len(list) == 0 {
		return out, nil
	}
	type row struct {
		ID       uuid.UUID `bun:"id"`
		FullName string    `bun:"full_name"`
		Username string    `bun:"username"`
	}
	var rows []row
	if err := e.db.NewSelect().
		Table("profiles").
		Column("id", "full_name", "username").
		Where("id IN (?)", bun.In(list)).
		Scan(ctx, &rows); err != nil {
		return nil, err
	}
	for _, rec := range rows {
		out[rec.ID] = authorNames{fullName: rec.FullName, username: rec.Username}
	}
	return out, nil
}

func idList(ids map[uuid.UUID]bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for id := range ids {
		if id != uuid.Nil {
			out = append(out, id)
		}
	}
	return out
}
