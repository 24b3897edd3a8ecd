package repository

import (
	"context"
	"errors"
	"fmt"

	"prefslots/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS pref_layouts (
		prefecture TEXT PRIMARY KEY,
		min_lat DOUBLE PRECISION NOT NULL,
		max_lat DOUBLE PRECISION NOT NULL,
		min_lng DOUBLE PRECISION NOT NULL,
		max_lng DOUBLE PRECISION NOT NULL,
		pad DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS pref_slots (
		prefecture TEXT NOT NULL REFERENCES pref_layouts (prefecture) ON DELETE CASCADE,
		slot_id INTEGER NOT NULL,
		left_pct DOUBLE PRECISION NOT NULL,
		top_pct DOUBLE PRECISION NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (prefecture, slot_id)
	);
`

// Repository stores published slot tables in PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the slot tables when they do not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ReplaceTable swaps the published table for a new one in a single transaction
func (r *Repository) ReplaceTable(ctx context.Context, table models.SlotTable) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM pref_layouts"); err != nil {
		return fmt.Errorf("repository: failed to clear layouts: %w", err)
	}

	layouts := table.Layouts
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"pref_layouts"},
		[]string{"prefecture", "min_lat", "max_lat", "min_lng", "max_lng", "pad"},
		pgx.CopyFromSlice(len(layouts), func(i int) ([]any, error) {
			l := layouts[i]
			return []any{l.Prefecture, l.Bounds.MinLat, l.Bounds.MaxLat, l.Bounds.MinLng, l.Bounds.MaxLng, l.Pad}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy layouts: %w", err)
	}

	var rows [][]any
	for _, l := range layouts {
		for _, s := range l.Slots {
			rows = append(rows, []any{l.Prefecture, s.ID, s.LeftPct, s.TopPct, s.City})
		}
	}
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"pref_slots"},
		[]string{"prefecture", "slot_id", "left_pct", "top_pct", "city"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit: %w", err)
	}
	return nil
}

// ListLayouts returns every published layout ordered by prefecture name
func (r *Repository) ListLayouts(ctx context.Context) ([]models.PrefectureLayout, error) {
	sql := `
		SELECT prefecture, min_lat, max_lat, min_lng, max_lng, pad
		FROM pref_layouts
		ORDER BY prefecture COLLATE "C"
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query layouts: %w", err)
	}
	defer rows.Close()

	layouts := []models.PrefectureLayout{}
	index := make(map[string]int)
	for rows.Next() {
		var l models.PrefectureLayout
		err := rows.Scan(&l.Prefecture, &l.Bounds.MinLat, &l.Bounds.MaxLat, &l.Bounds.MinLng, &l.Bounds.MaxLng, &l.Pad)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan layout: %w", err)
		}
		l.Slots = []models.Slot{}
		index[l.Prefecture] = len(layouts)
		layouts = append(layouts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating layouts: %w", err)
	}

	slotRows, err := r.db.Query(ctx, `
		SELECT prefecture, slot_id, left_pct, top_pct, city
		FROM pref_slots
		ORDER BY prefecture, slot_id
	`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var prefecture string
		var s models.Slot
		if err := slotRows.Scan(&prefecture, &s.ID, &s.LeftPct, &s.TopPct, &s.City); err != nil {
			return nil, fmt.Errorf("repository: failed to scan slot: %w", err)
		}
		if i, ok := index[prefecture]; ok {
			layouts[i].Slots = append(layouts[i].Slots, s)
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating slots: %w", err)
	}

	return layouts, nil
}

// FindLayout returns the layout of one prefecture with its slots in id order
func (r *Repository) FindLayout(ctx context.Context, prefecture string) (*models.PrefectureLayout, error) {
	l := models.PrefectureLayout{Prefecture: prefecture}
	err := r.db.QueryRow(ctx, `
		SELECT min_lat, max_lat, min_lng, max_lng, pad
		FROM pref_layouts
		WHERE prefecture = $1
	`, prefecture).Scan(&l.Bounds.MinLat, &l.Bounds.MaxLat, &l.Bounds.MinLng, &l.Bounds.MaxLng, &l.Pad)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repository: %w: %s", models.ErrPrefectureNotFound, prefecture)
		}
		return nil, fmt.Errorf("repository: failed to query layout: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT slot_id, left_pct, top_pct, city
		FROM pref_slots
		WHERE prefecture = $1
		ORDER BY slot_id
	`, prefecture)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query slots: %w", err)
	}
	defer rows.Close()

	l.Slots = []models.Slot{}
	for rows.Next() {
		var s models.Slot
		if err := rows.Scan(&s.ID, &s.LeftPct, &s.TopPct, &s.City); err != nil {
			return nil, fmt.Errorf("repository: failed to scan slot: %w", err)
		}
		l.Slots = append(l.Slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating slots: %w", err)
	}

	return &l, nil
}
