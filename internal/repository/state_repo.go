package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"furnace_engine/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	upsertFurnaceSQL = `
		INSERT INTO furnace_state (location, archetype, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(location) DO UPDATE SET
			archetype=excluded.archetype,
			state=excluded.state,
			updated_at=excluded.updated_at
	`

	selectFurnacesSQL = `
		SELECT location, archetype, state, updated_at
		FROM furnace_state ORDER BY location ASC
	`

	deleteFurnaceSQL = `DELETE FROM furnace_state WHERE location = ?`
)

// SaveAll upserts every record in one transaction.
func (r *StateSQLite) SaveAll(ctx context.Context, recs []models.FurnaceRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range recs {
		raw, err := json.Marshal(rec.State)
		if err != nil {
			return fmt.Errorf("encode furnace %s: %w", rec.Location, err)
		}
		ts := rec.UpdatedAt
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.ExecContext(ctx, upsertFurnaceSQL, rec.Location, rec.Archetype, string(raw), ts.UTC()); err != nil {
			return fmt.Errorf("save furnace %s: %w", rec.Location, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadAll returns every persisted furnace ordered by location.
func (r *StateSQLite) LoadAll(ctx context.Context) ([]models.FurnaceRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectFurnacesSQL)
	if err != nil {
		return nil, fmt.Errorf("select furnaces: %w", err)
	}
	defer rows.Close()

	var out []models.FurnaceRecord
	for rows.Next() {
		var (
			rec models.FurnaceRecord
			raw string
		)
		if err := rows.Scan(&rec.Location, &rec.Archetype, &raw, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &rec.State); err != nil {
			return nil, fmt.Errorf("decode furnace %s: %w", rec.Location, err)
		}
		rec.UpdatedAt = rec.UpdatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the row for location. Deleting a missing row is not an error.
func (r *StateSQLite) Delete(ctx context.Context, location string) error {
	if _, err := r.db.ExecContext(ctx, deleteFurnaceSQL, location); err != nil {
		return fmt.Errorf("delete furnace %s: %w", location, err)
	}
	return nil
}
