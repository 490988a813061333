// Package sqlitestore persists grid table snapshots in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-datagrid/components/grid"
)

const schema = `
CREATE TABLE IF NOT EXISTS grid_snapshots (
    table_code TEXT PRIMARY KEY,
    saved_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS grid_rows (
    table_code TEXT NOT NULL,
    row_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    payload TEXT NOT NULL,
    PRIMARY KEY (table_code, row_id)
);
CREATE INDEX IF NOT EXISTS idx_grid_rows_position ON grid_rows (table_code, position);`

// Store implements grid.RowStore on SQLite.
type Store struct {
	db *sql.DB
}

var _ grid.RowStore = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadRows returns the saved rows of a table in their saved order.
func (s *Store) LoadRows(ctx context.Context, table string) ([]grid.Row, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT saved_at FROM grid_snapshots WHERE table_code = ?`, table).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, grid.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: load %s: %w", table, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_id, payload FROM grid_rows WHERE table_code = ? ORDER BY position`, table)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: load %s: %w", table, err)
	}
	defer rows.Close()

	out := []grid.Row{}
	for rows.Next() {
		var (
			id      string
			payload string
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan %s: %w", table, err)
		}
		values := map[string]any{}
		if err := json.Unmarshal([]byte(payload), &values); err != nil {
			return nil, fmt.Errorf("sqlitestore: decode row %s/%s: %w", table, id, err)
		}
		out = append(out, grid.Row{ID: id, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: load %s: %w", table, err)
	}
	return out, nil
}

// SaveRows replaces the snapshot of a table in one transaction.
func (s *Store) SaveRows(ctx context.Context, table string, rows []grid.Row) error {
	if table == "" {
		return errors.New("sqlitestore: table code is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM grid_rows WHERE table_code = ?`, table); err != nil {
		return fmt.Errorf("sqlitestore: clear %s: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO grid_rows (table_code, row_id, position, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlitestore: prepare: %w", err)
	}
	defer stmt.Close()
	for i, row := range rows {
		payload, err := json.Marshal(row.Values)
		if err != nil {
			return fmt.Errorf("sqlitestore: encode row %s/%s: %w", table, row.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, table, row.ID, i, string(payload)); err != nil {
			return fmt.Errorf("sqlitestore: insert row %s/%s: %w", table, row.ID, err)
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO grid_snapshots (table_code, saved_at) VALUES (?, ?)
		 ON CONFLICT(table_code) DO UPDATE SET saved_at = excluded.saved_at`,
		table, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlitestore: mark %s: %w", table, err)
	}
	return tx.Commit()
}

// Tables lists the table codes that have a saved snapshot.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT table_code FROM grid_snapshots ORDER BY table_code`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list tables: %w", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
