package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS map_snapshots (
	id         TEXT PRIMARY KEY,
	map_id     TEXT NOT NULL,
	map        TEXT NOT NULL,
	overlay    TEXT,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_map_snapshots_map_id ON map_snapshots(map_id);
CREATE INDEX IF NOT EXISTS idx_map_snapshots_fetched_at ON map_snapshots(fetched_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, m model.Map, overlay json.RawMessage) (*Snapshot, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	mapJSON, err := json.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal map")
	}

	var overlayVal any
	if len(overlay) > 0 {
		overlayVal = string(overlay)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO map_snapshots (id, map_id, map, overlay, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		id, m.MapID, string(mapJSON), overlayVal, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert snapshot for map %s", m.MapID)
	}

	return &Snapshot{ID: id, MapID: m.MapID, Map: m, Overlay: overlay, FetchedAt: now}, nil
}

func (s *SQLiteStore) GetLatest(ctx context.Context, mapID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, map_id, map, overlay, fetched_at FROM map_snapshots
		 WHERE map_id = ? ORDER BY fetched_at DESC LIMIT 1`,
		mapID,
	)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get snapshot for map %s", mapID)
	}
	return snap, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	// One row per map: the newest snapshot, selected as a full row so
	// fetched_at keeps its native type through the driver.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, map_id, map, overlay, fetched_at FROM map_snapshots AS s
		 WHERE id = (SELECT id FROM map_snapshots
		             WHERE map_id = s.map_id
		             ORDER BY fetched_at DESC LIMIT 1)
		 ORDER BY fetched_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		snaps = append(snaps, *snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: list snapshots iterate")
}

func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM map_snapshots WHERE fetched_at < ?`, cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prune snapshots")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prune rows affected")
	}
	return int(n), nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var snap Snapshot
	var mapJSON string
	var overlay sql.NullString

	if err := row.Scan(&snap.ID, &snap.MapID, &mapJSON, &overlay, &snap.FetchedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(mapJSON), &snap.Map); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal map")
	}
	if overlay.Valid && overlay.String != "" {
		snap.Overlay = json.RawMessage(overlay.String)
	}
	return &snap, nil
}
