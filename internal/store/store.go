// Package store keeps a local sqlite index of parsed beatmap headers so
// repeated tooling runs don't re-read whole map directories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS beatmaps (
	beatmap_id     INTEGER NOT NULL,
	set_id         INTEGER NOT NULL,
	title          TEXT NOT NULL,
	artist         TEXT NOT NULL,
	creator        TEXT NOT NULL,
	version        TEXT NOT NULL,
	mode           INTEGER NOT NULL,
	format_version INTEGER NOT NULL,
	hit_objects    INTEGER NOT NULL,
	diagnostics    INTEGER NOT NULL,
	path           TEXT NOT NULL PRIMARY KEY
);
CREATE INDEX IF NOT EXISTS beatmaps_by_set ON beatmaps (set_id);
`

// Record is one indexed difficulty.
type Record struct {
	BeatmapID     int
	SetID         int
	Title         string
	Artist        string
	Creator       string
	Version       string
	Mode          int
	FormatVersion int
	HitObjects    int
	Diagnostics   int
	Path          string
}

// ErrNotFound is returned by Get when no row matches.
var ErrNotFound = errors.New("store: beatmap not found")

type Store struct {
	db *sql.DB
}

// Open creates or opens the index at path. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the record for its path.
func (s *Store) Put(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO beatmaps
		(beatmap_id, set_id, title, artist, creator, version, mode,
		 format_version, hit_objects, diagnostics, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BeatmapID, r.SetID, r.Title, r.Artist, r.Creator, r.Version, r.Mode,
		r.FormatVersion, r.HitObjects, r.Diagnostics, r.Path,
	)
	if err != nil {
		return fmt.Errorf("upsert beatmap %q: %w", r.Path, err)
	}
	log.Debug().Str("path", r.Path).Int("beatmap_id", r.BeatmapID).Msg("Indexed beatmap")
	return nil
}

// Get returns the record indexed under path.
func (s *Store) Get(ctx context.Context, path string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT beatmap_id, set_id, title, artist, creator, version, mode,
		       format_version, hit_objects, diagnostics, path
		FROM beatmaps WHERE path = ?`, path)

	var r Record
	err := row.Scan(&r.BeatmapID, &r.SetID, &r.Title, &r.Artist, &r.Creator,
		&r.Version, &r.Mode, &r.FormatVersion, &r.HitObjects, &r.Diagnostics, &r.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get beatmap %q: %w", path, err)
	}
	return r, nil
}

// List returns all records ordered by set then title.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT beatmap_id, set_id, title, artist, creator, version, mode,
		       format_version, hit_objects, diagnostics, path
		FROM beatmaps ORDER BY set_id, title, version`)
	if err != nil {
		return nil, fmt.Errorf("list beatmaps: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.BeatmapID, &r.SetID, &r.Title, &r.Artist, &r.Creator,
			&r.Version, &r.Mode, &r.FormatVersion, &r.HitObjects, &r.Diagnostics, &r.Path); err != nil {
			return nil, fmt.Errorf("scan beatmap row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
