package xref

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is an optional on-disk mirror of a Tracker, for callers that want
// cross-references to survive between separate runs of the pipeline (e.g.
// the CLI's --xref-db flag) instead of recomputing them from scratch
// every time. Pure-Go sqlite driver, no cgo toolchain required to build.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) a sqlite database at path and
// ensures its schema exists.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("xref: open store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS edges (
	caller INTEGER NOT NULL,
	callee INTEGER NOT NULL,
	offset INTEGER NOT NULL,
	direction_down INTEGER NOT NULL,
	is_destination INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("xref: migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Persist writes every edge of t into the store, replacing any rows from
// a previous run.
func (s *Store) Persist(t *Tracker) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("xref: begin tx: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		tx.Rollback()
		return fmt.Errorf("xref: clear edges: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO edges (caller, callee, offset, direction_down, is_destination) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("xref: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range t.Edges() {
		if _, err := stmt.Exec(e.Caller, e.Target.Index, e.Offset, e.DirectionDown, e.IsDestination); err != nil {
			tx.Rollback()
			return fmt.Errorf("xref: insert edge: %w", err)
		}
	}
	return tx.Commit()
}

// Load reads every persisted edge back into a fresh Tracker.
func (s *Store) Load() (*Tracker, error) {
	rows, err := s.db.Query(`SELECT caller, callee, offset, direction_down, is_destination FROM edges ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("xref: query edges: %w", err)
	}
	defer rows.Close()

	t := NewTracker()
	for rows.Next() {
		var e Edge
		var directionDown, isDestination int
		if err := rows.Scan(&e.Caller, &e.Target.Index, &e.Offset, &directionDown, &isDestination); err != nil {
			return nil, fmt.Errorf("xref: scan edge: %w", err)
		}
		e.DirectionDown = directionDown != 0
		e.IsDestination = isDestination != 0
		t.edges = append(t.edges, e)
	}
	return t, rows.Err()
}
