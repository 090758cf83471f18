// Package archive provides SQLite-backed persistence for recorded sessions,
// grounded in pumped-fn-pumped-go's examples/health-monitor/database.go
// (sql.Open("sqlite3", path), ping-on-connect, explicit schema migration).
package archive

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sitharaj88/reacton/recorder"
)

// Store persists RecordedSessions to a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite-backed archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("reacton/archive: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("reacton/archive: ping database: %w", err)
	}
	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("reacton/archive: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start_time
		ON sessions(start_time);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save persists session in compressed form, overwriting any prior save
// under the same id.
func (s *Store) Save(session recorder.RecordedSession) error {
	payload, err := recorder.ExportCompressed(session)
	if err != nil {
		return fmt.Errorf("reacton/archive: compress session: %w", err)
	}

	var endTime any
	if session.EndTime != nil {
		endTime = session.EndTime.UnixMilli()
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (id, version, start_time, end_time, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, strftime('%s','now'))
		 ON CONFLICT(id) DO UPDATE SET
		   version=excluded.version,
		   start_time=excluded.start_time,
		   end_time=excluded.end_time,
		   payload=excluded.payload`,
		session.ID, session.Version, session.StartTime.UnixMilli(), endTime, payload,
	)
	if err != nil {
		return fmt.Errorf("reacton/archive: save session: %w", err)
	}
	return nil
}

// Load retrieves and decompresses a previously saved session by id.
func (s *Store) Load(id string) (recorder.RecordedSession, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return recorder.RecordedSession{}, fmt.Errorf("reacton/archive: load session: %w", err)
	}
	return recorder.FromCompressed(payload)
}

// List returns the ids of every archived session, most recently created
// first.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("reacton/archive: list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a saved session by id. Idempotent.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}
