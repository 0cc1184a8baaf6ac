package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads sessions from the SQLite database the HTTP session
// middleware maintains. The database is opened read-only; the hub never
// writes session state.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the session database at path in read-only mode.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the serialized session blob for a raw session id.
func (s *SQLiteStore) Get(ctx context.Context, sid string) ([]byte, error) {
	var sess []byte
	err := s.db.QueryRowContext(ctx, "SELECT sess FROM sessions WHERE sid = ?", sid).Scan(&sess)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return sess, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
