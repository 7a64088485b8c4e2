// Package sqlite implements the storage interface using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mizannoor/taskflow/internal/storage"
)

// Verify SQLiteStorage implements storage.Storage at compile time
var _ storage.Storage = (*SQLiteStorage)(nil)

// SQLiteStorage implements the Storage interface backed by a SQLite
// database file. Safe for concurrent use: writes serialize on SQLite's
// own locking, reads run against MVCC snapshots under WAL.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// connString builds the SQLite connection string with the pragmas we
// rely on. busy_timeout keeps a second process from failing immediately
// when a write transaction is in flight.
func connString(path string, readonly bool) string {
	s := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	if readonly {
		s += "&mode=ro"
	}
	return s
}

// New opens (creating if necessary) the database at path and ensures
// the schema is current.
func New(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", connString(path, false))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewReadOnly opens an existing database without taking write locks.
// Used by read commands while another process holds the database.
func NewReadOnly(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", connString(path, true))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s read-only: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", path, err)
	}
	return &SQLiteStorage{db: db, path: path}, nil
}

// Path returns the filesystem path of the underlying database file.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// wrapDBError wraps a database error with the operation that failed.
// nil errors pass through so it can wrap return values directly.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
