package sqlite

import (
	"context"
	"fmt"
)

// schema is the complete DDL, executed on every open. All statements
// are IF NOT EXISTS so re-running against an existing database is a
// no-op.
//
// The dependencies table is uniquely keyed by edge id, with a UNIQUE
// constraint on the (dependent, blocker) pair backing the duplicate
// check, and single-column indexes on both endpoints so per-task edge
// lookups and cascades stay indexed in either direction.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS dependencies (
	id TEXT PRIMARY KEY,
	dependent_task_id TEXT NOT NULL,
	blocking_task_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	UNIQUE(dependent_task_id, blocking_task_id)
);

CREATE INDEX IF NOT EXISTS idx_dependencies_dependent ON dependencies(dependent_task_id);
CREATE INDEX IF NOT EXISTS idx_dependencies_blocking ON dependencies(blocking_task_id);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// ensureSchema creates any missing tables and indexes.
func (s *SQLiteStorage) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
