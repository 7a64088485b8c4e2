// Dependency edge CRUD for the SQLite backend.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

// maxDependencyDepth caps recursive dependency traversal in SQL to
// bound query cost and guard against corrupt data with cycles.
const maxDependencyDepth = 100

// CreateDependency inserts a dependency edge.
//
// The validation engine has already accepted the edge by the time this
// runs, but both the duplicate check (UNIQUE constraint) and the cycle
// check (recursive CTE) are re-applied here inside the write
// transaction. Validation reads a snapshot; only the re-check inside
// the transaction can rule out an edge committed in between.
func (s *SQLiteStorage) CreateDependency(ctx context.Context, dep *types.Dependency, actor string) error {
	if dep.DependentID == dep.BlockerID {
		return fmt.Errorf("task %s: %w", dep.DependentID, storage.ErrDependencyCycle)
	}
	if dep.ID == "" {
		dep.ID = uuid.NewString()
	}
	if dep.CreatedAt.IsZero() {
		dep.CreatedAt = time.Now()
	}
	if dep.CreatedBy == "" {
		dep.CreatedBy = actor
	}

	return s.withTx(ctx, func(tx *Tx) error {
		// Re-check for cycles against the committed state. We traverse
		// from the blocker along depends-on edges; reaching the
		// dependent means this insert would close a loop.
		var cycleExists bool
		err := tx.QueryRowContext(ctx, `
			WITH RECURSIVE paths AS (
				SELECT
					dependent_task_id,
					blocking_task_id,
					1 as depth
				FROM dependencies
				WHERE dependent_task_id = ?

				UNION ALL

				SELECT
					d.dependent_task_id,
					d.blocking_task_id,
					p.depth + 1
				FROM dependencies d
				JOIN paths p ON d.dependent_task_id = p.blocking_task_id
				WHERE p.depth < ?
			)
			SELECT EXISTS(
				SELECT 1 FROM paths
				WHERE blocking_task_id = ?
			)
		`, dep.BlockerID, maxDependencyDepth, dep.DependentID).Scan(&cycleExists)
		if err != nil {
			return fmt.Errorf("failed to check for cycles: %w", err)
		}
		if cycleExists {
			return fmt.Errorf("%s depends on %s: %w", dep.DependentID, dep.BlockerID, storage.ErrDependencyCycle)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO dependencies (id, dependent_task_id, blocking_task_id, created_at, created_by)
			VALUES (?, ?, ?, ?, ?)
		`, dep.ID, dep.DependentID, dep.BlockerID, dep.CreatedAt, dep.CreatedBy)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s depends on %s: %w", dep.DependentID, dep.BlockerID, storage.ErrDuplicateDependency)
			}
			return fmt.Errorf("failed to add dependency: %w", err)
		}
		return nil
	})
}

// DeleteDependency removes an edge by ID. Deleting an edge that does
// not exist is a no-op, not an error.
func (s *SQLiteStorage) DeleteDependency(ctx context.Context, edgeID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = ?`, edgeID)
	return wrapDBError("delete dependency", err)
}

// DeleteDependenciesForTask removes every edge where the task is
// either endpoint and returns the number removed. Used by the cascade
// coordinator when a task is deleted.
func (s *SQLiteStorage) DeleteDependenciesForTask(ctx context.Context, taskID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM dependencies WHERE dependent_task_id = ? OR blocking_task_id = ?
	`, taskID, taskID)
	if err != nil {
		return 0, wrapDBError("delete dependencies for task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapDBError("check rows affected", err)
	}
	return int(affected), nil
}

// ListDependencies returns every edge in the store.
func (s *SQLiteStorage) ListDependencies(ctx context.Context) ([]*types.Dependency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dependent_task_id, blocking_task_id, created_at, created_by
		FROM dependencies ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, wrapDBError("list dependencies", err)
	}
	defer func() { _ = rows.Close() }()

	var deps []*types.Dependency
	for rows.Next() {
		var dep types.Dependency
		if err := rows.Scan(&dep.ID, &dep.DependentID, &dep.BlockerID, &dep.CreatedAt, &dep.CreatedBy); err != nil {
			return nil, wrapDBError("scan dependency", err)
		}
		deps = append(deps, &dep)
	}
	return deps, wrapDBError("iterate dependencies", rows.Err())
}

// ListDependenciesForTask returns the edges touching one task, split
// into blocked-by (task is the dependent) and blocks (task is the
// blocker). One query, split in Go.
func (s *SQLiteStorage) ListDependenciesForTask(ctx context.Context, taskID string) (*storage.TaskEdges, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dependent_task_id, blocking_task_id, created_at, created_by
		FROM dependencies
		WHERE dependent_task_id = ? OR blocking_task_id = ?
		ORDER BY created_at ASC, id ASC
	`, taskID, taskID)
	if err != nil {
		return nil, wrapDBError("list dependencies for task", err)
	}
	defer func() { _ = rows.Close() }()

	edges := &storage.TaskEdges{}
	for rows.Next() {
		var dep types.Dependency
		if err := rows.Scan(&dep.ID, &dep.DependentID, &dep.BlockerID, &dep.CreatedAt, &dep.CreatedBy); err != nil {
			return nil, wrapDBError("scan dependency", err)
		}
		if dep.DependentID == taskID {
			edges.BlockedBy = append(edges.BlockedBy, &dep)
		}
		if dep.BlockerID == taskID {
			edges.Blocks = append(edges.Blocks, &dep)
		}
	}
	return edges, wrapDBError("iterate dependencies", rows.Err())
}

// CountOutgoing returns how many tasks the given task depends on.
func (s *SQLiteStorage) CountOutgoing(ctx context.Context, taskID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dependencies WHERE dependent_task_id = ?
	`, taskID).Scan(&count)
	return count, wrapDBError("count outgoing dependencies", err)
}
