package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

// CreateTask inserts a new task.
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task, actor string) error {
	if task.ID == "" {
		task.ID = types.NewTaskID()
	}
	if !task.Status.IsValid() && task.Status != "" {
		return fmt.Errorf("invalid status: %q", task.Status)
	}
	task.SetDefaults()
	if task.CreatedBy == "" {
		task.CreatedBy = actor
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, created_at, created_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Title, task.Description, task.Status, task.CreatedAt, task.CreatedBy, task.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task %s: %w", task.ID, storage.ErrTaskExists)
		}
		return wrapDBError("create task", err)
	}
	return nil
}

// GetTask returns a task by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, created_at, created_by, updated_at
		FROM tasks WHERE id = ?
	`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("get task", err)
	}
	return task, nil
}

// ListTasks returns all tasks ordered by creation time.
func (s *SQLiteStorage) ListTasks(ctx context.Context) ([]*types.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, status, created_at, created_by, updated_at
		FROM tasks ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, wrapDBError("list tasks", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, wrapDBError("scan task", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, wrapDBError("iterate tasks", rows.Err())
}

// UpdateTaskStatus transitions a task to the given status.
func (s *SQLiteStorage) UpdateTaskStatus(ctx context.Context, id string, status types.Status, actor string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %q", status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id)
	if err != nil {
		return wrapDBError("update task status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("check rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, storage.ErrTaskNotFound)
	}
	return nil
}

// DeleteTask removes a task row. Edge cleanup is the cascade
// coordinator's job and runs before this is called; deleting the task
// itself does not touch the dependencies table.
func (s *SQLiteStorage) DeleteTask(ctx context.Context, id string, actor string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return wrapDBError("delete task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("check rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, storage.ErrTaskNotFound)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*types.Task, error) {
	var task types.Task
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status,
		&task.CreatedAt, &task.CreatedBy, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. Matched on message text because database/sql flattens the
// driver's error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
