// Package storage defines the interface for taskflow storage backends.
package storage

import (
	"context"
	"errors"

	"github.com/mizannoor/taskflow/internal/types"
)

// Sentinel errors returned by storage backends. Callers match with
// errors.Is so wrapped variants still compare correctly.
var (
	// ErrTaskExists is returned when creating a task whose ID is taken.
	ErrTaskExists = errors.New("task already exists")

	// ErrTaskNotFound is returned by mutations targeting an absent task.
	// Reads return nil, nil for absent tasks instead.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDuplicateDependency is returned when inserting an edge whose
	// (dependent, blocker) pair already exists. The validation layer
	// checks first; this is the storage layer's defense in depth.
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrDependencyCycle is returned when an insert would close a cycle.
	// Like ErrDuplicateDependency this is a backstop behind validation,
	// re-checked inside the write transaction so no interleaved writer
	// can sneak a cycle past a stale validation snapshot.
	ErrDependencyCycle = errors.New("dependency would create a cycle")
)

// TaskEdges groups the edges touching one task, split by direction.
type TaskEdges struct {
	BlockedBy []*types.Dependency // Edges where the task is the dependent
	Blocks    []*types.Dependency // Edges where the task is the blocker
}

// Storage is the interface all storage backends implement.
type Storage interface {
	// Task operations. GetTask returns nil, nil when the task is absent.
	CreateTask(ctx context.Context, task *types.Task, actor string) error
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasks(ctx context.Context) ([]*types.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status types.Status, actor string) error
	DeleteTask(ctx context.Context, id string, actor string) error

	// Dependency operations.
	CreateDependency(ctx context.Context, dep *types.Dependency, actor string) error
	// DeleteDependency is idempotent: deleting an absent edge ID is a no-op.
	DeleteDependency(ctx context.Context, edgeID string) error
	// DeleteDependenciesForTask removes every edge where the task is
	// either endpoint and returns how many were removed.
	DeleteDependenciesForTask(ctx context.Context, taskID string) (int, error)
	ListDependencies(ctx context.Context) ([]*types.Dependency, error)
	ListDependenciesForTask(ctx context.Context, taskID string) (*TaskEdges, error)
	CountOutgoing(ctx context.Context, taskID string) (int, error)

	Close() error
}
