// Package tasks owns task lifecycle operations. The dependency engine
// never writes tasks; it observes them through storage reads and hooks
// into the deletion path here.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

// DeleteHook runs just before a task row is removed. Hooks are
// best-effort from the caller's perspective: they may log failures but
// cannot veto the deletion.
type DeleteHook func(ctx context.Context, taskID string)

// Service wraps task CRUD over a storage backend.
type Service struct {
	store       storage.Storage
	deleteHooks []DeleteHook
}

// NewService creates a task service over the given store.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// RegisterDeleteHook attaches a hook to the task deletion path.
func (s *Service) RegisterDeleteHook(hook DeleteHook) {
	s.deleteHooks = append(s.deleteHooks, hook)
}

// Create validates and persists a new task.
func (s *Service) Create(ctx context.Context, title, description string, actor string) (*types.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title required")
	}

	task := &types.Task{
		Title:       title,
		Description: description,
	}
	if err := s.store.CreateTask(ctx, task, actor); err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns a task by ID, or nil if it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*types.Task, error) {
	return s.store.GetTask(ctx, id)
}

// List returns all tasks.
func (s *Service) List(ctx context.Context) ([]*types.Task, error) {
	return s.store.ListTasks(ctx)
}

// SetStatus transitions a task to the given status.
func (s *Service) SetStatus(ctx context.Context, id string, status types.Status, actor string) error {
	return s.store.UpdateTaskStatus(ctx, id, status, actor)
}

// Delete removes a task. Registered hooks (the dependency cascade) run
// first so no edge is left referencing a vanished task.
func (s *Service) Delete(ctx context.Context, id string, actor string) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check task %s: %w", id, err)
	}
	if task == nil {
		return fmt.Errorf("task %s: %w", id, storage.ErrTaskNotFound)
	}

	for _, hook := range s.deleteHooks {
		hook(ctx, id)
	}
	return s.store.DeleteTask(ctx, id, actor)
}
