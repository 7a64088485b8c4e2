package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskflow.db")
	store, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTask(t *testing.T, store *SQLiteStorage, id string, status types.Status) {
	t.Helper()
	task := &types.Task{ID: id, Title: "Task " + id, Status: status}
	if err := store.CreateTask(context.Background(), task, "test"); err != nil {
		t.Fatalf("failed to create task %s: %v", id, err)
	}
}

func TestCreateAndGetTask(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	task := &types.Task{Title: "Write the report"}
	if err := store.CreateTask(ctx, task, "alice"); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated task ID")
	}
	if task.Status != types.StatusPending {
		t.Errorf("expected default status pending, got %s", task.Status)
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected task, got nil")
	}
	if got.Title != "Write the report" {
		t.Errorf("unexpected title: %q", got.Title)
	}
	if got.CreatedBy != "alice" {
		t.Errorf("unexpected created_by: %q", got.CreatedBy)
	}
}

func TestGetTaskAbsent(t *testing.T) {
	store := setupTestDB(t)

	got, err := store.GetTask(context.Background(), "tf-missing")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent task, got %+v", got)
	}
}

func TestCreateTaskDuplicateID(t *testing.T) {
	store := setupTestDB(t)
	createTask(t, store, "tf-1", types.StatusPending)

	err := store.CreateTask(context.Background(), &types.Task{ID: "tf-1", Title: "again"}, "test")
	if !errors.Is(err, storage.ErrTaskExists) {
		t.Fatalf("expected ErrTaskExists, got %v", err)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	createTask(t, store, "tf-1", types.StatusPending)

	if err := store.UpdateTaskStatus(ctx, "tf-1", types.StatusCompleted, "test"); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	got, err := store.GetTask(ctx, "tf-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Status != types.StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}

	err = store.UpdateTaskStatus(ctx, "tf-missing", types.StatusCompleted, "test")
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	createTask(t, store, "tf-1", types.StatusPending)

	if err := store.DeleteTask(ctx, "tf-1", "test"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	got, err := store.GetTask(ctx, "tf-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected task to be gone")
	}

	err = store.DeleteTask(ctx, "tf-1", "test")
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestListTasksOrdered(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"tf-1", "tf-2", "tf-3"} {
		createTask(t, store, id, types.StatusPending)
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
}
