package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

func addDep(t *testing.T, store *SQLiteStorage, dependent, blocker string) *types.Dependency {
	t.Helper()
	dep := &types.Dependency{DependentID: dependent, BlockerID: blocker}
	if err := store.CreateDependency(context.Background(), dep, "test"); err != nil {
		t.Fatalf("failed to add dependency %s -> %s: %v", dependent, blocker, err)
	}
	return dep
}

func TestCreateDependency(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	createTask(t, store, "a", types.StatusPending)
	createTask(t, store, "b", types.StatusPending)

	dep := addDep(t, store, "a", "b")
	if dep.ID == "" {
		t.Fatal("expected generated edge ID")
	}
	if dep.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	count, err := store.CountOutgoing(ctx, "a")
	if err != nil {
		t.Fatalf("CountOutgoing failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 outgoing edge, got %d", count)
	}
}

func TestCreateDependencyDuplicate(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	createTask(t, store, "a", types.StatusPending)
	createTask(t, store, "b", types.StatusPending)
	addDep(t, store, "a", "b")

	err := store.CreateDependency(ctx, &types.Dependency{DependentID: "a", BlockerID: "b"}, "test")
	if !errors.Is(err, storage.ErrDuplicateDependency) {
		t.Fatalf("expected ErrDuplicateDependency, got %v", err)
	}
}

func TestCreateDependencyCycleBackstop(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		createTask(t, store, id, types.StatusPending)
	}
	addDep(t, store, "a", "b")
	addDep(t, store, "b", "c")

	// Direct reversal
	err := store.CreateDependency(ctx, &types.Dependency{DependentID: "b", BlockerID: "a"}, "test")
	if !errors.Is(err, storage.ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle, got %v", err)
	}

	// Transitive closure
	err = store.CreateDependency(ctx, &types.Dependency{DependentID: "c", BlockerID: "a"}, "test")
	if !errors.Is(err, storage.ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle for transitive cycle, got %v", err)
	}

	// Self-dependency never reaches the insert
	err = store.CreateDependency(ctx, &types.Dependency{DependentID: "a", BlockerID: "a"}, "test")
	if !errors.Is(err, storage.ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle for self-dependency, got %v", err)
	}
}

func TestDeleteDependencyIdempotent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	createTask(t, store, "a", types.StatusPending)
	createTask(t, store, "b", types.StatusPending)
	dep := addDep(t, store, "a", "b")

	if err := store.DeleteDependency(ctx, dep.ID); err != nil {
		t.Fatalf("DeleteDependency failed: %v", err)
	}
	// Absent IDs are a no-op
	if err := store.DeleteDependency(ctx, dep.ID); err != nil {
		t.Fatalf("second DeleteDependency should be a no-op, got %v", err)
	}
	if err := store.DeleteDependency(ctx, "never-existed"); err != nil {
		t.Fatalf("DeleteDependency of unknown ID should be a no-op, got %v", err)
	}
}

func TestDeleteDependenciesForTask(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		createTask(t, store, id, types.StatusPending)
	}
	addDep(t, store, "a", "b") // b is blocker
	addDep(t, store, "b", "c") // b is dependent

	count, err := store.DeleteDependenciesForTask(ctx, "b")
	if err != nil {
		t.Fatalf("DeleteDependenciesForTask failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 edges removed, got %d", count)
	}

	all, err := store.ListDependencies(ctx)
	if err != nil {
		t.Fatalf("ListDependencies failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no surviving edges, got %d", len(all))
	}

	// A task with no edges removes zero
	count, err = store.DeleteDependenciesForTask(ctx, "a")
	if err != nil {
		t.Fatalf("DeleteDependenciesForTask failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 edges removed, got %d", count)
	}
}

func TestListDependenciesForTask(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		createTask(t, store, id, types.StatusPending)
	}
	addDep(t, store, "a", "b")
	addDep(t, store, "b", "c")

	edges, err := store.ListDependenciesForTask(ctx, "b")
	if err != nil {
		t.Fatalf("ListDependenciesForTask failed: %v", err)
	}
	if len(edges.BlockedBy) != 1 || edges.BlockedBy[0].BlockerID != "c" {
		t.Errorf("expected b blocked by c, got %+v", edges.BlockedBy)
	}
	if len(edges.Blocks) != 1 || edges.Blocks[0].DependentID != "a" {
		t.Errorf("expected b blocking a, got %+v", edges.Blocks)
	}
}

func TestSchemaIdempotent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	// Re-running the DDL against a populated database must be a no-op
	createTask(t, store, "a", types.StatusPending)
	if err := store.ensureSchema(ctx); err != nil {
		t.Fatalf("ensureSchema re-run failed: %v", err)
	}
	got, err := store.GetTask(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("task lost after schema re-run: %v, %v", got, err)
	}
}
