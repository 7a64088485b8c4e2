package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

func createTask(t *testing.T, store *MemoryStorage, id string) {
	t.Helper()
	if err := store.CreateTask(context.Background(), &types.Task{ID: id, Title: "Task " + id}, "test"); err != nil {
		t.Fatalf("failed to create task %s: %v", id, err)
	}
}

func addDep(t *testing.T, store *MemoryStorage, dependent, blocker string) *types.Dependency {
	t.Helper()
	dep := &types.Dependency{DependentID: dependent, BlockerID: blocker}
	if err := store.CreateDependency(context.Background(), dep, "test"); err != nil {
		t.Fatalf("failed to add dependency %s -> %s: %v", dependent, blocker, err)
	}
	return dep
}

func TestTaskRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()
	createTask(t, store, "a")

	got, err := store.GetTask(ctx, "a")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got == nil || got.Title != "Task a" {
		t.Fatalf("unexpected task: %+v", got)
	}

	// Returned tasks are copies; mutating one must not leak back
	got.Title = "mutated"
	again, _ := store.GetTask(ctx, "a")
	if again.Title != "Task a" {
		t.Error("GetTask leaked internal state")
	}
}

func TestDuplicateDependencyRejected(t *testing.T) {
	store := New()
	ctx := context.Background()
	createTask(t, store, "a")
	createTask(t, store, "b")
	addDep(t, store, "a", "b")

	err := store.CreateDependency(ctx, &types.Dependency{DependentID: "a", BlockerID: "b"}, "test")
	if !errors.Is(err, storage.ErrDuplicateDependency) {
		t.Fatalf("expected ErrDuplicateDependency, got %v", err)
	}
}

func TestCycleRejected(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		createTask(t, store, id)
	}
	addDep(t, store, "a", "b")
	addDep(t, store, "b", "c")

	err := store.CreateDependency(ctx, &types.Dependency{DependentID: "c", BlockerID: "a"}, "test")
	if !errors.Is(err, storage.ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle, got %v", err)
	}
}

func TestDeleteDependenciesForTaskCounts(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		createTask(t, store, id)
	}
	addDep(t, store, "a", "b")
	addDep(t, store, "b", "c")

	count, err := store.DeleteDependenciesForTask(ctx, "b")
	if err != nil {
		t.Fatalf("DeleteDependenciesForTask failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 removed, got %d", count)
	}

	n, _ := store.CountOutgoing(ctx, "a")
	if n != 0 {
		t.Errorf("expected a to have no outgoing edges, got %d", n)
	}
}

func TestDeleteDependencyIdempotent(t *testing.T) {
	store := New()
	ctx := context.Background()
	createTask(t, store, "a")
	createTask(t, store, "b")
	dep := addDep(t, store, "a", "b")

	if err := store.DeleteDependency(ctx, dep.ID); err != nil {
		t.Fatalf("DeleteDependency failed: %v", err)
	}
	if err := store.DeleteDependency(ctx, dep.ID); err != nil {
		t.Fatalf("repeated delete should be a no-op, got %v", err)
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	store := New()
	ctx := context.Background()
	createTask(t, store, "a")
	createTask(t, store, "b")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = store.ListDependencies(ctx)
				_, _ = store.GetTask(ctx, "a")
			}
		}()
	}
	dep := addDep(t, store, "a", "b")
	_ = store.DeleteDependency(ctx, dep.ID)
	wg.Wait()
}
