// Package memory implements the storage interface using in-memory data
// structures. It backs --memory mode (scratch sessions that never touch
// disk) and keeps engine tests free of database setup.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

// Verify MemoryStorage implements storage.Storage at compile time
var _ storage.Storage = (*MemoryStorage)(nil)

// MemoryStorage implements the Storage interface using in-memory maps.
// The RWMutex gives the same atomic-mutation-versus-concurrent-read
// guarantee the SQLite backend gets from transactions.
type MemoryStorage struct {
	mu sync.RWMutex // Protects all maps

	tasks        map[string]*types.Task       // ID -> Task
	dependencies map[string]*types.Dependency // Edge ID -> Dependency

	// Indexes for per-task edge lookups
	outgoing map[string]map[string]string // DependentID -> BlockerID -> edge ID
	incoming map[string]map[string]string // BlockerID -> DependentID -> edge ID
}

// New creates a new in-memory storage backend.
func New() *MemoryStorage {
	return &MemoryStorage{
		tasks:        make(map[string]*types.Task),
		dependencies: make(map[string]*types.Dependency),
		outgoing:     make(map[string]map[string]string),
		incoming:     make(map[string]map[string]string),
	}
}

// CreateTask inserts a new task.
func (m *MemoryStorage) CreateTask(ctx context.Context, task *types.Task, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.ID == "" {
		task.ID = types.NewTaskID()
	}
	if _, exists := m.tasks[task.ID]; exists {
		return fmt.Errorf("task %s: %w", task.ID, storage.ErrTaskExists)
	}
	if !task.Status.IsValid() && task.Status != "" {
		return fmt.Errorf("invalid status: %q", task.Status)
	}
	task.SetDefaults()
	if task.CreatedBy == "" {
		task.CreatedBy = actor
	}

	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

// GetTask returns a task by ID, or nil if it does not exist.
func (m *MemoryStorage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

// ListTasks returns all tasks ordered by creation time.
func (m *MemoryStorage) ListTasks(ctx context.Context) ([]*types.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]*types.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		copied := *task
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// UpdateTaskStatus transitions a task to the given status.
func (m *MemoryStorage) UpdateTaskStatus(ctx context.Context, id string, status types.Status, actor string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %q", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("task %s: %w", id, storage.ErrTaskNotFound)
	}
	task.Status = status
	task.UpdatedAt = time.Now()
	return nil
}

// DeleteTask removes a task. Edge cleanup belongs to the cascade
// coordinator and happens before this call.
func (m *MemoryStorage) DeleteTask(ctx context.Context, id string, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, storage.ErrTaskNotFound)
	}
	delete(m.tasks, id)
	return nil
}

// CreateDependency inserts a dependency edge. Duplicate pairs and
// edges that would close a cycle are rejected here as well as in the
// validation layer; the whole check-and-insert runs under one lock.
func (m *MemoryStorage) CreateDependency(ctx context.Context, dep *types.Dependency, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dep.DependentID == dep.BlockerID {
		return fmt.Errorf("task %s: %w", dep.DependentID, storage.ErrDependencyCycle)
	}
	if _, exists := m.outgoing[dep.DependentID][dep.BlockerID]; exists {
		return fmt.Errorf("%s depends on %s: %w", dep.DependentID, dep.BlockerID, storage.ErrDuplicateDependency)
	}
	if m.reachableLocked(dep.BlockerID, dep.DependentID) {
		return fmt.Errorf("%s depends on %s: %w", dep.DependentID, dep.BlockerID, storage.ErrDependencyCycle)
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

	copied := *dep
	m.dependencies[dep.ID] = &copied
	if m.outgoing[dep.DependentID] == nil {
		m.outgoing[dep.DependentID] = make(map[string]string)
	}
	m.outgoing[dep.DependentID][dep.BlockerID] = dep.ID
	if m.incoming[dep.BlockerID] == nil {
		m.incoming[dep.BlockerID] = make(map[string]string)
	}
	m.incoming[dep.BlockerID][dep.DependentID] = dep.ID
	return nil
}

// reachableLocked reports whether to is reachable from from along
// depends-on edges. Caller must hold at least the read lock.
func (m *MemoryStorage) reachableLocked(from, to string) bool {
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == to {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		for blocker := range m.outgoing[node] {
			stack = append(stack, blocker)
		}
	}
	return false
}

// DeleteDependency removes an edge by ID; absent IDs are a no-op.
func (m *MemoryStorage) DeleteDependency(ctx context.Context, edgeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeEdgeLocked(edgeID)
	return nil
}

// removeEdgeLocked deletes an edge and its index entries. Caller must
// hold the write lock.
func (m *MemoryStorage) removeEdgeLocked(edgeID string) bool {
	dep, ok := m.dependencies[edgeID]
	if !ok {
		return false
	}
	delete(m.dependencies, edgeID)
	delete(m.outgoing[dep.DependentID], dep.BlockerID)
	if len(m.outgoing[dep.DependentID]) == 0 {
		delete(m.outgoing, dep.DependentID)
	}
	delete(m.incoming[dep.BlockerID], dep.DependentID)
	if len(m.incoming[dep.BlockerID]) == 0 {
		delete(m.incoming, dep.BlockerID)
	}
	return true
}

// DeleteDependenciesForTask removes every edge touching the task and
// returns the number removed.
func (m *MemoryStorage) DeleteDependenciesForTask(ctx context.Context, taskID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var edgeIDs []string
	for _, id := range m.outgoing[taskID] {
		edgeIDs = append(edgeIDs, id)
	}
	for _, id := range m.incoming[taskID] {
		edgeIDs = append(edgeIDs, id)
	}

	count := 0
	for _, id := range edgeIDs {
		if m.removeEdgeLocked(id) {
			count++
		}
	}
	return count, nil
}

// ListDependencies returns every edge in the store.
func (m *MemoryStorage) ListDependencies(ctx context.Context) ([]*types.Dependency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	deps := make([]*types.Dependency, 0, len(m.dependencies))
	for _, dep := range m.dependencies {
		copied := *dep
		deps = append(deps, &copied)
	}
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].CreatedAt.Equal(deps[j].CreatedAt) {
			return deps[i].ID < deps[j].ID
		}
		return deps[i].CreatedAt.Before(deps[j].CreatedAt)
	})
	return deps, nil
}

// ListDependenciesForTask returns the edges touching one task, split
// by direction.
func (m *MemoryStorage) ListDependenciesForTask(ctx context.Context, taskID string) (*storage.TaskEdges, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := &storage.TaskEdges{}
	for _, edgeID := range m.outgoing[taskID] {
		copied := *m.dependencies[edgeID]
		edges.BlockedBy = append(edges.BlockedBy, &copied)
	}
	for _, edgeID := range m.incoming[taskID] {
		copied := *m.dependencies[edgeID]
		edges.Blocks = append(edges.Blocks, &copied)
	}
	sortEdges(edges.BlockedBy)
	sortEdges(edges.Blocks)
	return edges, nil
}

// CountOutgoing returns how many tasks the given task depends on.
func (m *MemoryStorage) CountOutgoing(ctx context.Context, taskID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.outgoing[taskID]), nil
}

// Close is a no-op for the memory backend.
func (m *MemoryStorage) Close() error {
	return nil
}

func sortEdges(deps []*types.Dependency) {
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].CreatedAt.Equal(deps[j].CreatedAt) {
			return deps[i].ID < deps[j].ID
		}
		return deps[i].CreatedAt.Before(deps[j].CreatedAt)
	})
}
