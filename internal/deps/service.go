// Package deps implements the task dependency graph engine: validated
// edge creation, derived blocking status, and cascade cleanup when
// tasks are deleted.
//
// Edges are finish-to-start only: the dependent task cannot start
// until the blocking task is completed. The engine keeps the edge set
// acyclic, duplicate-free, and bounded at MaxOutgoing edges per task.
package deps

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mizannoor/taskflow/internal/graph"
	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/types"
)

// MaxOutgoing is the most tasks any single task may depend on.
const MaxOutgoing = 10

// Service is the integration surface for dependency management. All
// reads recompute from live state; all writes go through validation.
type Service struct {
	store storage.Storage
	log   *slog.Logger

	// mu serializes validate-then-write so two concurrent adds cannot
	// both pass validation against the same pre-mutation snapshot and
	// jointly exceed the limit or close a cycle. The storage layer
	// re-checks duplicates and cycles in its write transaction as a
	// backstop.
	mu sync.Mutex
}

// NewService creates a dependency service over the given store.
func NewService(store storage.Storage, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// CheckResult is the non-mutating answer to "could this dependency be
// added?", used by UIs to disable or filter invalid picker options.
type CheckResult struct {
	Valid     bool     `json:"valid"`
	Code      Code     `json:"reason,omitempty"`
	Reason    string   `json:"message,omitempty"`
	CyclePath []string `json:"cycle_path,omitempty"`
}

// validate applies the acceptance checks for a new edge in order,
// short-circuiting on the first failure: self-reference, endpoint
// existence, duplicate pair, outgoing limit, then the cycle search.
// The cheap local checks run first so common rejections return before
// the O(V+E) traversal.
func (s *Service) validate(ctx context.Context, dependentID, blockerID string) (*ValidationError, error) {
	if dependentID == blockerID {
		return &ValidationError{Code: CodeSelfReference, DependentID: dependentID, BlockerID: blockerID}, nil
	}

	for _, id := range []string{dependentID, blockerID} {
		task, err := s.store.GetTask(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check task %s: %w", id, err)
		}
		if task == nil {
			return &ValidationError{Code: CodeTaskNotFound, DependentID: dependentID, BlockerID: blockerID, MissingID: id}, nil
		}
	}

	edges, err := s.store.ListDependenciesForTask(ctx, dependentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies for %s: %w", dependentID, err)
	}
	outgoing := 0
	for _, edge := range edges.BlockedBy {
		if edge.BlockerID == blockerID {
			return &ValidationError{Code: CodeDuplicateEdge, DependentID: dependentID, BlockerID: blockerID}, nil
		}
		outgoing++
	}
	if outgoing >= MaxOutgoing {
		return &ValidationError{Code: CodeLimitExceeded, DependentID: dependentID, BlockerID: blockerID}, nil
	}

	all, err := s.store.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	graphEdges := GraphEdges(all)
	if graph.WouldCreateCycle(graphEdges, dependentID, blockerID) {
		// The user-facing path runs dependent-first: the chain of
		// existing blocking relationships the new edge would close.
		path := graph.FindPath(graphEdges, blockerID, dependentID)
		reversed := make([]string, len(path))
		for i, id := range path {
			reversed[len(path)-1-i] = id
		}
		return &ValidationError{
			Code:        CodeCircularDependency,
			DependentID: dependentID,
			BlockerID:   blockerID,
			CyclePath:   reversed,
		}, nil
	}

	return nil, nil
}

// AddDependency validates and persists a new edge: dependent cannot
// start until blocker completes. Expected rejections come back as
// *ValidationError; anything else is a storage failure.
func (s *Service) AddDependency(ctx context.Context, dependentID, blockerID, actor string) (*types.Dependency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verr, err := s.validate(ctx, dependentID, blockerID)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	dep := &types.Dependency{
		DependentID: dependentID,
		BlockerID:   blockerID,
		CreatedBy:   actor,
	}
	if err := s.store.CreateDependency(ctx, dep, actor); err != nil {
		return nil, err
	}
	return dep, nil
}

// RemoveDependency deletes an edge by ID. Removing an edge that does
// not exist is a no-op.
func (s *Service) RemoveDependency(ctx context.Context, edgeID string) error {
	return s.store.DeleteDependency(ctx, edgeID)
}

// CanAddDependency is the non-mutating pre-check: same validation as
// AddDependency, no write. Storage failures still surface as errors.
func (s *Service) CanAddDependency(ctx context.Context, dependentID, blockerID string) (*CheckResult, error) {
	verr, err := s.validate(ctx, dependentID, blockerID)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return &CheckResult{
			Valid:     false,
			Code:      verr.Code,
			Reason:    verr.Error(),
			CyclePath: verr.CyclePath,
		}, nil
	}
	return &CheckResult{Valid: true}, nil
}

// GetDependencyInfo resolves the blocking status of a task from live
// edges and live task statuses.
func (s *Service) GetDependencyInfo(ctx context.Context, taskID string) (*types.BlockingStatus, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	edges, err := s.store.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	return Resolve(taskID, TasksByID(tasks), edges), nil
}

// DependencyCount returns how many tasks the given task depends on.
func (s *Service) DependencyCount(ctx context.Context, taskID string) (int, error) {
	return s.store.CountOutgoing(ctx, taskID)
}

// Edges returns the raw edge records touching a task, split by
// direction. Exposed for edge-level UI (showing edge IDs for removal).
func (s *Service) Edges(ctx context.Context, taskID string) (*storage.TaskEdges, error) {
	return s.store.ListDependenciesForTask(ctx, taskID)
}

// AllDependencies returns every edge in the store.
func (s *Service) AllDependencies(ctx context.Context) ([]*types.Dependency, error) {
	return s.store.ListDependencies(ctx)
}

// Cascade removes every edge touching the task and returns the number
// removed. Run when the task itself is being deleted so no edge is
// left referencing a vanished task.
func (s *Service) Cascade(ctx context.Context, taskID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.DeleteDependenciesForTask(ctx, taskID)
}

// OnTaskDeleted is the deletion hook registered with the task store.
// Cleanup is best-effort: a failed cascade is logged but never blocks
// the deletion itself, and the resolver's skip-on-missing behavior
// bounds the damage of any orphan edges left behind.
func (s *Service) OnTaskDeleted(ctx context.Context, taskID string) {
	count, err := s.Cascade(ctx, taskID)
	if err != nil {
		s.log.Warn("dependency cascade failed; orphan edges possible",
			"task", taskID, "error", err)
		return
	}
	if count > 0 {
		s.log.Debug("removed dependencies for deleted task",
			"task", taskID, "count", count)
	}
}

// ReadyTasks returns tasks that are not completed and have no unmet
// blockers, in storage order.
func (s *Service) ReadyTasks(ctx context.Context) ([]*types.Task, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	edges, err := s.store.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}

	byID := TasksByID(tasks)
	var ready []*types.Task
	for _, task := range tasks {
		if task.Status == types.StatusCompleted {
			continue
		}
		if !Resolve(task.ID, byID, edges).IsBlocked {
			ready = append(ready, task)
		}
	}
	return ready, nil
}
