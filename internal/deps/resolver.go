package deps

import (
	"github.com/mizannoor/taskflow/internal/graph"
	"github.com/mizannoor/taskflow/internal/types"
)

// Resolve computes the blocking status of one task from the current
// edge set and current task statuses. It is a pure function and is
// recomputed on every call, never cached: a blocker flipping from
// completed back to in_progress re-blocks its dependents on the next
// read with no explicit re-block step, and there is no stored flag to
// drift out of sync.
//
// Edges referencing tasks that no longer exist are skipped rather than
// treated as errors. That bounds the blast radius of an orphan edge
// left behind by an interrupted cascade.
func Resolve(taskID string, tasksByID map[string]*types.Task, edges []*types.Dependency) *types.BlockingStatus {
	status := &types.BlockingStatus{
		BlockedBy: []*types.Task{},
		Blocks:    []*types.Task{},
	}

	for _, edge := range edges {
		switch taskID {
		case edge.DependentID:
			blocker, ok := tasksByID[edge.BlockerID]
			if !ok {
				continue // orphan edge
			}
			if blocker.Status != types.StatusCompleted {
				status.IsBlocked = true
				status.BlockedBy = append(status.BlockedBy, blocker)
			}
		case edge.BlockerID:
			dependent, ok := tasksByID[edge.DependentID]
			if !ok {
				continue // orphan edge
			}
			status.Blocks = append(status.Blocks, dependent)
		}
	}

	return status
}

// TasksByID indexes a task slice by ID for resolution.
func TasksByID(tasks []*types.Task) map[string]*types.Task {
	byID := make(map[string]*types.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return byID
}

// GraphEdges converts stored dependency records into the plain edge
// pairs the traversal functions operate on.
func GraphEdges(deps []*types.Dependency) []graph.Edge {
	edges := make([]graph.Edge, len(deps))
	for i, d := range deps {
		edges[i] = graph.Edge{DependentID: d.DependentID, BlockerID: d.BlockerID}
	}
	return edges
}
