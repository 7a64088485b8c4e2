package deps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mizannoor/taskflow/internal/types"
)

func task(id string, status types.Status) *types.Task {
	return &types.Task{ID: id, Title: "Task " + id, Status: status}
}

func dep(dependent, blocker string) *types.Dependency {
	return &types.Dependency{ID: dependent + "->" + blocker, DependentID: dependent, BlockerID: blocker}
}

func TestResolveUnblocked(t *testing.T) {
	tasksByID := TasksByID([]*types.Task{task("a", types.StatusPending)})

	status := Resolve("a", tasksByID, nil)
	require.False(t, status.IsBlocked)
	require.Empty(t, status.BlockedBy)
	require.Empty(t, status.Blocks)
}

func TestResolveBlockedByIncompleteBlocker(t *testing.T) {
	tasksByID := TasksByID([]*types.Task{
		task("a", types.StatusPending),
		task("b", types.StatusInProgress),
	})
	edges := []*types.Dependency{dep("a", "b")}

	status := Resolve("a", tasksByID, edges)
	require.True(t, status.IsBlocked)
	require.Len(t, status.BlockedBy, 1)
	require.Equal(t, "b", status.BlockedBy[0].ID)
}

func TestResolveCompletedBlockerDoesNotBlock(t *testing.T) {
	tasksByID := TasksByID([]*types.Task{
		task("a", types.StatusPending),
		task("b", types.StatusCompleted),
	})
	edges := []*types.Dependency{dep("a", "b")}

	status := Resolve("a", tasksByID, edges)
	require.False(t, status.IsBlocked)
	require.Empty(t, status.BlockedBy)
}

func TestResolveMixedBlockersReportsUnmetOnly(t *testing.T) {
	tasksByID := TasksByID([]*types.Task{
		task("a", types.StatusPending),
		task("b", types.StatusCompleted),
		task("c", types.StatusPending),
	})
	edges := []*types.Dependency{dep("a", "b"), dep("a", "c")}

	status := Resolve("a", tasksByID, edges)
	require.True(t, status.IsBlocked)
	require.Len(t, status.BlockedBy, 1)
	require.Equal(t, "c", status.BlockedBy[0].ID)
}

func TestResolveBlocksDirection(t *testing.T) {
	tasksByID := TasksByID([]*types.Task{
		task("a", types.StatusPending),
		task("b", types.StatusPending),
	})
	edges := []*types.Dependency{dep("a", "b")}

	status := Resolve("b", tasksByID, edges)
	require.False(t, status.IsBlocked)
	require.Len(t, status.Blocks, 1)
	require.Equal(t, "a", status.Blocks[0].ID)
}

func TestResolveSkipsOrphanEdges(t *testing.T) {
	// Edges referencing vanished tasks are skipped, not errors: an
	// interrupted cascade must not poison every later read.
	tasksByID := TasksByID([]*types.Task{task("a", types.StatusPending)})
	edges := []*types.Dependency{dep("a", "gone"), dep("gone2", "a")}

	status := Resolve("a", tasksByID, edges)
	require.False(t, status.IsBlocked)
	require.Empty(t, status.BlockedBy)
	require.Empty(t, status.Blocks)
}

func TestFormatCyclePath(t *testing.T) {
	require.Equal(t, "a → b → a", FormatCyclePath([]string{"a", "b"}))
	require.Equal(t, "", FormatCyclePath(nil))
}
