package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func edge(dependent, blocker string) Edge {
	return Edge{DependentID: dependent, BlockerID: blocker}
}

func TestWouldCreateCycleDirect(t *testing.T) {
	edges := []Edge{edge("a", "b")}

	// b depends on a would close a → b → a
	require.True(t, WouldCreateCycle(edges, "b", "a"))

	// a depends on c is fine
	require.False(t, WouldCreateCycle(edges, "a", "c"))
}

func TestWouldCreateCycleTransitive(t *testing.T) {
	// a → b → c → d
	edges := []Edge{edge("a", "b"), edge("b", "c"), edge("c", "d")}

	require.True(t, WouldCreateCycle(edges, "d", "a"))
	require.True(t, WouldCreateCycle(edges, "c", "a"))
	require.False(t, WouldCreateCycle(edges, "a", "d"))
}

func TestWouldCreateCycleSelf(t *testing.T) {
	require.True(t, WouldCreateCycle(nil, "a", "a"))
}

func TestWouldCreateCycleDiamond(t *testing.T) {
	// a depends on b and c, both depend on d
	edges := []Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")}

	require.True(t, WouldCreateCycle(edges, "d", "a"))
	// d depending on an unrelated task is fine
	require.False(t, WouldCreateCycle(edges, "d", "e"))
}

func TestFindPath(t *testing.T) {
	edges := []Edge{edge("a", "b"), edge("b", "c")}

	require.Equal(t, []string{"a", "b", "c"}, FindPath(edges, "a", "c"))
	require.Equal(t, []string{"b", "c"}, FindPath(edges, "b", "c"))
	require.Equal(t, []string{"a"}, FindPath(edges, "a", "a"))
	require.Nil(t, FindPath(edges, "c", "a"))
}

func TestFindPathPrefersAnyValidChain(t *testing.T) {
	// Two routes from a to d; either is acceptable, both end at d.
	edges := []Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")}

	path := FindPath(edges, "a", "d")
	require.NotNil(t, path)
	require.Equal(t, "a", path[0])
	require.Equal(t, "d", path[len(path)-1])
}

func TestDetectCyclesNone(t *testing.T) {
	edges := []Edge{edge("a", "b"), edge("b", "c")}
	require.Empty(t, DetectCycles(edges))
}

func TestDetectCyclesSimple(t *testing.T) {
	edges := []Edge{edge("a", "b"), edge("b", "a")}

	cycles := DetectCycles(edges)
	require.Len(t, cycles, 1)
	require.ElementsMatch(t, []string{"a", "b"}, cycles[0])
}

func TestDetectCyclesDeduplicates(t *testing.T) {
	// One 3-cycle plus an acyclic tail hanging off it.
	edges := []Edge{edge("a", "b"), edge("b", "c"), edge("c", "a"), edge("d", "a")}

	cycles := DetectCycles(edges)
	require.Len(t, cycles, 1)
	require.ElementsMatch(t, []string{"a", "b", "c"}, cycles[0])
}
