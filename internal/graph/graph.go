// Package graph provides pure traversal over dependency edge lists.
//
// Edges are plain (dependent, blocker) id pairs; an adjacency index is
// built on demand for each call. Nothing here touches storage, so every
// function is a pure computation over the data passed in.
package graph

import "strings"

// Edge is one dependent→blocker relationship.
type Edge struct {
	DependentID string
	BlockerID   string
}

// adjacency builds a dependent → blockers index from the edge list.
func adjacency(edges []Edge) map[string][]string {
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		adj[e.DependentID] = append(adj[e.DependentID], e.BlockerID)
	}
	return adj
}

// WouldCreateCycle reports whether adding "dependent depends on blocker"
// to the given edge set would close a cycle. That is the case exactly
// when dependent is already a transitive blocker of blocker: a DFS from
// blocker along existing depends-on edges reaches dependent.
// O(V+E) via a visited set.
func WouldCreateCycle(edges []Edge, dependent, blocker string) bool {
	if dependent == blocker {
		return true
	}
	adj := adjacency(edges)
	visited := make(map[string]bool)
	stack := []string{blocker}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == dependent {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, adj[node]...)
	}
	return false
}

// FindPath returns the chain of task IDs from one task to another along
// depends-on edges, or nil if no such chain exists. The result includes
// both endpoints and is used to show users the offending chain when a
// cycle is rejected.
func FindPath(edges []Edge, from, to string) []string {
	if from == to {
		return []string{from}
	}
	adj := adjacency(edges)
	visited := make(map[string]bool)

	var dfs func(node string, path []string) []string
	dfs = func(node string, path []string) []string {
		path = append(path, node)
		if node == to {
			result := make([]string, len(path))
			copy(result, path)
			return result
		}
		visited[node] = true
		for _, next := range adj[node] {
			if visited[next] {
				continue
			}
			if found := dfs(next, path); found != nil {
				return found
			}
		}
		return nil
	}

	return dfs(from, nil)
}

// DetectCycles finds all existing cycles in the edge set and returns
// their paths. Healthy data has none; this exists as an integrity check
// for edges that arrived outside the validated add path (imports, old
// databases). Uses DFS with a recursion stack, O(V+E).
func DetectCycles(edges []Edge) [][]string {
	adj := adjacency(edges)
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var allCycles [][]string

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, neighbor := range adj[node] {
			if !visited[neighbor] {
				dfs(neighbor, path)
			} else if recStack[neighbor] {
				// Found cycle - extract the cycle portion
				cycleStart := -1
				for i, n := range path {
					if n == neighbor {
						cycleStart = i
						break
					}
				}
				if cycleStart >= 0 {
					cycle := make([]string, len(path)-cycleStart)
					copy(cycle, path[cycleStart:])
					allCycles = append(allCycles, cycle)
				}
			}
		}

		recStack[node] = false
	}

	for node := range adj {
		if !visited[node] {
			dfs(node, nil)
		}
	}

	// Deduplicate: the same cycle can be found from different entry points
	seen := make(map[string]bool)
	var unique [][]string
	for _, cycle := range allCycles {
		normalized := normalizeCycle(cycle)
		key := strings.Join(normalized, "→")
		if !seen[key] {
			seen[key] = true
			unique = append(unique, normalized)
		}
	}
	return unique
}

// normalizeCycle rotates a cycle to start with the lexicographically
// smallest ID so the same cycle found from different entry points
// deduplicates to one representative.
func normalizeCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	minIdx := 0
	for i, id := range cycle {
		if id < cycle[minIdx] {
			minIdx = i
		}
	}
	result := make([]string, len(cycle))
	for i := 0; i < len(cycle); i++ {
		result[i] = cycle[(minIdx+i)%len(cycle)]
	}
	return result
}
