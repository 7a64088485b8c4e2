package deps

import (
	"fmt"
	"strings"
)

// Code identifies why a dependency was rejected.
type Code string

// Rejection codes. Each maps to a distinct user-facing message; the
// circular case additionally carries the offending path.
const (
	CodeSelfReference      Code = "self_reference"
	CodeDuplicateEdge      Code = "duplicate_edge"
	CodeLimitExceeded      Code = "limit_exceeded"
	CodeCircularDependency Code = "circular_dependency"
	CodeTaskNotFound       Code = "task_not_found"
)

// ValidationError is the typed result for an expected, recoverable
// rejection of a dependency. It is returned, never panicked, so the
// caller can render a specific, actionable message.
type ValidationError struct {
	Code        Code
	DependentID string
	BlockerID   string
	// MissingID is set for CodeTaskNotFound.
	MissingID string
	// CyclePath is set for CodeCircularDependency: the chain of tasks,
	// dependent first, that the new edge would close into a loop.
	CyclePath []string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeSelfReference:
		return fmt.Sprintf("task %s cannot depend on itself", e.DependentID)
	case CodeDuplicateEdge:
		return fmt.Sprintf("%s already depends on %s", e.DependentID, e.BlockerID)
	case CodeLimitExceeded:
		return fmt.Sprintf("%s already has %d dependencies (maximum)", e.DependentID, MaxOutgoing)
	case CodeCircularDependency:
		return fmt.Sprintf("adding this dependency would create a cycle: %s", FormatCyclePath(e.CyclePath))
	case CodeTaskNotFound:
		return fmt.Sprintf("task %s not found", e.MissingID)
	}
	return fmt.Sprintf("dependency rejected: %s", e.Code)
}

// FormatCyclePath renders a cycle path for error messages, closing the
// loop back to its first element: "a → b → a".
func FormatCyclePath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, path...), path[0]), " → ")
}
