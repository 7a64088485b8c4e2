// Package types defines core data structures for the taskflow task manager.
package types

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Status represents the current state of a task.
type Status string

// Task status constants
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid checks if the status value is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a trackable work item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetDefaults fills zero-valued fields with sensible defaults.
// Used on the create path so callers only have to supply a title.
func (t *Task) SetDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
}

// Dependency represents a finish-to-start edge between two tasks:
// the dependent cannot start until the blocker is completed.
type Dependency struct {
	ID          string    `json:"id"`
	DependentID string    `json:"dependent_task_id"`
	BlockerID   string    `json:"blocking_task_id"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// BlockingStatus is the derived blocked state of a task. It is never
// persisted; it is recomputed on every read from live edges and live
// task statuses so it cannot go stale relative to either.
type BlockingStatus struct {
	IsBlocked bool    `json:"is_blocked"`
	BlockedBy []*Task `json:"blocked_by"`
	Blocks    []*Task `json:"blocks"`
}

// DependencyCounts holds edge counts for a single task.
type DependencyCounts struct {
	Outgoing int `json:"outgoing"` // Tasks this task depends on
	Incoming int `json:"incoming"` // Tasks that depend on this task
}

// NewTaskID generates a short collision-resistant task ID, e.g. "tf-a3f8e9".
func NewTaskID() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return "tf-" + hex.EncodeToString(b)
}
