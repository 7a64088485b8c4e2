// Package factory selects and constructs a storage backend.
package factory

import (
	"context"
	"fmt"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/storage/memory"
	"github.com/mizannoor/taskflow/internal/storage/sqlite"
)

// Backend identifies a storage implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open constructs the requested backend. path is only meaningful for
// BackendSQLite.
func Open(ctx context.Context, backend Backend, path string) (storage.Storage, error) {
	switch backend {
	case BackendSQLite, "":
		if path == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return sqlite.New(ctx, path)
	case BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
}
