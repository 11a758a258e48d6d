package storage

import (
	"context"
	"time"

	"github.com/iudanet/tasklist/pkg/api"
)

// TaskCache keeps the last task list fetched from the server so that
// it can be shown without network access.
type TaskCache interface {
	// SaveTasks replaces the cached list for username
	SaveTasks(ctx context.Context, username string, tasks []api.TaskResponse) error

	// GetTasks returns the cached list for username
	// Returns ErrCacheNotFound if nothing was cached yet
	GetTasks(ctx context.Context, username string) (*CachedTasks, error)

	// ClearTasks drops the cached list for username
	ClearTasks(ctx context.Context, username string) error
}

// CachedTasks список задач с моментом синхронизации
type CachedTasks struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Tasks     []api.TaskResponse `json:"tasks"`
}
