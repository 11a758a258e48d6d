package boltdb

import (
	"context"

	"github.com/iudanet/tasklist/internal/client/storage"
	"github.com/iudanet/tasklist/pkg/api"
)

var _ storage.TaskCache = (*Storage)(nil)

// SaveTasks replaces cached task list of the user
func (s *Storage) SaveTasks(ctx context.Context, username string, tasks []api.TaskResponse) error {
	// nil сохраняем как пустой список, чтобы офлайн вывод не отличался от онлайн
	if tasks == nil {
		tasks = []api.TaskResponse{}
	}
	return s.putJSON(bucketTasks, []byte(username), storage.CachedTasks{FetchedAt: s.now().UTC(), Tasks: tasks})
}

// GetTasks returns cached task list of the user or storage.ErrCacheNotFound
func (s *Storage) GetTasks(ctx context.Context, username string) (*storage.CachedTasks, error) {
	cached := &storage.CachedTasks{}
	if err := s.getJSON(bucketTasks, []byte(username), cached, storage.ErrCacheNotFound); err != nil {
		return nil, err
	}
	return cached, nil
}

// ClearTasks drops cached task list of the user; a missing entry is not an error
func (s *Storage) ClearTasks(ctx context.Context, username string) error {
	return s.deleteKey(bucketTasks, []byte(username), nil)
}
