package storage

import (
	"context"

	"github.com/iudanet/tasklist/internal/models"
)

// TaskStorage defines interface for task persistence.
// Every method takes the owner id and never touches rows of other owners.
// A task that exists under a different owner is reported as ErrTaskNotFound.
type TaskStorage interface {
	// CreateTask inserts a task with completed = false
	CreateTask(ctx context.Context, ownerID int64, title string) (*models.Task, error)

	// ListTasks returns all tasks of the owner ordered by id.
	// Returns empty slice if owner has no tasks
	ListTasks(ctx context.Context, ownerID int64) ([]*models.Task, error)

	// UpdateTask applies patch atomically and returns the updated task.
	// Returns ErrTaskNotFound if no such task exists for this owner
	UpdateTask(ctx context.Context, ownerID, taskID int64, patch models.TaskPatch) (*models.Task, error)

	// DeleteTask removes the task.
	// Returns ErrTaskNotFound if no such task exists for this owner
	DeleteTask(ctx context.Context, ownerID, taskID int64) error
}
