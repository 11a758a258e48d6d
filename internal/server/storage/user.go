package storage

import (
	"context"

	"github.com/iudanet/tasklist/internal/models"
)

// UserStorage defines interface for user credential persistence
type UserStorage interface {
	// CreateUser inserts a new user and returns its generated id.
	// Returns ErrUserAlreadyExists if username is taken; the check is enforced
	// by a unique constraint, so concurrent registrations cannot both succeed.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
