package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/tasklist/internal/models"
	"github.com/iudanet/tasklist/internal/server/storage"
)

var _ storage.UserStorage = (*Storage)(nil)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, username, passwordHash).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
