package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the client session.
// Only one session is kept: a new login replaces the previous one.
type AuthStorage interface {
	// SaveAuth stores session data, replacing any existing session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored session data
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored session data (logout)
	// Returns ErrAuthNotFound if no session exists
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a session exists and its token has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the client session
type AuthData struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	// ExpiresAt - unix timestamp истечения токена, 0 если неизвестно
	ExpiresAt int64 `json:"expires_at"`
}

// Expired reports whether the token expiry is known and not after now.
func (a *AuthData) Expired(now time.Time) bool {
	return a.ExpiresAt > 0 && now.Unix() >= a.ExpiresAt
}
