package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrCacheNotFound indicates that no task list was cached for the user
	ErrCacheNotFound = errors.New("cached tasks not found")
)
