package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTaskNotFound indicates that task does not exist for the given owner
	ErrTaskNotFound = errors.New("task not found")

	// ErrOwnerNotFound indicates that the task owner has no user row,
	// e.g. a still valid token issued before the database was reset
	ErrOwnerNotFound = errors.New("task owner not found")
)
