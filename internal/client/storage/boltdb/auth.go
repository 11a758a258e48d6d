package boltdb

import (
	"context"
	"errors"

	"github.com/iudanet/tasklist/internal/client/storage"
)

// Сессия одна на файл: новый login перезаписывает ключ
var sessionKey = []byte("current")

var _ storage.AuthStorage = (*Storage)(nil)

// SaveAuth replaces the stored session
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	return s.putJSON(bucketAuth, sessionKey, auth)
}

// GetAuth returns the stored session or storage.ErrAuthNotFound
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	auth := &storage.AuthData{}
	if err := s.getJSON(bucketAuth, sessionKey, auth, storage.ErrAuthNotFound); err != nil {
		return nil, err
	}
	return auth, nil
}

// DeleteAuth removes the session; storage.ErrAuthNotFound if there is none
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.deleteKey(bucketAuth, sessionKey, storage.ErrAuthNotFound)
}

// IsAuthenticated reports whether a session exists and its token is not expired
// according to the storage clock.
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	switch {
	case errors.Is(err, storage.ErrAuthNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return !auth.Expired(s.now()), nil
}
