package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	apiclient "github.com/iudanet/tasklist/internal/client/api"
	"github.com/iudanet/tasklist/internal/client/storage"
)

var (
	// ErrNotAuthenticated - локальной сессии нет
	ErrNotAuthenticated = errors.New("not authenticated. Please run 'tasklist login' first")

	// ErrSessionExpired - токен истек или отклонен сервером
	ErrSessionExpired = errors.New("session expired. Please run 'tasklist login' again")
)

// requireSession возвращает действующую сессию
func (c *Cli) requireSession(ctx context.Context) (*storage.AuthData, error) {
	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	active, err := c.store.IsAuthenticated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !active {
		return nil, ErrSessionExpired
	}

	return authData, nil
}

// sessionError заменяет 401 от сервера на понятное сообщение
func sessionError(err error) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return ErrSessionExpired
	}
	return err
}

// tokenExpiry извлекает exp из токена без проверки подписи.
// Секрет есть только у сервера; значение нужно лишь для подсказок в CLI.
func tokenExpiry(token string) int64 {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Unix()
}
