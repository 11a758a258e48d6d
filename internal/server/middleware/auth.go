package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/tasklist/internal/server/handlers"
)

// ErrUnauthorized indicates a missing, malformed, invalid or expired bearer token
var ErrUnauthorized = errors.New("unauthorized")

const bearerPrefix = "Bearer "

// TokenValidator проверяет токен и возвращает id пользователя
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// BearerToken извлекает токен из заголовка вида "Bearer <token>".
// Схема чувствительна к регистру, пустой токен недопустим.
func BearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Authenticate resolves the user id from the Authorization header.
// Malformed headers are rejected before the validator is consulted.
func Authenticate(header http.Header, validator TokenValidator) (int64, error) {
	token, ok := BearerToken(header.Get("Authorization"))
	if !ok {
		return 0, ErrUnauthorized
	}

	userID, err := validator.Validate(token)
	if err != nil {
		return 0, errors.Join(ErrUnauthorized, err)
	}

	return userID, nil
}

// AuthMiddleware создает middleware для проверки bearer токена
func AuthMiddleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := Authenticate(r.Header, validator)
			if err != nil {
				// Сам заголовок не логируем: он содержит токен
				logger.WarnContext(r.Context(), "request rejected", slog.Any("error", err), slog.String("path", r.URL.Path))
				handlers.WriteUnauthorized(logger, w)
				return
			}

			logger.DebugContext(r.Context(), "user authenticated", slog.Int64("user_id", userID))

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), userID)))
		})
	}
}
