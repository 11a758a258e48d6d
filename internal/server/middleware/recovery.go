package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/tasklist/internal/server/handlers"
)

// RecoveryMiddleware создает middleware для восстановления после паники
// Перехватывает panic, логирует стек вызовов и возвращает 500 в виде JSON
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						"error", err,
						"request_id", GetRequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"headers_sent", rw.wroteHeader,
						"stack", string(debug.Stack()),
					)

					// Статус уже ушел клиенту, второй ответ записать нельзя
					if rw.wroteHeader {
						return
					}

					// Клиенту - только общее сообщение
					handlers.WriteInternalError(logger, w)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
