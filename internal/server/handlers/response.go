package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tasklist/pkg/api"
)

// Сообщения об ошибках, которые видит клиент
const (
	msgInvalidBody  = "invalid request body"
	msgUnauthorized = "unauthorized"
	msgInternal     = "internal server error"
	msgTaskNotFound = "task not found"
)

// WriteJSON отправляет JSON ответ
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет JSON ответ с ошибкой
func WriteError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(logger, w, api.ErrorResponse{Error: message}, statusCode)
}

// WriteUnauthorized отправляет 401 без подробностей о причине
func WriteUnauthorized(logger *slog.Logger, w http.ResponseWriter) {
	WriteError(logger, w, msgUnauthorized, http.StatusUnauthorized)
}

// WriteInternalError отправляет 500; детали остаются только в логах
func WriteInternalError(logger *slog.Logger, w http.ResponseWriter) {
	WriteError(logger, w, msgInternal, http.StatusInternalServerError)
}
