package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/tasklist/internal/server/service"
	"github.com/iudanet/tasklist/pkg/api"
)

// Authenticator регистрирует пользователей и выдает токены
type Authenticator interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	auth   Authenticator
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, auth Authenticator) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   auth,
	}
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		WriteError(h.logger, w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	if _, err := h.auth.Register(ctx, req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			WriteError(h.logger, w, "username and password are required", http.StatusBadRequest)
		case errors.Is(err, service.ErrDuplicateUsername):
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			WriteError(h.logger, w, "username already taken", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			WriteInternalError(h.logger, w)
		}
		return
	}

	WriteJSON(h.logger, w, api.MessageResponse{Message: "user registered successfully"}, http.StatusCreated)
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		WriteError(h.logger, w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username))
			WriteError(h.logger, w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to login", slog.Any("error", err))
		WriteInternalError(h.logger, w)
		return
	}

	WriteJSON(h.logger, w, api.TokenResponse{Token: token}, http.StatusOK)
}
