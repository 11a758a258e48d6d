// Package server собирает HTTP API: маршруты, middleware и жизненный цикл http.Server.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/iudanet/tasklist/internal/server/handlers"
	"github.com/iudanet/tasklist/internal/server/middleware"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/pkg/api"
)

const healthPath = "/health"

// Deps содержит зависимости, необходимые для построения роутера
type Deps struct {
	Logger      *slog.Logger
	Auth        handlers.Authenticator
	Tokens      middleware.TokenValidator
	Tasks       storage.TaskStorage
	DB          handlers.Pinger
	Version     string
	CORSOrigins []string
}

// NewRouter builds the HTTP handler with all routes and middleware.
// Task routes are mounted on a subrouter guarded by the bearer-token middleware.
func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Logger, d.Auth)
	taskHandler := handlers.NewTaskHandler(d.Logger, d.Tasks)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.DB, d.Version)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteJSON(d.Logger, w, api.ErrorResponse{Error: "not found"}, http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteJSON(d.Logger, w, api.ErrorResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
	})

	// Публичные маршруты
	r.HandleFunc(healthPath, healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Защищенные маршруты
	protected := r.PathPrefix("/tasks").Subrouter()
	protected.Use(middleware.AuthMiddleware(d.Logger, d.Tokens))
	protected.HandleFunc("", taskHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("", taskHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/{id}", taskHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/{id}", taskHandler.Delete).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	// Порядок: request id -> recovery -> logging -> cors -> router
	var h http.Handler = r
	h = c.Handler(h)
	h = middleware.LoggingMiddleware(d.Logger, healthPath)(h)
	h = middleware.RecoveryMiddleware(d.Logger)(h)
	h = middleware.RequestID(h)

	return h
}
