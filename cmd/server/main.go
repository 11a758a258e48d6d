package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/tasklist/internal/config"
	"github.com/iudanet/tasklist/internal/crypto"
	"github.com/iudanet/tasklist/internal/server"
	"github.com/iudanet/tasklist/internal/server/handlers"
	"github.com/iudanet/tasklist/internal/server/service"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/internal/server/storage/postgres"
	"github.com/iudanet/tasklist/internal/server/storage/sqlite"
	"github.com/iudanet/tasklist/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// database объединяет интерфейсы хранилища, нужные серверу
type database interface {
	storage.UserStorage
	storage.TaskStorage
	handlers.Pinger
	Close() error
}

func main() {
	cfg, err := config.Load(os.Args[1:], ".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	logger, err := newLogger(os.Stdout, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	logger.Info("tasklist server starting",
		slog.String("version", Version),
		slog.String("addr", cfg.Addr),
		slog.String("hasher", cfg.PasswordHasher),
		slog.Bool("postgres", cfg.IsPostgres()),
	)

	db, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	hasher, err := crypto.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return fmt.Errorf("failed to create password hasher: %w", err)
	}

	tokens, err := token.NewService(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	router := server.NewRouter(server.Deps{
		Logger:      logger,
		Auth:        service.NewAuthService(logger, db, hasher, tokens),
		Tokens:      tokens,
		Tasks:       db,
		DB:          db,
		Version:     Version,
		CORSOrigins: cfg.CORSOrigins,
	})

	return server.New(logger, cfg.Addr, router, cfg.ShutdownTimeout).Run(ctx)
}

// openStorage выбирает хранилище по DATABASE_URL
func openStorage(ctx context.Context, cfg *config.Config) (database, error) {
	if cfg.IsPostgres() {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return db, nil
	}

	db, err := sqlite.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
	}
	return db, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func printVersion() {
	fmt.Printf("Tasklist Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
