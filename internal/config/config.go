// Package config загружает настройки сервера из флагов, переменных окружения и .env файла.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iudanet/tasklist/internal/crypto"
)

// Config holds server configuration
type Config struct {
	Addr            string
	DatabaseURL     string
	JWTSecret       string
	PasswordHasher  string
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	ShowVersion     bool
}

// Defaults
const (
	DefaultAddr            = ":8080"
	DefaultDatabaseURL     = "tasklist.db"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultCORSOrigins     = "http://localhost:5173"
	DefaultShutdownTimeout = 10 * time.Second
)

// Load reads configuration. Precedence: command-line flag, environment variable,
// .env file, built-in default. envFile may be empty to skip loading a file.
func Load(args []string, envFile string) (*Config, error) {
	if envFile != "" {
		// Отсутствующий .env - не ошибка; godotenv не перезаписывает уже заданные переменные
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	shutdownDefault := DefaultShutdownTimeout
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		shutdownDefault = d
	}

	cfg := &Config{}
	var corsOrigins string

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", getEnv("ADDR", DefaultAddr), "HTTP listen address")
	fs.StringVar(&cfg.DatabaseURL, "db", getEnv("DATABASE_URL", DefaultDatabaseURL), "SQLite file path or postgres:// URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", getEnv("JWT_SECRET", ""), "token signing secret")
	fs.StringVar(&cfg.PasswordHasher, "hasher", getEnv("PASSWORD_HASHER", crypto.AlgorithmArgon2id), "password hashing algorithm (argon2id, bcrypt)")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", DefaultLogLevel), "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", DefaultLogFormat), "log format (json, text)")
	fs.StringVar(&corsOrigins, "cors-origins", getEnv("CORS_ALLOWED_ORIGINS", DefaultCORSOrigins), "comma separated list of allowed CORS origins")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", shutdownDefault, "graceful shutdown timeout")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.CORSOrigins = splitList(corsOrigins)

	if cfg.ShowVersion {
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные и перечислимые параметры
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.PasswordHasher != crypto.AlgorithmArgon2id && c.PasswordHasher != crypto.AlgorithmBcrypt {
		return fmt.Errorf("unknown password hasher %q", c.PasswordHasher)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// IsPostgres reports whether DatabaseURL points to PostgreSQL.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// SlogLevel converts LogLevel to slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
