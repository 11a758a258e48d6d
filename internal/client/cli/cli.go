// Package cli реализует команды консольного клиента.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/tasklist/internal/client/iocli"
	"github.com/iudanet/tasklist/internal/client/storage"
	"github.com/iudanet/tasklist/pkg/api"
)

// PasswordEnv позволяет передать пароль без интерактивного ввода
const PasswordEnv = "TASKLIST_PASSWORD"

// ErrUnknownCommand возвращается для неизвестной команды
var ErrUnknownCommand = errors.New("unknown command")

//go:generate moq -out apiclient_mock.go . APIClient

// APIClient - операции сервера, которые использует CLI
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	CreateTask(ctx context.Context, token string, req api.CreateTaskRequest) (*api.TaskResponse, error)
	ListTasks(ctx context.Context, token string) ([]api.TaskResponse, error)
	UpdateTask(ctx context.Context, token string, id int64, req api.UpdateTaskRequest) error
	DeleteTask(ctx context.Context, token string, id int64) error
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// Store - локальное хранилище клиента: сессия и кэш задач
type Store interface {
	storage.AuthStorage
	storage.TaskCache
}

// Passwords описывает неинтерактивные источники пароля
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io        iocli.IO
	apiClient APIClient
	store     Store
	now       func() time.Time
	passwords Passwords
}

func New(io iocli.IO, apiClient APIClient, store Store, passwords Passwords) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		store:     store,
		now:       time.Now,
		passwords: passwords,
	}
}

// Run выполняет команду с аргументами
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "add":
		return c.runAdd(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "done":
		return c.runSetCompleted(ctx, args, true)
	case "undone":
		return c.runSetCompleted(ctx, args, false)
	case "rename":
		return c.runRename(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// getPassword retrieves password from various sources with priority:
// 1. Environment variable TASKLIST_PASSWORD
// 2. File specified in --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: CLI parameter
	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// interactivePassword reports whether the password will be typed by the user
func (c *Cli) interactivePassword() bool {
	return os.Getenv(PasswordEnv) == "" && c.passwords.FromFile == "" && c.passwords.FromArgs == ""
}

func PrintUsage(out iocli.IO) {
	out.Println("Tasklist Client")
	out.Println()
	out.Println("Usage:")
	out.Println("  tasklist [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version               Show version information")
	out.Println("  --server URL            Server URL (default: http://localhost:8080)")
	out.Println("  --db PATH               Path to local database (default: tasklist-client.db)")
	out.Println("  --password PASSWORD     Password (not recommended, use env var or file)")
	out.Println("  --password-file PATH    Path to file containing password")
	out.Println()
	out.Println("Password Priority (highest to lowest):")
	out.Println("  1. TASKLIST_PASSWORD environment variable")
	out.Println("  2. --password-file (file path)")
	out.Println("  3. --password (command line)")
	out.Println("  4. Interactive prompt (fallback)")
	out.Println()
	out.Println("Commands:")
	out.Println("  register [username]     Register new user")
	out.Println("  login [username]        Login to server")
	out.Println("  logout                  Delete local session")
	out.Println("  status                  Show session and server status")
	out.Println("  add <title>             Create task")
	out.Println("  list [--offline]        List tasks (--offline shows the last fetched list)")
	out.Println("  done <id>               Mark task completed")
	out.Println("  undone <id>             Mark task not completed")
	out.Println("  rename <id> <title>     Change task title")
	out.Println("  delete <id>             Delete task")
	out.Println()
	out.Println("Examples:")
	out.Println("  tasklist register alice")
	out.Println("  tasklist login alice")
	out.Println("  tasklist add Buy milk")
	out.Println("  tasklist done 1")
	out.Println("  tasklist --server https://tasks.example.com list")
}
