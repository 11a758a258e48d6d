package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasklist/internal/client/storage/boltdb"
	"github.com/iudanet/tasklist/pkg/api"
)

// fakeIO пишет вывод в буфер и отдает заранее заданный ввод
type fakeIO struct {
	out       bytes.Buffer
	inputs    []string
	passwords []string
}

func (f *fakeIO) Println(a ...any)               { _, _ = fmt.Fprintln(&f.out, a...) }
func (f *fakeIO) Printf(format string, a ...any) { _, _ = fmt.Fprintf(&f.out, format, a...) }
func (f *fakeIO) Write(p []byte) (int, error)    { return f.out.Write(p) }

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	if len(f.passwords) == 0 {
		return "", io.EOF
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

// mockAPI - простая реализация APIClient на функциях
type mockAPI struct {
	RegisterFunc   func(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error)
	LoginFunc      func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	CreateTaskFunc func(ctx context.Context, token string, req api.CreateTaskRequest) (*api.TaskResponse, error)
	ListTasksFunc  func(ctx context.Context, token string) ([]api.TaskResponse, error)
	UpdateTaskFunc func(ctx context.Context, token string, id int64, req api.UpdateTaskRequest) error
	DeleteTaskFunc func(ctx context.Context, token string, id int64) error
	HealthFunc     func(ctx context.Context) (*api.HealthResponse, error)
}

func (m *mockAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error) {
	return m.RegisterFunc(ctx, req)
}

func (m *mockAPI) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	return m.LoginFunc(ctx, req)
}

func (m *mockAPI) CreateTask(ctx context.Context, token string, req api.CreateTaskRequest) (*api.TaskResponse, error) {
	return m.CreateTaskFunc(ctx, token, req)
}

func (m *mockAPI) ListTasks(ctx context.Context, token string) ([]api.TaskResponse, error) {
	return m.ListTasksFunc(ctx, token)
}

func (m *mockAPI) UpdateTask(ctx context.Context, token string, id int64, req api.UpdateTaskRequest) error {
	return m.UpdateTaskFunc(ctx, token, id, req)
}

func (m *mockAPI) DeleteTask(ctx context.Context, token string, id int64) error {
	return m.DeleteTaskFunc(ctx, token, id)
}

func (m *mockAPI) Health(ctx context.Context) (*api.HealthResponse, error) {
	return m.HealthFunc(ctx)
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *boltdb.Storage {
	t.Helper()

	// Часы хранилища совпадают с часами CLI
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"),
		boltdb.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestCli(t *testing.T, apiClient APIClient) (*Cli, *fakeIO, *boltdb.Storage) {
	t.Helper()
	t.Setenv(PasswordEnv, "")

	fio := &fakeIO{}
	store := newTestStore(t)
	c := New(fio, apiClient, store, Passwords{})
	c.now = func() time.Time { return testNow }
	return c, fio, store
}

// signedToken выпускает токен с заданным exp; подпись клиент не проверяет
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return s
}
