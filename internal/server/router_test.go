package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/tasklist/internal/crypto"
	"github.com/iudanet/tasklist/internal/server/middleware"
	"github.com/iudanet/tasklist/internal/server/service"
	"github.com/iudanet/tasklist/internal/server/storage/sqlite"
	"github.com/iudanet/tasklist/internal/server/token"
	"github.com/iudanet/tasklist/pkg/api"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	tokens  *token.Service
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// Минимальная стоимость, чтобы тесты не тормозили
	hasher, err := crypto.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	tokens, err := token.NewService("test-secret")
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Logger:      logger,
		Auth:        service.NewAuthService(logger, store, hasher, tokens),
		Tokens:      tokens,
		Tasks:       store,
		DB:          store,
		Version:     "test",
		CORSOrigins: []string{"http://localhost:5173"},
	})

	return &testAPI{t: t, handler: handler, tokens: tokens}
}

func (a *testAPI) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/auth/register", "", api.RegisterRequest{Username: username, Password: password})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/auth/login", "", api.LoginRequest{Username: username, Password: password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.TokenResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *testAPI) listTasks(bearer string) []api.TaskResponse {
	a.t.Helper()

	rec := a.do(http.MethodGet, "/tasks", bearer, nil)
	require.Equal(a.t, http.StatusOK, rec.Code)

	var tasks []api.TaskResponse
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&tasks))
	return tasks
}

func TestRouter_TaskRoundTrip(t *testing.T) {
	a := setupTestAPI(t)
	tok := a.login("alice", "pw1")

	// Пустой список - это массив, а не null
	rec := a.do(http.MethodGet, "/tasks", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodPost, "/tasks", tok, api.CreateTaskRequest{Title: "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created api.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)

	tasks := a.listTasks(tok)
	require.Len(t, tasks, 1)
	assert.Equal(t, created, tasks[0])

	completed := true
	rec = a.do(http.MethodPut, "/tasks/"+itoa(created.ID), tok, api.UpdateTaskRequest{Completed: &completed})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"task updated"}`, rec.Body.String())

	tasks = a.listTasks(tok)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title, "title untouched by partial update")
	assert.True(t, tasks[0].Completed)

	rec = a.do(http.MethodDelete, "/tasks/"+itoa(created.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"task deleted"}`, rec.Body.String())

	assert.Empty(t, a.listTasks(tok))

	rec = a.do(http.MethodPut, "/tasks/"+itoa(created.ID), tok, api.UpdateTaskRequest{Completed: &completed})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = a.do(http.MethodDelete, "/tasks/"+itoa(created.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_OwnerIsolation(t *testing.T) {
	a := setupTestAPI(t)
	alice := a.login("alice", "pw1")
	bob := a.login("bob", "pw2")

	rec := a.do(http.MethodPost, "/tasks", alice, api.CreateTaskRequest{Title: "secret"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task api.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&task))

	assert.Empty(t, a.listTasks(bob))

	title := "hijacked"
	rec = a.do(http.MethodPut, "/tasks/"+itoa(task.ID), bob, api.UpdateTaskRequest{Title: &title})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodDelete, "/tasks/"+itoa(task.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	tasks := a.listTasks(alice)
	require.Len(t, tasks, 1)
	assert.Equal(t, "secret", tasks[0].Title)
}

func TestRouter_AuthErrors(t *testing.T) {
	a := setupTestAPI(t)
	a.login("alice", "pw1")

	tests := []struct {
		body       any
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "duplicate username", method: http.MethodPost, path: "/auth/register", body: api.RegisterRequest{Username: "alice", Password: "other"}, wantStatus: http.StatusBadRequest},
		{name: "empty password", method: http.MethodPost, path: "/auth/register", body: api.RegisterRequest{Username: "carol"}, wantStatus: http.StatusBadRequest},
		{name: "wrong password", method: http.MethodPost, path: "/auth/login", body: api.LoginRequest{Username: "alice", Password: "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", method: http.MethodPost, path: "/auth/login", body: api.LoginRequest{Username: "ghost", Password: "pw1"}, wantStatus: http.StatusUnauthorized},
		{name: "list without token", method: http.MethodGet, path: "/tasks", wantStatus: http.StatusUnauthorized},
		{name: "create without token", method: http.MethodPost, path: "/tasks", body: api.CreateTaskRequest{Title: "x"}, wantStatus: http.StatusUnauthorized},
		{name: "update without token", method: http.MethodPut, path: "/tasks/1", body: api.UpdateTaskRequest{}, wantStatus: http.StatusUnauthorized},
		{name: "delete with garbage token", method: http.MethodDelete, path: "/tasks/1", token: "garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRouter_TokenForMissingUser(t *testing.T) {
	a := setupTestAPI(t)

	// Подпись верна, но такого пользователя в БД нет
	orphan, err := a.tokens.Issue(999)
	require.NoError(t, err)

	rec := a.do(http.MethodPost, "/tasks", orphan, api.CreateTaskRequest{Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Чтение для такого токена просто пустое
	rec = a.do(http.MethodGet, "/tasks", orphan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_NonNumericTaskID(t *testing.T) {
	a := setupTestAPI(t)
	tok := a.login("alice", "pw1")

	rec := a.do(http.MethodDelete, "/tasks/abc", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	a := setupTestAPI(t)

	// Браузеры присылают имена заголовков в нижнем регистре
	tests := []struct {
		name           string
		origin         string
		requestHeaders string
		wantOrigin     string
	}{
		{name: "allowed origin with authorization", origin: "http://localhost:5173", requestHeaders: "authorization", wantOrigin: "http://localhost:5173"},
		{name: "allowed origin with several headers", origin: "http://localhost:5173", requestHeaders: "authorization,content-type", wantOrigin: "http://localhost:5173"},
		{name: "allowed origin without headers", origin: "http://localhost:5173", wantOrigin: "http://localhost:5173"},
		{name: "unknown origin", origin: "http://evil.example", requestHeaders: "authorization", wantOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			if tt.requestHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.requestHeaders)
			}

			rec := httptest.NewRecorder()
			a.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
