package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasklist/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "pw1", req.Password)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.MessageResponse{Message: "user registered successfully"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Register(context.Background(), api.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "user registered successfully", resp.Message)
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.TokenResponse{Token: "jwt-token"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Login(context.Background(), api.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		wantIs      error
		name        string
		body        string
		wantMessage string
		status      int
	}{
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"error":"invalid username or password"}`,
			wantIs:      ErrUnauthorized,
			wantMessage: "invalid username or password",
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"error":"task not found"}`,
			wantIs:      ErrNotFound,
			wantMessage: "task not found",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "bad gateway\n",
			wantMessage: "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Login(context.Background(), api.LoginRequest{Username: "a", Password: "b"})
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)

			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.NotErrorIs(t, err, ErrUnauthorized)
				assert.NotErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestClient_Tasks(t *testing.T) {
	const token = "jwt-token"

	completed := true
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))

		var req api.CreateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.TaskResponse{ID: 7, Title: req.Title})
	})
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":7,"title":"Buy milk","completed":false}]`))
	})
	mux.HandleFunc("PUT /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.PathValue("id"))

		var req api.UpdateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Nil(t, req.Title)
		require.NotNil(t, req.Completed)
		assert.True(t, *req.Completed)

		_, _ = w.Write([]byte(`{"message":"task updated"}`))
	})
	mux.HandleFunc("DELETE /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"task not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"task deleted"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)

	task, err := client.CreateTask(ctx, token, api.CreateTaskRequest{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, "Buy milk", task.Title)

	tasks, err := client.ListTasks(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []api.TaskResponse{{ID: 7, Title: "Buy milk"}}, tasks)

	require.NoError(t, client.UpdateTask(ctx, token, 7, api.UpdateTaskRequest{Completed: &completed}))
	require.NoError(t, client.DeleteTask(ctx, token, 7))
	assert.ErrorIs(t, client.DeleteTask(ctx, token, 8), ErrNotFound)
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestClient_ServerUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).ListTasks(context.Background(), "t")
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_InvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListTasks(context.Background(), "t")
	assert.ErrorContains(t, err, "failed to decode response")
}
