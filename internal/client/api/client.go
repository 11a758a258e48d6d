package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/tasklist/pkg/api"
)

// Ошибки, которые CLI обрабатывает отдельно
var (
	// ErrUnauthorized возвращается на 401: токен отсутствует, истек или неверные учетные данные
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound возвращается на 404
	ErrNotFound = errors.New("not found")
)

// Error описывает неуспешный ответ сервера
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Is позволяет сравнивать ошибку сервера с ErrUnauthorized и ErrNotFound
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Authorization не переносим на другой хост: net/http сам сохраняет его
			// только для редиректов в пределах того же домена
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// CreateTask создает задачу от имени владельца токена
func (c *Client) CreateTask(ctx context.Context, token string, req api.CreateTaskRequest) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.doRequest(ctx, http.MethodPost, "/tasks", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create task request failed: %w", err)
	}
	return &resp, nil
}

// ListTasks возвращает задачи владельца токена
func (c *Client) ListTasks(ctx context.Context, token string) ([]api.TaskResponse, error) {
	resp := []api.TaskResponse{}
	if err := c.doRequest(ctx, http.MethodGet, "/tasks", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list tasks request failed: %w", err)
	}
	return resp, nil
}

// UpdateTask частично обновляет задачу
func (c *Client) UpdateTask(ctx context.Context, token string, id int64, req api.UpdateTaskRequest) error {
	if err := c.doRequest(ctx, http.MethodPut, taskPath(id), token, req, nil); err != nil {
		return fmt.Errorf("update task request failed: %w", err)
	}
	return nil
}

// DeleteTask удаляет задачу
func (c *Client) DeleteTask(ctx context.Context, token string, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, taskPath(id), token, nil, nil); err != nil {
		return fmt.Errorf("delete task request failed: %w", err)
	}
	return nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(respBody))
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return &Error{StatusCode: resp.StatusCode, Message: message}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
