package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iudanet/tasklist/internal/models"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/pkg/api"
)

// TaskHandler обрабатывает CRUD запросы задач.
// Все маршруты должны быть обернуты AuthMiddleware: без user_id в контексте запрос отклоняется.
type TaskHandler struct {
	logger *slog.Logger
	tasks  storage.TaskStorage
}

// NewTaskHandler создает новый handler задач
func NewTaskHandler(logger *slog.Logger, tasks storage.TaskStorage) *TaskHandler {
	return &TaskHandler{
		logger: logger,
		tasks:  tasks,
	}
}

// Create обрабатывает POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteUnauthorized(h.logger, w)
		return
	}

	var req api.CreateTaskRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(ctx, userID, req.Title)
	if err != nil {
		// Токен подписан верно, но пользователя уже нет в БД
		if errors.Is(err, storage.ErrOwnerNotFound) {
			h.logger.WarnContext(ctx, "token refers to missing user", slog.Int64("user_id", userID))
			WriteUnauthorized(h.logger, w)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create task", slog.Int64("user_id", userID), slog.Any("error", err))
		WriteInternalError(h.logger, w)
		return
	}

	WriteJSON(h.logger, w, toTaskResponse(task), http.StatusCreated)
}

// List обрабатывает GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteUnauthorized(h.logger, w)
		return
	}

	tasks, err := h.tasks.ListTasks(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tasks", slog.Int64("user_id", userID), slog.Any("error", err))
		WriteInternalError(h.logger, w)
		return
	}

	// Всегда массив, даже пустой
	resp := make([]api.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, toTaskResponse(task))
	}

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

// Update обрабатывает PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteUnauthorized(h.logger, w)
		return
	}

	taskID, ok := taskIDFromPath(r)
	if !ok {
		WriteError(h.logger, w, msgTaskNotFound, http.StatusNotFound)
		return
	}

	var req api.UpdateTaskRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	patch := models.TaskPatch{Title: req.Title, Completed: req.Completed}
	if _, err := h.tasks.UpdateTask(ctx, userID, taskID, patch); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			WriteError(h.logger, w, msgTaskNotFound, http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update task", slog.Int64("task_id", taskID), slog.Any("error", err))
		WriteInternalError(h.logger, w)
		return
	}

	WriteJSON(h.logger, w, api.MessageResponse{Message: "task updated"}, http.StatusOK)
}

// Delete обрабатывает DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteUnauthorized(h.logger, w)
		return
	}

	taskID, ok := taskIDFromPath(r)
	if !ok {
		WriteError(h.logger, w, msgTaskNotFound, http.StatusNotFound)
		return
	}

	if err := h.tasks.DeleteTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			WriteError(h.logger, w, msgTaskNotFound, http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete task", slog.Int64("task_id", taskID), slog.Any("error", err))
		WriteInternalError(h.logger, w)
		return
	}

	WriteJSON(h.logger, w, api.MessageResponse{Message: "task deleted"}, http.StatusOK)
}

// decodeOptional декодирует тело запроса; пустое тело равносильно "{}"
func (h *TaskHandler) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	h.logger.WarnContext(r.Context(), "failed to decode task request", slog.Any("error", err))
	WriteError(h.logger, w, msgInvalidBody, http.StatusBadRequest)
	return false
}

// taskIDFromPath извлекает id задачи из пути
func taskIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func toTaskResponse(task *models.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
	}
}
