package api

// CreateTaskRequest представляет запрос на создание задачи.
// Отсутствующий title означает пустую строку.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest представляет частичное обновление задачи.
// Поля, которых нет в JSON, остаются nil и не меняются.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TaskResponse представляет задачу в ответах API
type TaskResponse struct {
	Title     string `json:"title"`
	ID        int64  `json:"id"`
	Completed bool   `json:"completed"`
}
