package models

// Task представляет задачу пользователя.
// OwnerID задается при создании и больше не меняется.
type Task struct {
	Title     string `json:"title"`
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"-"`
	Completed bool   `json:"completed"`
}

// TaskPatch описывает частичное обновление задачи.
// nil поле означает "оставить как есть".
type TaskPatch struct {
	Title     *string
	Completed *bool
}
