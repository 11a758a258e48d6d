package models

import "time"

// User представляет зарегистрированного пользователя
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время регистрации
	Username     string    `json:"username"`   // уникальный username
	PasswordHash string    `json:"-"`          // PHC/bcrypt строка, никогда не отдается клиенту
	ID           int64     `json:"id"`         // автоинкрементный идентификатор
}
