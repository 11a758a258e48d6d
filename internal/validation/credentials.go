package validation

import "errors"

var (
	// ErrUsernameEmpty indicates a missing username
	ErrUsernameEmpty = errors.New("username cannot be empty")
	// ErrPasswordEmpty indicates a missing password
	ErrPasswordEmpty = errors.New("password cannot be empty")
)

// ValidateCredentials проверяет наличие username и password.
// Формат и длина намеренно не проверяются: любые непустые значения допустимы.
func ValidateCredentials(username, password string) error {
	if username == "" {
		return ErrUsernameEmpty
	}
	if password == "" {
		return ErrPasswordEmpty
	}
	return nil
}
