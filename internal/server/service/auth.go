// Package service содержит бизнес-логику регистрации и входа.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/tasklist/internal/crypto"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/internal/validation"
)

var (
	// ErrInvalidInput indicates a missing username or password
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUsername indicates that the username is already registered
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned for an unknown user and for a wrong password alike
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TokenIssuer выдает токен для пользователя
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	logger *slog.Logger
	users  storage.UserStorage
	hasher crypto.PasswordHasher
	tokens TokenIssuer

	dummyOnce   sync.Once
	dummyDigest string
}

// dummyPassword хэшируется один раз; проверка против него выравнивает
// время ответа для несуществующего пользователя
const dummyPassword = "tasklist-nonexistent-user"

// NewAuthService creates a new auth service
func NewAuthService(logger *slog.Logger, users storage.UserStorage, hasher crypto.PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register hashes password and stores a new user, returning its id.
func (s *AuthService) Register(ctx context.Context, username, password string) (int64, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	// Отдельной проверки существования нет: гонку закрывает UNIQUE в БД
	id, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", id))

	return id, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummy())
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return token, nil
}

// dummy возвращает digest той же стоимости, что и у настоящих пользователей
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error("failed to hash dummy password", slog.Any("error", err))
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}
