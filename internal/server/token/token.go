// Package token issues and validates signed bearer tokens carrying a user id.
//
// Tokens are stateless HS256 JWTs: validity depends only on the signature and
// the expiry claim, there is no server-side session or revocation list.
// Rotating the secret invalidates every outstanding token.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the lifetime of an issued token.
const TTL = 24 * time.Hour

// ErrInvalidToken indicates a bad signature, malformed payload or expired token.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents token claims
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Service provides token generation and validation
type Service struct {
	now    func() time.Time
	secret []byte
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests to move across the expiry boundary.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new token service.
// secret should be a cryptographically secure random string.
func NewService(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret cannot be empty")
	}

	s := &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a token for userID valid for exactly TTL.
func (s *Service) Issue(userID int64) (string, error) {
	// JWT хранит время с точностью до секунды, поэтому обрезаем заранее,
	// чтобы exp - iat было ровно TTL
	now := s.now().Truncate(time.Second)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate parses token and returns the user id it was issued for.
// Any failure is reported as ErrInvalidToken; the token is valid while now < exp.
func (s *Service) Validate(tokenString string) (int64, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}
