package crypto

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPasswordEmpty indicates that an empty password was passed to a hasher
	ErrPasswordEmpty = errors.New("password cannot be empty")

	// ErrPasswordTooLong indicates that the password exceeds the algorithm limit
	ErrPasswordTooLong = errors.New("password is too long")

	// ErrUnknownAlgorithm indicates that the requested hashing algorithm is not supported
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
)

// Algorithm names accepted by NewHasher.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// PasswordHasher хеширует пароли и проверяет их против сохраненного digest.
//
// Hash must produce a fresh salt on every call, so hashing the same password twice
// yields different digests. Verify recomputes the digest with the embedded salt and
// compares it in constant time; a malformed digest simply does not verify.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// MultiHasher hashes with a single default algorithm but verifies digests
// produced by any supported algorithm, picking the verifier by digest prefix.
type MultiHasher struct {
	def    PasswordHasher
	argon  *Argon2idHasher
	bcrypt *BcryptHasher
}

// NewHasher creates a MultiHasher whose default algorithm is algorithm.
func NewHasher(algorithm string) (*MultiHasher, error) {
	argon, err := NewArgon2idHasher(DefaultArgon2Params())
	if err != nil {
		return nil, err
	}
	bc, err := NewBcryptHasher(DefaultBcryptCost)
	if err != nil {
		return nil, err
	}

	m := &MultiHasher{argon: argon, bcrypt: bc}
	switch algorithm {
	case AlgorithmArgon2id:
		m.def = argon
	case AlgorithmBcrypt:
		m.def = bc
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return m, nil
}

// Hash hashes password with the default algorithm.
func (m *MultiHasher) Hash(password string) (string, error) {
	return m.def.Hash(password)
}

// Verify checks password against a digest of any supported algorithm.
func (m *MultiHasher) Verify(password, digest string) bool {
	switch {
	case strings.HasPrefix(digest, argon2idPrefix):
		return m.argon.Verify(password, digest)
	case isBcryptDigest(digest):
		return m.bcrypt.Verify(password, digest)
	default:
		return false
	}
}
