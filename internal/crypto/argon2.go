package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id по умолчанию
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного ключа в байтах
	Argon2KeyLen = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

const argon2idPrefix = "$argon2id$"

// Argon2Params configures an Argon2idHasher.
type Argon2Params struct {
	Memory  uint32
	Time    uint32
	KeyLen  uint32
	SaltLen uint32
	Threads uint8
}

// DefaultArgon2Params returns the production parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:  Argon2Memory,
		Time:    Argon2Time,
		Threads: Argon2Threads,
		KeyLen:  Argon2KeyLen,
		SaltLen: SaltSize,
	}
}

// Argon2idHasher hashes passwords with Argon2id and encodes the result as a PHC string:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// Verification uses the parameters stored in the digest, not the hasher's own,
// so changing parameters keeps old digests verifiable.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a hasher with the given parameters.
func NewArgon2idHasher(params Argon2Params) (*Argon2idHasher, error) {
	if params.Time < 1 {
		return nil, fmt.Errorf("argon2 time must be at least 1")
	}
	if params.Threads < 1 {
		return nil, fmt.Errorf("argon2 threads must be at least 1")
	}
	if params.Memory < 8*uint32(params.Threads) {
		return nil, fmt.Errorf("argon2 memory must be at least %d KiB", 8*uint32(params.Threads))
	}
	if params.KeyLen < 16 || params.SaltLen < 8 {
		return nil, fmt.Errorf("argon2 key and salt are too short")
	}
	return &Argon2idHasher{params: params}, nil
}

// Hash returns a PHC encoded Argon2id digest with a fresh random salt.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the digest with the embedded salt and parameters.
func (h *Argon2idHasher) Verify(password, digest string) bool {
	params, salt, want, err := decodeArgon2id(digest)
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(want)))

	// Сравниваем весь digest за постоянное время
	return subtle.ConstantTimeCompare(got, want) == 1
}

// decodeArgon2id разбирает PHC строку на параметры, соль и хеш
func decodeArgon2id(digest string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("invalid argon2id digest format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("invalid argon2id version: %w", err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return params, nil, nil, fmt.Errorf("invalid argon2id parameters: %w", err)
	}
	if params.Time < 1 || params.Threads < 1 {
		return params, nil, nil, fmt.Errorf("invalid argon2id parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("invalid argon2id salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return params, nil, nil, fmt.Errorf("invalid argon2id hash")
	}

	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(hash))

	return params, salt, hash, nil
}
