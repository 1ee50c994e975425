// Package security provides the password hasher used by the user service.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"user-service/internal/domain/user"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2 = "argon2"
	AlgorithmBcrypt = "bcrypt"

	argon2SaltLength = 16
	argon2KeyLength  = 32
	argon2Prefix     = "$argon2id$"

	bcryptMaxInput = 72
)

var errMalformedHash = errors.New("malformed argon2 hash")

// Config selects the hashing algorithm and its cost parameters.
type Config struct {
	Algorithm         string
	Argon2MemoryCost  uint32 // KiB
	Argon2TimeCost    uint32
	Argon2Parallelism uint8
	BcryptRounds      int
}

// PasswordHasher hashes with the configured algorithm and verifies hashes
// produced by any supported algorithm.
type PasswordHasher struct {
	config Config
}

// NewPasswordHasher validates the config and returns a hasher.
func NewPasswordHasher(config Config) (user.PasswordHasher, error) {
	switch config.Algorithm {
	case AlgorithmArgon2:
		if config.Argon2MemoryCost == 0 || config.Argon2TimeCost == 0 || config.Argon2Parallelism == 0 {
			return nil, fmt.Errorf("argon2 costs must be positive (memory=%d, time=%d, parallelism=%d)",
				config.Argon2MemoryCost, config.Argon2TimeCost, config.Argon2Parallelism)
		}
	case AlgorithmBcrypt:
		if config.BcryptRounds < bcrypt.MinCost || config.BcryptRounds > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt rounds must be between %d and %d, got %d",
				bcrypt.MinCost, bcrypt.MaxCost, config.BcryptRounds)
		}
	default:
		return nil, fmt.Errorf("unsupported password algorithm: %s", config.Algorithm)
	}
	return &PasswordHasher{config: config}, nil
}

// Hash returns an encoded hash that embeds the algorithm and its parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.config.Algorithm == AlgorithmBcrypt {
		b, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.config.BcryptRounds)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(b), nil
	}

	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt,
		h.config.Argon2TimeCost, h.config.Argon2MemoryCost, h.config.Argon2Parallelism, argon2KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version,
		h.config.Argon2MemoryCost, h.config.Argon2TimeCost, h.config.Argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against encoded. The algorithm is taken from the
// encoding, not from the hasher's config.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, argon2Prefix):
		ok, err := verifyArgon2(password, encoded)
		return err == nil && ok
	case isBcryptHash(encoded):
		return bcrypt.CompareHashAndPassword([]byte(encoded), bcryptInput(password)) == nil
	default:
		return false
	}
}

// bcryptInput passes passwords within bcrypt's 72-byte limit through
// unchanged. Longer ones are reduced to base64(sha256(password)) so that
// every byte counts and bcrypt never rejects the input.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// verifyArgon2 parses $argon2id$v=19$m=..,t=..,p=..$salt$key.
func verifyArgon2(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, errMalformedHash
	}
	if version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, errMalformedHash
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, errMalformedHash
	}

	other := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}
