package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Low costs keep the tests fast.
var (
	testArgon2 = Config{Algorithm: AlgorithmArgon2, Argon2MemoryCost: 1024, Argon2TimeCost: 1, Argon2Parallelism: 1}
	testBcrypt = Config{Algorithm: AlgorithmBcrypt, BcryptRounds: bcrypt.MinCost}
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	for _, cfg := range []Config{testArgon2, testBcrypt} {
		t.Run(cfg.Algorithm, func(t *testing.T) {
			hasher, err := NewPasswordHasher(cfg)
			require.NoError(t, err)

			for _, password := range []string{"StrongPass123!", "secret123", "Pässphräse123!", ""} {
				hash, err := hasher.Hash(password)
				require.NoError(t, err)
				assert.NotEmpty(t, hash)
				assert.NotEqual(t, password, hash)

				assert.True(t, hasher.Verify(password, hash))
				assert.False(t, hasher.Verify(password+"x", hash))
			}
		})
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	hasher, err := NewPasswordHasher(testArgon2)
	require.NoError(t, err)

	a, err := hasher.Hash("secret123")
	require.NoError(t, err)
	b, err := hasher.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_Encoding(t *testing.T) {
	argonHasher, err := NewPasswordHasher(testArgon2)
	require.NoError(t, err)
	hash, err := argonHasher.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"), hash)

	bcryptHasher, err := NewPasswordHasher(testBcrypt)
	require.NoError(t, err)
	hash, err = bcryptHasher.Hash("secret123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasher_VerifiesOtherAlgorithm(t *testing.T) {
	argonHasher, err := NewPasswordHasher(testArgon2)
	require.NoError(t, err)
	bcryptHasher, err := NewPasswordHasher(testBcrypt)
	require.NoError(t, err)

	legacy, err := bcryptHasher.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, argonHasher.Verify("secret123", legacy))
	assert.False(t, argonHasher.Verify("secret124", legacy))

	current, err := argonHasher.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, bcryptHasher.Verify("secret123", current))
	assert.False(t, bcryptHasher.Verify("secret124", current))
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	long := strings.Repeat("p", 80)

	for _, cfg := range []Config{testArgon2, testBcrypt} {
		t.Run(cfg.Algorithm, func(t *testing.T) {
			hasher, err := NewPasswordHasher(cfg)
			require.NoError(t, err)

			for _, password := range []string{strings.Repeat("a", 72), strings.Repeat("a", 73), long, strings.Repeat("ü", 100)} {
				hash, err := hasher.Hash(password)
				require.NoError(t, err, "len=%d", len(password))
				assert.True(t, hasher.Verify(password, hash), "len=%d", len(password))
			}

			// Bytes past 72 still matter.
			hash, err := hasher.Hash(long)
			require.NoError(t, err)
			assert.False(t, hasher.Verify(long[:79]+"q", hash))
			assert.False(t, hasher.Verify(long[:72], hash))
		})
	}

	bcryptHasher, err := NewPasswordHasher(testBcrypt)
	require.NoError(t, err)
	argonHasher, err := NewPasswordHasher(testArgon2)
	require.NoError(t, err)
	hash, err := bcryptHasher.Hash(long)
	require.NoError(t, err)
	assert.True(t, argonHasher.Verify(long, hash))
}

func TestPasswordHasher_MalformedHashes(t *testing.T) {
	hasher, err := NewPasswordHasher(testArgon2)
	require.NoError(t, err)

	for _, encoded := range []string{
		"",
		"secret123",
		"invalid_hash",
		"$argon2id$",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$!!!",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$2a$04$tooshort",
	} {
		assert.False(t, hasher.Verify("secret123", encoded), encoded)
	}
}

func TestNewPasswordHasher_RejectsBadConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Algorithm: "md5"},
		{Algorithm: ""},
		{Algorithm: AlgorithmBcrypt, BcryptRounds: 3},
		{Algorithm: AlgorithmBcrypt, BcryptRounds: 32},
		{Algorithm: AlgorithmArgon2, Argon2MemoryCost: 0, Argon2TimeCost: 1, Argon2Parallelism: 1},
		{Algorithm: AlgorithmArgon2, Argon2MemoryCost: 1024, Argon2TimeCost: 0, Argon2Parallelism: 1},
		{Algorithm: AlgorithmArgon2, Argon2MemoryCost: 1024, Argon2TimeCost: 1, Argon2Parallelism: 0},
	} {
		_, err := NewPasswordHasher(cfg)
		assert.Error(t, err, "%+v", cfg)
	}
}
