package auth

import (
	"strings"
	"testing"

	"passport/config"
	domainerrors "passport/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low iteration count keeps the derivations fast; the algorithm is identical.
func newTestHasher(strength *config.PasswordStrengthConfig) *pbkdf2Hasher {
	return &pbkdf2Hasher{
		iterations: 1000,
		strength:   strength,
	}
}

func TestPBKDF2Hasher_HashAndVerify(t *testing.T) {
	hasher := newTestHasher(nil)

	salt, err := hasher.GenerateSalt(30)
	require.NoError(t, err)

	digest := hasher.Hash("CorrectHorse1", salt)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, "CorrectHorse1", digest)

	// Same plaintext and salt always derive the same digest.
	assert.Equal(t, digest, hasher.Hash("CorrectHorse1", salt))

	assert.True(t, hasher.Verify("CorrectHorse1", digest, salt))
	assert.False(t, hasher.Verify("WrongHorse1", digest, salt))
	assert.False(t, hasher.Verify("", digest, salt))
	assert.False(t, hasher.Verify("CorrectHorse1", digest, salt+"x"))
	assert.False(t, hasher.Verify("CorrectHorse1", "tampered"+digest, salt))
}

func TestPBKDF2Hasher_SaltKeysTheDigest(t *testing.T) {
	hasher := newTestHasher(nil)

	saltA, err := hasher.GenerateSalt(30)
	require.NoError(t, err)
	saltB, err := hasher.GenerateSalt(30)
	require.NoError(t, err)

	require.NotEqual(t, saltA, saltB)

	// Identical passwords under different salts never share a digest.
	assert.NotEqual(t, hasher.Hash("SamePassword1", saltA), hasher.Hash("SamePassword1", saltB))
}

func TestPBKDF2Hasher_GenerateSalt(t *testing.T) {
	hasher := newTestHasher(nil)

	salt, err := hasher.GenerateSalt(30)
	require.NoError(t, err)
	assert.Len(t, salt, 30)

	for _, r := range salt {
		assert.Contains(t, saltAlphabet, string(r))
	}

	// A small sample is enough to catch a broken entropy source.
	seen := make(map[string]bool)
	for range 20 {
		s, err := hasher.GenerateSalt(30)
		require.NoError(t, err)
		assert.False(t, seen[s], "salt repeated: %s", s)
		seen[s] = true
	}

	_, err = hasher.GenerateSalt(0)
	assert.Error(t, err)
	_, err = hasher.GenerateSalt(-1)
	assert.Error(t, err)
}

func TestPBKDF2Hasher_ValidateStrengthWithoutPolicy(t *testing.T) {
	hasher := newTestHasher(nil)

	// No configured policy accepts anything, including the empty string.
	assert.NoError(t, hasher.ValidateStrength(""))
	assert.NoError(t, hasher.ValidateStrength("a"))
	assert.NoError(t, hasher.ValidateStrength("whatever"))
}

func TestPBKDF2Hasher_ValidateStrengthWithPolicy(t *testing.T) {
	hasher := newTestHasher(&config.PasswordStrengthConfig{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	})

	assert.NoError(t, hasher.ValidateStrength("StrongPass123!"))

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"Sh0rt!", "too short"},
		{"lowercase123!", "missing uppercase letter"},
		{"UPPERCASE123!", "missing lowercase letter"},
		{"NoNumbersHere!", "missing digit"},
		{"NoSpecials123", "missing special character"},
	}

	for _, tc := range testCases {
		err := hasher.ValidateStrength(tc.password)
		assert.Error(t, err, "Expected error for password: %s", tc.password)
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
		assert.Contains(t, err.Error(), tc.expectedErr)
	}
}

func TestNewPBKDF2Hasher_Defaults(t *testing.T) {
	hasher := NewPBKDF2Hasher(&config.Config{})

	salt, err := hasher.GenerateSalt(30)
	require.NoError(t, err)

	digest := hasher.Hash("DefaultIterations1", salt)
	assert.True(t, hasher.Verify("DefaultIterations1", digest, salt))
	assert.False(t, strings.Contains(digest, salt))
}
