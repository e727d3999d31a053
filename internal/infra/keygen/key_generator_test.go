package keygen

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyGenerator_GenerateKey(t *testing.T) {
	generator := NewKeyGenerator()

	key, err := generator.GenerateKey()
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	// Keys are URL-safe base64 over 32 random bytes.
	raw, err := base64.RawURLEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestKeyGenerator_KeysAreUnique(t *testing.T) {
	generator := NewKeyGenerator()

	seen := make(map[string]bool)
	for range 50 {
		key, err := generator.GenerateKey()
		require.NoError(t, err)
		assert.False(t, seen[key], "key repeated: %s", key)
		seen[key] = true
	}
}
