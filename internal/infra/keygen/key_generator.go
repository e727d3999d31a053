// Package keygen implements confirmation-key generation.
package keygen

import (
	"crypto/rand"
	"encoding/base64"

	"passport/internal/domain/service"

	"github.com/pkg/errors"
)

// keyBytes is the raw entropy per confirmation key. 32 bytes keeps collision
// odds negligible across any realistic user population.
const keyBytes = 32

type randomKeyGenerator struct{}

// NewKeyGenerator is the constructor for the random confirmation-key generator.
func NewKeyGenerator() service.ConfirmationKeyGenerator {
	return &randomKeyGenerator{}
}

// GenerateKey returns a URL-safe random token. It is derived from the system
// entropy source only, never from user attributes.
func (g *randomKeyGenerator) GenerateKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "entropy source failed")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
