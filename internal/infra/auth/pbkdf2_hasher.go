// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"math/big"
	"strings"
	"unicode"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// saltAlphabet is the character set for generated salts. Alphanumeric so
	// the salt survives any column collation or copy-paste round trip.
	saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	digestKeyLength = 32
)

// pbkdf2Hasher derives password digests with PBKDF2-SHA256 over an explicit
// random salt. The salt is kept as its own field rather than embedded in the
// digest, so verification is parameterized by both stored credential fields.
type pbkdf2Hasher struct {
	iterations int
	strength   *config.PasswordStrengthConfig
}

// NewPBKDF2Hasher is the constructor for pbkdf2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewPBKDF2Hasher(cfg *config.Config) service.PasswordHasher {
	iterations := 0
	var strength *config.PasswordStrengthConfig
	if cfg != nil {
		strength = cfg.PasswordStrength
		if cfg.Auth != nil {
			iterations = cfg.Auth.PBKDF2Iterations
		}
	}
	if iterations <= 0 {
		iterations = 210000
	}

	return &pbkdf2Hasher{
		iterations: iterations,
		strength:   strength,
	}
}

// GenerateSalt returns a random string over saltAlphabet of the given length.
func (h *pbkdf2Hasher) GenerateSalt(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("salt length must be positive")
	}

	var sb strings.Builder
	sb.Grow(length)
	alphabetLen := big.NewInt(int64(len(saltAlphabet)))
	for range length {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", errors.Wrap(err, "entropy source failed")
		}
		sb.WriteByte(saltAlphabet[idx.Int64()])
	}

	return sb.String(), nil
}

// Hash derives the digest for the plaintext keyed by the salt.
// Same (plaintext, salt) pair always yields the same digest.
func (h *pbkdf2Hasher) Hash(plaintext, salt string) string {
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), h.iterations, digestKeyLength, sha256.New)

	return base64.RawStdEncoding.EncodeToString(key)
}

// Verify recomputes the digest and compares in constant time, so the duration
// does not reveal where a mismatch occurs.
func (h *pbkdf2Hasher) Verify(plaintext, digest, salt string) bool {
	computed := h.Hash(plaintext, salt)

	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// ValidateStrength applies the configured password policy.
// Without a configured policy every password is accepted, matching the
// reference behavior where the strength check is a disabled hook.
func (h *pbkdf2Hasher) ValidateStrength(plaintext string) error {
	if h.strength == nil {
		return nil
	}

	if len(plaintext) < h.strength.MinLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("too short")
	}
	if h.strength.RequireUppercase && !strings.ContainsFunc(plaintext, unicode.IsUpper) {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing uppercase letter")
	}
	if h.strength.RequireLowercase && !strings.ContainsFunc(plaintext, unicode.IsLower) {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing lowercase letter")
	}
	if h.strength.RequireNumbers && !strings.ContainsFunc(plaintext, unicode.IsDigit) {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing digit")
	}
	if h.strength.RequireSpecial && !strings.ContainsFunc(plaintext, isSpecial) {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing special character")
	}

	return nil
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
