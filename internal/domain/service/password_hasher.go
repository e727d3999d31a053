// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher derives and verifies salted password digests.
// The salt is an explicit value: it is stored next to the digest and the same
// (plaintext, salt) pair always yields the same digest, so a record can be
// verified with nothing but its two stored credential fields.
type PasswordHasher interface {
	// GenerateSalt returns a cryptographically random string of the given
	// length. An entropy-source failure is the only error path and is fatal
	// for the calling operation.
	GenerateSalt(length int) (string, error)

	// Hash derives the digest for a plaintext keyed by the salt.
	Hash(plaintext, salt string) string

	// Verify reports whether the plaintext reproduces the stored digest under
	// the stored salt. The comparison runs in constant time.
	Verify(plaintext, digest, salt string) bool

	// ValidateStrength applies the configured password policy. It is a no-op
	// when no policy is configured.
	ValidateStrength(plaintext string) error
}
