// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the core entity in the system, representing one registered person.
// The credential fields always travel together: Digest is the salted one-way
// hash of the password and Salt is the random per-user value it was keyed
// with. The plaintext password never appears on this type.
type User struct {
	ID              uint64    // Store-assigned surrogate id, immutable.
	Email           string    // Unique external lookup key.
	FirstName       string    // The user's first name.
	LastName        string    // The user's last name.
	Pseudo          string    // Display handle shown to other users.
	Digest          string    // Salted password digest, never the plaintext.
	Salt            string    // Random salt, unique per user, rotated on every update.
	Role            Role      // Account class; registration always assigns RoleMember.
	Confirmed       bool      // True once the email round-trip completed.
	ConfirmationKey string    // Random token mailed at registration; kept after confirmation.
	CreatedAt       time.Time // Timestamp of when this account was created.
	UpdatedAt       time.Time // Timestamp of the last modification.
}
