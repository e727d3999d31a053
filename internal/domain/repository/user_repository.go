// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned by Create when the email address is already taken.
var ErrDuplicateEmail = errors.New("email address already registered")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
// Emails are compared exactly as stored; case folding follows the backing
// store's collation and is deliberately not normalized here.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uint64) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity. The store assigns the id.
	// A duplicate email yields ErrDuplicateEmail; concurrent inserts of the
	// same email resolve to exactly one success.
	Create(ctx context.Context, user *entity.User) error

	// Update rewrites the record addressed by user.Email and returns the
	// post-update state. The record id and creation time are preserved.
	Update(ctx context.Context, user *entity.User) (*entity.User, error)

	// Delete removes the record with the given id. A missing id yields
	// ErrUserNotFound, for symmetry with the other operations.
	Delete(ctx context.Context, id uint64) error

	// SetConfirmed flips the confirmation flag to true. Setting an already
	// confirmed record is a harmless repeat.
	SetConfirmed(ctx context.Context, email string) error

	// IsConfirmed reports the confirmation flag for the given email.
	IsConfirmed(ctx context.Context, email string) (bool, error)

	// ListByRole returns every user with the given role, ascending by id.
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error)
}
