// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"passport/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// The confirmation fields carry the double-entry values from the form;
// the engine checks them before anything touches the store.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Pseudo          string
	Email           string
	ConfirmEmail    string
	Password        string
	ConfirmPassword string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateInput defines the data required to rewrite an existing profile.
// The record is addressed by Email; the role is preserved from the stored record.
type UpdateInput struct {
	FirstName       string
	LastName        string
	Pseudo          string
	Email           string
	ConfirmEmail    string
	Password        string
	ConfirmPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user and the confirmation key
// that must reach the user out of band.
type RegisterOutput struct {
	User            *entity.User
	ConfirmationKey string
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer depends on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	SendConfirmation(ctx context.Context, user *entity.User, key string) error
	Login(ctx context.Context, input *LoginInput) (*entity.User, error)
	IsConfirmed(ctx context.Context, email string) (bool, error)
	ConfirmAccount(ctx context.Context, email, key string) (bool, error)
	UpdateProfile(ctx context.Context, input *UpdateInput) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uint64) error
	ListMembers(ctx context.Context) ([]*entity.User, error)
	Logout()
}
