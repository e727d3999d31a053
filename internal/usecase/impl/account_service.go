// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultSaltLength = 30

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager             repository.TransactionManager
	userRepo              repository.UserRepository
	hasher                service.PasswordHasher
	keyGenerator          service.ConfirmationKeyGenerator
	mailSender            service.MailSender
	session               usecase.SessionHolder
	validate              *validator.Validate
	saltLength            int
	requireConfirmedLogin bool
	logger                *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	KeyGenerator service.ConfirmationKeyGenerator
	MailSender   service.MailSender
	Session      usecase.SessionHolder
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	saltLength := defaultSaltLength
	requireConfirmedLogin := false
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.SaltLength > 0 {
			saltLength = params.Config.Auth.SaltLength
		}
		requireConfirmedLogin = params.Config.Auth.RequireConfirmedLogin
	}

	return &accountService{
		txManager:             params.TxManager,
		userRepo:              params.UserRepo,
		hasher:                params.Hasher,
		keyGenerator:          params.KeyGenerator,
		mailSender:            params.MailSender,
		session:               params.Session,
		validate:              validator.New(validator.WithRequiredStructEnabled()),
		saltLength:            saltLength,
		requireConfirmedLogin: requireConfirmedLogin,
		logger:                params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// validateProfileInput runs the shared precondition chain for Register and
// UpdateProfile. The checks fail fast in a fixed order: password double-entry,
// email double-entry, email syntax, password strength.
func (srv *accountService) validateProfileInput(password, confirmPassword, email, confirmEmail string) error {
	if password != confirmPassword {
		return errors.Wrap(domainerrors.ErrPasswordMismatch, "password confirmation does not match")
	}
	if email != confirmEmail {
		return errors.Wrap(domainerrors.ErrEmailMismatch, "email confirmation does not match")
	}
	if err := srv.validate.Var(email, "required,email"); err != nil {
		return errors.Wrap(domainerrors.ErrEmailInvalid, "email address is not valid")
	}
	if err := srv.hasher.ValidateStrength(password); err != nil {
		return err
	}

	return nil
}

// deriveCredentials produces a fresh salt and the matching digest for the
// given plaintext. Every call yields a new salt.
func (srv *accountService) deriveCredentials(plaintext string) (salt, digest string, err error) {
	salt, err = srv.hasher.GenerateSalt(srv.saltLength)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate salt")
	}

	return salt, srv.hasher.Hash(plaintext, salt), nil
}

// Register creates a new unconfirmed member account and returns the
// confirmation key alongside the stored user.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := srv.validateProfileInput(input.Password, input.ConfirmPassword, input.Email, input.ConfirmEmail); err != nil {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	salt, digest, err := srv.deriveCredentials(input.Password)
	if err != nil {
		return nil, err
	}

	key, err := srv.keyGenerator.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate confirmation key")
	}

	newUser := &entity.User{
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Pseudo:          input.Pseudo,
		Digest:          digest,
		Salt:            salt,
		Role:            entity.RoleMember,
		Confirmed:       false,
		ConfirmationKey: key,
	}

	// The unique index on email arbitrates concurrent registrations.
	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.log(ctx).Warn("Registration rejected, email already taken", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrEmailTaken, "email already registered")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Uint64("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser, ConfirmationKey: key}, nil
}

// SendConfirmation delivers the confirmation key to the user's address.
// A failed send leaves the account standing; the caller decides how to report it.
func (srv *accountService) SendConfirmation(ctx context.Context, user *entity.User, key string) error {
	subject, body := composeConfirmationMail(user, key)

	if err := srv.mailSender.Send(ctx, subject, body, user.Email); err != nil {
		srv.log(ctx).Error("Failed to send confirmation mail", slog.Uint64("userID", user.ID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrMailSendFailed, "failed to send confirmation mail")
	}

	return nil
}

// composeConfirmationMail builds the outbound confirmation message. The key
// appears only here, never in logs.
func composeConfirmationMail(user *entity.User, key string) (subject, body string) {
	subject = "Confirm your account"
	body = fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Thank you for registering. Enter the confirmation key below to activate your account:\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not create this account, you can ignore this message.\r\n",
		user.FirstName, key,
	)

	return subject, body
}

// Login verifies the credentials and, on success, installs the user as the
// process's active identity. A failed attempt leaves the session untouched.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*entity.User, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !srv.hasher.Verify(input.Password, user.Digest, user.Salt) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if srv.requireConfirmedLogin && !user.Confirmed {
		srv.log(ctx).Warn("Login rejected, account not confirmed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrAccountNotConfirmed, "account has not been confirmed")
	}

	srv.session.Set(user)
	srv.log(ctx).Debug("Login succeeded", slog.Uint64("userID", user.ID))

	return user, nil
}

// IsConfirmed reports whether the account with the given email has been confirmed.
func (srv *accountService) IsConfirmed(ctx context.Context, email string) (bool, error) {
	confirmed, err := srv.userRepo.IsConfirmed(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return false, errors.Wrap(err, "failed to read confirmation state")
	}

	return confirmed, nil
}

// ConfirmAccount compares the submitted key against the stored one and flips
// the confirmation flag on an exact match. Read and write share one
// transaction so a concurrent profile rewrite cannot interleave.
// A wrong key is not an error: it reports (false, nil) and mutates nothing.
func (srv *accountService) ConfirmAccount(ctx context.Context, email, key string) (bool, error) {
	srv.log(ctx).Info("Attempting account confirmation", slog.String("email", email))

	var matched bool
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to load user for confirmation")
		}

		if user.ConfirmationKey != key {
			return nil
		}

		// The stored key survives confirmation, so a repeated correct
		// submission confirms again without error.
		if err := userRepo.SetConfirmed(ctx, email); err != nil {
			return errors.Wrap(err, "failed to set confirmation flag")
		}
		matched = true

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Account confirmation failed", slog.String("email", email), slog.Any("error", err))

		return false, err
	}

	if !matched {
		srv.log(ctx).Warn("Account confirmation rejected, key mismatch", slog.String("email", email))
	}

	return matched, nil
}

// UpdateProfile rewrites the record addressed by input.Email. The salt and
// digest are always re-derived, even when the password is unchanged. When the
// updated account is the active session identity, the session is refreshed.
func (srv *accountService) UpdateProfile(ctx context.Context, input *usecase.UpdateInput) (*entity.User, error) {
	srv.log(ctx).Info("Starting profile update", slog.String("email", input.Email))

	if err := srv.validateProfileInput(input.Password, input.ConfirmPassword, input.Email, input.ConfirmEmail); err != nil {
		srv.log(ctx).Warn("Profile update validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	salt, digest, err := srv.deriveCredentials(input.Password)
	if err != nil {
		return nil, err
	}

	updated, err := srv.userRepo.Update(ctx, &entity.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Pseudo:    input.Pseudo,
		Digest:    digest,
		Salt:      salt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Profile update failed, account not found", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to update user profile")
	}

	// Keep the active identity in step with the store.
	if current, ok := srv.session.Current(); ok && current.ID == updated.ID {
		srv.session.Set(updated)
	}

	srv.log(ctx).Debug("Profile update completed", slog.Uint64("userID", updated.ID))

	return updated, nil
}

// DeleteAccount disconnects the user if they are the active identity, then
// removes the record. A missing id propagates as not found.
func (srv *accountService) DeleteAccount(ctx context.Context, id uint64) error {
	srv.log(ctx).Info("Deleting account", slog.Uint64("userID", id))

	// Disconnect before delete so the session can never outlive the record.
	srv.session.ClearIf(id)

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return errors.Wrap(err, "failed to delete account")
	}

	return nil
}

// ListMembers returns every member account in creation order.
func (srv *accountService) ListMembers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.ListByRole(ctx, entity.RoleMember)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list members")
	}

	return users, nil
}

// Logout clears the active identity. Safe to call when nobody is logged in.
func (srv *accountService) Logout() {
	srv.session.Clear()
}
