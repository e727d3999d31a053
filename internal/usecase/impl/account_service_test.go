package impl

import (
	"context"
	"testing"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Register(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, output.ConfirmationKey)
	assert.Equal(t, entity.RoleMember, output.User.Role)
	assert.False(t, output.User.Confirmed)
	assert.NotEmpty(t, output.User.Salt)
	assert.NotEmpty(t, output.User.Digest)
	assert.NotEqual(t, "Passw0rd!", output.User.Digest)

	// The stored record matches what the engine handed back.
	stored, err := env.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, stored.ID)
	assert.Equal(t, output.ConfirmationKey, stored.ConfirmationKey)
}

func TestAccountService_RegisterValidationOrder(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	// Every precondition violated at once: the password check reports first.
	input := &usecase.RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Pseudo:          "ada",
		Email:           "not-an-email",
		ConfirmEmail:    "different",
		Password:        "Passw0rd!",
		ConfirmPassword: "other",
	}
	_, err := env.service.Register(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))

	// With matching passwords the email double-entry check reports next.
	input.ConfirmPassword = input.Password
	_, err = env.service.Register(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailMismatch))

	// With matching entries the syntax check reports last.
	input.ConfirmEmail = input.Email
	_, err = env.service.Register(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailInvalid))

	// Nothing was persisted along the way.
	members, err := env.users.ListByRole(context.Background(), entity.RoleMember)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	_, err = env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestAccountService_RegisterDistinctSalts(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	first, err := env.service.Register(context.Background(), validRegisterInput("first@example.com"))
	require.NoError(t, err)
	second, err := env.service.Register(context.Background(), validRegisterInput("second@example.com"))
	require.NoError(t, err)

	// Same password, different accounts: salts and digests must differ.
	assert.NotEqual(t, first.User.Salt, second.User.Salt)
	assert.NotEqual(t, first.User.Digest, second.User.Digest)
	assert.NotEqual(t, first.ConfirmationKey, second.ConfirmationKey)
}

func TestAccountService_SendConfirmation(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	require.NoError(t, env.service.SendConfirmation(context.Background(), output.User, output.ConfirmationKey))

	require.Equal(t, 1, env.mail.sent())
	assert.Equal(t, "ada@example.com", env.mail.recipients[0])
	assert.Contains(t, env.mail.bodies[0], output.ConfirmationKey)
}

func TestAccountService_SendConfirmationFailureLeavesAccount(t *testing.T) {
	env := newTestEnv(newTestConfig(false))
	env.mail.fail = true

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	err = env.service.SendConfirmation(context.Background(), output.User, output.ConfirmationKey)
	assert.True(t, errors.Is(err, domainerrors.ErrMailSendFailed))

	// The account still stands.
	_, err = env.users.FindByEmail(context.Background(), "ada@example.com")
	assert.NoError(t, err)
}

func TestAccountService_LoginSuccess(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	user, err := env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	current, ok := env.session.Current()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
}

func TestAccountService_LoginUnconfirmedByDefault(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	// Confirmation is not a login precondition under the default policy.
	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	assert.NoError(t, err)
}

func TestAccountService_LoginConfirmationGate(t *testing.T) {
	env := newTestEnv(newTestConfig(true))

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotConfirmed))

	_, ok := env.session.Current()
	assert.False(t, ok)

	matched, err := env.service.ConfirmAccount(context.Background(), "ada@example.com", output.ConfirmationKey)
	require.NoError(t, err)
	require.True(t, matched)

	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	assert.NoError(t, err)
}

func TestAccountService_LoginFailuresLeaveSessionEmpty(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "missing@example.com",
		Password: "Passw0rd!",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))

	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, ok := env.session.Current()
	assert.False(t, ok)
}

func TestAccountService_ConfirmAccount(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)

	// A wrong key is rejected without error and mutates nothing.
	matched, err := env.service.ConfirmAccount(context.Background(), "ada@example.com", "wrong-key")
	require.NoError(t, err)
	assert.False(t, matched)

	confirmed, err := env.service.IsConfirmed(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.False(t, confirmed)

	matched, err = env.service.ConfirmAccount(context.Background(), "ada@example.com", output.ConfirmationKey)
	require.NoError(t, err)
	assert.True(t, matched)

	confirmed, err = env.service.IsConfirmed(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, confirmed)

	// The key survives confirmation, so submitting it again still matches.
	matched, err = env.service.ConfirmAccount(context.Background(), "ada@example.com", output.ConfirmationKey)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestAccountService_ConfirmAccountUnknownEmail(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.ConfirmAccount(context.Background(), "missing@example.com", "any")
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAccountService_UpdateProfileRotatesCredentials(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)
	oldSalt, oldDigest := output.User.Salt, output.User.Digest

	updated, err := env.service.UpdateProfile(context.Background(), &usecase.UpdateInput{
		FirstName:       "Augusta",
		LastName:        "King",
		Pseudo:          "countess",
		Email:           "ada@example.com",
		ConfirmEmail:    "ada@example.com",
		Password:        "Passw0rd!", // unchanged password still rotates the salt
		ConfirmPassword: "Passw0rd!",
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta", updated.FirstName)
	assert.NotEqual(t, oldSalt, updated.Salt)
	assert.NotEqual(t, oldDigest, updated.Digest)
	assert.Equal(t, entity.RoleMember, updated.Role)

	// The rotated credentials still admit the same password.
	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	assert.NoError(t, err)
}

func TestAccountService_UpdateProfileRefreshesActiveSession(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)
	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	input := validRegisterInput("ada@example.com")
	_, err = env.service.UpdateProfile(context.Background(), &usecase.UpdateInput{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Pseudo:          "renamed",
		Email:           input.Email,
		ConfirmEmail:    input.ConfirmEmail,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	require.NoError(t, err)

	current, ok := env.session.Current()
	require.True(t, ok)
	assert.Equal(t, "renamed", current.Pseudo)
}

func TestAccountService_UpdateProfileUnknownEmail(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	input := validRegisterInput("missing@example.com")
	_, err := env.service.UpdateProfile(context.Background(), &usecase.UpdateInput{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Pseudo:          input.Pseudo,
		Email:           input.Email,
		ConfirmEmail:    input.ConfirmEmail,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAccountService_DeleteAccount(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	output, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)
	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteAccount(context.Background(), output.User.ID))

	// Deleting the active identity disconnects it.
	_, ok := env.session.Current()
	assert.False(t, ok)

	_, err = env.users.FindByID(context.Background(), output.User.ID)
	assert.Error(t, err)

	err = env.service.DeleteAccount(context.Background(), output.User.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAccountService_DeleteAccountKeepsOtherSession(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	victim, err := env.service.Register(context.Background(), validRegisterInput("victim@example.com"))
	require.NoError(t, err)
	_, err = env.service.Register(context.Background(), validRegisterInput("active@example.com"))
	require.NoError(t, err)
	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "active@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteAccount(context.Background(), victim.User.ID))

	current, ok := env.session.Current()
	require.True(t, ok)
	assert.Equal(t, "active@example.com", current.Email)
}

func TestAccountService_ListMembers(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("first@example.com"))
	require.NoError(t, err)
	_, err = env.service.Register(context.Background(), validRegisterInput("second@example.com"))
	require.NoError(t, err)

	// An administrator seeded directly in the store stays out of the listing.
	require.NoError(t, env.users.Create(context.Background(), &entity.User{
		Email: "admin@example.com",
		Role:  entity.RoleAdministrator,
	}))

	members, err := env.service.ListMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "first@example.com", members[0].Email)
	assert.Equal(t, "second@example.com", members[1].Email)
}

func TestAccountService_Logout(t *testing.T) {
	env := newTestEnv(newTestConfig(false))

	_, err := env.service.Register(context.Background(), validRegisterInput("ada@example.com"))
	require.NoError(t, err)
	_, err = env.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	env.service.Logout()

	_, ok := env.session.Current()
	assert.False(t, ok)

	// Logging out twice is harmless.
	env.service.Logout()
}
