package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"passport/config"
	"passport/internal/domain/repository"
	"passport/internal/infra/auth"
	"passport/internal/infra/keygen"
	"passport/internal/infra/persistence/memory"
	"passport/internal/usecase"

	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(requireConfirmedLogin bool) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			SaltLength:            30,
			PBKDF2Iterations:      1000, // keep test derivations fast
			RequireConfirmedLogin: requireConfirmedLogin,
		},
	}
}

// recordingMailSender captures outbound mail instead of sending it.
type recordingMailSender struct {
	mu         sync.Mutex
	fail       bool
	subjects   []string
	bodies     []string
	recipients []string
}

func (s *recordingMailSender) Send(_ context.Context, subject, body, toAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("smtp connection refused")
	}

	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, body)
	s.recipients = append(s.recipients, toAddress)

	return nil
}

func (s *recordingMailSender) sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.recipients)
}

// testEnv wires the engine against the in-memory store so scenarios can
// observe both the API surface and the resulting store state.
type testEnv struct {
	service usecase.AccountUsecase
	users   repository.UserRepository
	session usecase.SessionHolder
	mail    *recordingMailSender
}

func newTestEnv(cfg *config.Config) *testEnv {
	users := memory.NewUserRepository()
	mailSender := &recordingMailSender{}
	session := NewSessionHolder()

	service := NewAccountService(AccountServiceParams{
		TxManager:    memory.NewTransactionManager(users),
		UserRepo:     users,
		Hasher:       auth.NewPBKDF2Hasher(cfg),
		KeyGenerator: keygen.NewKeyGenerator(),
		MailSender:   mailSender,
		Session:      session,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})

	return &testEnv{
		service: service,
		users:   users,
		session: session,
		mail:    mailSender,
	}
}

func validRegisterInput(email string) *usecase.RegisterInput {
	return &usecase.RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Pseudo:          "ada",
		Email:           email,
		ConfirmEmail:    email,
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	}
}
