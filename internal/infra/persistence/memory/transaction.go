package memory

import (
	"context"

	"passport/internal/domain/repository"
)

// transactionManager runs the callback against the shared store without
// isolation. The in-memory store serializes individual operations with its
// own lock, which is enough for tests and local runs.
type transactionManager struct {
	users repository.UserRepository
}

type repositoryFactory struct {
	users repository.UserRepository
}

func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return f.users
}

// NewTransactionManager wraps the given store in a pass-through TransactionManager.
func NewTransactionManager(users repository.UserRepository) repository.TransactionManager {
	return &transactionManager{users: users}
}

func (tm *transactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(&repositoryFactory{users: tm.users})
}
