// Package memory provides an in-process UserRepository for tests and
// single-node local runs. Semantics mirror the postgres implementation:
// emails are unique, ids are assigned ascending, missing records surface
// repository.ErrUserNotFound.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
)

type userRepository struct {
	mu      sync.RWMutex
	byID    map[uint64]*entity.User
	byEmail map[string]uint64
	nextID  uint64
}

// NewUserRepository constructs an empty in-memory store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[uint64]*entity.User),
		byEmail: make(map[string]uint64),
		nextID:  1,
	}
}

func cloneUser(u *entity.User) *entity.User {
	cloned := *u

	return &cloned
}

func (repo *userRepository) FindByID(_ context.Context, id uint64) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(repo.byID[id]), nil
}

func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	now := time.Now()
	stored := cloneUser(user)
	stored.ID = repo.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	repo.nextID++

	repo.byID[stored.ID] = stored
	repo.byEmail[stored.Email] = stored.ID

	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = stored.UpdatedAt

	return nil
}

func (repo *userRepository) Update(_ context.Context, user *entity.User) (*entity.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	id, ok := repo.byEmail[user.Email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	stored := repo.byID[id]
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Pseudo = user.Pseudo
	stored.Digest = user.Digest
	stored.Salt = user.Salt
	stored.UpdatedAt = time.Now()

	return cloneUser(stored), nil
}

func (repo *userRepository) Delete(_ context.Context, id uint64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	delete(repo.byEmail, user.Email)
	delete(repo.byID, id)

	return nil
}

func (repo *userRepository) SetConfirmed(_ context.Context, email string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return repository.ErrUserNotFound
	}

	repo.byID[id].Confirmed = true
	repo.byID[id].UpdatedAt = time.Now()

	return nil
}

func (repo *userRepository) IsConfirmed(_ context.Context, email string) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return false, repository.ErrUserNotFound
	}

	return repo.byID[id].Confirmed, nil
}

func (repo *userRepository) ListByRole(_ context.Context, role entity.Role) ([]*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	users := make([]*entity.User, 0)
	for _, user := range repo.byID {
		if user.Role == role {
			users = append(users, cloneUser(user))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}
