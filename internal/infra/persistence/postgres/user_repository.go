// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, id).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity. The unique index on email is the
// arbiter for concurrent registrations: exactly one insert wins.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	userM.ID = 0 // the store assigns the id

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Propagate the generated id and timestamps back to the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update rewrites the record addressed by user.Email and returns the
// post-update state read back from the store. The role is deliberately not
// part of the rewrite: a profile update never changes what a user is.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	res := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", user.Email).
		Updates(map[string]any{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"pseudo":     user.Pseudo,
			"digest":     user.Digest,
			"salt":       user.Salt,
		})
	if res.Error != nil {
		if isUniqueConstraintViolation(res.Error) {
			return nil, repository.ErrDuplicateEmail
		}

		return nil, domainerrors.NewDatabaseExecuteError(res.Error, "failed to update user")
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return repo.FindByEmail(ctx, user.Email)
}

// Delete removes the record with the given id. A missing id is reported as
// ErrUserNotFound rather than silently succeeding.
func (repo *userRepository) Delete(ctx context.Context, id uint64) error {
	res := repo.db.WithContext(ctx).Delete(&model.UserModel{}, id)
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// SetConfirmed flips the confirmation flag. The single UPDATE is atomic with
// respect to concurrent confirmation attempts; re-setting a true flag is a
// harmless repeat.
func (repo *userRepository) SetConfirmed(ctx context.Context, email string) error {
	res := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", email).
		Update("confirmed", true)
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to set confirmation flag")
	}
	if res.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// IsConfirmed reports the confirmation flag for the given email.
func (repo *userRepository) IsConfirmed(ctx context.Context, email string) (bool, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Select("confirmed").
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, repository.ErrUserNotFound
		}

		return false, errors.Wrap(err, "failed to read confirmation flag")
	}

	return userM.Confirmed, nil
}

// ListByRole returns every user with the given role in creation order.
func (repo *userRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	var models []model.UserModel
	err := repo.db.WithContext(ctx).
		Where("role = ?", int(role)).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users by role")
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, toUserDomain(&models[i]))
	}

	return users, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:              data.ID,
		Email:           data.Email,
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		Pseudo:          data.Pseudo,
		Digest:          data.Digest,
		Salt:            data.Salt,
		Role:            entity.Role(data.Role),
		Confirmed:       data.Confirmed,
		ConfirmationKey: data.ConfirmationKey,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:              data.ID,
		Email:           data.Email,
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		Pseudo:          data.Pseudo,
		Digest:          data.Digest,
		Salt:            data.Salt,
		Role:            int(data.Role),
		Confirmed:       data.Confirmed,
		ConfirmationKey: data.ConfirmationKey,
	}
}
