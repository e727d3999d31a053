package usecase

import "passport/internal/domain/entity"

// SessionHolder keeps the single authenticated identity of this process.
// One slot, not persisted: a successful login replaces whoever was there.
type SessionHolder interface {
	// Current returns the active user, or false when nobody is logged in.
	Current() (*entity.User, bool)
	// Set installs the given user as the active identity.
	Set(user *entity.User)
	// Clear empties the slot unconditionally.
	Clear()
	// ClearIf empties the slot only when it holds the user with the given id.
	ClearIf(id uint64)
}
