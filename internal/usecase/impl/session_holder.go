package impl

import (
	"sync"

	"passport/internal/domain/entity"
	"passport/internal/usecase"
)

// sessionHolder is the RWMutex-guarded single-slot implementation of
// usecase.SessionHolder. Stored users are copied on the way in and out so
// callers can never mutate the slot through a shared pointer.
type sessionHolder struct {
	mu   sync.RWMutex
	user *entity.User
}

// NewSessionHolder constructs an empty holder.
func NewSessionHolder() usecase.SessionHolder {
	return &sessionHolder{}
}

func (h *sessionHolder) Current() (*entity.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.user == nil {
		return nil, false
	}
	current := *h.user

	return &current, true
}

func (h *sessionHolder) Set(user *entity.User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if user == nil {
		h.user = nil

		return
	}
	stored := *user
	h.user = &stored
}

func (h *sessionHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.user = nil
}

func (h *sessionHolder) ClearIf(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.user != nil && h.user.ID == id {
		h.user = nil
	}
}
