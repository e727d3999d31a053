package impl

import (
	"testing"

	"passport/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHolder_EmptyByDefault(t *testing.T) {
	holder := NewSessionHolder()

	current, ok := holder.Current()
	assert.False(t, ok)
	assert.Nil(t, current)
}

func TestSessionHolder_SetReplacesTheSlot(t *testing.T) {
	holder := NewSessionHolder()

	holder.Set(&entity.User{ID: 1, Pseudo: "first"})
	holder.Set(&entity.User{ID: 2, Pseudo: "second"})

	current, ok := holder.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(2), current.ID)
	assert.Equal(t, "second", current.Pseudo)
}

func TestSessionHolder_CurrentReturnsACopy(t *testing.T) {
	holder := NewSessionHolder()
	holder.Set(&entity.User{ID: 1, Pseudo: "ada"})

	current, ok := holder.Current()
	require.True(t, ok)
	current.Pseudo = "mutated"

	again, ok := holder.Current()
	require.True(t, ok)
	assert.Equal(t, "ada", again.Pseudo)
}

func TestSessionHolder_Clear(t *testing.T) {
	holder := NewSessionHolder()
	holder.Set(&entity.User{ID: 1})

	holder.Clear()

	_, ok := holder.Current()
	assert.False(t, ok)

	// Clearing an empty slot is a no-op.
	holder.Clear()
}

func TestSessionHolder_ClearIf(t *testing.T) {
	holder := NewSessionHolder()
	holder.Set(&entity.User{ID: 7})

	// A different id leaves the slot alone.
	holder.ClearIf(8)
	_, ok := holder.Current()
	assert.True(t, ok)

	holder.ClearIf(7)
	_, ok = holder.Current()
	assert.False(t, ok)

	// Safe when nobody is logged in.
	holder.ClearIf(7)
}
