package reacton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryUndoRedo(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "text", "a")
	hist := EnableHistory(store, src, 0)
	defer hist.Dispose()

	require.NoError(t, src.Set(store, "b"))
	require.NoError(t, src.Set(store, "c"))

	assert.True(t, hist.CanUndo())
	require.NoError(t, hist.Undo())
	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	assert.True(t, hist.CanRedo())
	require.NoError(t, hist.Redo())
	v, err = src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "c", v)
}

func TestHistoryWriteAfterUndoTruncatesRedo(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "text", "a")
	hist := EnableHistory(store, src, 0)
	defer hist.Dispose()

	require.NoError(t, src.Set(store, "b"))
	require.NoError(t, src.Set(store, "c"))
	require.NoError(t, hist.Undo())
	require.NoError(t, src.Set(store, "d"))

	assert.False(t, hist.CanRedo())
}

func TestHistoryJumpToIsAbsolute(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "text", "a")
	hist := EnableHistory(store, src, 0)
	defer hist.Dispose()

	require.NoError(t, src.Set(store, "b"))
	require.NoError(t, src.Set(store, "c"))
	require.NoError(t, src.Set(store, "d"))

	require.NoError(t, hist.JumpTo(1))
	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	require.NoError(t, hist.JumpTo(3))
	v, err = src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "d", v)

	err = hist.JumpTo(99)
	require.Error(t, err)
}
