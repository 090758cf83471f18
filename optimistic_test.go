package reacton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimisticCommitSucceeds(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "item", "pending")

	err := Optimistic(store, src, "optimistic-value", func() (string, error) {
		return "server-value", nil
	})
	require.NoError(t, err)

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "server-value", v)
}

func TestOptimisticRollsBackOnCommitFailure(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "item", "original")
	boom := errors.New("commit failed")

	var seen []string
	Subscribe(store, src, func(v string) { seen = append(seen, v) })

	err := Optimistic(store, src, "optimistic-value", func() (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "original", v)
	assert.Equal(t, []string{"optimistic-value", "original"}, seen)
}

func TestOptimisticInvokesOnRollback(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "item", "original")
	boom := errors.New("commit failed")

	var rollbackErr error
	err := Optimistic(store, src, "optimistic-value", func() (string, error) {
		return "", boom
	}, func(e error) { rollbackErr = e })

	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, rollbackErr, boom)
}
