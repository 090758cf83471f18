package reacton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	store := NewStore()
	a := NewSource(store, "a", 1)
	b := NewSource(store, "b", "x")

	snap := store.Snapshot()

	require.NoError(t, a.Set(store, 2))
	require.NoError(t, b.Set(store, "y"))

	require.NoError(t, store.Restore(snap))

	av, err := a.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 1, av)

	bv, err := b.Get(store)
	require.NoError(t, err)
	assert.Equal(t, "x", bv)
}

func TestSnapshotRestoreFiresOneBatchedNotification(t *testing.T) {
	store := NewStore()
	a := NewSource(store, "a", 1)
	b := NewSource(store, "b", 1)
	var notifications int
	sum := NewComputed(store, "sum", func(s *Store) (int, error) {
		av, err := a.Get(s)
		if err != nil {
			return 0, err
		}
		bv, err := b.Get(s)
		if err != nil {
			return 0, err
		}
		return av + bv, nil
	})
	_, err := sum.Get(store)
	require.NoError(t, err)

	snap := store.Snapshot()
	require.NoError(t, a.Set(store, 5))
	require.NoError(t, b.Set(store, 5))

	Subscribe(store, sum, func(int) { notifications++ })

	require.NoError(t, store.Restore(snap))

	assert.Equal(t, 1, notifications, "restoring two sources should flush exactly once")
}

func TestSnapshotDiff(t *testing.T) {
	store := NewStore()
	a := NewSource(store, "a", 1)
	b := NewSource(store, "b", 2)

	before := store.Snapshot()

	require.NoError(t, a.Set(store, 10))
	c := NewSource(store, "c", 99)
	_ = b

	after := store.Snapshot()

	diff := before.Diff(after)
	assert.Equal(t, 99, diff.Added[c.Ref()])
	assert.Len(t, diff.Removed, 0)
	require.Contains(t, diff.Changed, a.Ref())
	assert.Equal(t, 1, diff.Changed[a.Ref()].Old)
	assert.Equal(t, 10, diff.Changed[a.Ref()].New)
}
