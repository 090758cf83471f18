package reacton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyGetCachesByKey(t *testing.T) {
	store := NewStore()
	var builds int
	fam := NewFamily[string, int](store, "square", func(key string) func(*Store) (int, error) {
		return func(s *Store) (int, error) {
			builds++
			return len(key), nil
		}
	})

	a1 := fam.Get("hello")
	a2 := fam.Get("hello")
	assert.Same(t, a1, a2)

	v, err := a1.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestFamilyCachedArgsAndClear(t *testing.T) {
	store := NewStore()
	fam := NewFamily[string, int](store, "n", func(key string) func(*Store) (int, error) {
		return func(s *Store) (int, error) { return len(key), nil }
	})

	fam.Get("a")
	fam.Get("bb")
	assert.ElementsMatch(t, []string{"a", "bb"}, fam.CachedArgs())

	fam.Clear()
	assert.Empty(t, fam.CachedArgs())
}

func TestFamilyEvictRemovesOnlyOneKey(t *testing.T) {
	store := NewStore()
	fam := NewFamily[string, int](store, "n", func(key string) func(*Store) (int, error) {
		return func(s *Store) (int, error) { return len(key), nil }
	})

	fam.Get("a")
	fam.Get("bb")
	fam.Evict("a")

	assert.ElementsMatch(t, []string{"bb"}, fam.CachedArgs())
}
