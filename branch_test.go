package reacton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchIsIsolatedFromParentWrites(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "count", 1)

	br := store.CreateBranch("feature")
	branchStore, err := br.Store()
	require.NoError(t, err)

	require.NoError(t, src.Set(branchStore, 99))

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "branch write must not leak back to the parent")
}

func TestBranchSeesParentWritesUntilOverridden(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "count", 1)

	br := store.CreateBranch("feature")
	branchStore, err := br.Store()
	require.NoError(t, err)

	v, err := src.Get(branchStore)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, src.Set(store, 2))
	v, err = src.Get(branchStore)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "a parent write before the branch overrides the ref must be visible")

	require.NoError(t, src.Set(branchStore, 100))
	require.NoError(t, src.Set(store, 3))
	v, err = src.Get(branchStore)
	require.NoError(t, err)
	assert.Equal(t, 100, v, "once the branch overrides a ref, further parent writes are not visible")
}

func TestBranchMergeCopiesOverridesOntoParent(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "count", 1)

	br := store.CreateBranch("feature")
	branchStore, err := br.Store()
	require.NoError(t, err)
	require.NoError(t, src.Set(branchStore, 42))

	require.NoError(t, br.Merge())

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = br.Store()
	require.ErrorIs(t, err, ErrBranchClosed)
}

func TestBranchDiscardDropsOverrides(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "count", 1)

	br := store.CreateBranch("feature")
	branchStore, err := br.Store()
	require.NoError(t, err)
	require.NoError(t, src.Set(branchStore, 42))

	br.Discard()

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestBranchDiffEnumeratesOverrides(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "count", 1)

	br := store.CreateBranch("feature")
	branchStore, err := br.Store()
	require.NoError(t, err)
	require.NoError(t, src.Set(branchStore, 42))

	diff, err := br.Diff()
	require.NoError(t, err)
	require.Len(t, diff, 1)
	assert.Equal(t, src.Ref(), diff[0].Ref)
	assert.Equal(t, 1, diff[0].ParentValue)
	assert.Equal(t, 42, diff[0].BranchValue)

	br.Discard()
	_, err = br.Diff()
	require.ErrorIs(t, err, ErrBranchClosed)
}

func TestBranchDerivedNodeRecomputesAgainstOverride(t *testing.T) {
	store := NewStore()
	base := NewSource(store, "base", 2)
	doubled := NewComputed(store, "doubled", func(s *Store) (int, error) {
		v, err := base.Get(s)
		if err != nil {
			return 0, err
		}
		return v * 2, nil
	})

	br := store.CreateBranch("feature")
	branchStore, err := br.Store()
	require.NoError(t, err)

	require.NoError(t, base.Set(branchStore, 10))

	v, err := doubled.Get(branchStore)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	parentV, err := doubled.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 4, parentV, "parent's own derived node must be unaffected by the branch's override")
}

func TestBranchName(t *testing.T) {
	store := NewStore()
	br := store.CreateBranch("my-branch")
	assert.Equal(t, "my-branch", br.Name())
}
