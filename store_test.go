package reacton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceGetSetRoundTrip(t *testing.T) {
	store := NewStore()
	counter := NewSource(store, "counter", 0)

	v, err := counter.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, counter.Set(store, 5))
	v, err = counter.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestComputedRecomputesOnSourceChange(t *testing.T) {
	store := NewStore()
	base := NewSource(store, "base", 2)
	doubled := NewComputed(store, "doubled", func(s *Store) (int, error) {
		v, err := base.Get(s)
		if err != nil {
			return 0, err
		}
		return v * 2, nil
	})

	v, err := doubled.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	require.NoError(t, base.Set(store, 10))
	v, err = doubled.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestComputedGlitchSuppressionSkipsEqualValue(t *testing.T) {
	store := NewStore()
	base := NewSource(store, "base", 1)
	var recomputes int
	derived := NewComputed(store, "derived", func(s *Store) (int, error) {
		recomputes++
		v, err := base.Get(s)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, nil
		}
		return 1, nil
	})

	_, err := derived.Get(store)
	require.NoError(t, err)
	firstCount := recomputes

	require.NoError(t, base.Set(store, 2))
	var updates int
	Subscribe(store, derived, func(int) { updates++ })
	require.NoError(t, base.Set(store, 3))

	assert.Equal(t, 0, updates, "equal recomputed value should not notify subscribers")
	_ = firstCount
}

func TestEffectDoesNotRerunWhenUpstreamComputedSuppressesEquality(t *testing.T) {
	store := NewStore()
	base := NewSource(store, "base", -1)
	abs := NewComputed(store, "abs", func(s *Store) (int, error) {
		v, err := base.Get(s)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	})

	var runs int
	NewEffect(store, "watcher", func(s *Store) error {
		_, err := abs.Get(s)
		runs++
		return err
	})
	initial := runs

	require.NoError(t, base.Set(store, 1), "base changes but abs(−1) == abs(1), so the effect's real dependency never changes")

	assert.Equal(t, initial, runs, "effect two hops downstream of an equality-suppressed Computed must not re-run")
}

func TestSubscribeNotifiesOnChangeAndUnsubscribes(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "src", "a")

	var seen []string
	unsub := Subscribe(store, src, func(v string) { seen = append(seen, v) })

	require.NoError(t, src.Set(store, "b"))
	require.NoError(t, src.Set(store, "c"))
	unsub()
	require.NoError(t, src.Set(store, "d"))

	assert.Equal(t, []string{"b", "c"}, seen)
}

func TestEffectRunsAfterDependencyChanges(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "src", 1)

	var observed []int
	NewEffect(store, "logger", func(s *Store) error {
		v, err := src.Get(s)
		if err != nil {
			return err
		}
		observed = append(observed, v)
		return nil
	})

	require.NoError(t, src.Set(store, 2))
	require.NoError(t, src.Set(store, 3))

	assert.Equal(t, []int{1, 2, 3}, observed)
}

func TestLensReadsAndWritesThroughFocus(t *testing.T) {
	type pair struct{ A, B int }
	store := NewStore()
	src := NewSource(store, "pair", pair{A: 1, B: 2})
	lensA := NewLens(store, "pair.a",
		src,
		func(p pair) int { return p.A },
		func(p pair, a int) pair { p.A = a; return p },
	)

	v, err := lensA.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, lensA.Set(store, 9))
	whole, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, pair{A: 9, B: 2}, whole)
}

func TestInterceptorCanVetoWrite(t *testing.T) {
	store := NewStore()
	boom := errors.New("negative not allowed")
	src := NewSource(store, "nonneg", 0, WithInterceptor(func(ref *Ref, newValue any) (any, error) {
		if n, ok := newValue.(int); ok && n < 0 {
			return nil, boom
		}
		return newValue, nil
	}))

	err := src.Set(store, -1)
	require.ErrorIs(t, err, boom)

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestBatchCoalescesIntoSingleFlush(t *testing.T) {
	store := NewStore()
	a := NewSource(store, "a", 1)
	b := NewSource(store, "b", 1)
	var sumRecomputes int
	sum := NewComputed(store, "sum", func(s *Store) (int, error) {
		sumRecomputes++
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
	before := sumRecomputes

	var got int
	Subscribe(store, sum, func(v int) { got = v })

	require.NoError(t, store.Batch(func() {
		_ = a.Set(store, 10)
		_ = b.Set(store, 20)
	}))

	v, err := sum.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 30, v)
	assert.Equal(t, 30, got)
	assert.Equal(t, before+1, sumRecomputes, "batched writes should trigger exactly one recompute")
}

func TestDisposeRejectsFurtherOperations(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "src", 1)
	store.Dispose()

	_, err := src.Get(store)
	require.ErrorIs(t, err, ErrDisposed)

	err = src.Set(store, 2)
	require.ErrorIs(t, err, ErrDisposed)
}

func TestValueOfAndRefByNameEscapeHatches(t *testing.T) {
	store := NewStore()
	src := NewSource(store, "named", "hello")

	ref, ok := store.RefByName("named")
	require.True(t, ok)
	assert.Equal(t, src.Ref(), ref)

	v, ok := store.ValueOf(ref)
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	_, ok = store.RefByName("does-not-exist")
	assert.False(t, ok)
}

func TestFeedbackLoopLimitReturnsError(t *testing.T) {
	store := NewStore(WithFeedbackLoopLimit(2))
	src := NewSource(store, "ping", 0)
	NewEffect(store, "pinger", func(s *Store) error {
		v, err := src.Get(s)
		if err != nil {
			return err
		}
		if v < 100 {
			return src.Set(s, v+1)
		}
		return nil
	})

	err := src.Set(store, 0)
	require.ErrorIs(t, err, ErrFeedbackLoop)
}
