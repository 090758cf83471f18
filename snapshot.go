package reacton

// Snapshot is an immutable capture of every node's value at one instant
// (spec's "Snapshot"). Unlike Branch it does not stay live — it is a
// point-in-time copy, useful for diagnostics, the recorder, or a manual
// rollback point distinct from the per-reacton History ring buffer.
type Snapshot struct {
	values map[*Ref]any
	kinds  map[*Ref]Kind
}

// Snapshot captures the Store's current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[*Ref]any, len(s.entries))
	kinds := make(map[*Ref]Kind, len(s.entries))
	for ref, e := range s.entries {
		values[ref] = e.value
		kinds[ref] = e.kind
	}
	return &Snapshot{values: values, kinds: kinds}
}

// Value returns the captured value for ref, if it was registered when the
// Snapshot was taken.
func (snap *Snapshot) Value(ref *Ref) (any, bool) {
	v, ok := snap.values[ref]
	return v, ok
}

// Restore writes every captured Source value back onto the Store inside a
// single Batch, so subscribers observe one notification wave rather than
// one per restored ref. Derived nodes (Computed/Selector/Lens/Effect) are
// never written directly — they resettle on their own once their sources
// are restored.
func (s *Store) Restore(snap *Snapshot) error {
	var firstErr error
	err := s.Batch(func() {
		for ref, v := range snap.values {
			if snap.kinds[ref] != KindSource {
				continue
			}
			if setErr := s.set(ref, v); setErr != nil && firstErr == nil {
				firstErr = setErr
			}
		}
	})
	if err != nil {
		return err
	}
	return firstErr
}

// SnapshotChange describes one ref whose value differs between two
// Snapshots.
type SnapshotChange struct {
	Old any
	New any
}

// SnapshotDiff is the result of comparing two Snapshots (spec's "diff(a, b)
// produces {added, removed, changed: (old, new)}"): refs present only in b,
// refs present only in a, and refs present in both with differing values.
type SnapshotDiff struct {
	Added   map[*Ref]any
	Removed map[*Ref]any
	Changed map[*Ref]SnapshotChange
}

// Diff compares the receiver (a) against b, producing the set of refs
// added, removed, and changed going from a to b.
func (a *Snapshot) Diff(b *Snapshot) SnapshotDiff {
	out := SnapshotDiff{
		Added:   make(map[*Ref]any),
		Removed: make(map[*Ref]any),
		Changed: make(map[*Ref]SnapshotChange),
	}
	for ref, bv := range b.values {
		av, ok := a.values[ref]
		if !ok {
			out.Added[ref] = bv
			continue
		}
		if !deepEqual(av, bv) {
			out.Changed[ref] = SnapshotChange{Old: av, New: bv}
		}
	}
	for ref, av := range a.values {
		if _, ok := b.values[ref]; !ok {
			out.Removed[ref] = av
		}
	}
	return out
}
