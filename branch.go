package reacton

import "sync"

// Branch is a copy-on-write overlay over a Store (spec's "Branch"): a
// freshly created branch reads every ref straight through to its parent's
// live value. A write lands only in the branch's own Store, marking that
// ref overridden — from then on the branch's own value shadows the
// parent's, even for writes the parent receives after the branch forked.
// Merge copies every overridden Source back onto the parent; Discard
// throws the overlay away untouched.
//
// The overlay is implemented inside the branch's own Store via
// overlayParent: Source entries start with hasValue false (not yet
// overridden) and fall through to the parent on read (see Store.get,
// Store.sourceValue). Derived nodes (Computed/Selector/Lens/Effect) are
// cloned with their original compute closures but forced Dirty, so they
// lazily re-derive against the branch's own overrides the first time
// something reads them — this works with no extra plumbing because every
// handle's Get/Set takes the target Store as an explicit argument (see
// node.go), so the same Computed evaluated against the branch Store reads
// branch-local (possibly overlaid) values throughout.
type Branch struct {
	mu     sync.Mutex
	name   string
	parent *Store
	store  *Store
	closed bool
}

// CreateBranch forks a named, copy-on-write Branch from the Store's
// current state.
func (s *Store) CreateBranch(name string) *Branch {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := &Store{
		graph:              s.graph.clone(),
		sched:              newScheduler(),
		entries:            make(map[*Ref]*entry, len(s.entries)),
		maxReentrantWrites: s.maxReentrantWrites,
		overlayParent:      s,
	}
	for ref, e := range s.entries {
		c := e.clone()
		c.value = nil
		c.hasValue = false
		if c.kind != KindSource {
			clone.graph.setState(ref, Dirty)
		}
		clone.entries[ref] = c
	}

	return &Branch{name: name, parent: s, store: clone}
}

// Name returns the branch's name, as given to CreateBranch.
func (b *Branch) Name() string { return b.name }

// Store returns the Branch's overlay Store. Node handles created against
// the parent Store read and write through it exactly as they would the
// parent, falling through to the parent's live value for any ref the
// branch has not itself overridden.
func (b *Branch) Store() (*Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBranchClosed
	}
	return b.store, nil
}

// overrides returns the branch's currently-overridden Source entries: every
// ref the branch itself has written to since forking.
func (b *Branch) overrides() map[*Ref]*entry {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	out := make(map[*Ref]*entry)
	for ref, e := range b.store.entries {
		if e.kind == KindSource && e.hasValue {
			out[ref] = e
		}
	}
	return out
}

// Merge copies every ref the branch has overridden back onto the parent
// (each as a normal Store.Set, so the parent's own Computed/Selector/Lens/
// Effect graph recomputes normally), then closes the branch. Derived nodes
// are never copied directly — they settle on their own once their sources
// are merged.
func (b *Branch) Merge() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBranchClosed
	}
	parent := b.parent
	b.closed = true
	b.mu.Unlock()

	for ref, e := range b.overrides() {
		if err := parent.set(ref, e.value); err != nil {
			return err
		}
	}
	return nil
}

// Discard closes the branch without copying anything back.
func (b *Branch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// BranchDiff describes one ref the branch has overridden: the value the
// parent currently holds for it and the value the branch has shadowed it
// with.
type BranchDiff struct {
	Ref         *Ref
	ParentValue any
	BranchValue any
}

// Diff enumerates every ref the branch has overridden, pairing the
// parent's current value with the branch's overriding value (spec's
// "diff() enumerates keys in overrides with (parentValue, branchValue)").
func (b *Branch) Diff() ([]BranchDiff, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBranchClosed
	}
	parent := b.parent
	b.mu.Unlock()

	var out []BranchDiff
	for ref, e := range b.overrides() {
		parentValue, _ := parent.sourceValue(ref)
		out = append(out, BranchDiff{Ref: ref, ParentValue: parentValue, BranchValue: e.value})
	}
	return out, nil
}

// clone deep-copies the graph's adjacency, levels and states. Used by
// CreateBranch; states are overridden per-entry afterward (Source entries
// stay Clean and fall through on read; derived entries are forced Dirty).
func (g *dependencyGraph) clone() *dependencyGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := newDependencyGraph()
	for src, observers := range g.downstream {
		set := make(map[*Ref]struct{}, len(observers))
		for o := range observers {
			set[o] = struct{}{}
		}
		out.downstream[src] = set
	}
	for obs, sources := range g.upstream {
		out.upstream[obs] = append([]*Ref(nil), sources...)
	}
	for r, l := range g.levels {
		out.levels[r] = l
	}
	for r, st := range g.states {
		out.states[r] = st
	}
	return out
}

// clone shallow-copies an entry's bookkeeping for use in a new Store. The
// interceptors, middleware and compute closures are shared (they are
// either immutable or take the Store as an explicit parameter); value,
// hasValue and subscribers are NOT carried over as-is by callers that want
// overlay semantics — CreateBranch resets them after cloning.
func (e *entry) clone() *entry {
	out := &entry{
		ref:       e.ref,
		kind:      e.kind,
		value:     e.value,
		hasValue:  e.hasValue,
		equals:    e.equals,
		compute:   e.compute,
		lensWrite: e.lensWrite,
		runEffect: e.runEffect,
		keepAlive: e.keepAlive,
	}
	out.interceptors = append([]Interceptor(nil), e.interceptors...)
	out.middleware = append([]Middleware(nil), e.middleware...)
	return out
}
