package reacton

import (
	"fmt"
	"sync"
)

// handle is satisfied by every typed node wrapper (Source[T], Computed[T],
// Selector[T], Lens[T], Effect); it exists so free generic functions like
// Subscribe can accept any of them without type-switching.
type handle interface{ Ref() *Ref }

// trackFrame records the Refs read during one node's recompute, so the
// dependency graph can be rebuilt from scratch on every run (spec §3:
// "stale edges from a previous run are removed on each recomputation").
type trackFrame struct {
	observer *Ref
	reads    []*Ref
	seen     map[*Ref]bool
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithExtension installs a cross-cutting Extension (logging, tracing,
// metrics, recording) that wraps every Store operation.
func WithExtension(ext Extension) StoreOption {
	return func(s *Store) {
		s.extensions = append(s.extensions, ext)
		_ = ext.Init(s)
	}
}

// WithFeedbackLoopLimit overrides the default bound (32) on re-entrant
// writes performed by Effects during a single flush.
func WithFeedbackLoopLimit(n int) StoreOption {
	return func(s *Store) { s.maxReentrantWrites = n }
}

// Store holds the current value of every registered node and drives
// propagation: Set/Update commit a Source, mark affected descendants via
// the dependency graph, and drain them through the scheduler in level
// order so every read a subscriber or downstream node observes is
// settled (spec §4.2, §4.3).
type Store struct {
	mu      sync.Mutex
	graph   *dependencyGraph
	sched   *scheduler
	entries map[*Ref]*entry

	tracking []*trackFrame

	batchDepth         int
	inFlush            bool
	reentrantWrites    int
	maxReentrantWrites int

	extensions []Extension
	modules    map[ModuleID]Module

	subSeq   uint64
	disposed bool

	// overlayParent is set on a Branch's Store (see branch.go): a Source
	// entry with hasValue false falls through to overlayParent for its
	// current value instead of reporting ErrNotFound.
	overlayParent *Store
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		graph:              newDependencyGraph(),
		sched:              newScheduler(),
		entries:            make(map[*Ref]*entry),
		maxReentrantWrites: 32,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) register(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ref] = e
	s.graph.register(e.ref)
	if e.compute != nil {
		// A derived node has no value until it first computes; starting it
		// Dirty makes the first Get run compute.
		s.graph.setState(e.ref, Dirty)
	}
}

// trackRead records ref as read by whichever node is currently recomputing,
// if any. Must be called with s.mu held.
func (s *Store) trackRead(ref *Ref) {
	if len(s.tracking) == 0 {
		return
	}
	top := s.tracking[len(s.tracking)-1]
	if top.seen[ref] {
		return
	}
	top.seen[ref] = true
	top.reads = append(top.reads, ref)
}

// get resolves ref's current value, recomputing it first if its state is
// not Clean (spec's pull-on-read contract). A recompute triggered this way
// recurses into Get on ref's own sources, which is what gives the whole
// resolution its correct dependency order without any external scheduling.
func (s *Store) get(ref *Ref) (any, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, ErrDisposed
	}
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.trackRead(ref)
	if e.kind == KindSource {
		if e.hasValue {
			v := e.value
			s.mu.Unlock()
			return v, nil
		}
		parent := s.overlayParent
		s.mu.Unlock()
		if parent == nil {
			return nil, nil
		}
		v, _ := parent.sourceValue(ref)
		return v, nil
	}
	dirty := e.compute != nil && s.graph.state(ref) != Clean
	s.mu.Unlock()

	if dirty {
		if err := s.recompute(ref); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok = s.entries[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return e.value, nil
}

// recompute re-runs a Computed/Selector/Lens/Effect's function inside a
// fresh dependency-tracking frame, rebuilds its source edges from what was
// actually read, and — if the result differs from the prior value —
// commits it, notifies subscribers, and marks its own observers for
// recomputation.
func (s *Store) recompute(ref *Ref) error {
	s.mu.Lock()
	_, ok := s.entries[ref]
	state := s.graph.state(ref)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if state == Clean {
		return nil
	}

	// A Check node sits downstream of a changed source only transitively:
	// resolve its recorded sources first (forcing their own recompute if
	// still dirty) and only fall through to an actual recompute if one of
	// them genuinely changed value and promoted us to Dirty. Otherwise we
	// settle straight to Clean without re-running compute/runEffect, which
	// is what keeps an Effect from firing when its real dependency, reached
	// through an equality-suppressed Computed, never actually changed.
	if state == Check {
		for _, src := range s.graph.sources(ref) {
			if _, err := s.get(src); err != nil {
				return err
			}
		}
		state = s.graph.state(ref)
		if state != Dirty {
			s.graph.setState(ref, Clean)
			return nil
		}
	}

	s.mu.Lock()
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if s.graph.state(ref) == Clean {
		s.mu.Unlock()
		return nil
	}
	// Settle to Clean before running, so a write made during the run (an
	// Effect writing one of its own sources) leaves the node Dirty and queued.
	s.graph.setState(ref, Clean)
	frame := &trackFrame{observer: ref, seen: make(map[*Ref]bool)}
	s.tracking = append(s.tracking, frame)
	compute := e.compute
	runEffect := e.runEffect
	equals := e.equals
	oldValue := e.value
	hadValue := e.hasValue
	s.mu.Unlock()

	op := &Operation{Kind: OpRecompute, Ref: ref, Store: s}
	var newValue any
	var err error
	switch {
	case runEffect != nil:
		_, err = s.withExtensions(op, func() (any, error) { return nil, runEffect(s) })
	case compute != nil:
		newValue, err = s.withExtensions(op, func() (any, error) { return compute(s) })
	}

	s.mu.Lock()
	s.tracking = s.tracking[:len(s.tracking)-1]
	s.mu.Unlock()

	if resetErr := s.graph.resetSources(ref, frame.reads); resetErr != nil && err == nil {
		err = resetErr
	}

	if err != nil {
		wrapped := newResolveError(ref, err, "recompute")
		s.notifyExtensionError(ref, wrapped)
		return wrapped
	}

	if runEffect != nil {
		return nil
	}

	changed := !hadValue || !equals(oldValue, newValue)
	s.mu.Lock()
	e.value = newValue
	e.hasValue = true
	s.mu.Unlock()

	if changed {
		affected := s.graph.mark(ref)
		s.mu.Lock()
		s.sched.enqueue(affected, s.graph.level)
		s.mu.Unlock()
		s.notify(ref, newValue)
	}
	return nil
}

// set commits a new value onto a Source, running its interceptor/middleware
// pipeline first, then marks and flushes descendants.
func (s *Store) set(ref *Ref, newVal any) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if e.kind != KindSource {
		s.mu.Unlock()
		return fmt.Errorf("reacton: %s is not a Source, cannot Set directly", ref)
	}
	oldVal := e.value
	wasInFlush := s.inFlush
	s.mu.Unlock()

	op := &Operation{Kind: OpSet, Ref: ref, Store: s}
	var committed bool
	_, err := s.withExtensions(op, func() (any, error) {
		c, werr := s.applyWrite(e, oldVal, newVal)
		committed = c
		return nil, werr
	})
	if err != nil {
		return err
	}
	if !committed {
		return nil
	}

	if wasInFlush {
		s.mu.Lock()
		s.reentrantWrites++
		exceeded := s.reentrantWrites > s.maxReentrantWrites
		s.mu.Unlock()
		if exceeded {
			return ErrFeedbackLoop
		}
	}

	s.mu.Lock()
	affected := s.graph.mark(ref)
	s.sched.enqueue(affected, s.graph.level)
	batching := s.batchDepth > 0
	s.mu.Unlock()

	s.notify(ref, newVal)

	if batching {
		return nil
	}
	return s.runFlush()
}

// applyWrite runs onBeforeWrite middleware (first-wins, may transform or
// veto), then interceptors (each may rewrite or veto), checks equality, and
// — if the value is genuinely new — commits it and runs onAfterWrite
// middleware in reverse registration order (last-wins) (spec §9).
func (s *Store) applyWrite(e *entry, old, newVal any) (bool, error) {
	for _, mw := range e.middleware {
		if mw.OnBeforeWrite == nil {
			continue
		}
		v, err := mw.OnBeforeWrite(e.ref, old, newVal)
		if err != nil {
			return false, err
		}
		newVal = v
	}
	for _, icpt := range e.interceptors {
		v, err := icpt(e.ref, newVal)
		if err != nil {
			return false, err
		}
		newVal = v
	}

	s.mu.Lock()
	if e.hasValue && e.equals(old, newVal) {
		s.mu.Unlock()
		return false, nil
	}
	e.value = newVal
	e.hasValue = true
	s.mu.Unlock()

	for i := len(e.middleware) - 1; i >= 0; i-- {
		if mw := e.middleware[i]; mw.OnAfterWrite != nil {
			mw.OnAfterWrite(e.ref, old, newVal)
		}
	}
	return true, nil
}

func (s *Store) update(ref *Ref, fn func(any) any) error {
	s.mu.Lock()
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	cur := e.value
	s.mu.Unlock()
	return s.set(ref, fn(cur))
}

func (s *Store) setLens(ref *Ref, focus any) error {
	s.mu.Lock()
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if e.kind != KindLens || e.lensWrite == nil {
		s.mu.Unlock()
		return fmt.Errorf("reacton: %s is not a writable Lens", ref)
	}
	write := e.lensWrite
	s.mu.Unlock()
	return write(s, focus)
}

// runEffectNow forces an Effect to run once at registration time, so its
// dependency set is discovered immediately rather than on first flush.
func (s *Store) runEffectNow(ref *Ref) {
	s.graph.setState(ref, Dirty)
	_ = s.recompute(ref)
}

// runFlush drains the scheduler, unless a flush is already running further
// up the call stack (an Effect writing to a Source mid-flush), in which
// case the enqueue it already performed will be picked up by that
// in-progress drain loop.
func (s *Store) runFlush() error {
	s.mu.Lock()
	if s.inFlush {
		s.mu.Unlock()
		return nil
	}
	s.inFlush = true
	s.reentrantWrites = 0
	exts := append([]Extension(nil), s.extensions...)
	s.mu.Unlock()

	for _, ext := range exts {
		ext.OnFlushStart(s)
	}

	err := s.flush()

	for _, ext := range exts {
		ext.OnFlushEnd(s, err)
	}

	s.mu.Lock()
	s.inFlush = false
	s.mu.Unlock()
	return err
}

// withExtensions brackets fn with every installed Extension's Wrap hook, in
// registration order (first-registered is outermost), matching the
// teacher's reverse-iteration next() wrapping in scope.go.
func (s *Store) withExtensions(op *Operation, fn func() (any, error)) (any, error) {
	s.mu.Lock()
	exts := append([]Extension(nil), s.extensions...)
	s.mu.Unlock()
	if len(exts) == 0 {
		return fn()
	}
	next := fn
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		inner := next
		next = func() (any, error) { return ext.Wrap(op, inner) }
	}
	return next()
}

// UseExtension installs ext at runtime, calling its Init hook.
func (s *Store) UseExtension(ext Extension) error {
	s.mu.Lock()
	s.extensions = append(s.extensions, ext)
	s.mu.Unlock()
	return ext.Init(s)
}

// flush drains the scheduler one item at a time in level order. Because
// levels strictly increase along every edge, items pushed by the very node
// being processed are always safe to process later in this same loop — no
// separate pass bookkeeping is needed for ordinary cascades. Re-entrant
// writes from Effects are bounded separately in set() (ErrFeedbackLoop).
func (s *Store) flush() error {
	for {
		s.mu.Lock()
		if !s.sched.pending() {
			s.mu.Unlock()
			return nil
		}
		ref := s.sched.popMin()
		s.mu.Unlock()

		if err := s.recompute(ref); err != nil {
			return err
		}
	}
}

func (s *Store) notify(ref *Ref, value any) {
	s.mu.Lock()
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return
	}
	subs := append([]subscriberEntry(nil), e.subscribers...)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.listener(value)
	}
}

func (s *Store) subscribe(ref *Ref, listener func(any)) func() {
	s.mu.Lock()
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return func() {}
	}
	s.subSeq++
	id := s.subSeq
	e.subscribers = append(e.subscribers, subscriberEntry{id: id, listener: listener})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e, ok := s.entries[ref]
		if !ok {
			return
		}
		for i, sub := range e.subscribers {
			if sub.id == id {
				e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Subscribe registers fn to run every time node's value changes. The
// returned func unsubscribes.
func Subscribe[T any](store *Store, node handle, fn func(T)) func() {
	return store.subscribe(node.Ref(), func(v any) {
		if v == nil {
			var zero T
			fn(zero)
			return
		}
		fn(v.(T))
	})
}

// Batch coalesces every Set/Update performed inside fn into a single flush.
// Nested Batch calls collapse into the outermost one.
func (s *Store) Batch(fn func()) error {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	fn()

	s.mu.Lock()
	s.batchDepth--
	shouldFlush := s.batchDepth == 0
	s.mu.Unlock()

	if shouldFlush {
		return s.runFlush()
	}
	return nil
}

// Dispose permanently closes the Store: every subsequent Get/Set/Update
// returns ErrDisposed and all subscribers are dropped.
func (s *Store) Dispose() {
	s.mu.Lock()
	s.disposed = true
	for _, e := range s.entries {
		e.subscribers = nil
		e.disposed = true
	}
	exts := append([]Extension(nil), s.extensions...)
	s.mu.Unlock()

	for _, ext := range exts {
		_ = ext.Dispose(s)
	}
}

// ExportDependencyGraph returns each registered node's direct observers,
// for diagnostics (grounded in the teacher's Scope.ExportDependencyGraph;
// the graph-debug extension renders this as a tree).
func (s *Store) ExportDependencyGraph() map[*Ref][]*Ref {
	s.mu.Lock()
	refs := make([]*Ref, 0, len(s.entries))
	for ref := range s.entries {
		refs = append(refs, ref)
	}
	s.mu.Unlock()

	out := make(map[*Ref][]*Ref, len(refs))
	for _, ref := range refs {
		out[ref] = s.graph.directObservers(ref)
	}
	return out
}

// ValueOf returns ref's current value without tracking a dependency or
// triggering a recompute, for tooling that needs to observe values
// type-erased (recorder, reactond's HTTP API).
func (s *Store) ValueOf(ref *Ref) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[ref]
	if !ok {
		return nil, false
	}
	return e.value, e.hasValue
}

// sourceValue resolves ref's Source value without tracking a dependency,
// falling through an overlay chain of branches until it finds a Store that
// actually holds a value for ref. Used by Branch reads and diffing (see
// branch.go) to implement copy-on-write fallthrough.
func (s *Store) sourceValue(ref *Ref) (any, bool) {
	s.mu.Lock()
	e, ok := s.entries[ref]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	if e.hasValue {
		v := e.value
		s.mu.Unlock()
		return v, true
	}
	parent := s.overlayParent
	s.mu.Unlock()
	if parent == nil {
		return nil, false
	}
	return parent.sourceValue(ref)
}

// RefByName returns the registered Ref with the given debug name, if any.
// Names are not guaranteed unique; this returns the first match found,
// which is sufficient for recorder/player replay where sessions are
// recorded against a single store's naming.
func (s *Store) RefByName(name string) (*Ref, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ref := range s.entries {
		if ref.Name() == name {
			return ref, true
		}
	}
	return nil, false
}

// SubscribeRef subscribes to ref's value type-erased, for satellite
// packages (reactond's SSE endpoint) that only hold a *Ref. Typed
// callers should prefer the generic Subscribe function.
func (s *Store) SubscribeRef(ref *Ref, fn func(any)) func() {
	return s.subscribe(ref, fn)
}

// SetRef writes value onto a Source identified only by its Ref, for
// satellite packages (recorder/player, reactond's HTTP API) that hold refs
// type-erased rather than a typed *Source[T] handle. It runs the same
// pipeline as the typed Source.Set.
func (s *Store) SetRef(ref *Ref, value any) error {
	return s.set(ref, value)
}

func (s *Store) notifyExtensionError(ref *Ref, err error) {
	s.mu.Lock()
	exts := append([]Extension(nil), s.extensions...)
	s.mu.Unlock()
	for _, ext := range exts {
		ext.OnError(ref, err)
	}
}
