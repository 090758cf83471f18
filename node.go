package reacton

// Interceptor wraps a single write to a Source, and may transform the
// incoming value or veto the write entirely by returning an error (spec
// §4.3's "set" contract: "runs interceptors (each may rewrite or veto)").
type Interceptor func(ref *Ref, newValue any) (any, error)

// Middleware brackets a write with before/after hooks. OnBeforeWrite may
// transform the incoming value or reject the write by returning an error;
// OnAfterWrite observes the committed value and cannot fail. Composition
// order is first-wins on OnBeforeWrite (registration order) and last-wins
// on OnAfterWrite (reverse registration order) — spec §9.
type Middleware struct {
	Name          string
	OnBeforeWrite func(ref *Ref, old, new any) (any, error)
	OnAfterWrite  func(ref *Ref, old, new any)
}

// EqualsFunc decides whether two values of a node are equivalent for the
// purpose of glitch suppression (spec §4.1/§4.3). A node built without
// WithEquals uses reflect.DeepEqual.
type EqualsFunc func(a, b any) bool

// entry is the Store's type-erased bookkeeping for one registered Ref. All
// of the generic Source[T]/Computed[T]/... wrapper types are thin typed
// handles around a *Ref; entry is where the actual value, compute function
// and behavioral wrappers live.
type entry struct {
	ref       *Ref
	kind      Kind
	value     any
	hasValue  bool
	equals    EqualsFunc
	compute   func(*Store) (any, error) // Computed, Selector
	lensWrite func(*Store, any) error    // Lens only
	runEffect func(*Store) error         // Effect only

	keepAlive    bool
	interceptors []Interceptor
	middleware   []Middleware

	subscribers []subscriberEntry
	disposed    bool
}

type subscriberEntry struct {
	id       uint64
	listener func(any)
}

func defaultEquals(a, b any) bool {
	return deepEqual(a, b)
}

// NodeOption configures a node at construction time.
type NodeOption func(*entry)

// WithEquals overrides the default structural-equality predicate used to
// decide whether a new value is distinct enough to propagate.
func WithEquals(fn EqualsFunc) NodeOption {
	return func(e *entry) { e.equals = fn }
}

// WithKeepAlive sets the node's keep-alive flag. The Store does not evict
// nodes whose observer count reaches zero, so the flag does not change how
// the node behaves.
func WithKeepAlive() NodeOption {
	return func(e *entry) { e.keepAlive = true }
}

// WithInterceptor appends a write interceptor.
func WithInterceptor(i Interceptor) NodeOption {
	return func(e *entry) { e.interceptors = append(e.interceptors, i) }
}

// WithMiddleware appends a middleware.
func WithMiddleware(m Middleware) NodeOption {
	return func(e *entry) { e.middleware = append(e.middleware, m) }
}

func newEntry(ref *Ref, kind Kind, opts []NodeOption) *entry {
	e := &entry{ref: ref, kind: kind, equals: defaultEquals}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source is an atomic cell whose value is set directly (spec's "Source").
type Source[T any] struct{ ref *Ref }

// Ref returns the node's process-unique identity.
func (s *Source[T]) Ref() *Ref { return s.ref }

// Get returns the Source's current value, registering a dynamic dependency
// edge if called from within another node's recompute.
func (s *Source[T]) Get(store *Store) (T, error) {
	v, err := store.get(s.ref)
	return castOrZero[T](v, err)
}

// Set writes a new value (spec §4.3's "set").
func (s *Source[T]) Set(store *Store, v T) error {
	return store.set(s.ref, v)
}

// Update reads then writes atomically relative to subscribers.
func (s *Source[T]) Update(store *Store, fn func(T) T) error {
	return store.update(s.ref, func(cur any) any {
		return fn(cur.(T))
	})
}

// NewSource registers a new Source with an initial value.
func NewSource[T any](store *Store, name string, initial T, opts ...NodeOption) *Source[T] {
	ref := NewRef(KindSource, name)
	e := newEntry(ref, KindSource, opts)
	e.value = initial
	e.hasValue = true
	store.register(e)
	return &Source[T]{ref: ref}
}

// Computed is a cell derived from other cells via a pure function (spec's
// "Computed"). Its source set is discovered dynamically on each recompute.
type Computed[T any] struct{ ref *Ref }

func (c *Computed[T]) Ref() *Ref { return c.ref }

func (c *Computed[T]) Get(store *Store) (T, error) {
	v, err := store.get(c.ref)
	return castOrZero[T](v, err)
}

// NewComputed registers a Computed node. compute is re-run whenever its
// dynamically-discovered sources transition to Dirty/Check and it reads a
// changed value.
func NewComputed[T any](store *Store, name string, compute func(*Store) (T, error), opts ...NodeOption) *Computed[T] {
	ref := NewRef(KindComputed, name)
	e := newEntry(ref, KindComputed, opts)
	e.compute = func(s *Store) (any, error) { return compute(s) }
	store.register(e)
	return &Computed[T]{ref: ref}
}

// Selector is a read-only projection node (spec's "Selector"). Mechanically
// it behaves exactly like Computed; the distinct kind exists so tooling
// (recorder, debug extension) can tell "derived value" apart from "focused
// view with write-back" (Lens).
type Selector[T any] struct{ ref *Ref }

func (s *Selector[T]) Ref() *Ref { return s.ref }

func (s *Selector[T]) Get(store *Store) (T, error) {
	v, err := store.get(s.ref)
	return castOrZero[T](v, err)
}

// NewSelector registers a Selector node.
func NewSelector[T any](store *Store, name string, project func(*Store) (T, error), opts ...NodeOption) *Selector[T] {
	ref := NewRef(KindSelector, name)
	e := newEntry(ref, KindSelector, opts)
	e.compute = func(s *Store) (any, error) { return project(s) }
	store.register(e)
	return &Selector[T]{ref: ref}
}

// Lens is a projection that both reads and writes back through a focus
// function pair (spec's "Lens"). It focuses on a Source[S] via get/set
// functions: reading projects S -> T, writing computes a new S from the
// current S and the written T and stores that back onto the source.
type Lens[T any] struct{ ref *Ref }

func (l *Lens[T]) Ref() *Ref { return l.ref }

func (l *Lens[T]) Get(store *Store) (T, error) {
	v, err := store.get(l.ref)
	return castOrZero[T](v, err)
}

// Set writes focus back through to the underlying source.
func (l *Lens[T]) Set(store *Store, focus T) error {
	return store.setLens(l.ref, focus)
}

// NewLens registers a Lens node focused on source.
func NewLens[S any, T any](store *Store, name string, source *Source[S], get func(S) T, set func(S, T) S, opts ...NodeOption) *Lens[T] {
	ref := NewRef(KindLens, name)
	e := newEntry(ref, KindLens, opts)
	e.compute = func(s *Store) (any, error) {
		cur, err := source.Get(s)
		if err != nil {
			var zero T
			return zero, err
		}
		return get(cur), nil
	}
	e.lensWrite = func(s *Store, focus any) error {
		cur, err := source.Get(s)
		if err != nil {
			return err
		}
		next := set(cur, focus.(T))
		return source.Set(s, next)
	}
	store.register(e)
	return &Lens[T]{ref: ref}
}

// Effect is a side-effectful observer that produces no value of its own; it
// reads other nodes and runs after each flush that changed one of its
// dynamically-discovered dependencies (spec's "Effect").
type Effect struct{ ref *Ref }

func (e *Effect) Ref() *Ref { return e.ref }

// NewEffect registers an Effect node. run is invoked once immediately (to
// discover dependencies) and again after every flush that dirties one of
// those dependencies.
func NewEffect(store *Store, name string, run func(*Store) error, opts ...NodeOption) *Effect {
	ref := NewRef(KindEffect, name)
	e := newEntry(ref, KindEffect, opts)
	e.runEffect = run
	store.register(e)
	store.runEffectNow(ref)
	return &Effect{ref: ref}
}

func castOrZero[T any](v any, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	if v == nil {
		var zero T
		return zero, nil
	}
	return v.(T), nil
}
