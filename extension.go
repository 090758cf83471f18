package reacton

// Extension provides hooks into a Store's operational lifecycle: writes,
// recomputations, flushes and errors. Extensions compose in installation
// order (the first installed is outermost) and are how reacton wires in cross-cutting
// concerns — logging, tracing, metrics, recording — without the core
// knowing anything about logrus, OpenTelemetry or Prometheus.
//
// Adapted from the teacher's Extension interface: Flow-specific hooks
// (OnFlowStart/OnFlowEnd/OnFlowPanic, which belonged to that codebase's
// distinct execution-flow subsystem) are replaced by flush-lifecycle hooks,
// since reacton's closest analogue to "a flow running" is "a flush
// draining the scheduler".
type Extension interface {
	// Name identifies the extension for diagnostics.
	Name() string

	// Order reports the extension's declared position. The Store does not
	// sort by it; extensions run in the order they were installed.
	Order() int

	// Init is called once when the extension is installed into a Store.
	Init(store *Store) error

	// Wrap brackets a single set or recompute operation; reads (OpGet)
	// are not passed through Wrap. Extensions
	// that only observe should call next() and return its result
	// unmodified.
	Wrap(op *Operation, next func() (any, error)) (any, error)

	// OnError is called whenever a recompute fails.
	OnError(ref *Ref, err error)

	// OnFlushStart/OnFlushEnd bracket one call to Store.flush.
	OnFlushStart(store *Store)
	OnFlushEnd(store *Store, err error)

	// Dispose is called when the Store is disposed.
	Dispose(store *Store) error
}

// OperationKind names what an Operation represents.
type OperationKind string

const (
	OpGet       OperationKind = "get"
	OpSet       OperationKind = "set"
	OpRecompute OperationKind = "recompute"
)

// Operation describes one Store action, passed to Extension.Wrap.
type Operation struct {
	Kind  OperationKind
	Ref   *Ref
	Store *Store
}

// BaseExtension gives Extension implementations default no-op behavior for
// every hook, so an extension that only cares about e.g. OnError doesn't
// have to stub out the rest.
type BaseExtension struct {
	name  string
	order int
}

// NewBaseExtension creates a BaseExtension with the given name and
// install order.
func NewBaseExtension(name string, order int) BaseExtension {
	return BaseExtension{name: name, order: order}
}

func (b *BaseExtension) Name() string { return b.name }
func (b *BaseExtension) Order() int   { return b.order }

func (b *BaseExtension) Init(store *Store) error { return nil }

func (b *BaseExtension) Wrap(op *Operation, next func() (any, error)) (any, error) {
	return next()
}

func (b *BaseExtension) OnError(ref *Ref, err error) {}

func (b *BaseExtension) OnFlushStart(store *Store)           {}
func (b *BaseExtension) OnFlushEnd(store *Store, err error) {}

func (b *BaseExtension) Dispose(store *Store) error { return nil }
