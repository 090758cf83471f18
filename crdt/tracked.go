package crdt

import (
	"encoding/json"
	"sync"
	"time"
)

// trackedNode is the type-erased face a Session drives, mirroring
// reacton's own typed-handle-over-type-erased-entry pattern (node.go): a
// Tracked[T] carries the real type, but the session only needs to push
// wire-shaped values in and out.
type trackedNode interface {
	Name() string
	Clock() Clock
	Snapshot() WireValue
	ApplyFull(WireValue) (*ConflictEvent, error)
	ApplyDelta(WireValue) (*ConflictEvent, error)
}

// Tracked wraps a single reacton's value under CRDT causality tracking.
type Tracked[T any] struct {
	mu       sync.Mutex
	name     string
	nodeID   string
	value    T
	clock    Clock
	strategy MergeStrategy[T]
	onChange []func(WireValue)
}

// NewTracked constructs a Tracked reacton named name, owned by nodeID, with
// initial value and the given merge strategy for resolving concurrent
// writes.
func NewTracked[T any](name, nodeID string, initial T, strategy MergeStrategy[T]) *Tracked[T] {
	return &Tracked[T]{
		name:     name,
		nodeID:   nodeID,
		value:    initial,
		clock:    NewClock(),
		strategy: strategy,
	}
}

func (t *Tracked[T]) Name() string { return t.name }

func (t *Tracked[T]) Clock() Clock {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Clone()
}

// Value returns the current local value.
func (t *Tracked[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// LocalWrite stamps v with an incremented clock entry for this node and
// notifies any registered onChange listeners (a Session uses this to emit
// SyncDelta).
func (t *Tracked[T]) LocalWrite(v T) {
	t.mu.Lock()
	t.clock.Increment(t.nodeID)
	t.value = v
	wv := t.snapshotLocked()
	listeners := append([]func(WireValue){}, t.onChange...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(wv)
	}
}

// OnLocalChange registers fn to be called with the new wire value whenever
// LocalWrite runs.
func (t *Tracked[T]) OnLocalChange(fn func(WireValue)) {
	t.mu.Lock()
	t.onChange = append(t.onChange, fn)
	t.mu.Unlock()
}

func (t *Tracked[T]) Snapshot() WireValue {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracked[T]) snapshotLocked() WireValue {
	return WireValue{Value: t.value, Clock: t.clock.Clone(), NodeID: t.nodeID, Timestamp: time.Now()}
}

func (t *Tracked[T]) decode(wv WireValue) (T, error) {
	var typed T
	raw, err := json.Marshal(wv.Value)
	if err != nil {
		return typed, err
	}
	if err := json.Unmarshal(raw, &typed); err != nil {
		return typed, err
	}
	return typed, nil
}

// ApplyFull applies an inbound full-state snapshot under the causal
// ordering rules: discard if behind, adopt if ahead, resolve via strategy
// if concurrent.
func (t *Tracked[T]) ApplyFull(wv WireValue) (*ConflictEvent, error) {
	return t.apply(wv)
}

// ApplyDelta applies an inbound incremental update; mechanically identical
// to ApplyFull since both carry a full CRDT-stamped value, only differing
// in wire intent (full sync vs. on-write push).
func (t *Tracked[T]) ApplyDelta(wv WireValue) (*ConflictEvent, error) {
	return t.apply(wv)
}

func (t *Tracked[T]) apply(wv WireValue) (*ConflictEvent, error) {
	incoming, err := t.decode(wv)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch wv.Clock.Compare(t.clock) {
	case OrderLess:
		return nil, nil
	case OrderEqual:
		return nil, nil
	case OrderGreater:
		t.value = incoming
		t.clock = t.clock.Merge(wv.Clock)
		return nil, nil
	default: // concurrent
		local := Value[T]{Value: t.value, Clock: t.clock.Clone(), NodeID: t.nodeID, Timestamp: time.Now()}
		remote := Value[T]{Value: incoming, Clock: wv.Clock.Clone(), NodeID: wv.NodeID, Timestamp: wv.Timestamp}
		resolved := t.strategy.Resolve(local, remote)
		conflict := &ConflictEvent{
			Name:        t.name,
			Local:       local.Value,
			Remote:      remote.Value,
			Resolved:    resolved,
			Strategy:    strategyName(t.strategy),
			LocalClock:  local.Clock,
			RemoteClock: remote.Clock,
		}
		t.value = resolved
		t.clock = t.clock.Merge(wv.Clock)
		return conflict, nil
	}
}

// strategyName is a best-effort label for ConflictEvent.Strategy; UnionMerge
// is parameterized by its element type rather than T itself so it can't be
// matched by name here and falls through to the default case.
func strategyName[T any](s MergeStrategy[T]) string {
	switch s.(type) {
	case LastWriterWins[T]:
		return "LastWriterWins"
	case MaxValue[T]:
		return "MaxValue"
	case CustomMerge[T]:
		return "CustomMerge"
	default:
		return "UnionMerge"
	}
}
