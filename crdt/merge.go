package crdt

import "cmp"

// MergeStrategy resolves two concurrent writes to the same reacton (spec's
// value-level merge strategies), invoked only when their clocks compare as
// Concurrent — causally ordered writes never reach a strategy.
type MergeStrategy[T any] interface {
	Resolve(local, remote Value[T]) T
}

// LastWriterWins picks the value with the greater wall-clock timestamp,
// breaking ties by lexicographically smaller peer id for determinism
// across both peers.
type LastWriterWins[T any] struct{}

func (LastWriterWins[T]) Resolve(local, remote Value[T]) T {
	if local.Timestamp.After(remote.Timestamp) {
		return local.Value
	}
	if remote.Timestamp.After(local.Timestamp) {
		return remote.Value
	}
	if local.NodeID <= remote.NodeID {
		return local.Value
	}
	return remote.Value
}

// MaxValue keeps the larger of the two values under T's natural ordering;
// suited to monotone counters and latest-date cells.
type MaxValue[T cmp.Ordered] struct{}

func (MaxValue[T]) Resolve(local, remote Value[T]) T {
	if cmp.Compare(local.Value, remote.Value) >= 0 {
		return local.Value
	}
	return remote.Value
}

// UnionMerge merges two set-typed cells by key union, for reactons whose
// value is a set represented as map[E]struct{}.
type UnionMerge[E comparable] struct{}

func (UnionMerge[E]) Resolve(local, remote Value[map[E]struct{}]) map[E]struct{} {
	out := make(map[E]struct{}, len(local.Value)+len(remote.Value))
	for k := range local.Value {
		out[k] = struct{}{}
	}
	for k := range remote.Value {
		out[k] = struct{}{}
	}
	return out
}

// CustomMerge wraps a user-provided resolver receiving both stamped
// values.
type CustomMerge[T any] struct {
	Fn func(local, remote Value[T]) T
}

func (c CustomMerge[T]) Resolve(local, remote Value[T]) T {
	return c.Fn(local, remote)
}
