package reacton

import (
	"github.com/google/uuid"

	"github.com/sitharaj88/reacton/pkg/meta"
)

// Kind identifies what a node computes and how it participates in
// propagation.
type Kind string

const (
	KindSource   Kind = "source"
	KindComputed Kind = "computed"
	KindSelector Kind = "selector"
	KindLens     Kind = "lens"
	KindEffect   Kind = "effect"
	KindQuery    Kind = "query"
	KindMachine  Kind = "machine"
)

// Ref is a process-unique opaque identity for a node. Equality is identity:
// two Refs are equal iff they point at the same underlying struct, never by
// name. A Ref outlives node reconstruction (e.g. across a branch merge or a
// module reinstall) because callers keep holding the same pointer.
type Ref struct {
	id   uuid.UUID
	name string
	kind Kind
	meta map[string]any
}

// NewRef mints a fresh, process-unique Ref with an optional debug name.
func NewRef(kind Kind, name string) *Ref {
	return &Ref{id: uuid.New(), kind: kind, name: name}
}

// Name returns the debug name the Ref was created with, or its id's string
// form when none was supplied.
func (r *Ref) Name() string {
	if r.name != "" {
		return r.name
	}
	return r.id.String()
}

// Kind returns the node kind this Ref identifies.
func (r *Ref) Kind() Kind { return r.kind }

// ID returns the stable identity used for cross-process correlation (logs,
// recorder events, CRDT messages).
func (r *Ref) ID() string { return r.id.String() }

func (r *Ref) String() string { return r.Name() }

// Meta retrieves a typed metadata value attached via WithMeta.
func Meta[T any](r *Ref, key string) (T, error) {
	return meta.Get[T](r.meta, key)
}
