package crdt

import "time"

// Value is one reacton's CRDT-stamped payload: the value itself, the clock
// it was written under, the writer's node id, and a wall-clock timestamp
// for LastWriterWins tie-breaking.
type Value[T any] struct {
	Value     T
	Clock     Clock
	NodeID    string
	Timestamp time.Time
}
