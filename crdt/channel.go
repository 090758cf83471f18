package crdt

import "context"

// Channel is an unreliable, unordered duplex message transport a Session
// syncs reactons over. `/transport` provides a concrete transport.RedisChannel; the
// core package only depends on this abstract contract.
type Channel interface {
	Publish(ctx context.Context, msg Message) error
	Subscribe(ctx context.Context) (<-chan Message, error)
	Close() error
}
