package crdt

import (
	"context"
	"sync"
)

// ConflictEvent describes a concurrent write resolved by a merge strategy.
type ConflictEvent struct {
	Name        string
	Local       any
	Remote      any
	Resolved    any
	Strategy    string
	LocalClock  Clock
	RemoteClock Clock
}

// Session keeps a designated set of tracked reactons in sync across peers
// connected by a Channel: it requests full state on start, pushes a
// SyncDelta on every local write, and applies inbound messages under
// vector-clock causality.
type Session struct {
	mu       sync.Mutex
	channel  Channel
	nodeID   string
	nodes    map[string]trackedNode
	conflict chan ConflictEvent
	cancel   context.CancelFunc
	closed   bool
}

// Collaborate starts a Session over channel for the given nodes, keyed by
// name, identifying this peer as nodeID.
func Collaborate(ctx context.Context, channel Channel, nodeID string, nodes ...trackedNode) (*Session, error) {
	s := &Session{
		channel:  channel,
		nodeID:   nodeID,
		nodes:    make(map[string]trackedNode, len(nodes)),
		conflict: make(chan ConflictEvent, 16),
	}
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s.nodes[n.Name()] = n
		names = append(names, n.Name())
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	inbound, err := channel.Subscribe(runCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	go s.readLoop(runCtx, inbound)

	if err := channel.Publish(runCtx, NewSyncRequestFull(names, nodeID)); err != nil {
		cancel()
		return nil, err
	}

	for _, n := range nodes {
		if lc, ok := n.(interface{ OnLocalChange(func(WireValue)) }); ok {
			name := n.Name()
			lc.OnLocalChange(func(wv WireValue) {
				_ = s.channel.Publish(context.Background(), NewSyncDelta(name, wv, s.nodeID))
			})
		}
	}

	return s, nil
}

// Track starts tracking an additional reacton and arranges for its local
// writes to be published as SyncDelta messages.
func Track[T any](s *Session, tracked *Tracked[T]) {
	s.mu.Lock()
	s.nodes[tracked.Name()] = tracked
	s.mu.Unlock()

	tracked.OnLocalChange(func(wv WireValue) {
		_ = s.channel.Publish(context.Background(), NewSyncDelta(tracked.Name(), wv, s.nodeID))
	})
}

// OnConflict returns the stream of conflict resolutions.
func (s *Session) OnConflict() <-chan ConflictEvent { return s.conflict }

// ClockOf returns the named reacton's current vector clock.
func (s *Session) ClockOf(name string) (Clock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[name]
	if !ok {
		return nil, false
	}
	return n.Clock(), true
}

// Disconnect closes the channel and clears session state. Idempotent.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	return s.channel.Close()
}

func (s *Session) readLoop(ctx context.Context, inbound <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Session) handle(ctx context.Context, msg Message) {
	switch msg.Type {
	case TypeSyncRequestFull:
		s.mu.Lock()
		nodes := make([]trackedNode, 0, len(s.nodes))
		for _, name := range msg.Names {
			if n, ok := s.nodes[name]; ok {
				nodes = append(nodes, n)
			}
		}
		s.mu.Unlock()
		for _, n := range nodes {
			_ = s.channel.Publish(ctx, NewSyncFull(n.Name(), n.Snapshot(), s.nodeID))
		}

	case TypeSyncFull:
		s.applyAndAck(ctx, msg, true)

	case TypeSyncDelta:
		s.applyAndAck(ctx, msg, false)

	case TypeSyncAck:
		// Acks are informational; this session does not retransmit on
		// missing acks, so there is nothing further to do here.
	}
}

func (s *Session) applyAndAck(ctx context.Context, msg Message, full bool) {
	s.mu.Lock()
	n, ok := s.nodes[msg.Name]
	s.mu.Unlock()
	if !ok {
		return
	}

	var (
		conflict *ConflictEvent
		err      error
	)
	if full {
		conflict, err = n.ApplyFull(msg.CRDTValue)
	} else {
		conflict, err = n.ApplyDelta(msg.CRDTValue)
	}
	if err != nil {
		return
	}
	if conflict != nil {
		select {
		case s.conflict <- *conflict:
		default:
		}
	}

	_ = s.channel.Publish(ctx, NewSyncAck(msg.Name, n.Clock(), s.nodeID))
}
