// Package recorder captures every Store write as a replayable session
// (spec's "Recorder & Player"), wrapping the write pipeline via a
// reacton.Extension the same way extensions/logging.go observes it, and
// provides a Player that replays a RecordedSession back onto a store.
package recorder

import (
	"reflect"
	"sync"
	"time"

	"github.com/sitharaj88/reacton"
)

// CurrentVersion is the schema version written by ExportJSON/ExportCompressed
// and required (exactly) by FromJSON/FromCompressed.
const CurrentVersion = 1

// StateEvent is one recorded write.
type StateEvent struct {
	RefID     string            `json:"refId"`
	RefName   string            `json:"refName"`
	OldValue  any               `json:"oldValue"`
	NewValue  any               `json:"newValue"`
	Timestamp int64             `json:"timestamp"` // millis elapsed since session start
	WallClock time.Time         `json:"wallClock"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SessionMark is a user-inserted marker at a point in the recording.
type SessionMark struct {
	Label     string            `json:"label"`
	Timestamp int64             `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// RecordedSession is an immutable, serializable recording.
type RecordedSession struct {
	ID              string            `json:"id"`
	Version         int               `json:"version"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         *time.Time        `json:"endTime,omitempty"`
	InitialSnapshot map[string]any    `json:"initialSnapshot"`
	Events          []StateEvent      `json:"events"`
	Markers         []SessionMark     `json:"markers"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Option configures a Recorder at construction.
type Option func(*Recorder)

// WithMaxEvents bounds the recorder to a ring buffer of the last n events.
// Zero (the default) means unbounded.
func WithMaxEvents(n int) Option {
	return func(r *Recorder) { r.maxEvents = n }
}

// WithFilter restricts recording to writes on reactons whose name is in
// names. Omitted or empty means record everything.
func WithFilter(names ...string) Option {
	return func(r *Recorder) {
		r.filter = make(map[string]bool, len(names))
		for _, n := range names {
			r.filter[n] = true
		}
	}
}

// Recorder wraps a Store's write pipeline and accumulates a replayable
// session, grounded in the reacton.Extension.Wrap around-advice mechanism
// that extensions/logging.go also uses to observe every Set.
type Recorder struct {
	reacton.BaseExtension

	mu              sync.Mutex
	store           *reacton.Store
	id              string
	start           time.Time
	end             *time.Time
	initialSnapshot map[string]any
	paused          bool
	stopped         bool
	maxEvents       int
	filter          map[string]bool
	events          []StateEvent
	markers         []SessionMark
	pending         map[string]string
}

// StartRecording installs a Recorder as an extension on store and begins
// capturing: the initial snapshot of every currently registered reacton is
// taken immediately, with elapsed time starting at zero.
func StartRecording(store *reacton.Store, id string, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		BaseExtension: reacton.NewBaseExtension("recorder", 100),
		store:         store,
		id:            id,
		start:         time.Now(),
		pending:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.initialSnapshot = make(map[string]any)
	for ref := range store.ExportDependencyGraph() {
		if v, ok := store.ValueOf(ref); ok {
			r.initialSnapshot[ref.Name()] = v
		}
	}

	if err := store.UseExtension(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recorder) elapsed() int64 {
	return time.Since(r.start).Milliseconds()
}

// Wrap observes every Set operation, recording a StateEvent only when the
// value after the write differs from the value before it, so a Set that the
// store's equality check turned into a no-op is not recorded.
func (r *Recorder) Wrap(op *reacton.Operation, next func() (any, error)) (any, error) {
	if op.Kind != reacton.OpSet {
		return next()
	}

	old, _ := op.Store.ValueOf(op.Ref)
	res, err := next()
	if err != nil {
		return res, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused || r.stopped {
		return res, err
	}
	if len(r.filter) > 0 && !r.filter[op.Ref.Name()] {
		return res, err
	}

	newVal, ok := op.Store.ValueOf(op.Ref)
	if !ok || reflect.DeepEqual(old, newVal) {
		return res, err
	}

	event := StateEvent{
		RefID:     op.Ref.ID(),
		RefName:   op.Ref.Name(),
		OldValue:  old,
		NewValue:  newVal,
		Timestamp: r.elapsed(),
		WallClock: time.Now(),
	}
	if len(r.pending) > 0 {
		event.Metadata = r.pending
		r.pending = make(map[string]string)
	}
	r.events = append(r.events, event)
	if r.maxEvents > 0 && len(r.events) > r.maxEvents {
		r.events = r.events[len(r.events)-r.maxEvents:]
	}
	return res, err
}

// Pause stops appending new events until Resume is called.
func (r *Recorder) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
}

// Resume re-enables recording.
func (r *Recorder) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
}

// Mark inserts a SessionMark at the current elapsed time.
func (r *Recorder) Mark(label string, metadata map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, SessionMark{Label: label, Timestamp: r.elapsed(), Metadata: metadata})
}

// Annotate attaches a key/value pair to the next recorded event. Multiple
// calls before the next event accumulate; the accumulated metadata is
// consumed (cleared) once that event is recorded.
func (r *Recorder) Annotate(key, value string) {
	r.mu.Lock()
	r.pending[key] = value
	r.mu.Unlock()
}

// Stop freezes the session's end time and returns an immutable
// RecordedSession. The Recorder continues to exist as an installed
// extension but records nothing further.
func (r *Recorder) Stop() RecordedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stopped {
		now := time.Now()
		r.end = &now
		r.stopped = true
	}

	return RecordedSession{
		ID:              r.id,
		Version:         CurrentVersion,
		StartTime:       r.start,
		EndTime:         r.end,
		InitialSnapshot: r.initialSnapshot,
		Events:          append([]StateEvent(nil), r.events...),
		Markers:         append([]SessionMark(nil), r.markers...),
	}
}
