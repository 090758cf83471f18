package recorder

import (
	"sync"
	"time"

	"github.com/sitharaj88/reacton"
)

// Player replays a RecordedSession back onto a Store, resolving each
// event's RefName against the store's own Refs (reacton.Store.RefByName),
// writing through the type-erased escape hatch Store.SetRef.
type Player struct {
	mu       sync.Mutex
	store    *reacton.Store
	session  RecordedSession
	position int // index into session.Events; 0 means "before all events"
	playing  bool
	stopCh   chan struct{}

	onProgress func(float64)
	onComplete func()
}

// NewPlayer constructs a Player for session against store, restoring the
// initial snapshot immediately.
func NewPlayer(store *reacton.Store, session RecordedSession) *Player {
	p := &Player{store: store, session: session}
	p.restoreSnapshot()
	return p
}

// OnProgress registers a callback invoked with playback progress in [0,1]
// after each event is applied.
func (p *Player) OnProgress(fn func(float64)) { p.onProgress = fn }

// OnComplete registers a callback invoked once playback reaches the end.
func (p *Player) OnComplete(fn func()) { p.onComplete = fn }

func (p *Player) restoreSnapshot() {
	for name, v := range p.session.InitialSnapshot {
		if ref, ok := p.store.RefByName(name); ok {
			_ = p.store.SetRef(ref, v)
		}
	}
}

func (p *Player) progress() float64 {
	if len(p.session.Events) == 0 {
		return 1
	}
	return float64(p.position) / float64(len(p.session.Events))
}

// Play starts playback at the given speed multiplier (1.0 = real time)
// from the current position, applying events on their own goroutine.
func (p *Player) Play(speed float64) {
	p.mu.Lock()
	if p.playing || p.position >= len(p.session.Events) {
		p.mu.Unlock()
		return
	}
	p.playing = true
	p.stopCh = make(chan struct{})
	stop := p.stopCh
	p.mu.Unlock()

	go p.run(speed, stop)
}

func (p *Player) run(speed float64, stop chan struct{}) {
	for {
		p.mu.Lock()
		if !p.playing || p.position >= len(p.session.Events) {
			p.mu.Unlock()
			return
		}
		ev := p.session.Events[p.position]
		var waitFor time.Duration
		if p.position > 0 {
			prev := p.session.Events[p.position-1].Timestamp
			waitFor = time.Duration(float64(ev.Timestamp-prev)/speed) * time.Millisecond
		}
		p.mu.Unlock()

		if waitFor > 0 {
			select {
			case <-time.After(waitFor):
			case <-stop:
				return
			}
		}

		p.mu.Lock()
		if !p.playing {
			p.mu.Unlock()
			return
		}
		p.applyForward(ev)
		p.position++
		done := p.position >= len(p.session.Events)
		progressFn, completeFn, prog := p.onProgress, p.onComplete, p.progress()
		if done {
			p.playing = false
		}
		p.mu.Unlock()

		if progressFn != nil {
			progressFn(prog)
		}
		if done {
			if completeFn != nil {
				completeFn()
			}
			return
		}
	}
}

func (p *Player) applyForward(ev StateEvent) {
	if ref, ok := p.store.RefByName(ev.RefName); ok {
		_ = p.store.SetRef(ref, ev.NewValue)
	}
}

func (p *Player) applyBackward(ev StateEvent) {
	if ref, ok := p.store.RefByName(ev.RefName); ok {
		_ = p.store.SetRef(ref, ev.OldValue)
	}
}

// Pause halts playback without resetting position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.playing = false
		close(p.stopCh)
	}
}

// Resume continues playback from the current position at speed 1.0.
func (p *Player) Resume() { p.Play(1.0) }

// Stop halts playback and resets to the beginning, restoring the initial
// snapshot.
func (p *Player) Stop() {
	p.Pause()
	p.mu.Lock()
	p.position = 0
	p.mu.Unlock()
	p.restoreSnapshot()
}

// StepForward applies the next event, if any; a no-op past the end.
func (p *Player) StepForward() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.position >= len(p.session.Events) {
		return
	}
	p.applyForward(p.session.Events[p.position])
	p.position++
}

// StepBackward reverses the last applied event using its recorded old
// value; a no-op at the start.
func (p *Player) StepBackward() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.position <= 0 {
		return
	}
	p.position--
	p.applyBackward(p.session.Events[p.position])
}

// SeekTo restores the initial snapshot then applies the first position
// events (every event at index < position).
func (p *Player) SeekTo(position int) {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()

	p.restoreSnapshot()
	if position < 0 {
		position = 0
	}
	if position > len(p.session.Events) {
		position = len(p.session.Events)
	}
	for i := 0; i < position; i++ {
		p.applyForward(p.session.Events[i])
	}

	p.mu.Lock()
	p.position = position
	p.mu.Unlock()
}
