package saga

import (
	"context"
	"time"
)

// Ctx is the handle a saga body runs with. It embeds context.Context so a
// cancelled ancestor task unblocks any effect waiting on it, and exposes the
// effect combinators (spec's "saga effects"): Put, Select, Call, Delay,
// Fork, Race, All.
type Ctx struct {
	context.Context
	saga *Saga
	task *Task
}

// Put dispatches an event on the saga's shared bus.
func (c *Ctx) Put(ev Event) { c.saga.Put(ev) }

// Select blocks until an event matching pred arrives, or the task is
// cancelled. It is the fundamental "take" effect the On*/take strategies
// build on.
func (c *Ctx) Select(pred func(Event) bool) (Event, error) {
	id, ch := c.saga.subscribe(pred)
	defer c.saga.unsubscribe(id)

	select {
	case ev := <-ch:
		return ev, nil
	case <-c.Done():
		return nil, ErrCancelled
	}
}

// Call runs fn to completion, returning early with ErrCancelled if the task
// is cancelled before fn finishes. fn itself is not interrupted mid-flight;
// Call only races its result against cancellation.
func (c *Ctx) Call(fn func(context.Context) (any, error)) (any, error) {
	type result struct {
		v   any
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		v, err := fn(c.Context)
		resCh <- result{v, err}
	}()

	select {
	case res := <-resCh:
		return res.v, res.err
	case <-c.Done():
		return nil, ErrCancelled
	}
}

// Delay blocks for d, or until the task is cancelled, whichever is first.
func (c *Ctx) Delay(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-c.Done():
		return ErrCancelled
	}
}

// Fork spawns fn as a child task and returns immediately with a handle to
// it; the parent does not block on the child's completion.
func (c *Ctx) Fork(fn func(*Ctx) error) *Task {
	return c.saga.spawn(c.task, fn)
}

// Race runs every fn concurrently as child tasks and returns the index and
// result of whichever finishes first, cancelling the rest.
func (c *Ctx) Race(fns ...func(*Ctx) error) (int, error) {
	type result struct {
		idx int
		err error
	}
	done := make(chan result, len(fns))
	tasks := make([]*Task, len(fns))

	for i, fn := range fns {
		i, fn := i, fn
		tasks[i] = c.saga.spawn(c.task, func(ctx *Ctx) error {
			err := fn(ctx)
			select {
			case done <- result{i, err}:
			default:
			}
			return err
		})
	}

	select {
	case res := <-done:
		for i, t := range tasks {
			if i != res.idx {
				t.Cancel()
			}
		}
		return res.idx, res.err
	case <-c.Done():
		for _, t := range tasks {
			t.Cancel()
		}
		return -1, c.Err()
	}
}

// All runs every fn concurrently as child tasks and waits for all of them,
// returning the first non-nil error encountered, if any.
func (c *Ctx) All(fns ...func(*Ctx) error) error {
	tasks := make([]*Task, len(fns))
	for i, fn := range fns {
		tasks[i] = c.saga.spawn(c.task, fn)
	}

	var firstErr error
	for _, t := range tasks {
		<-t.Done()
		if err := t.Err(); err != nil && firstErr == nil && err != ErrCancelled {
			firstErr = err
		}
	}
	return firstErr
}
