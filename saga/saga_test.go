package saga

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCompletesWithoutForks(t *testing.T) {
	s := New()
	err := s.Run(func(c *Ctx) error {
		return nil
	})
	require.NoError(t, err)
}

func TestSelectReceivesMatchingEvent(t *testing.T) {
	s := New()
	type tick struct{ n int }

	var got tick
	err := s.Run(func(c *Ctx) error {
		done := make(chan struct{})
		c.Fork(func(inner *Ctx) error {
			ev, err := inner.Select(func(e Event) bool {
				_, ok := e.(tick)
				return ok
			})
			if err != nil {
				return err
			}
			got = ev.(tick)
			close(done)
			return nil
		})
		time.Sleep(10 * time.Millisecond)
		c.Put(tick{n: 7})
		<-done
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got.n)
}

func TestCancelPropagatesToChildren(t *testing.T) {
	s := New()
	childStarted := make(chan struct{})
	childDone := make(chan struct{})

	s.Run(func(c *Ctx) error {
		c.Fork(func(inner *Ctx) error {
			close(childStarted)
			<-inner.Done()
			close(childDone)
			return inner.Err()
		})
		<-childStarted
		s.Cancel()
		return nil
	})

	select {
	case <-childDone:
	case <-time.After(time.Second):
		t.Fatal("child task was not cancelled")
	}
}

func TestRaceCancelsLosers(t *testing.T) {
	s := New()
	var winner int
	err := s.Run(func(c *Ctx) error {
		idx, rerr := c.Race(
			func(inner *Ctx) error {
				return inner.Delay(50 * time.Millisecond)
			},
			func(inner *Ctx) error {
				return inner.Delay(time.Millisecond)
			},
		)
		winner = idx
		return rerr
	})
	require.NoError(t, err)
	assert.Equal(t, 1, winner)
}

func TestAllWaitsForEveryTask(t *testing.T) {
	s := New()
	count := 0
	err := s.Run(func(c *Ctx) error {
		return c.All(
			func(inner *Ctx) error { count++; return nil },
			func(inner *Ctx) error { count++; return nil },
			func(inner *Ctx) error { count++; return nil },
		)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestOnLatestCancelsPreviousRun(t *testing.T) {
	s := New()
	type job struct{ id int }
	cancelled := make(chan int, 4)
	finished := make(chan int, 1)

	s.Run(func(c *Ctx) error {
		OnLatest(c, func(e Event) bool {
			_, ok := e.(job)
			return ok
		}, func(inner *Ctx, ev Event) error {
			id := ev.(job).id
			select {
			case <-inner.Done():
				cancelled <- id
				return inner.Err()
			case <-time.After(30 * time.Millisecond):
				finished <- id
				return nil
			}
		})

		time.Sleep(5 * time.Millisecond)
		c.Put(job{id: 1})
		time.Sleep(5 * time.Millisecond)
		c.Put(job{id: 2})
		time.Sleep(50 * time.Millisecond)
		// The OnLatest listener runs until cancelled; Run waits for it.
		s.Cancel()
		return nil
	})

	select {
	case id := <-finished:
		assert.Equal(t, 2, id)
	default:
		t.Fatal("expected job 2 to finish")
	}
}

func TestCallRespectsCancellation(t *testing.T) {
	s := New()
	started := make(chan struct{})

	s.Run(func(c *Ctx) error {
		c.Fork(func(inner *Ctx) error {
			close(started)
			_, err := inner.Call(func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})
			assert.ErrorIs(t, err, ErrCancelled)
			return err
		})
		<-started
		s.Cancel()
		return nil
	})
}
