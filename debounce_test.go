package reacton

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerFiresOnceAfterBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls int32
	var wg sync.WaitGroup
	wg.Add(1)

	d.Run(func() { atomic.AddInt32(&calls, 1) })
	assert.True(t, d.IsPending())
	d.Run(func() { atomic.AddInt32(&calls, 1) })
	d.Run(func() {
		atomic.AddInt32(&calls, 1)
		wg.Done()
	})

	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, d.IsPending())
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls int32
	d.Run(func() { atomic.AddInt32(&calls, 1) })
	d.Cancel()
	assert.False(t, d.IsPending())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDebouncerDisposeStopsFutureRuns(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	d.Dispose()
	var calls int32
	d.Run(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, d.IsPending())
}

func TestThrottlerLeadingCallFiresImmediately(t *testing.T) {
	th := NewThrottler(50 * time.Millisecond)
	var calls int32
	th.Run(func() { atomic.AddInt32(&calls, 1) })
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestThrottlerTrailingCallFiresAtWindowEnd(t *testing.T) {
	th := NewThrottler(20 * time.Millisecond)
	var calls int32
	var wg sync.WaitGroup
	wg.Add(1)

	th.Run(func() { atomic.AddInt32(&calls, 1) })
	th.Run(func() { atomic.AddInt32(&calls, 1) })
	th.Run(func() {
		atomic.AddInt32(&calls, 1)
		wg.Done()
	})
	assert.True(t, th.IsPending())

	wg.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one leading call plus one trailing call")
	assert.False(t, th.IsPending())
}

func TestThrottlerCancelDropsTrailingOnly(t *testing.T) {
	th := NewThrottler(20 * time.Millisecond)
	var calls int32
	th.Run(func() { atomic.AddInt32(&calls, 1) })
	th.Run(func() { atomic.AddInt32(&calls, 1) })
	th.Cancel()
	assert.False(t, th.IsPending())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "cancel drops the trailing call but not the completed leading one")
}
