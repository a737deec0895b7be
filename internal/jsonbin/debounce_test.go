package jsonbin

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesTriggers(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() { fires.Add(1) })
	defer d.Stop()

	// a burst of triggers inside the quiet period fires exactly once
	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int32(0), fires.Load(), "must wait out the quiet period")

	assert.Eventually(t, func() bool {
		return fires.Load() == 1
	}, time.Second, 10*time.Millisecond)

	// stays at one with no further triggers
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
}

func TestDebouncerTriggerReschedules(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(60*time.Millisecond, func() { fires.Add(1) })
	defer d.Stop()

	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	// 80ms since the first trigger but only 40ms since the last
	assert.Equal(t, int32(0), fires.Load())

	assert.Eventually(t, func() bool {
		return fires.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncerFlushFiresPending(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(time.Hour, func() { fires.Add(1) })
	defer d.Stop()

	d.Trigger()
	d.Flush()
	assert.Equal(t, int32(1), fires.Load())

	// flushing with nothing pending is a no-op
	d.Flush()
	assert.Equal(t, int32(1), fires.Load())
}

func TestDebouncerRescheduleDuringFireKeepsPending(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { fires.Add(1) })

	d.Trigger()
	// Park the fired timer's callback on the mutex, then reschedule
	// underneath it the way a concurrent Trigger would.
	d.mu.Lock()
	time.Sleep(30 * time.Millisecond)
	d.timer.Stop()
	d.timer = time.AfterFunc(time.Hour, func() { fires.Add(1) })
	d.mu.Unlock()

	// the superseded callback runs and must not fire or drop the new timer
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fires.Load())

	d.Flush()
	assert.Equal(t, int32(1), fires.Load(), "rescheduled push must survive to Flush")

	d.Stop()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { fires.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fires.Load())
}
