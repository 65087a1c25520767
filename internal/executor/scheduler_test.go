package executor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsAfterDelay(t *testing.T) {
	s := NewScheduler(1)
	defer s.Stop()

	start := time.Now()
	fired := make(chan time.Time, 1)
	_, err := s.Schedule(20*time.Millisecond, func() { fired <- time.Now() })
	require.NoError(t, err)

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
	assert.Zero(t, s.Pending())
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(1)
	defer s.Stop()

	var ran atomic.Bool
	cancel, err := s.Schedule(20*time.Millisecond, func() { ran.Store(true) })
	require.NoError(t, err)
	assert.Equal(t, 1, s.Pending())

	assert.True(t, cancel())
	assert.False(t, cancel(), "second cancel has nothing to prevent")

	time.Sleep(40 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestSchedulerCancelAfterFire(t *testing.T) {
	s := NewScheduler(1)
	defer s.Stop()

	done := make(chan struct{})
	cancel, err := s.Schedule(0, func() { close(done) })
	require.NoError(t, err)
	<-done

	assert.False(t, cancel())
}

func TestSchedulerBoundsConcurrency(t *testing.T) {
	const size = 2
	s := NewScheduler(size)
	defer s.Stop()

	var active, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		_, err := s.Schedule(time.Millisecond, func() {
			defer wg.Done()
			n := active.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(size))
}

func TestSchedulerStop(t *testing.T) {
	s := NewScheduler(1)

	var ran atomic.Bool
	_, err := s.Schedule(time.Hour, func() { ran.Store(true) })
	require.NoError(t, err)

	s.Stop()
	s.Stop()
	assert.Zero(t, s.Pending())
	assert.False(t, ran.Load())

	_, err = s.Schedule(time.Millisecond, func() {})
	assert.ErrorIs(t, err, ErrSchedulerStopped)
}
