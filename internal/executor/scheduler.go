package executor

import (
	"sync"
	"time"
)

// Scheduler runs tasks after a delay. At most size due tasks run at once;
// the rest wait for a free slot.
type Scheduler struct {
	slots chan struct{}

	mu      sync.Mutex
	pending map[uint64]*time.Timer
	nextID  uint64
	stopped bool
	running sync.WaitGroup
}

// NewScheduler returns a scheduler running at most size tasks concurrently.
// Sizes below one are raised to one.
func NewScheduler(size int) *Scheduler {
	if size < 1 {
		size = 1
	}
	return &Scheduler{
		slots:   make(chan struct{}, size),
		pending: make(map[uint64]*time.Timer),
	}
}

// Schedule runs task once delay has elapsed. The returned cancel reports
// whether it prevented the task from running.
func (s *Scheduler) Schedule(delay time.Duration, task func()) (cancel func() bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrSchedulerStopped
	}

	s.nextID++
	id := s.nextID
	s.pending[id] = time.AfterFunc(delay, func() { s.fire(id, task) })

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		t, ok := s.pending[id]
		if !ok {
			return false
		}
		delete(s.pending, id)
		t.Stop()
		return true
	}, nil
}

// Pending returns the number of tasks that have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scheduler) fire(id uint64, task func()) {
	s.mu.Lock()
	if _, ok := s.pending[id]; !ok || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	s.slots <- struct{}{}
	defer func() { <-s.slots }()
	task()
}

// Stop cancels every pending task and waits for running ones. Stop is
// idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.running.Wait()
}
