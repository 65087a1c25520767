// Package executor provides the two execution facilities the remote
// initializer runs on: a fixed-size worker pool for blocking work and a
// scheduler for delayed tasks such as timeout watchers.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Executor errors.
var (
	ErrPoolStopped      = errors.New("worker pool is stopped")
	ErrSchedulerStopped = errors.New("scheduler is stopped")
)

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Tasks wait in a queue as deep as the pool is wide.
type Pool struct {
	tasks   chan func()
	done    chan struct{}
	running sync.WaitGroup

	// mu orders Submit calls against Stop: submitters counts the calls that
	// got past the stopped check, and workers wait for them before draining.
	mu         sync.Mutex
	stopped    bool
	submitters sync.WaitGroup
}

// NewPool starts a pool with size workers. Sizes below one are raised to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
	p.running.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

// Submit queues task. It blocks while the queue is full and gives up when
// ctx ends or the pool stops.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	p.submitters.Add(1)
	p.mu.Unlock()
	defer p.submitters.Done()

	select {
	case p.tasks <- task:
		return nil
	case <-p.done:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the pool and waits up to ten seconds for its workers.
func (p *Pool) Stop() error {
	return p.StopWithTimeout(10 * time.Second)
}

// StopWithTimeout stops accepting tasks, lets the workers finish what is
// running and queued, and waits for them up to timeout.
func (p *Pool) StopWithTimeout(timeout time.Duration) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.done)
	}
	p.mu.Unlock()

	c := make(chan struct{})
	go func() {
		p.running.Wait()
		close(c)
	}()

	select {
	case <-c:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timed out waiting for workers to finish after %v", timeout)
	}
}

func (p *Pool) work() {
	defer p.running.Done()
	for {
		select {
		case task := <-p.tasks:
			task()
		case <-p.done:
			p.submitters.Wait()
			p.drain()
			return
		}
	}
}

// drain runs tasks that were queued before the pool stopped, including
// those enqueued by Submit calls racing Stop.
func (p *Pool) drain() {
	for {
		select {
		case task := <-p.tasks:
			task()
		default:
			return
		}
	}
}
