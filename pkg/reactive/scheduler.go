package reactive

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Job is a unit of deferred work on the Scheduler. Jobs are deduplicated
// by ID: scheduling the same job twice before a flush runs it once.
type Job interface {
	ID() uint64
	Run()
}

// jobFunc adapts a plain function into a Job with its own identity.
type jobFunc struct {
	id uint64
	fn func()
}

func (j *jobFunc) ID() uint64 { return j.id }
func (j *jobFunc) Run()       { j.fn() }

// NewJob wraps fn as a Job. Each call yields a distinct identity; hold on
// to the returned Job to get deduplication across schedules.
func NewJob(fn func()) Job {
	return &jobFunc{id: nextID(), fn: fn}
}

// FlushObserver receives flush statistics, for metrics integration.
type FlushObserver func(jobs int, duration time.Duration)

// Scheduler is the asynchronous counterpart to Batch: a deduplicated job
// queue flushed on its own goroutine, the runtime's "microtask" boundary.
// Bulk DOM updates (component re-renders) go through here rather than
// running inline in signal writes.
//
// A flush first drains the pre-flush callback queue, then runs queued jobs
// in the order first scheduled. A panicking job is recovered and logged
// without aborting the remaining jobs. Jobs scheduled during a flush are
// picked up by the same flush, so NextTick observes a fully settled state.
type Scheduler struct {
	mu       sync.Mutex
	jobs     []Job
	queued   map[uint64]struct{}
	preFlush []func()
	waiters  []chan struct{}

	wake    chan struct{}
	stopped atomic.Bool
	done    chan struct{}

	// observer, when set, is called after every flush.
	observer FlushObserver
}

// NewScheduler creates a scheduler and starts its flush loop.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		queued: make(map[uint64]struct{}),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

// SetObserver installs a flush observer. Must be called before jobs are
// scheduled.
func (s *Scheduler) SetObserver(fn FlushObserver) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// Enqueue schedules a job for the next flush. Scheduling an already queued
// job is a no-op; jobs run in the order first scheduled.
func (s *Scheduler) Enqueue(j Job) {
	if s.stopped.Load() {
		return
	}

	s.mu.Lock()
	if _, dup := s.queued[j.ID()]; dup {
		s.mu.Unlock()
		return
	}
	s.queued[j.ID()] = struct{}{}
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	s.signal()
}

// OnBeforeFlush queues a callback to run before the next job flush.
// Pre-flush callbacks run once each, in registration order.
func (s *Scheduler) OnBeforeFlush(fn func()) {
	if s.stopped.Load() {
		return
	}

	s.mu.Lock()
	s.preFlush = append(s.preFlush, fn)
	s.mu.Unlock()

	s.signal()
}

// NextTick returns a channel closed after the queue drains, letting
// callers await a settled state.
//
//	<-sched.NextTick()
func (s *Scheduler) NextTick() <-chan struct{} {
	ch := make(chan struct{})
	if s.stopped.Load() {
		close(ch)
		return ch
	}

	s.mu.Lock()
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()

	s.signal()
	return ch
}

// Wait blocks until the queue drains or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	select {
	case <-s.NextTick():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts the scheduler down after the in-progress flush, releasing all
// NextTick waiters.
func (s *Scheduler) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.signal()
	<-s.done
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)
	// The loop goroutine accumulates a tracking context (jobs run effects
	// and signal writes here); drop it when the goroutine exits.
	defer cleanupGoroutineContext()

	for range s.wake {
		s.flush()
		if s.stopped.Load() {
			s.releaseWaiters()
			return
		}
	}
}

// flush drains the pre-flush queue and then the job queue, repeating until
// both are empty, then releases NextTick waiters.
func (s *Scheduler) flush() {
	start := time.Now()
	ran := 0

	for {
		s.mu.Lock()
		pre := s.preFlush
		s.preFlush = nil
		jobs := s.jobs
		s.jobs = nil
		for _, j := range jobs {
			delete(s.queued, j.ID())
		}
		s.mu.Unlock()

		if len(pre) == 0 && len(jobs) == 0 {
			break
		}

		for _, fn := range pre {
			s.runIsolated("pre-flush", 0, fn)
		}
		for _, j := range jobs {
			job := j
			s.runIsolated("job", job.ID(), job.Run)
			ran++
		}
	}

	s.mu.Lock()
	obs := s.observer
	s.mu.Unlock()
	if obs != nil && ran > 0 {
		obs(ran, time.Since(start))
	}

	s.releaseWaiters()
}

func (s *Scheduler) releaseWaiters() {
	s.mu.Lock()
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// runIsolated runs one queue entry, recovering a panic so the remaining
// queued entries still run.
func (s *Scheduler) runIsolated(kind string, id uint64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log().Error("scheduler entry panicked",
				"kind", kind,
				"job", id,
				"panic", r,
			)
		}
	}()
	fn()
}
