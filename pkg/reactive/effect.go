package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies
// change. Effects run once synchronously when created, establishing their
// dependencies, and re-run synchronously on writes outside a batch or once
// at the outermost batch exit.
//
// The effect function may return a Cleanup that runs before each re-run
// and at disposal.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals/computeds this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// scope is the scope that owns this effect, nil for unowned effects.
	scope *Scope

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// NewEffect creates an effect, runs it immediately, and registers it with
// the active scope so it is disposed with the scope.
//
// A panic inside fn during the initial run propagates to the caller of
// NewEffect; a panic during a re-run propagates to whatever wrote the
// triggering signal.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: getCurrentScope(),
	}

	if e.scope != nil {
		e.scope.registerEffect(e)
	}

	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
// Batched writes arrive here once, deduplicated, at the outermost batch
// exit.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Dispose runs the pending cleanup and unsubscribes from all sources.
// Idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// addSource records a dependency edge. Implements sourceTracker.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// run executes the effect body under tracking, after running the previous
// cleanup and dropping stale dependency edges.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	defer setCurrentListener(old)

	e.cleanup = e.fn()
}

var _ sourceTracker = (*Effect)(nil)
