package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a cached derivation that automatically tracks its
// dependencies. When any dependency changes, the computed is invalidated
// and recomputes lazily on the next read.
//
// Computeds are read-only by construction: there is no Set method, so the
// "throws if written to" contract is enforced by the type system.
//
// Computeds can themselves be subscribed to, behaving like signals. This
// allows chains of derived values.
type Computed[T any] struct {
	base signalBase

	// compute is the pure function over other signals.
	compute func() T

	// value is the cached computed value.
	value   T
	valueMu sync.RWMutex

	// valid is false when the cache is stale and the next Get must
	// recompute.
	valid atomic.Bool

	// sources are the signals/computeds this computed depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// equal determines whether a recompute changed the value.
	equal func(T, T) bool

	// computing breaks recursion on circular dependencies.
	computing atomic.Bool
}

// NewComputed creates a computed over the given pure function.
// The function does not run immediately; it runs lazily on first Get.
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
	if scope := getCurrentScope(); scope != nil {
		scope.adoptSignal(&c.base)
	}
	return c
}

// Get returns the computed value, recomputing if stale, and subscribes the
// current listener.
func (c *Computed[T]) Get() T {
	c.base.track()

	if !c.valid.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing. Still recomputes when stale.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
// Implements the Listener interface.
func (c *Computed[T]) MarkDirty() {
	// CAS keeps repeated invalidations idempotent.
	if c.valid.CompareAndSwap(true, false) {
		c.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this computed.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// addSource records a dependency edge for later unsubscription.
// Implements the sourceTracker interface.
func (c *Computed[T]) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

// WithEquals configures a custom equality function.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// recompute runs the computation under tracking and refreshes the cache.
func (c *Computed[T]) recompute() {
	if c.computing.Swap(true) {
		// Circular dependency; keep the stale value.
		return
	}
	defer c.computing.Store(false)

	// Drop stale dependency edges before re-establishing them.
	c.sourcesMu.Lock()
	for _, source := range c.sources {
		source.unsubscribe(c)
	}
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	var newValue T
	WithListener(c, func() {
		newValue = c.compute()
	})

	c.valueMu.Lock()
	c.value = newValue
	c.valueMu.Unlock()

	c.valid.Store(true)
}

func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

var _ sourceTracker = (*Computed[int])(nil)
