package runtime

import (
	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

// Async is deferred work that resolves to nodes, run off the scheduler.
type Async func() ([]dom.Node, error)

var boundaryKey = reactive.NewContextKey("suspense-boundary")

// Boundary tracks outstanding async work for one Suspense region. While
// the pending count is above zero the fallback view is shown. Nested
// code obtains the enclosing boundary with CurrentBoundary and reports
// its own work through Increment/Decrement or Register.
type Boundary struct {
	scope   *reactive.Scope
	sched   *reactive.Scheduler
	pending *reactive.Signal[int]
}

// CurrentBoundary returns the nearest enclosing Suspense boundary, or
// nil outside one.
func CurrentBoundary() *Boundary {
	b, _ := reactive.Inject(boundaryKey).(*Boundary)
	return b
}

// Pending reports whether any registered work is outstanding. Reads
// track reactively.
func (b *Boundary) Pending() bool {
	return b.pending.Get() > 0
}

// Increment adds one unit of outstanding work.
func (b *Boundary) Increment() {
	b.pending.Update(func(n int) int { return n + 1 })
}

// Decrement settles one unit of outstanding work.
func (b *Boundary) Decrement() {
	b.pending.Update(func(n int) int { return n - 1 })
}

// Register runs work on the boundary's scheduler and settles the
// boundary when it returns. A failure is logged and the boundary stays
// pending, keeping the fallback visible. Work that completes after the
// owning scope was disposed is dropped without touching the tree.
func (b *Boundary) Register(work func() error) {
	b.Increment()
	b.sched.Enqueue(reactive.NewJob(func() {
		err := work()
		if b.scope.IsDestroyed() {
			return
		}
		if err != nil {
			log().Warn("suspense work failed, keeping fallback",
				"error", err)
			return
		}
		b.Decrement()
	}))
}

// Suspense renders fallback until resolve completes, then swaps in the
// resolved content. The boundary provides itself to descendant scopes.
// Waiting on the scheduler's NextTick observes the settled state.
func Suspense(sched *reactive.Scheduler, fallback func() []dom.Node, resolve Async) []dom.Node {
	b := &Boundary{
		scope:   reactive.NewScope(nil),
		sched:   sched,
		pending: reactive.NewSignal(0),
	}
	b.scope.SetProvided(boundaryKey, b)

	content := reactive.NewSignal[[]dom.Node](nil)
	b.Register(func() error {
		nodes, err := resolve()
		if err != nil {
			return err
		}
		content.Set(nodes)
		return nil
	})

	holder := dom.NewElement("template")
	reactive.WithScope(b.scope, func() {
		InsertChildren(holder, nil, func() any {
			if b.Pending() {
				if fallback == nil {
					return nil
				}
				return fallback()
			}
			return content.Get()
		})
	})
	return holder.ChildNodes()
}
