package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// logger receives dev-mode warnings and hook error reports.
// Swappable for tests and embedding applications.
var logger atomic.Pointer[slog.Logger]

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Scope is a node in the lifecycle tree. Each component instantiation and
// each reactive insertion boundary owns one.
//
// Ownership is asymmetric: a scope strongly owns its children and holds a
// non-owning back-reference to its parent, broken during disposal.
// Disposing a scope disposes all children first (post-order), runs cleanup
// and destroy callbacks, and only then clears its collections and marks
// itself destroyed.
type Scope struct {
	id uint64

	// parent is the back-reference up the tree, nil for a root scope.
	parent *Scope

	// children are owned child scopes.
	children   []*Scope
	childrenMu sync.Mutex

	// effects owned by this scope.
	effects   []*Effect
	effectsMu sync.Mutex

	// signals created under this scope; their subscriber sets are cleared
	// at disposal.
	signals   []*signalBase
	signalsMu sync.Mutex

	// provides holds values visible to this scope and its descendants.
	provides   map[any]any
	providesMu sync.RWMutex

	// cleanups run at disposal, in reverse registration order.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// mountHooks run when the scope is marked mounted.
	mountHooks   []func()
	mountHooksMu sync.Mutex

	// destroyHooks run at disposal, before cleanups.
	destroyHooks   []func()
	destroyHooksMu sync.Mutex

	// mounted is set once the owning component's DOM is connected.
	mounted atomic.Bool

	// disposing guards reentry; destroyed is set as the final step so the
	// provides map of a live scope is never observed partially cleared.
	disposing atomic.Bool
	destroyed atomic.Bool
}

// NewScope creates a scope under the given parent. A nil parent adopts the
// currently active scope; a scope created with no parent and no active
// scope is a root.
func NewScope(parent *Scope) *Scope {
	if parent == nil {
		parent = getCurrentScope()
	}

	s := &Scope{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(s)
	}

	return s
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the parent scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsDestroyed reports whether disposal has completed.
func (s *Scope) IsDestroyed() bool {
	return s.destroyed.Load()
}

// IsMounted reports whether the scope has been marked mounted.
func (s *Scope) IsMounted() bool {
	return s.mounted.Load()
}

func (s *Scope) addChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	s.children = append(s.children, child)
}

func (s *Scope) removeChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// registerEffect adds an effect disposed together with this scope.
func (s *Scope) registerEffect(e *Effect) {
	if s.disposing.Load() {
		return
	}

	s.effectsMu.Lock()
	defer s.effectsMu.Unlock()
	s.effects = append(s.effects, e)
}

// adoptSignal records a signal whose subscriber set is cleared when this
// scope is disposed.
func (s *Scope) adoptSignal(base *signalBase) {
	if s.disposing.Load() {
		return
	}

	s.signalsMu.Lock()
	defer s.signalsMu.Unlock()
	s.signals = append(s.signals, base)
}

// OnCleanup registers a cleanup callback. If the scope is already
// disposed, the callback runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.destroyed.Load() {
		runHook("cleanup", s.id, fn)
		return
	}

	s.cleanupsMu.Lock()
	defer s.cleanupsMu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// OnMount registers a mount hook. If the scope is already mounted (hooks
// added after mount, e.g. from async code), the hook runs immediately.
func (s *Scope) OnMount(fn func()) {
	if s.mounted.Load() {
		runHook("mount", s.id, fn)
		return
	}

	s.mountHooksMu.Lock()
	defer s.mountHooksMu.Unlock()
	s.mountHooks = append(s.mountHooks, fn)
}

// OnDestroy registers a destroy hook, run at disposal before cleanups.
func (s *Scope) OnDestroy(fn func()) {
	if s.destroyed.Load() {
		runHook("destroy", s.id, fn)
		return
	}

	s.destroyHooksMu.Lock()
	defer s.destroyHooksMu.Unlock()
	s.destroyHooks = append(s.destroyHooks, fn)
}

// MarkMounted marks the scope mounted and fires registered mount hooks,
// then recursively marks child scopes.
func (s *Scope) MarkMounted() {
	if s.disposing.Load() || s.mounted.Swap(true) {
		return
	}

	s.mountHooksMu.Lock()
	hooks := s.mountHooks
	s.mountHooks = nil
	s.mountHooksMu.Unlock()

	for _, fn := range hooks {
		runHook("mount", s.id, fn)
	}

	s.childrenMu.Lock()
	children := append([]*Scope(nil), s.children...)
	s.childrenMu.Unlock()

	for _, child := range children {
		child.MarkMounted()
	}
}

// SetProvided stores a provide/inject value on this scope.
func (s *Scope) SetProvided(key, value any) {
	s.providesMu.Lock()
	defer s.providesMu.Unlock()

	if s.provides == nil {
		s.provides = make(map[any]any)
	}
	s.provides[key] = value
}

// Lookup walks from this scope up through parent links and returns the
// first provided value for key. The walk terminates at a nil parent.
func (s *Scope) Lookup(key any) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.destroyed.Load() {
			// A destroyed scope's provides can no longer be queried.
			continue
		}
		cur.providesMu.RLock()
		val, ok := cur.provides[key]
		cur.providesMu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// Dispose disposes this scope: children first (post-order), then effects,
// destroy hooks, and cleanups in reverse registration order. Each callback
// is isolated so one panicking hook does not prevent the others from
// running. Idempotent: a second call is a no-op.
//
// The provides map and children set are cleared only as the final step, so
// Lookup never observes a partially cleared live scope.
func (s *Scope) Dispose() {
	if s.disposing.Swap(true) {
		return
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	// Children fully dispose before this scope is marked destroyed.
	s.childrenMu.Lock()
	children := append([]*Scope(nil), s.children...)
	s.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	s.effectsMu.Lock()
	effects := s.effects
	s.effects = nil
	s.effectsMu.Unlock()

	for _, e := range effects {
		e.Dispose()
	}

	s.destroyHooksMu.Lock()
	destroyHooks := s.destroyHooks
	s.destroyHooks = nil
	s.destroyHooksMu.Unlock()

	for _, fn := range destroyHooks {
		runHook("destroy", s.id, fn)
	}

	s.cleanupsMu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		runHook("cleanup", s.id, cleanups[i])
	}

	s.signalsMu.Lock()
	signals := s.signals
	s.signals = nil
	s.signalsMu.Unlock()

	for _, base := range signals {
		base.clearSubscribers()
	}

	// Final step: clear collections, break the parent link, mark destroyed.
	s.providesMu.Lock()
	s.provides = nil
	s.providesMu.Unlock()

	s.childrenMu.Lock()
	s.children = nil
	s.childrenMu.Unlock()

	s.mountHooksMu.Lock()
	s.mountHooks = nil
	s.mountHooksMu.Unlock()

	s.parent = nil
	s.destroyed.Store(true)
}

// RunWithScope pushes scope as the goroutine's active scope, runs fn, and
// restores the previous active scope even if fn panics. Returns fn's
// result.
func RunWithScope[T any](scope *Scope, fn func() T) T {
	old := setCurrentScope(scope)
	defer setCurrentScope(old)
	return fn()
}

// WithScope runs fn with scope active. Like RunWithScope without a result.
func WithScope(scope *Scope, fn func()) {
	old := setCurrentScope(scope)
	defer setCurrentScope(old)
	fn()
}

// ActiveScope returns the goroutine's active scope, or nil.
func ActiveScope() *Scope {
	return getCurrentScope()
}

// runHook runs a lifecycle callback, recovering and logging a panic so one
// failing hook does not block its siblings.
func runHook(kind string, scopeID uint64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log().Error("scope hook panicked",
				"hook", kind,
				"scope", scopeID,
				"panic", r,
			)
		}
	}()
	fn()
}
