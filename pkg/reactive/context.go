package reactive

// contextToken is an opaque unique key for provide/inject. The pointer
// identity of the token is the key; the name is for diagnostics only.
type contextToken struct {
	name string
}

// NewContextKey returns an opaque unique injection key. Two keys created
// with the same name are distinct.
func NewContextKey(name string) any {
	return &contextToken{name: name}
}

// Provide stores a value into the active scope's provides map, visible to
// the scope and its descendants via Inject. Keys may be strings, numbers,
// or opaque tokens from NewContextKey.
//
// With no active scope this is a no-op that logs a dev-mode warning.
func Provide(key, value any) {
	scope := getCurrentScope()
	if scope == nil {
		log().Warn("Provide called outside any active scope", "key", key)
		return
	}
	scope.SetProvided(key, value)
}

// Inject walks from the active scope up through parent links and returns
// the first provided value for key. When no scope in the ancestry provides
// the key, the first default (or nil) is returned. The walk terminates at
// a nil parent without error.
func Inject(key any, def ...any) any {
	var fallback any
	if len(def) > 0 {
		fallback = def[0]
	}

	scope := getCurrentScope()
	if scope == nil {
		log().Warn("Inject called outside any active scope", "key", key)
		return fallback
	}

	if val, ok := scope.Lookup(key); ok {
		return val
	}
	return fallback
}

// OnCleanup registers a cleanup callback on the active scope.
// No-op with a warning when no scope is active.
func OnCleanup(fn func()) {
	scope := getCurrentScope()
	if scope == nil {
		log().Warn("OnCleanup called outside any active scope")
		return
	}
	scope.OnCleanup(fn)
}

// OnMount registers a mount hook on the active scope. Fires immediately if
// the scope is already mounted.
func OnMount(fn func()) {
	scope := getCurrentScope()
	if scope == nil {
		log().Warn("OnMount called outside any active scope")
		return
	}
	scope.OnMount(fn)
}

// OnDestroy registers a destroy hook on the active scope.
func OnDestroy(fn func()) {
	scope := getCurrentScope()
	if scope == nil {
		log().Warn("OnDestroy called outside any active scope")
		return
	}
	scope.OnDestroy(fn)
}

// Context provides typed dependency injection through the scope tree.
// Create one with CreateContext, provide values with Provide, and consume
// values with Use.
//
// Example:
//
//	var Theme = reactive.CreateContext("light")
//
//	// in a provider component:
//	Theme.Provide("dark")
//
//	// in any descendant:
//	theme := Theme.Use()
type Context[T any] struct {
	key          any
	defaultValue T
}

// CreateContext creates a typed context with the given default value,
// returned by Use when no ancestor provides one.
func CreateContext[T any](defaultValue T) *Context[T] {
	c := &Context[T]{defaultValue: defaultValue}
	// The context's own identity is the injection key.
	c.key = c
	return c
}

// Provide stores value on the active scope for this context.
func (c *Context[T]) Provide(value T) {
	Provide(c.key, value)
}

// ProvideOn stores value on an explicit scope.
func (c *Context[T]) ProvideOn(scope *Scope, value T) {
	if scope == nil {
		return
	}
	scope.SetProvided(c.key, value)
}

// Use retrieves the context value from the nearest providing ancestor of
// the active scope, falling back to the default.
func (c *Context[T]) Use() T {
	scope := getCurrentScope()
	if scope == nil {
		return c.defaultValue
	}
	if val, ok := scope.Lookup(c.key); ok {
		if typed, ok := val.(T); ok {
			return typed
		}
	}
	return c.defaultValue
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
