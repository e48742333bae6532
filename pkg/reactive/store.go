package reactive

import (
	"reflect"
	"sync"
)

// Store is a deep reactive wrapper around a plain map. It stands in for a
// dynamic proxy with a fixed capability set: Get, Set, Has, Keys, Len,
// Delete. Key reads register dependencies per key; writes notify only that
// key's subscribers. Has, Keys, and Len track the map's shape, notified
// when keys are added or removed.
//
// Nested maps and slices are wrapped lazily on first access and cached in
// an identity-keyed side table, so repeated reads of the same nested value
// return the same wrapper.
type Store struct {
	mu     sync.RWMutex
	values map[string]any

	// keys holds one subscriber list per accessed key.
	keys map[string]*signalBase

	// shape is notified when keys are added or removed.
	shape signalBase

	// cache is the identity-keyed side table shared by the whole wrapper
	// tree, owned by the root store.
	cache *wrapperCache
}

// List is the reactive wrapper for slices. Element access and length share
// one subscriber list: any mutation notifies all readers.
type List struct {
	mu    sync.RWMutex
	items []any

	base  signalBase
	cache *wrapperCache
}

// wrapperCache maps the identity of an underlying map or slice to its
// wrapper, preserving reference equality across repeated reads. Entries
// live as long as the root store.
type wrapperCache struct {
	mu       sync.Mutex
	wrappers map[uintptr]any
}

func newWrapperCache() *wrapperCache {
	return &wrapperCache{wrappers: make(map[uintptr]any)}
}

// wrap returns the reactive wrapper for v, creating and caching one when v
// is a plain map or slice. Scalars and already-wrapped values pass
// through.
func (c *wrapperCache) wrap(v any) any {
	switch val := v.(type) {
	case map[string]any:
		ptr := reflect.ValueOf(val).Pointer()
		c.mu.Lock()
		defer c.mu.Unlock()
		if w, ok := c.wrappers[ptr]; ok {
			return w
		}
		w := &Store{
			values: val,
			keys:   make(map[string]*signalBase),
			cache:  c,
		}
		w.shape.id = nextID()
		c.wrappers[ptr] = w
		return w
	case []any:
		if len(val) == 0 {
			// Empty slices have no backing array identity; wrap fresh.
			w := &List{items: val, cache: c}
			w.base.id = nextID()
			return w
		}
		ptr := reflect.ValueOf(val).Pointer()
		c.mu.Lock()
		defer c.mu.Unlock()
		if w, ok := c.wrappers[ptr]; ok {
			return w
		}
		w := &List{items: val, cache: c}
		w.base.id = nextID()
		c.wrappers[ptr] = w
		return w
	default:
		return v
	}
}

// NewStore wraps src in a reactive store. The map is used as backing
// storage; callers must not mutate it directly afterwards.
func NewStore(src map[string]any) *Store {
	if src == nil {
		src = make(map[string]any)
	}
	s := &Store{
		values: src,
		keys:   make(map[string]*signalBase),
		cache:  newWrapperCache(),
	}
	s.shape.id = nextID()
	if scope := getCurrentScope(); scope != nil {
		scope.adoptSignal(&s.shape)
	}
	return s
}

// keyBase returns the subscriber list for key, creating it if needed.
func (s *Store) keyBase(key string) *signalBase {
	s.mu.Lock()
	defer s.mu.Unlock()
	base, ok := s.keys[key]
	if !ok {
		base = &signalBase{id: nextID()}
		s.keys[key] = base
	}
	return base
}

// Get returns the value for key, subscribing the current listener to that
// key. Nested maps and slices come back wrapped.
func (s *Store) Get(key string) any {
	s.keyBase(key).track()

	s.mu.RLock()
	val := s.values[key]
	s.mu.RUnlock()

	return s.cache.wrap(val)
}

// Set writes the value for key and notifies that key's subscribers when
// the value changed. Adding a new key also notifies shape subscribers.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	old, existed := s.values[key]
	changed := !existed || !defaultEquals(old, value)
	if changed {
		s.values[key] = value
	}
	base := s.keys[key]
	s.mu.Unlock()

	if !changed {
		return
	}
	if base != nil {
		base.notifySubscribers()
	}
	if !existed {
		s.shape.notifySubscribers()
	}
}

// Has reports whether key exists, tracking the store's shape.
func (s *Store) Has(key string) bool {
	s.shape.track()

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Keys returns the current key set, tracking the store's shape.
// Order is unspecified.
func (s *Store) Keys() []string {
	s.shape.track()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	return out
}

// Len returns the number of keys, tracking the store's shape.
func (s *Store) Len() int {
	s.shape.track()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Delete removes key, notifying the key's subscribers and the shape.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	_, existed := s.values[key]
	if existed {
		delete(s.values, key)
	}
	base := s.keys[key]
	s.mu.Unlock()

	if !existed {
		return
	}
	if base != nil {
		base.notifySubscribers()
	}
	s.shape.notifySubscribers()
}

// Peek reads a key without tracking.
func (s *Store) Peek(key string) any {
	s.mu.RLock()
	val := s.values[key]
	s.mu.RUnlock()
	return s.cache.wrap(val)
}

// Get returns the element at index i, subscribing the current listener.
// Out-of-range reads return nil.
func (l *List) Get(i int) any {
	l.base.track()

	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.cache.wrap(l.items[i])
}

// Set writes the element at index i and notifies subscribers when it
// changed. Out-of-range writes are ignored.
func (l *List) Set(i int, value any) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return
	}
	changed := !defaultEquals(l.items[i], value)
	if changed {
		l.items[i] = value
	}
	l.mu.Unlock()

	if changed {
		l.base.notifySubscribers()
	}
}

// Len returns the element count, subscribing the current listener.
func (l *List) Len() int {
	l.base.track()

	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Append adds values to the end of the list and notifies subscribers.
func (l *List) Append(values ...any) {
	if len(values) == 0 {
		return
	}
	l.mu.Lock()
	l.items = append(l.items, values...)
	l.mu.Unlock()

	l.base.notifySubscribers()
}

// Remove deletes the element at index i and notifies subscribers.
func (l *List) Remove(i int) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.mu.Unlock()

	l.base.notifySubscribers()
}

// Snapshot returns a copy of the underlying slice without tracking.
func (l *List) Snapshot() []any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]any(nil), l.items...)
}
