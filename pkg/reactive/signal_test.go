package reactive

import (
	"sync"
	"testing"
)

// testListener counts MarkDirty notifications.
type testListener struct {
	id    uint64
	mu    sync.Mutex
	dirty int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirty++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) dirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalEqualityGate(t *testing.T) {
	count := NewSignal(1)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	// Writing the current value must trigger zero re-runs.
	count.Set(1)
	if listener.dirtyCount() != 0 {
		t.Errorf("equal write should not notify, got %d notifications", listener.dirtyCount())
	}

	count.Set(2)
	if listener.dirtyCount() != 1 {
		t.Errorf("expected exactly 1 notification, got %d", listener.dirtyCount())
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	count := NewSignal(42)
	listener := newTestListener()

	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.dirtyCount() != 0 {
		t.Errorf("Peek should not subscribe, got %d notifications", listener.dirtyCount())
	}
}

func TestSignalMultipleSubscribers(t *testing.T) {
	count := NewSignal(0)
	listeners := []*testListener{newTestListener(), newTestListener(), newTestListener()}

	for _, l := range listeners {
		WithListener(l, func() {
			_ = count.Get()
		})
	}

	count.Set(1)
	for i, l := range listeners {
		if l.dirtyCount() != 1 {
			t.Errorf("listener %d: expected 1 notification, got %d", i, l.dirtyCount())
		}
	}
}

func TestSignalUntracked(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		Untracked(func() {
			_ = count.Get()
		})
	})

	count.Set(7)
	if listener.dirtyCount() != 0 {
		t.Errorf("Untracked read should not subscribe, got %d notifications", listener.dirtyCount())
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Treat all even numbers as equal to each other.
	sig := NewSignal(2).WithEquals(func(a, b int) bool {
		return a%2 == b%2
	})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = sig.Get()
	})

	sig.Set(4) // even -> even: no change per custom equality
	if listener.dirtyCount() != 0 {
		t.Errorf("custom equality should suppress notification, got %d", listener.dirtyCount())
	}

	sig.Set(3)
	if listener.dirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.dirtyCount())
	}
}

func TestSignalDeepEqualFallback(t *testing.T) {
	sig := NewSignal([]string{"a", "b"})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = sig.Get()
	})

	sig.Set([]string{"a", "b"})
	if listener.dirtyCount() != 0 {
		t.Errorf("deep-equal slice write should not notify, got %d", listener.dirtyCount())
	}

	sig.Set([]string{"a", "c"})
	if listener.dirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.dirtyCount())
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	count := NewSignal(0)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				count.Set(n*100 + j)
				_ = count.Get()
			}
		}(i)
	}
	wg.Wait()
}
