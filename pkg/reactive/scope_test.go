package reactive

import (
	"sync"
	"testing"
)

func TestScopeBasic(t *testing.T) {
	scope := NewScope(nil)

	if scope.ID() == 0 {
		t.Error("scope should have non-zero ID")
	}
	if scope.Parent() != nil {
		t.Error("root scope should have nil parent")
	}
	if scope.IsDestroyed() {
		t.Error("new scope should not be destroyed")
	}
	if scope.IsMounted() {
		t.Error("new scope should not be mounted")
	}
}

func TestScopeAdoptsActiveParent(t *testing.T) {
	parent := NewScope(nil)

	var child *Scope
	WithScope(parent, func() {
		child = NewScope(nil)
	})

	if child.Parent() != parent {
		t.Error("scope created with nil parent should adopt the active scope")
	}
}

func TestRunWithScopeRestores(t *testing.T) {
	outer := NewScope(nil)
	inner := NewScope(nil)

	WithScope(outer, func() {
		got := RunWithScope(inner, func() *Scope {
			return ActiveScope()
		})
		if got != inner {
			t.Error("RunWithScope should make the scope active")
		}
		if ActiveScope() != outer {
			t.Error("RunWithScope should restore the previous active scope")
		}
	})
}

func TestRunWithScopeRestoresOnPanic(t *testing.T) {
	outer := NewScope(nil)
	inner := NewScope(nil)

	WithScope(outer, func() {
		func() {
			defer func() { recover() }()
			WithScope(inner, func() {
				panic("render failure")
			})
		}()

		if ActiveScope() != outer {
			t.Error("active scope must be restored after a panic")
		}
	})
}

func TestScopeDisposeIdempotent(t *testing.T) {
	scope := NewScope(nil)
	cleanups := 0
	scope.OnCleanup(func() { cleanups++ })

	scope.Dispose()
	scope.Dispose()

	if cleanups != 1 {
		t.Errorf("cleanup callbacks must run exactly once, ran %d times", cleanups)
	}
	if !scope.IsDestroyed() {
		t.Error("scope should be destroyed")
	}
}

func TestScopeDisposeOrder(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)
	grandchild := NewScope(child)

	var order []string
	var mu sync.Mutex
	record := func(name string) func() {
		return func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	root.OnCleanup(record("root"))
	child.OnCleanup(record("child"))
	grandchild.OnCleanup(record("grandchild"))

	root.Dispose()

	want := []string{"grandchild", "child", "root"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("children must dispose before parents: expected %v, got %v", want, order)
		}
	}

	if !grandchild.IsDestroyed() || !child.IsDestroyed() {
		t.Error("descendants should be destroyed")
	}
}

func TestScopeDisposePanicIsolation(t *testing.T) {
	scope := NewScope(nil)
	ran := false

	scope.OnCleanup(func() { ran = true })
	scope.OnCleanup(func() { panic("bad cleanup") })

	scope.Dispose()

	if !ran {
		t.Error("a panicking cleanup must not prevent sibling cleanups")
	}
}

func TestScopeDisposesEffects(t *testing.T) {
	scope := NewScope(nil)
	count := NewSignal(0)
	runs := 0

	WithScope(scope, func() {
		NewEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	scope.Dispose()
	count.Set(1)

	if runs != 1 {
		t.Errorf("effects must stop after scope disposal, got %d runs", runs)
	}
}

func TestScopeClearsSignalSubscribers(t *testing.T) {
	scope := NewScope(nil)
	listener := newTestListener()

	var sig *Signal[int]
	WithScope(scope, func() {
		sig = NewSignal(0)
	})

	WithListener(listener, func() {
		_ = sig.Get()
	})

	scope.Dispose()
	sig.Set(1)

	if listener.dirtyCount() != 0 {
		t.Errorf("disposed scope's signals must not notify, got %d", listener.dirtyCount())
	}
}

func TestOnMountImmediateWhenMounted(t *testing.T) {
	scope := NewScope(nil)
	scope.MarkMounted()

	fired := false
	scope.OnMount(func() { fired = true })

	if !fired {
		t.Error("OnMount after mount should fire immediately")
	}
}

func TestMarkMountedFiresHooksOnce(t *testing.T) {
	scope := NewScope(nil)
	fires := 0
	scope.OnMount(func() { fires++ })

	scope.MarkMounted()
	scope.MarkMounted()

	if fires != 1 {
		t.Errorf("mount hooks should fire once, fired %d times", fires)
	}
}

func TestMarkMountedRecursesIntoChildren(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)

	fired := false
	child.OnMount(func() { fired = true })

	root.MarkMounted()

	if !fired {
		t.Error("mounting a scope should mount its children")
	}
	if !child.IsMounted() {
		t.Error("child should be marked mounted")
	}
}

func TestProvideInjectShadowing(t *testing.T) {
	parent := NewScope(nil)
	child := NewScope(parent)
	grandchild := NewScope(child)

	WithScope(parent, func() {
		Provide("theme", "root-value")
	})
	WithScope(child, func() {
		Provide("theme", "child-value")
	})

	WithScope(child, func() {
		if got := Inject("theme"); got != "child-value" {
			t.Errorf("child should see its own value, got %v", got)
		}
	})

	// A grandchild providing nothing resolves the nearest ancestor.
	WithScope(grandchild, func() {
		if got := Inject("theme"); got != "child-value" {
			t.Errorf("grandchild should see nearest ancestor value, got %v", got)
		}
	})

	WithScope(parent, func() {
		if got := Inject("theme"); got != "root-value" {
			t.Errorf("parent should see root value, got %v", got)
		}
	})
}

func TestInjectDefault(t *testing.T) {
	scope := NewScope(nil)

	WithScope(scope, func() {
		if got := Inject("missing", "fallback"); got != "fallback" {
			t.Errorf("expected fallback, got %v", got)
		}
		if got := Inject("missing"); got != nil {
			t.Errorf("expected nil without default, got %v", got)
		}
	})
}

func TestInjectOutsideScope(t *testing.T) {
	// Degrades gracefully: returns the default, does not panic.
	if got := Inject("anything", 42); got != 42 {
		t.Errorf("expected default outside scope, got %v", got)
	}
	Provide("anything", 1) // no-op with warning
}

func TestInjectAfterDispose(t *testing.T) {
	parent := NewScope(nil)
	child := NewScope(parent)

	WithScope(parent, func() {
		Provide("key", "value")
	})
	parent.Dispose()

	// A destroyed scope's provides can no longer be queried.
	if _, ok := child.Lookup("key"); ok {
		t.Error("destroyed scope should not answer lookups")
	}
}

func TestContextKeyUniqueness(t *testing.T) {
	k1 := NewContextKey("db")
	k2 := NewContextKey("db")

	scope := NewScope(nil)
	WithScope(scope, func() {
		Provide(k1, "first")
		Provide(k2, "second")

		if got := Inject(k1); got != "first" {
			t.Errorf("expected first, got %v", got)
		}
		if got := Inject(k2); got != "second" {
			t.Errorf("expected second, got %v", got)
		}
	})
}

func TestTypedContext(t *testing.T) {
	theme := CreateContext("light")

	root := NewScope(nil)
	child := NewScope(root)

	WithScope(root, func() {
		theme.Provide("dark")
	})

	WithScope(child, func() {
		if got := theme.Use(); got != "dark" {
			t.Errorf("expected dark, got %s", got)
		}
	})

	// Outside any providing tree, the default applies.
	orphan := NewScope(nil)
	WithScope(orphan, func() {
		if got := theme.Use(); got != "light" {
			t.Errorf("expected default light, got %s", got)
		}
	})
}

func TestOnDestroyHook(t *testing.T) {
	scope := NewScope(nil)
	destroyed := false

	WithScope(scope, func() {
		OnDestroy(func() { destroyed = true })
	})

	scope.Dispose()
	if !destroyed {
		t.Error("destroy hook should fire at disposal")
	}
}

func TestOnCleanupAfterDisposeRunsImmediately(t *testing.T) {
	scope := NewScope(nil)
	scope.Dispose()

	ran := false
	scope.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after disposal should run immediately")
	}
}
