package reactive

import "testing"

func TestStoreKeyGranularity(t *testing.T) {
	s := NewStore(map[string]any{"name": "Ada", "age": 36})

	nameListener := newTestListener()
	ageListener := newTestListener()

	WithListener(nameListener, func() {
		_ = s.Get("name")
	})
	WithListener(ageListener, func() {
		_ = s.Get("age")
	})

	s.Set("name", "Grace")

	if nameListener.dirtyCount() != 1 {
		t.Errorf("name reader should be notified once, got %d", nameListener.dirtyCount())
	}
	if ageListener.dirtyCount() != 0 {
		t.Errorf("age reader should not be notified, got %d", ageListener.dirtyCount())
	}
}

func TestStoreEqualityGate(t *testing.T) {
	s := NewStore(map[string]any{"count": 1})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = s.Get("count")
	})

	s.Set("count", 1)
	if listener.dirtyCount() != 0 {
		t.Errorf("equal write should not notify, got %d", listener.dirtyCount())
	}
}

func TestStoreShapeTracking(t *testing.T) {
	s := NewStore(map[string]any{"a": 1})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = s.Len()
	})

	// Updating an existing key does not change the shape.
	s.Set("a", 2)
	if listener.dirtyCount() != 0 {
		t.Errorf("value write should not notify shape readers, got %d", listener.dirtyCount())
	}

	s.Set("b", 3)
	if listener.dirtyCount() != 1 {
		t.Errorf("key addition should notify shape readers, got %d", listener.dirtyCount())
	}

	s.Delete("b")
	if listener.dirtyCount() != 2 {
		t.Errorf("key removal should notify shape readers, got %d", listener.dirtyCount())
	}
}

func TestStoreNestedWrapperIdentity(t *testing.T) {
	s := NewStore(map[string]any{
		"user": map[string]any{"name": "Ada"},
	})

	first := s.Get("user")
	second := s.Get("user")

	if first != second {
		t.Error("repeated reads must return the same nested wrapper")
	}

	nested, ok := first.(*Store)
	if !ok {
		t.Fatalf("nested map should wrap as *Store, got %T", first)
	}
	if nested.Get("name") != "Ada" {
		t.Errorf("expected Ada, got %v", nested.Get("name"))
	}
}

func TestStoreNestedNotification(t *testing.T) {
	s := NewStore(map[string]any{
		"user": map[string]any{"name": "Ada"},
	})

	nested := s.Get("user").(*Store)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = nested.Get("name")
	})

	// Writing through a re-read wrapper hits the same subscribers.
	s.Get("user").(*Store).Set("name", "Grace")

	if listener.dirtyCount() != 1 {
		t.Errorf("nested write should notify, got %d", listener.dirtyCount())
	}
}

func TestStoreListWrapping(t *testing.T) {
	s := NewStore(map[string]any{
		"todos": []any{"one", "two"},
	})

	list, ok := s.Get("todos").(*List)
	if !ok {
		t.Fatalf("nested slice should wrap as *List, got %T", s.Get("todos"))
	}

	listener := newTestListener()
	WithListener(listener, func() {
		_ = list.Len()
	})

	list.Append("three")
	if listener.dirtyCount() != 1 {
		t.Errorf("append should notify, got %d", listener.dirtyCount())
	}
	if list.Len() != 3 {
		t.Errorf("expected 3 items, got %d", list.Len())
	}

	list.Remove(0)
	snap := list.Snapshot()
	if len(snap) != 2 || snap[0] != "two" {
		t.Errorf("expected [two three], got %v", snap)
	}
}

func TestListSetEqualityGate(t *testing.T) {
	l := NewStore(map[string]any{"xs": []any{1, 2}}).Get("xs").(*List)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = l.Get(0)
	})

	l.Set(0, 1)
	if listener.dirtyCount() != 0 {
		t.Errorf("equal element write should not notify, got %d", listener.dirtyCount())
	}

	l.Set(0, 9)
	if listener.dirtyCount() != 1 {
		t.Errorf("element write should notify, got %d", listener.dirtyCount())
	}
}

func TestStoreHas(t *testing.T) {
	s := NewStore(map[string]any{"a": 1})

	if !s.Has("a") {
		t.Error("expected Has(a) true")
	}
	if s.Has("b") {
		t.Error("expected Has(b) false")
	}
}
