package runtime

import (
	"testing"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

func stringList(items ...string) *reactive.Signal[[]string] {
	return reactive.NewSignal(items)
}

func mountFor(src *reactive.Signal[[]string], fallback func() []dom.Node) *dom.Element {
	ul := dom.NewElement("ul")
	InsertChildren(ul, nil, For(
		func() []string { return src.Get() },
		func(item string, _ int) any { return item },
		func(item string, _ int) dom.Node {
			li := dom.NewElement("li")
			li.AppendChild(dom.NewText(item))
			return li
		},
		fallback,
	))
	return ul
}

func TestForRendersItemsInOrder(t *testing.T) {
	src := stringList("a", "b", "c")
	ul := mountFor(src, nil)

	items := listItems(ul)
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	for i, want := range []string{"a", "b", "c"} {
		if items[i].TextContent() != want {
			t.Fatalf("item %d = %q, want %q", i, items[i].TextContent(), want)
		}
	}
}

func TestForEmptyFallback(t *testing.T) {
	src := stringList()
	ul := mountFor(src, func() []dom.Node {
		empty := dom.NewElement("p")
		empty.SetAttribute("class", "empty")
		empty.AppendChild(dom.NewText("nothing here"))
		return []dom.Node{empty}
	})

	if findByClass(ul, "empty") == nil {
		t.Fatalf("fallback not rendered for empty list")
	}

	src.Set([]string{"x"})
	if findByClass(ul, "empty") != nil {
		t.Fatalf("fallback still present after items arrived")
	}
	if len(listItems(ul)) != 1 {
		t.Fatalf("items not rendered after fallback")
	}

	src.Set(nil)
	if findByClass(ul, "empty") == nil {
		t.Fatalf("fallback did not return when list emptied")
	}
}

func TestForFallbackScopeDisposedOnSwitch(t *testing.T) {
	src := stringList()
	destroyed := 0

	ul := dom.NewElement("ul")
	InsertChildren(ul, nil, For(
		func() []string { return src.Get() },
		func(item string, _ int) any { return item },
		func(item string, _ int) dom.Node { return dom.NewElement("li") },
		func() []dom.Node {
			reactive.OnDestroy(func() { destroyed++ })
			return []dom.Node{dom.NewText("empty")}
		},
	))

	src.Set([]string{"x"})
	if destroyed != 1 {
		t.Fatalf("fallback scope disposed %d times, want 1", destroyed)
	}
}

func TestForReorderKeepsNodes(t *testing.T) {
	src := stringList("a", "b", "c")
	ul := mountFor(src, nil)
	before := listItems(ul)

	src.Set([]string{"c", "a", "b"})
	after := listItems(ul)

	if after[0] != before[2] || after[1] != before[0] || after[2] != before[1] {
		t.Fatalf("reorder recreated nodes instead of moving them")
	}
}
