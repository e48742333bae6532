package runtime

import (
	"strconv"
	"testing"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

func keyedDivs(parent *dom.Element, keys ...string) map[string]*Entry {
	entries := make(map[string]*Entry, len(keys))
	var list []*Entry
	for _, k := range keys {
		el := dom.NewElement("div")
		el.SetAttribute("data-key", k)
		e := NodeEntry(k, el)
		entries[k] = e
		list = append(list, e)
	}
	PatchNodes(parent, nil, list, nil)
	return entries
}

func entriesFor(byKey map[string]*Entry, keys ...string) []*Entry {
	out := make([]*Entry, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}

func assertChildOrder(t *testing.T, parent *dom.Element, want ...dom.Node) {
	t.Helper()
	if parent.ChildCount() != len(want) {
		t.Fatalf("child count = %d, want %d", parent.ChildCount(), len(want))
	}
	for i, n := range want {
		if parent.ChildAt(i) != n {
			t.Fatalf("child %d is not the expected node", i)
		}
	}
}

func TestPatchReorderPreservesIdentity(t *testing.T) {
	parent := dom.NewElement("div")
	byKey := keyedDivs(parent, "A", "B", "C")
	divA := byKey["A"].Node
	divB := byKey["B"].Node
	divC := byKey["C"].Node

	old := entriesFor(byKey, "A", "B", "C")
	PatchNodes(parent, old, entriesFor(byKey, "C", "A", "B"), nil)

	assertChildOrder(t, parent, divC, divA, divB)
}

func TestPatchRemovalPreservesSiblings(t *testing.T) {
	parent := dom.NewElement("div")
	byKey := keyedDivs(parent, "A", "B", "C", "D")

	old := entriesFor(byKey, "A", "B", "C", "D")
	PatchNodes(parent, old, entriesFor(byKey, "A", "C", "D"), nil)

	assertChildOrder(t, parent, byKey["A"].Node, byKey["C"].Node, byKey["D"].Node)
	if byKey["B"].Node.Parent() != nil {
		t.Fatalf("removed node still parented")
	}
}

func TestPatchAppendPrepend(t *testing.T) {
	parent := dom.NewElement("div")
	byKey := keyedDivs(parent, "B")

	pre := dom.NewElement("div")
	post := dom.NewElement("div")
	newList := []*Entry{NodeEntry("A", pre), byKey["B"], NodeEntry("C", post)}

	PatchNodes(parent, entriesFor(byKey, "B"), newList, nil)
	assertChildOrder(t, parent, pre, byKey["B"].Node, post)
}

func TestPatchSwap(t *testing.T) {
	parent := dom.NewElement("div")
	byKey := keyedDivs(parent, "A", "B")

	PatchNodes(parent, entriesFor(byKey, "A", "B"), entriesFor(byKey, "B", "A"), nil)
	assertChildOrder(t, parent, byKey["B"].Node, byKey["A"].Node)
}

func TestPatchReverse(t *testing.T) {
	parent := dom.NewElement("div")
	byKey := keyedDivs(parent, "A", "B", "C", "D", "E")

	PatchNodes(parent,
		entriesFor(byKey, "A", "B", "C", "D", "E"),
		entriesFor(byKey, "E", "D", "C", "B", "A"), nil)

	assertChildOrder(t, parent,
		byKey["E"].Node, byKey["D"].Node, byKey["C"].Node,
		byKey["B"].Node, byKey["A"].Node)
}

func TestPatchRespectsAnchor(t *testing.T) {
	parent := dom.NewElement("div")
	trailing := dom.NewComment("end")
	parent.AppendChild(trailing)

	el := dom.NewElement("span")
	PatchNodes(parent, nil, []*Entry{NodeEntry("x", el)}, trailing)

	assertChildOrder(t, parent, el, trailing)
}

func TestPatchTextMerge(t *testing.T) {
	parent := dom.NewElement("div")
	oldText := dom.NewText("1")
	old := PatchNodes(parent, nil, []*Entry{NodeEntry(nil, oldText)}, nil)

	result := PatchNodes(parent, old, []*Entry{NodeEntry(nil, dom.NewText("2"))}, nil)

	if result[0].Node != dom.Node(oldText) {
		t.Fatalf("text node was replaced instead of merged")
	}
	if oldText.Data != "2" {
		t.Fatalf("text data = %q, want 2", oldText.Data)
	}
}

func TestPatchElementSyncsAttributes(t *testing.T) {
	parent := dom.NewElement("div")
	oldEl := dom.NewElement("span")
	oldEl.SetAttribute("class", "a")
	oldEl.SetAttribute("id", "x")
	old := PatchNodes(parent, nil, []*Entry{NodeEntry(nil, oldEl)}, nil)

	newEl := dom.NewElement("span")
	newEl.SetAttribute("class", "b")
	result := PatchNodes(parent, old, []*Entry{NodeEntry(nil, newEl)}, nil)

	if result[0].Node != dom.Node(oldEl) {
		t.Fatalf("same-tag element was not reused")
	}
	if v, _ := oldEl.GetAttribute("class"); v != "b" {
		t.Fatalf("class = %q, want b", v)
	}
	if oldEl.HasAttribute("id") {
		t.Fatalf("stale attribute survived")
	}
}

func TestPatchComponentUpdateInPlace(t *testing.T) {
	item := NewComponent("item", func(props *reactive.Store) []dom.Node {
		el := dom.NewElement("li")
		el.AppendChild(dom.NewText(props.Get("label").(string)))
		return []dom.Node{el}
	})

	parent := dom.NewElement("ul")
	old := PatchNodes(parent, nil, []*Entry{
		ComponentEntry("a", item, Props{"label": "first"}),
	}, nil)

	inst := old[0].Inst
	if inst == nil {
		t.Fatalf("component entry was not instantiated")
	}

	result := PatchNodes(parent, old, []*Entry{
		ComponentEntry("a", item, Props{"label": "second"}),
	}, nil)

	if result[0].Inst != inst {
		t.Fatalf("matched component was recreated")
	}
	if got := parent.TextContent(); got != "second" {
		t.Fatalf("TextContent = %q, want second", got)
	}
}

func TestPatchUnmountRunsDestroyLifecycle(t *testing.T) {
	destroyed := false
	comp := NewComponent("doomed", func(*reactive.Store) []dom.Node {
		reactive.OnDestroy(func() { destroyed = true })
		return []dom.Node{dom.NewElement("div")}
	})

	parent := dom.NewElement("div")
	old := PatchNodes(parent, nil, []*Entry{ComponentEntry("k", comp, nil)}, nil)

	PatchNodes(parent, old, nil, nil)
	if !destroyed {
		t.Fatalf("destroy hook did not run on unmount")
	}
	if parent.ChildCount() != 0 {
		t.Fatalf("unmounted component left nodes behind")
	}
}

func TestComponentStateSurvivesReorder(t *testing.T) {
	// Each instance owns a counter signal; reorder must not reset it.
	counter := NewComponent("stateful", func(props *reactive.Store) []dom.Node {
		n := reactive.NewSignal(0)
		el := dom.NewElement("div")
		el.AddEventListener("click", func(*dom.Event) {
			n.Update(func(v int) int { return v + 1 })
		})
		InsertChildren(el, nil, func() any {
			return strconv.Itoa(n.Get())
		})
		return []dom.Node{el}
	})

	parent := dom.NewElement("div")
	old := PatchNodes(parent, nil, []*Entry{
		ComponentEntry("a", counter, nil),
		ComponentEntry("b", counter, nil),
	}, nil)

	first := old[0].Inst.Roots()[0].(*dom.Element)
	first.Dispatch("click")
	first.Dispatch("click")

	result := PatchNodes(parent, old, []*Entry{
		ComponentEntry("b", counter, nil),
		ComponentEntry("a", counter, nil),
	}, nil)

	if result[1].Inst != old[0].Inst {
		t.Fatalf("instance identity lost across reorder")
	}
	moved := result[1].Inst.Roots()[0].(*dom.Element)
	if got := moved.TextContent(); got != "2" {
		t.Fatalf("state after reorder = %q, want 2", got)
	}
}
