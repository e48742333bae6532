package runtime

import (
	"github.com/filament-ui/filament/pkg/dom"
)

// Entry is one reconcilable item of a child list: a plain DOM node, a
// live component instance, or a not-yet-instantiated component spec that
// PatchNodes either matches to an existing instance or creates.
type Entry struct {
	Key  any
	Node dom.Node
	Inst *Instance

	Component *Component
	Props     Props
}

// NodeEntry wraps a DOM node for reconciliation.
func NodeEntry(key any, n dom.Node) *Entry {
	return &Entry{Key: key, Node: n}
}

// ComponentEntry describes a component occurrence by definition and
// props. PatchNodes updates a key-matched live instance in place instead
// of tearing it down, so internal state survives reorders.
func ComponentEntry(key any, c *Component, props Props) *Entry {
	return &Entry{Key: key, Component: c, Props: props}
}

// first returns the entry's leading DOM node, used as a move anchor.
func (e *Entry) first() dom.Node {
	if e.Inst != nil {
		return e.Inst.firstNode()
	}
	return e.Node
}

// PatchNodes reconciles parent's children from old to new with minimal
// mutations, inserting relative to anchor at the trailing boundary. It
// returns the authoritative new entry list.
//
// Matching trims a common prefix and suffix first, then resolves the
// middle through a key map; moves are minimized with a longest increasing
// subsequence over the surviving old positions, so plain appends,
// prepends, swaps, and reversals never degrade to quadratic work.
// Matched entries are patched in place: text merges, same-tag elements
// sync attributes and recurse into children, and same-component entries
// receive new props. Unmatched old component entries run their destroy
// lifecycle.
func PatchNodes(parent *dom.Element, old, new []*Entry, anchor dom.Node) []*Entry {
	oldStart, newStart := 0, 0
	oldEnd, newEnd := len(old)-1, len(new)-1
	result := make([]*Entry, len(new))

	for oldStart <= oldEnd && newStart <= newEnd && same(old[oldStart], new[newStart]) {
		result[newStart] = patchEntry(old[oldStart], new[newStart], parent)
		oldStart++
		newStart++
	}
	for oldEnd >= oldStart && newEnd >= newStart && same(old[oldEnd], new[newEnd]) {
		result[newEnd] = patchEntry(old[oldEnd], new[newEnd], parent)
		oldEnd--
		newEnd--
	}

	switch {
	case oldStart > oldEnd:
		// Only insertions remain.
		before := boundary(result, newEnd+1, anchor)
		for i := newStart; i <= newEnd; i++ {
			result[i] = mountEntry(new[i], parent, before)
		}

	case newStart > newEnd:
		// Only removals remain.
		for i := oldStart; i <= oldEnd; i++ {
			unmountEntry(old[i], parent)
		}

	default:
		patchMiddle(parent, old, new, result, oldStart, oldEnd, newStart, newEnd, anchor)
	}

	return result
}

func patchMiddle(parent *dom.Element, old, new, result []*Entry, oldStart, oldEnd, newStart, newEnd int, anchor dom.Node) {
	keyToNew := make(map[any]int, newEnd-newStart+1)
	for i := newStart; i <= newEnd; i++ {
		if new[i].Key != nil {
			keyToNew[new[i].Key] = i
		}
	}

	// sources[p] holds 1+oldIndex for the old entry matched to new
	// middle position p, or 0 when position p needs a fresh mount.
	sources := make([]int, newEnd-newStart+1)
	for oi := oldStart; oi <= oldEnd; oi++ {
		o := old[oi]
		ni, matched := -1, false
		if o.Key != nil {
			ni, matched = lookupKey(keyToNew, o.Key)
		}
		if matched && same(o, new[ni]) {
			result[ni] = patchEntry(o, new[ni], parent)
			sources[ni-newStart] = oi + 1
		} else {
			unmountEntry(o, parent)
		}
	}

	// Entries on the longest increasing subsequence of old positions
	// keep their place; everything else moves or mounts.
	lis := longestIncreasing(sources)
	lisIdx := len(lis) - 1

	before := boundary(result, newEnd+1, anchor)
	for i := newEnd; i >= newStart; i-- {
		pos := i - newStart
		switch {
		case sources[pos] == 0:
			result[i] = mountEntry(new[i], parent, before)
		case lisIdx >= 0 && lis[lisIdx] == pos:
			lisIdx--
		default:
			moveEntry(result[i], parent, before)
		}
		if f := result[i].first(); f != nil {
			before = f
		}
	}
}

func lookupKey(m map[any]int, key any) (int, bool) {
	i, ok := m[key]
	return i, ok
}

// boundary returns the first DOM node at or after result[idx], falling
// back to anchor past the end of the list.
func boundary(result []*Entry, idx int, anchor dom.Node) dom.Node {
	for ; idx < len(result); idx++ {
		if result[idx] != nil {
			if f := result[idx].first(); f != nil {
				return f
			}
		}
	}
	return anchor
}

// same reports whether old and new refer to the same reconcilable
// identity: equal keys when either is keyed, then identical instance,
// same component definition, or compatible node types.
func same(old, new *Entry) bool {
	if old.Key != nil || new.Key != nil {
		if old.Key != new.Key {
			return false
		}
	}
	if new.Inst != nil {
		return old.Inst == new.Inst
	}
	if new.Component != nil {
		return old.Inst != nil && old.Inst.component == new.Component
	}
	if old.Inst != nil {
		return false
	}
	switch n := new.Node.(type) {
	case *dom.Text:
		_, ok := old.Node.(*dom.Text)
		return ok
	case *dom.Comment:
		_, ok := old.Node.(*dom.Comment)
		return ok
	case *dom.Element:
		o, ok := old.Node.(*dom.Element)
		return ok && o.TagName == n.TagName
	}
	return false
}

// patchEntry merges new into the matched old entry and returns the
// surviving entry. The old entry's DOM node or instance is the one kept.
func patchEntry(old, new *Entry, parent *dom.Element) *Entry {
	if new.Inst != nil {
		return old
	}
	if new.Component != nil {
		old.Inst.SetProps(new.Props)
		old.Key = new.Key
		return old
	}
	if old.Node == new.Node {
		return old
	}
	switch n := new.Node.(type) {
	case *dom.Text:
		old.Node.(*dom.Text).Data = n.Data
	case *dom.Comment:
		old.Node.(*dom.Comment).Data = n.Data
		// The fresh comment is thrown away; tear down wiring anchored
		// to it. The retained comment keeps its own.
		n.Discard()
	case *dom.Element:
		patchElement(old.Node.(*dom.Element), n)
		n.Discard()
	}
	old.Key = new.Key
	return old
}

// patchElement syncs a reused element from its freshly rendered
// counterpart: attributes, event handlers, then children recursively.
// Live form state on the reused element is left alone.
func patchElement(old, new *dom.Element) {
	for _, a := range new.Attributes() {
		if v, ok := old.GetAttribute(a.Name); !ok || v != a.Value {
			old.SetAttribute(a.Name, a.Value)
		}
	}
	for _, a := range old.Attributes() {
		if !new.HasAttribute(a.Name) {
			old.RemoveAttribute(a.Name)
		}
	}
	old.TakeListeners(new)

	patchPlainNodes(old, old.ChildNodes(), new.ChildNodes(), nil)
}

func mountEntry(e *Entry, parent *dom.Element, before dom.Node) *Entry {
	switch {
	case e.Inst != nil:
		moveEntry(e, parent, before)
	case e.Component != nil:
		in := NewInstance(e.Component, e.Props)
		in.Mount(parent, before)
		e.Inst = in
	default:
		parent.InsertBefore(e.Node, before)
	}
	return e
}

func moveEntry(e *Entry, parent *dom.Element, before dom.Node) {
	if e.Inst != nil {
		for _, n := range e.Inst.Roots() {
			parent.InsertBefore(n, before)
		}
		return
	}
	parent.InsertBefore(e.Node, before)
}

func unmountEntry(e *Entry, parent *dom.Element) {
	if e.Inst != nil {
		e.Inst.Destroy()
		return
	}
	parent.RemoveChild(e.Node)
	discardTree(e.Node)
}

// patchPlainNodes reconciles two unkeyed node lists, as produced by a
// component re-render over the same template shape.
func patchPlainNodes(parent *dom.Element, old, new []dom.Node, anchor dom.Node) []dom.Node {
	oldEntries := make([]*Entry, len(old))
	for i, n := range old {
		oldEntries[i] = NodeEntry(nil, n)
	}
	newEntries := make([]*Entry, len(new))
	for i, n := range new {
		newEntries[i] = NodeEntry(nil, n)
	}
	result := PatchNodes(parent, oldEntries, newEntries, anchor)
	out := make([]dom.Node, len(result))
	for i, e := range result {
		out[i] = e.Node
	}
	return out
}

// longestIncreasing returns positions of a longest strictly increasing
// subsequence of the non-zero values in sources, in ascending order.
func longestIncreasing(sources []int) []int {
	var tails []int // positions; sources at these form increasing tails
	prev := make([]int, len(sources))

	for i, v := range sources {
		if v == 0 {
			continue
		}
		// Binary search for the first tail >= v.
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if sources[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1] + 1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	if len(tails) == 0 {
		return nil
	}
	out := make([]int, len(tails))
	pos := tails[len(tails)-1]
	for i := len(tails) - 1; i >= 0; i-- {
		out[i] = pos
		pos = prev[pos] - 1
	}
	return out
}
