// Package template provides parse-once, clone-many HTML blueprints.
//
// A Template is parsed a single time and then stamped out per component
// instance with Clone. Dynamic bindings attach to numbered slots: every
// element and comment anchor in the blueprint, counted in document
// order. Compiled render functions refer to slots by that index.
package template

import (
	"fmt"
	"strings"

	"github.com/filament-ui/filament/pkg/dom"
)

// Template is an immutable parsed blueprint.
type Template struct {
	source string
	roots  []dom.Node

	// paths locates each slot in a fresh clone: paths[i][0] is the root
	// index, the rest are child indices.
	paths [][]int
}

// Instance is one stamped-out copy of a Template with its slots resolved.
type Instance struct {
	Roots []dom.Node
	slots []dom.Node
}

// Parse parses an HTML fragment into a reusable blueprint.
func Parse(markup string) (*Template, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, fmt.Errorf("template: empty markup")
	}
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	roots := trimRootWhitespace(nodes)
	if len(roots) == 0 {
		return nil, fmt.Errorf("template: markup %q produced no nodes", markup)
	}

	t := &Template{source: markup, roots: roots}
	for i, root := range roots {
		t.indexSlots(root, []int{i})
	}
	return t, nil
}

// Must is Parse for markup known at compile time; it panics on error.
func Must(markup string) *Template {
	t, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the original markup.
func (t *Template) Source() string { return t.source }

// SlotCount returns the number of addressable slots.
func (t *Template) SlotCount() int { return len(t.paths) }

// RootCount returns the number of top-level nodes in the blueprint.
func (t *Template) RootCount() int { return len(t.roots) }

// Clone stamps out a fresh copy of the blueprint and resolves its slots.
func (t *Template) Clone() *Instance {
	in := &Instance{
		Roots: make([]dom.Node, len(t.roots)),
		slots: make([]dom.Node, len(t.paths)),
	}
	for i, root := range t.roots {
		in.Roots[i] = root.CloneNode(true)
	}
	for i, path := range t.paths {
		in.slots[i] = resolve(in.Roots, path)
	}
	return in
}

// AdoptedInstance builds an Instance over nodes that already exist,
// typically located in server-rendered markup by hydration keys. slots
// must be indexed the same way Parse numbered them.
func AdoptedInstance(roots []dom.Node, slots []dom.Node) *Instance {
	return &Instance{Roots: roots, slots: slots}
}

// Slot returns the node at slot index i, or nil when out of range.
func (in *Instance) Slot(i int) dom.Node {
	if i < 0 || i >= len(in.slots) {
		return nil
	}
	return in.slots[i]
}

// Element returns the slot as an element, or nil when the slot is a
// comment anchor or out of range.
func (in *Instance) Element(i int) *dom.Element {
	el, _ := in.Slot(i).(*dom.Element)
	return el
}

// Anchor returns the slot as a comment anchor, or nil.
func (in *Instance) Anchor(i int) *dom.Comment {
	c, _ := in.Slot(i).(*dom.Comment)
	return c
}

// indexSlots records element and comment positions in document order.
func (t *Template) indexSlots(n dom.Node, path []int) {
	switch v := n.(type) {
	case *dom.Element:
		t.paths = append(t.paths, append([]int(nil), path...))
		for i, c := range v.ChildNodes() {
			t.indexSlots(c, append(path, i))
		}
	case *dom.Comment:
		t.paths = append(t.paths, append([]int(nil), path...))
	}
}

func resolve(roots []dom.Node, path []int) dom.Node {
	node := roots[path[0]]
	for _, idx := range path[1:] {
		el, ok := node.(*dom.Element)
		if !ok {
			return nil
		}
		node = el.ChildAt(idx)
	}
	return node
}

// trimRootWhitespace drops whitespace-only text nodes at the top level so
// indented template literals do not produce stray root text.
func trimRootWhitespace(nodes []dom.Node) []dom.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if text, ok := n.(*dom.Text); ok && strings.TrimSpace(text.Data) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
