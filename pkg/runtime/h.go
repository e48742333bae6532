package runtime

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/template"
)

// Slot describes the dynamic bindings attached to one template slot.
// Attrs values may be static (string, bool, number) or a func() any that
// is re-evaluated reactively. Children accepts strings, numbers,
// dom.Node, []dom.Node, *Entry, []*Entry, nested []any, and func() any
// for a reactive child region.
type Slot struct {
	Attrs    map[string]any
	Events   map[string]dom.Handler
	Bind     *Binding
	Children []any
}

// Slots maps slot indices to their bindings. Compiled render calls
// produce these descriptors.
type Slots map[int]Slot

// H applies a slots descriptor to a template clone or instantiates a
// component, returning the resulting root nodes. This is the call shape
// compiled views are written against.
func H(target any, slots Slots) []dom.Node {
	switch t := target.(type) {
	case *template.Template:
		return applyTemplate(t, slots)
	case *Component:
		in := NewInstance(t, slotProps(slots))
		holder := dom.NewElement("template")
		in.Mount(holder, nil)
		return in.Roots()
	default:
		panic(fmt.Sprintf("runtime: H target must be *template.Template or *Component, got %T", target))
	}
}

// slotProps folds a component's slot descriptor into props: slot 0's
// attrs become props, its children become the children prop.
func slotProps(slots Slots) Props {
	spec := slots[0]
	props := make(Props, len(spec.Attrs)+1)
	for k, v := range spec.Attrs {
		props[k] = v
	}
	if len(spec.Children) > 0 {
		props["children"] = spec.Children
	}
	return props
}

func applyTemplate(t *template.Template, slots Slots) []dom.Node {
	var in *template.Instance
	switch {
	case renderCtx != nil && renderCtx.mode == modeSSR:
		in = t.Clone()
		annotateSSR(in, t.SlotCount(), renderCtx)
	case hydrating():
		in = adoptTemplate(t, t.RootCount(), renderCtx)
		if in == nil {
			in = t.Clone()
		}
	default:
		in = t.Clone()
	}
	for idx, spec := range slots {
		applySlot(in, idx, spec)
	}
	return in.Roots
}

func applySlot(in *template.Instance, idx int, spec Slot) {
	switch target := in.Slot(idx).(type) {
	case *dom.Element:
		applyAttrs(target, spec.Attrs)
		for event, handler := range spec.Events {
			target.AddEventListener(event, handler)
		}
		if spec.Bind != nil {
			applyBinding(target, spec.Bind)
		}
		InsertChildren(target, nil, spec.Children...)
	case *dom.Comment:
		if parent := target.Parent(); parent != nil {
			InsertChildren(parent, target, spec.Children...)
		}
	}
}

func applyAttrs(el *dom.Element, attrs map[string]any) {
	// Reactive attribute effects live in a scope tied to the element, not
	// to the render pass that produced it: a re-render's reconcile keeps
	// the existing element and discards the fresh one together with its
	// effects, so each live element carries exactly one set.
	var wiring *reactive.Scope
	for name, value := range attrs {
		if fn, ok := value.(func() any); ok {
			if wiring == nil {
				wiring = nodeScope(el)
			}
			name := name
			reactive.WithScope(wiring, func() {
				reactive.NewEffect(func() reactive.Cleanup {
					setAttrValue(el, name, fn())
					return nil
				})
			})
			continue
		}
		setAttrValue(el, name, value)
	}
}

// setAttrValue writes one attribute: nil and false remove it, true sets
// a bare boolean attribute, anything else stringifies.
func setAttrValue(el *dom.Element, name string, value any) {
	switch v := value.(type) {
	case nil:
		el.RemoveAttribute(name)
	case bool:
		if v {
			el.SetAttribute(name, "")
		} else {
			el.RemoveAttribute(name)
		}
	case string:
		el.SetAttribute(name, v)
	default:
		el.SetAttribute(name, fmt.Sprint(v))
	}
}

// InsertChildren materializes child values into parent before anchor.
// A func() any child establishes a reactive region that re-reconciles
// when its dependencies change. During hydration, static children are
// already present in the adopted markup and are left untouched.
func InsertChildren(parent *dom.Element, anchor dom.Node, children ...any) {
	for _, child := range children {
		if fn, ok := child.(func() any); ok {
			reactiveRegion(parent, anchor, fn)
			continue
		}
		if hydrating() {
			continue
		}
		for _, e := range normalizeEntries(child) {
			mountEntry(e, parent, anchor)
		}
	}
}

// reactiveRegion keeps a run of entries in sync with a reactive
// producer. A trailing comment marker pins the region's position, so the
// region keeps working when the surrounding nodes are re-parented. The
// region owns a scope so components created inside are torn down with
// the enclosing boundary.
func reactiveRegion(parent *dom.Element, anchor dom.Node, fn func() any) {
	var current []*Entry
	var marker *dom.Comment

	if hydrating() {
		// Adopt the server-rendered content at this position as the
		// region's current entries; the first run reconciles against
		// them in place instead of re-creating nodes.
		if c, ok := anchor.(*dom.Comment); ok {
			marker = c
		} else {
			marker = dom.NewComment("")
			parent.InsertBefore(marker, anchor)
		}
		for _, n := range parent.ChildNodes() {
			if n == dom.Node(marker) {
				break
			}
			current = append(current, NodeEntry(nil, n))
		}
	} else {
		marker = dom.NewComment("")
		parent.InsertBefore(marker, anchor)
	}

	region := reactive.NewScope(wiringOwner())
	marker.OnDiscard(region.Dispose)

	reactive.WithScope(region, func() {
		reactive.NewEffect(func() reactive.Cleanup {
			// The whole body runs under the region scope, so component
			// entries mounted during a re-run are owned by the region
			// regardless of which scope the triggering write ran in.
			reactive.WithScope(region, func() {
				next := normalizeEntries(fn())
				if region.IsDestroyed() {
					return
				}
				host := marker.Parent()
				if host == nil {
					return
				}
				current = PatchNodes(host, current, next, marker)
			})
			return nil
		})
	})
}

// normalizeEntries flattens a child value into reconcilable entries.
func normalizeEntries(v any) []*Entry {
	switch c := v.(type) {
	case nil:
		return nil
	case []*Entry:
		return c
	case *Entry:
		return []*Entry{c}
	case dom.Node:
		return []*Entry{NodeEntry(nil, c)}
	case []dom.Node:
		out := make([]*Entry, len(c))
		for i, n := range c {
			out[i] = NodeEntry(nil, n)
		}
		return out
	case []any:
		var out []*Entry
		for _, item := range c {
			out = append(out, normalizeEntries(item)...)
		}
		return out
	case string:
		return []*Entry{NodeEntry(nil, dom.NewText(c))}
	default:
		return []*Entry{NodeEntry(nil, dom.NewText(fmt.Sprint(c)))}
	}
}

// Fragment groups children without a wrapping element, returning them as
// a flat node list.
func Fragment(children ...any) []dom.Node {
	holder := dom.NewElement("template")
	InsertChildren(holder, nil, children...)
	return holder.ChildNodes()
}
