package runtime

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

// Props is the plain property set handed to a component at creation and
// on update. Instances expose it to the render function as a reactive
// store so reads track per key.
type Props map[string]any

// RenderFunc produces a component's nodes. It runs under the instance's
// scope with tracking active, so signal reads re-render the instance.
type RenderFunc func(props *reactive.Store) []dom.Node

// Component is a reusable view definition. Two instances belong to the
// same component when they share the same *Component. HMRID and
// Signature are metadata slots for external hot-reload machinery.
type Component struct {
	Name      string
	Render    RenderFunc
	HMRID     string
	Signature string
}

// NewComponent wraps a render function.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Instance is one live occurrence of a Component: a scope, a reactive
// props store, and the rendered root nodes.
type Instance struct {
	component *Component
	scope     *reactive.Scope
	props     *reactive.Store

	roots  []dom.Node
	parent *dom.Element
	anchor dom.Node

	renderFx  *reactive.Effect
	connected bool
	destroyed bool
}

// NewInstance allocates an instance in the created state. The scope
// becomes a child of the active scope, so disposing an ancestor disposes
// the instance too. Nothing is rendered yet.
func NewInstance(c *Component, props Props) *Instance {
	in := &Instance{
		component: c,
		scope:     reactive.NewScope(nil),
		props:     reactive.NewStore(map[string]any(props)),
	}
	// DOM-bound wiring created anywhere under this instance attaches to
	// the instance scope, not to the transient render pass.
	in.scope.SetProvided(renderOwnerKey, in.scope)
	return in
}

// Component returns the definition this instance was created from.
func (in *Instance) Component() *Component { return in.component }

// Scope returns the instance's lifecycle scope.
func (in *Instance) Scope() *reactive.Scope { return in.scope }

// Roots returns the instance's current root nodes.
func (in *Instance) Roots() []dom.Node { return in.roots }

// IsConnected reports whether the instance's nodes are in a document tree.
func (in *Instance) IsConnected() bool { return in.connected }

// Mount renders the instance and inserts its nodes into parent before
// anchor (a nil anchor appends). Mount hooks registered during render
// fire after insertion. A panic inside the render function during this
// first render propagates to the caller.
//
// Each render pass runs in its own child scope, disposed when the next
// pass begins, so effects and hooks created by the render body do not
// accumulate across re-renders.
func (in *Instance) Mount(parent *dom.Element, anchor dom.Node) {
	if in.destroyed {
		panic(fmt.Sprintf("runtime: mount of destroyed instance of %s", in.name()))
	}
	if in.renderFx != nil {
		panic(fmt.Sprintf("runtime: double mount of %s", in.name()))
	}
	in.parent = parent
	in.anchor = anchor

	reactive.WithScope(in.scope, func() {
		in.renderFx = reactive.NewEffect(func() reactive.Cleanup {
			pass := reactive.NewScope(in.scope)
			var next []dom.Node
			reactive.WithScope(pass, func() {
				next = in.component.Render(in.props)
			})
			in.applyRender(next)
			if in.connected {
				pass.MarkMounted()
			}
			return pass.Dispose
		})
	})

	in.connected = true
	in.scope.MarkMounted()
}

// applyRender installs the initial roots or reconciles a re-render
// against the existing ones.
func (in *Instance) applyRender(next []dom.Node) {
	if in.roots == nil {
		if hydrating() {
			// Adopted nodes are already in the container.
			in.roots = next
			if len(next) > 0 {
				if p := next[0].Parent(); p != nil {
					in.parent = p
				}
			}
			return
		}
		for _, n := range next {
			in.parent.InsertBefore(n, in.anchor)
		}
		in.roots = next
		return
	}
	if in.destroyed {
		return
	}
	// Roots may have been moved since mount (Fragment holders, H
	// returning nodes the caller re-parents); follow them.
	if len(in.roots) > 0 {
		if p := in.roots[0].Parent(); p != nil {
			in.parent = p
			in.anchor = p.NextSibling(in.roots[len(in.roots)-1])
		}
	}
	in.roots = patchPlainNodes(in.parent, in.roots, next, in.anchor)
}

// SetProps replaces the instance's props. Keys absent from next are
// deleted. The write is batched so a dependent render runs once.
func (in *Instance) SetProps(next Props) {
	reactive.Batch(func() {
		for _, k := range in.props.Keys() {
			if _, ok := next[k]; !ok {
				in.props.Delete(k)
			}
		}
		for k, v := range next {
			in.props.Set(k, v)
		}
	})
}

// ForceUpdate re-invokes the render function and reconciles, regardless
// of dependency state. External hot-reload machinery calls this after
// swapping a component's render function.
func (in *Instance) ForceUpdate() {
	if in.destroyed || in.renderFx == nil {
		return
	}
	in.renderFx.MarkDirty()
}

// InheritNode transplants DOM connectivity from other to in without
// re-rendering. The receiving instance takes ownership of other's nodes
// and position; other is left disconnected.
func (in *Instance) InheritNode(other *Instance) {
	in.roots = other.roots
	in.parent = other.parent
	in.anchor = other.anchor
	in.connected = other.connected

	other.roots = nil
	other.connected = false
}

// Destroy removes the instance's nodes from the document, fires destroy
// hooks, and disposes the scope. Idempotent.
func (in *Instance) Destroy() {
	if in.destroyed {
		return
	}
	in.destroyed = true
	in.connected = false

	if in.parent != nil {
		for _, n := range in.roots {
			in.parent.RemoveChild(n)
		}
	}
	in.roots = nil
	in.scope.Dispose()
}

// firstNode returns the instance's first root, used as a move anchor.
func (in *Instance) firstNode() dom.Node {
	if len(in.roots) == 0 {
		return nil
	}
	return in.roots[0]
}

func (in *Instance) name() string {
	if in.component != nil && in.component.Name != "" {
		return in.component.Name
	}
	return "component"
}
