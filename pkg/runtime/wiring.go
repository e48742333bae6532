package runtime

import (
	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

// renderOwnerKey resolves to the scope that owns reactive wiring bound to
// DOM nodes for the lifetime of a component instance. Instances provide
// their own scope under it, so wiring on retained nodes survives the
// per-pass scope each re-render disposes.
var renderOwnerKey = reactive.NewContextKey("render-owner")

// wiringOwner returns the scope node-bound wiring should attach to: the
// nearest enclosing instance's scope, or the active scope outside any
// instance.
func wiringOwner() *reactive.Scope {
	active := reactive.ActiveScope()
	if active == nil {
		return nil
	}
	if v, ok := active.Lookup(renderOwnerKey); ok {
		if owner, ok := v.(*reactive.Scope); ok && !owner.IsDestroyed() {
			return owner
		}
	}
	return active
}

type discardable interface {
	OnDiscard(fn func())
}

// nodeScope creates a scope for reactive wiring riding on n. The scope is
// disposed with the owning instance, or earlier when a reconciler
// discards the node.
func nodeScope(n discardable) *reactive.Scope {
	s := reactive.NewScope(wiringOwner())
	n.OnDiscard(s.Dispose)
	return s
}

// discardTree runs discard hooks through a removed subtree so wiring
// attached to vanished nodes is torn down.
func discardTree(n dom.Node) {
	dom.Walk(n, func(m dom.Node) bool {
		switch v := m.(type) {
		case *dom.Element:
			v.Discard()
		case *dom.Comment:
			v.Discard()
		}
		return true
	})
}
