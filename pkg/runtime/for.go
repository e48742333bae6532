package runtime

import (
	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

// For builds a keyed reactive list region. each is the reactive source,
// keyFn derives the reconciliation key per item, and renderItem produces
// an item's node. When the source is empty the fallback view renders
// instead; it runs inside its own component scope, which is disposed
// when items return. A nil fallback renders nothing when empty.
//
// The result plugs into a Slot's Children or InsertChildren as a
// reactive region.
func For[T any](
	each func() []T,
	keyFn func(item T, i int) any,
	renderItem func(item T, i int) dom.Node,
	fallback func() []dom.Node,
) func() any {
	var fallbackComp *Component
	if fallback != nil {
		fallbackComp = NewComponent("for.fallback", func(*reactive.Store) []dom.Node {
			return fallback()
		})
	}

	return func() any {
		items := each()
		if len(items) == 0 {
			if fallbackComp == nil {
				return nil
			}
			return []*Entry{ComponentEntry(fallbackComp, fallbackComp, nil)}
		}
		entries := make([]*Entry, len(items))
		for i, item := range items {
			entries[i] = NodeEntry(keyFn(item, i), renderItem(item, i))
		}
		return entries
	}
}

// ForComponents is For with component items: matched keys keep their
// instance and receive new props, so item state survives reordering.
func ForComponents[T any](
	each func() []T,
	keyFn func(item T, i int) any,
	comp *Component,
	propsFn func(item T, i int) Props,
	fallback func() []dom.Node,
) func() any {
	var fallbackComp *Component
	if fallback != nil {
		fallbackComp = NewComponent("for.fallback", func(*reactive.Store) []dom.Node {
			return fallback()
		})
	}

	return func() any {
		items := each()
		if len(items) == 0 {
			if fallbackComp == nil {
				return nil
			}
			return []*Entry{ComponentEntry(fallbackComp, fallbackComp, nil)}
		}
		entries := make([]*Entry, len(items))
		for i, item := range items {
			entries[i] = ComponentEntry(keyFn(item, i), comp, propsFn(item, i))
		}
		return entries
	}
}
