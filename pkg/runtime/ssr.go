package runtime

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/template"
)

// renderMode selects how templates materialize during a mount.
type renderMode int

const (
	// modeLive clones templates with no hydration bookkeeping.
	modeLive renderMode = iota

	// modeSSR clones templates and stamps hydration keys: data-hk on
	// root elements, data-idx="<hk>-<slot>" on element slots, and
	// "idx:<hk>-<slot>" comment data on anchor slots.
	modeSSR

	// modeHydrate adopts pre-rendered nodes located by those keys
	// instead of cloning, re-attaching listeners and reactivity.
	modeHydrate
)

// renderCtx is the active SSR/hydration pass. Server rendering and
// hydration are single-threaded per tree; live mounts never touch it.
// renderMu serializes passes so concurrent sessions cannot interleave
// key assignment.
var (
	renderMu  sync.Mutex
	renderCtx *rendering
)

type rendering struct {
	mode      renderMode
	next      int
	container *dom.Element
}

func hydrating() bool {
	return renderCtx != nil && renderCtx.mode == modeHydrate
}

// MountSSR mounts c into parent, assigning sequential hydration keys to
// every template instantiation so the serialized markup can be hydrated
// later.
func MountSSR(c *Component, props Props, parent *dom.Element) *Instance {
	renderMu.Lock()
	defer renderMu.Unlock()

	prev := renderCtx
	renderCtx = &rendering{mode: modeSSR}
	defer func() { renderCtx = prev }()

	in := NewInstance(c, props)
	in.Mount(parent, nil)
	return in
}

// MountHydrate re-attaches a component to markup previously produced by
// MountSSR, reusing the container's nodes instead of creating new ones.
// Render order must match the server render for the keys to line up.
func MountHydrate(c *Component, props Props, container *dom.Element) *Instance {
	renderMu.Lock()
	defer renderMu.Unlock()

	prev := renderCtx
	renderCtx = &rendering{mode: modeHydrate, container: container}
	defer func() { renderCtx = prev }()

	in := NewInstance(c, props)
	in.Mount(container, nil)
	return in
}

// annotateSSR stamps one template instance with its hydration keys.
func annotateSSR(in *template.Instance, slotCount int, ctx *rendering) {
	hk := ctx.next
	ctx.next++

	for _, root := range in.Roots {
		if el, ok := root.(*dom.Element); ok {
			el.SetAttribute("data-hk", strconv.Itoa(hk))
		}
	}
	for i := 0; i < slotCount; i++ {
		switch slot := in.Slot(i).(type) {
		case *dom.Element:
			slot.SetAttribute("data-idx", fmt.Sprintf("%d-%d", hk, i))
		case *dom.Comment:
			slot.Data = fmt.Sprintf("idx:%d-%d", hk, i)
		}
	}
}

// adoptTemplate locates one server-rendered template occurrence by its
// hydration keys and binds the blueprint's slots to the live nodes. A
// nil return means the markup did not line up and the caller should fall
// back to a fresh clone.
func adoptTemplate(t *template.Template, rootCount int, ctx *rendering) *template.Instance {
	hk := ctx.next
	ctx.next++

	first := dom.FindByAttr(ctx.container, "data-hk", strconv.Itoa(hk))
	if first == nil {
		return nil
	}

	roots := []dom.Node{dom.Node(first)}
	parent := first.Parent()
	var cursor dom.Node = first
	for len(roots) < rootCount && parent != nil {
		cursor = parent.NextSibling(cursor)
		if cursor == nil {
			break
		}
		roots = append(roots, cursor)
	}

	slots := make([]dom.Node, t.SlotCount())
	prefix := strconv.Itoa(hk) + "-"
	for _, root := range roots {
		dom.Walk(root, func(n dom.Node) bool {
			switch v := n.(type) {
			case *dom.Element:
				if idx, ok := v.GetAttribute("data-idx"); ok {
					if i, ok := slotIndex(idx, prefix); ok && i < len(slots) {
						slots[i] = v
					}
				}
			case *dom.Comment:
				if idx, found := strings.CutPrefix(v.Data, "idx:"); found {
					if i, ok := slotIndex(idx, prefix); ok && i < len(slots) {
						slots[i] = v
					}
				}
			}
			return true
		})
	}

	return template.AdoptedInstance(roots, slots)
}

func slotIndex(idx, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(idx, prefix)
	if !found {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return i, true
}
