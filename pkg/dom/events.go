package dom

// Event carries the payload delivered to handlers during dispatch.
// Form-derived fields (Value, Checked, SelectedValues, Files) are filled
// by the dispatcher from the live state of the target element.
type Event struct {
	Type           string
	Target         *Element
	CurrentTarget  *Element
	Value          string
	Checked        bool
	SelectedValues []string
	Key            string
	Files          []File

	stopped   bool
	prevented bool
}

// StopPropagation halts bubbling after the current element's handlers run.
func (ev *Event) StopPropagation() { ev.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (ev *Event) PreventDefault() { ev.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.prevented }

// Handler receives dispatched events.
type Handler func(*Event)

type listenerEntry struct {
	fn      Handler
	removed bool
}

// AddEventListener registers a handler for an event type and returns a
// function that removes it. Removal during dispatch takes effect for
// subsequent dispatches; the in-flight dispatch uses a snapshot.
func (e *Element) AddEventListener(eventType string, fn Handler) func() {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listenerEntry)
	}
	entry := &listenerEntry{fn: fn}
	e.listeners[eventType] = append(e.listeners[eventType], entry)
	return func() {
		entry.removed = true
		list := e.listeners[eventType]
		for i, le := range list {
			if le == entry {
				e.listeners[eventType] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// RemoveAllListeners drops every handler for the given type, or every
// handler of any type when eventType is empty.
func (e *Element) RemoveAllListeners(eventType string) {
	if e.listeners == nil {
		return
	}
	if eventType == "" {
		e.listeners = nil
		return
	}
	delete(e.listeners, eventType)
}

// TakeListeners replaces e's handlers with those of from, leaving from
// without any. The reconciler uses this when a reused element must adopt
// the handlers of the freshly rendered one.
func (e *Element) TakeListeners(from *Element) {
	e.listeners = from.listeners
	from.listeners = nil
}

// HasListeners reports whether any handler is registered for the type.
func (e *Element) HasListeners(eventType string) bool {
	return len(e.listeners[eventType]) > 0
}

// DispatchEvent runs handlers on the target and then bubbles up the
// ancestor chain until the root or StopPropagation. Form state is
// snapshotted from the target before the first handler runs.
func (e *Element) DispatchEvent(ev *Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	ev.Value = e.Value
	ev.Checked = e.Checked
	ev.Files = e.Files
	ev.SelectedValues = e.selectedValues()

	node := e
	for node != nil {
		ev.CurrentTarget = node
		node.invokeListeners(ev)
		if ev.stopped {
			return
		}
		node = node.Parent()
	}
}

// Dispatch is a convenience over DispatchEvent for simple event types.
func (e *Element) Dispatch(eventType string) *Event {
	ev := &Event{Type: eventType}
	e.DispatchEvent(ev)
	return ev
}

func (e *Element) invokeListeners(ev *Event) {
	entries := e.listeners[ev.Type]
	if len(entries) == 0 {
		return
	}
	// Snapshot so removals inside handlers do not skip siblings.
	snapshot := append([]*listenerEntry(nil), entries...)
	for _, entry := range snapshot {
		if entry.removed {
			continue
		}
		entry.fn(ev)
	}
}

// selectedValues collects option values for select elements; for any
// other element it returns nil.
func (e *Element) selectedValues() []string {
	if e.TagName != "select" {
		return nil
	}
	var out []string
	Walk(e, func(n Node) bool {
		opt, ok := n.(*Element)
		if !ok || opt.TagName != "option" {
			return true
		}
		if opt.Selected {
			v, hasAttr := opt.GetAttribute("value")
			if !hasAttr {
				v = opt.TextContent()
			}
			out = append(out, v)
		}
		return true
	})
	return out
}
