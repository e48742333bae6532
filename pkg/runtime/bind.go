package runtime

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
)

// Binding is a two-way value binding between a signal and a form
// element. Get feeds the element (signal to DOM); Set receives the
// element's state on the appropriate native event (DOM to signal). The
// value handed to Set depends on the element: bool for checkboxes,
// []string for multiple selects, []dom.File for file inputs, string
// otherwise.
type Binding struct {
	Get func() any
	Set func(v any)
}

// BindValue binds a string signal to a text-like input, textarea, or
// single select.
func BindValue(sig *reactive.Signal[string]) *Binding {
	return &Binding{
		Get: func() any { return sig.Get() },
		Set: func(v any) { sig.Set(v.(string)) },
	}
}

// BindChecked binds a bool signal to a checkbox.
func BindChecked(sig *reactive.Signal[bool]) *Binding {
	return &Binding{
		Get: func() any { return sig.Get() },
		Set: func(v any) { sig.Set(v.(bool)) },
	}
}

// BindSelected binds a string-slice signal to a multiple select.
func BindSelected(sig *reactive.Signal[[]string]) *Binding {
	return &Binding{
		Get: func() any { return sig.Get() },
		Set: func(v any) { sig.Set(v.([]string)) },
	}
}

// BindFiles binds a file-list signal to a file input. File inputs have
// no outbound direction.
func BindFiles(sig *reactive.Signal[[]dom.File]) *Binding {
	return &Binding{
		Set: func(v any) { sig.Set(v.([]dom.File)) },
	}
}

// applyBinding wires a binding to an element according to its kind. The
// signal-to-element effect rides on the element, torn down when a
// reconciler discards it.
func applyBinding(el *dom.Element, b *Binding) {
	if b.Get != nil {
		reactive.WithScope(nodeScope(el), func() {
			wireBinding(el, b)
		})
		return
	}
	wireBinding(el, b)
}

func wireBinding(el *dom.Element, b *Binding) {
	inputType, _ := el.GetAttribute("type")

	switch {
	case el.TagName == "input" && inputType == "checkbox":
		bindCheckbox(el, b)
	case el.TagName == "input" && inputType == "radio":
		bindRadio(el, b)
	case el.TagName == "input" && inputType == "file":
		bindFile(el, b)
	case el.TagName == "select" && el.HasAttribute("multiple"):
		bindSelectMultiple(el, b)
	case el.TagName == "select":
		bindSelectSingle(el, b)
	default:
		bindText(el, b)
	}
}

func bindText(el *dom.Element, b *Binding) {
	if b.Get != nil {
		reactive.NewEffect(func() reactive.Cleanup {
			el.Value = asString(b.Get())
			return nil
		})
	}
	el.AddEventListener("input", func(ev *dom.Event) {
		b.Set(ev.Value)
	})
}

func bindCheckbox(el *dom.Element, b *Binding) {
	if b.Get != nil {
		reactive.NewEffect(func() reactive.Cleanup {
			el.Checked, _ = b.Get().(bool)
			return nil
		})
	}
	el.AddEventListener("change", func(ev *dom.Event) {
		b.Set(ev.Checked)
	})
}

// bindRadio checks the element when the bound value equals its value
// attribute and writes that value back when the element is checked.
func bindRadio(el *dom.Element, b *Binding) {
	own, _ := el.GetAttribute("value")
	if b.Get != nil {
		reactive.NewEffect(func() reactive.Cleanup {
			el.Checked = asString(b.Get()) == own
			return nil
		})
	}
	el.AddEventListener("change", func(ev *dom.Event) {
		if ev.Checked {
			b.Set(own)
		}
	})
}

func bindFile(el *dom.Element, b *Binding) {
	el.AddEventListener("change", func(ev *dom.Event) {
		b.Set(ev.Files)
	})
}

func bindSelectSingle(el *dom.Element, b *Binding) {
	if b.Get != nil {
		reactive.NewEffect(func() reactive.Cleanup {
			want := asString(b.Get())
			el.Value = want
			syncOptions(el, []string{want})
			return nil
		})
	}
	el.AddEventListener("change", func(ev *dom.Event) {
		b.Set(ev.Value)
	})
}

func bindSelectMultiple(el *dom.Element, b *Binding) {
	if b.Get != nil {
		reactive.NewEffect(func() reactive.Cleanup {
			want, _ := b.Get().([]string)
			syncOptions(el, want)
			return nil
		})
	}
	el.AddEventListener("change", func(ev *dom.Event) {
		b.Set(ev.SelectedValues)
	})
}

// syncOptions marks options whose value is in want as selected.
func syncOptions(el *dom.Element, want []string) {
	selected := make(map[string]bool, len(want))
	for _, v := range want {
		selected[v] = true
	}
	dom.Walk(el, func(n dom.Node) bool {
		opt, ok := n.(*dom.Element)
		if !ok || opt.TagName != "option" {
			return true
		}
		v, hasAttr := opt.GetAttribute("value")
		if !hasAttr {
			v = opt.TextContent()
		}
		opt.Selected = selected[v]
		return true
	})
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
