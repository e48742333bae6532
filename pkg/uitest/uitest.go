package uitest

import (
	"strings"
	"testing"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/render"
	"github.com/filament-ui/filament/pkg/runtime"
)

// Harness is a component mounted into a detached body element.
type Harness struct {
	t *testing.T

	// Body is the mount container.
	Body *dom.Element

	// Instance is the mounted component instance.
	Instance *runtime.Instance
}

// Mount mounts the component and registers a cleanup that destroys it.
func Mount(t *testing.T, c *runtime.Component, props runtime.Props) *Harness {
	t.Helper()
	body := dom.NewElement("body")
	in := runtime.NewInstance(c, props)
	in.Mount(body, nil)
	t.Cleanup(in.Destroy)
	return &Harness{t: t, Body: body, Instance: in}
}

// Find returns the first element with the given class, or nil.
func (h *Harness) Find(class string) *dom.Element {
	var found *dom.Element
	dom.Walk(h.Body, func(n dom.Node) bool {
		if el, ok := n.(*dom.Element); ok && el.HasClass(class) {
			found = el
			return false
		}
		return true
	})
	return found
}

// MustFind returns the first element with the given class, failing the
// test when none exists.
func (h *Harness) MustFind(class string) *dom.Element {
	h.t.Helper()
	el := h.Find(class)
	if el == nil {
		h.t.Fatalf("no element with class %q in:\n%s", class, h.HTML())
	}
	return el
}

// HTML returns the body's serialized contents.
func (h *Harness) HTML() string {
	return h.Body.InnerHTML()
}

// Click dispatches a click event on the element with the given class.
func (h *Harness) Click(class string) {
	h.t.Helper()
	h.MustFind(class).Dispatch("click")
}

// SetValue writes the value into the input with the given class and
// fires its input event, the way typing does.
func (h *Harness) SetValue(class, value string) {
	h.t.Helper()
	el := h.MustFind(class)
	el.Value = value
	el.Dispatch("input")
}

// SetChecked toggles the checkbox with the given class and fires its
// change event.
func (h *Harness) SetChecked(class string, checked bool) {
	h.t.Helper()
	el := h.MustFind(class)
	el.Checked = checked
	el.Dispatch("change")
}

// Text returns the text content of the element with the given class.
func (h *Harness) Text(class string) string {
	h.t.Helper()
	return h.MustFind(class).TextContent()
}

// ExpectText asserts the element's text content.
func (h *Harness) ExpectText(class, want string) {
	h.t.Helper()
	if got := h.Text(class); got != want {
		h.t.Errorf("text of .%s = %q, want %q", class, got, want)
	}
}

// ExpectContains asserts the rendered body contains the substring.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	ExpectContains(h.t, h.HTML(), expected)
}

// ExpectNotContains asserts the rendered body does not contain the
// substring.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	ExpectNotContains(h.t, h.HTML(), unexpected)
}

// RenderToString server-renders the component, failing the test on
// error.
func RenderToString(t *testing.T, c *runtime.Component, props runtime.Props) string {
	t.Helper()
	html, err := render.RenderToString(c, props)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return html
}

// ExpectContains asserts that html contains the expected substring.
func ExpectContains(t *testing.T, html, expected string) {
	t.Helper()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that html does not contain the substring.
func ExpectNotContains(t *testing.T, html, unexpected string) {
	t.Helper()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that html contains an element with the tag.
func ExpectElement(t *testing.T, html, tag string) {
	t.Helper()
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that html contains an attribute value.
func ExpectAttribute(t *testing.T, html, attr, value string) {
	t.Helper()
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
