package render

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/template"
)

var greetTpl = template.Must(`<div class="greet"><span class="name"></span></div>`)

func greeter() *runtime.Component {
	return runtime.NewComponent("greeter", func(props *reactive.Store) []dom.Node {
		name, _ := props.Get("name").(string)
		return runtime.H(greetTpl, runtime.Slots{
			1: {Children: []any{name}},
		})
	})
}

func TestRenderToString(t *testing.T) {
	html, err := RenderToString(greeter(), runtime.Props{"name": "ada"})
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if !strings.Contains(html, `class="greet"`) || !strings.Contains(html, "ada") {
		t.Fatalf("unexpected markup: %s", html)
	}
	if !strings.Contains(html, `data-hk="0"`) {
		t.Fatalf("hydration key missing: %s", html)
	}
	if !strings.Contains(html, `data-idx="0-1"`) {
		t.Fatalf("slot index missing: %s", html)
	}
}

func TestRenderToStringRecoversPanic(t *testing.T) {
	boom := runtime.NewComponent("boom", func(*reactive.Store) []dom.Node {
		panic("no data")
	})
	html, err := RenderToString(boom, nil)
	if err == nil {
		t.Fatalf("expected error from panicking component")
	}
	if html != "" {
		t.Fatalf("expected empty markup, got %q", html)
	}
}

func TestRenderStaticStripsKeys(t *testing.T) {
	html, err := RenderStatic(greeter(), runtime.Props{"name": "x"})
	if err != nil {
		t.Fatalf("RenderStatic: %v", err)
	}
	if strings.Contains(html, "data-hk") || strings.Contains(html, "data-idx") {
		t.Fatalf("hydration keys not stripped: %s", html)
	}
}

func counterComponent() *runtime.Component {
	tpl := template.Must(`<div><button class="inc">+</button><span class="count"></span></div>`)
	return runtime.NewComponent("counter", func(*reactive.Store) []dom.Node {
		count := reactive.NewSignal(0)
		return runtime.H(tpl, runtime.Slots{
			1: {Events: map[string]dom.Handler{"click": func(*dom.Event) {
				count.Update(func(n int) int { return n + 1 })
			}}},
			2: {Children: []any{func() any { return strconv.Itoa(count.Get()) }}},
		})
	})
}

func findByClass(root *dom.Element, class string) *dom.Element {
	var found *dom.Element
	dom.Walk(root, func(n dom.Node) bool {
		if el, ok := n.(*dom.Element); ok && el.HasClass(class) {
			found = el
			return false
		}
		return true
	})
	return found
}

func TestHydrateRoundTrip(t *testing.T) {
	html, err := RenderToString(counterComponent(), nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}

	container, err := ParseContainer(html)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	preRendered := findByClass(container, "count")
	if preRendered == nil {
		t.Fatalf("pre-rendered count span not found in %s", html)
	}

	in := Hydrate(counterComponent(), nil, container)
	if in == nil {
		t.Fatalf("Hydrate returned nil")
	}

	// The span must be the same node that came from the markup.
	if findByClass(container, "count") != preRendered {
		t.Fatalf("hydration recreated the count span")
	}

	// Listeners attached by hydration drive the pre-rendered DOM.
	findByClass(container, "inc").Dispatch("click")
	if got := preRendered.TextContent(); got != "1" {
		t.Fatalf("count after click = %q, want 1", got)
	}
}

func TestHydrateRecoversPanic(t *testing.T) {
	boom := runtime.NewComponent("boom", func(*reactive.Store) []dom.Node {
		panic("broken")
	})
	container := dom.NewElement("body")
	if in := Hydrate(boom, nil, container); in != nil {
		t.Fatalf("expected nil instance from panicking hydrate")
	}
}

func TestRenderPage(t *testing.T) {
	var sb strings.Builder
	err := RenderPage(&sb, PageData{
		Root:        greeter(),
		Props:       runtime.Props{"name": "ada"},
		Title:       "Greetings <3",
		Meta:        []MetaTag{{Charset: "utf-8"}, {Name: "description", Content: "demo"}},
		StyleSheets: []string{"/assets/app.css"},
		Scripts:     []ScriptTag{{Src: "/assets/client.js", Module: true, Defer: true}},
		SessionID:   "sess-1",
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	html := sb.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Greetings &lt;3</title>",
		`<meta charset="utf-8">`,
		`<meta name="description" content="demo">`,
		`<link rel="stylesheet" href="/assets/app.css">`,
		`data-session="sess-1"`,
		`<script src="/assets/client.js" type="module" defer></script>`,
		"ada",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q:\n%s", want, html)
		}
	}
}

func TestStreamingRendererFlushes(t *testing.T) {
	rec := httptest.NewRecorder()
	s := NewStreamingRenderer(rec)
	if err := s.RenderPage(PageData{Root: greeter(), Props: runtime.Props{"name": "x"}, Title: "t"}); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if !rec.Flushed {
		t.Fatalf("response was never flushed")
	}
	if !strings.Contains(rec.Body.String(), "</html>") {
		t.Fatalf("document not completed")
	}
}
