package runtime

import (
	"strconv"
	"strings"
	"testing"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/template"
)

var counterTpl = template.Must(
	`<div><button class="inc">+</button><span class="count"></span><button class="dec">-</button></div>`)

func counterComponent() *Component {
	return NewComponent("counter", func(*reactive.Store) []dom.Node {
		count := reactive.NewSignal(0)
		return H(counterTpl, Slots{
			1: {Events: map[string]dom.Handler{"click": func(*dom.Event) {
				count.Update(func(n int) int { return n + 1 })
			}}},
			2: {Children: []any{func() any { return strconv.Itoa(count.Get()) }}},
			3: {Events: map[string]dom.Handler{"click": func(*dom.Event) {
				count.Update(func(n int) int { return n - 1 })
			}}},
		})
	})
}

func mountInBody(t *testing.T, c *Component, props Props) (*dom.Element, *Instance) {
	t.Helper()
	body := dom.NewElement("body")
	in := NewInstance(c, props)
	in.Mount(body, nil)
	return body, in
}

func click(t *testing.T, root *dom.Element, class string) {
	t.Helper()
	btn := findByClass(root, class)
	if btn == nil {
		t.Fatalf("button %q not found", class)
	}
	btn.Dispatch("click")
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

func TestCounterIncrementDecrement(t *testing.T) {
	body, _ := mountInBody(t, counterComponent(), nil)

	click(t, body, "inc")
	click(t, body, "inc")
	click(t, body, "inc")
	click(t, body, "dec")

	if got := findByClass(body, "count").TextContent(); got != "2" {
		t.Fatalf("count = %q, want 2", got)
	}
}

func TestCounterUnderflowsWithoutClamping(t *testing.T) {
	body, _ := mountInBody(t, counterComponent(), nil)

	click(t, body, "dec")
	if got := findByClass(body, "count").TextContent(); got != "-1" {
		t.Fatalf("count = %q, want -1", got)
	}
}

var todoTpl = template.Must(
	`<div><input type="text"><button class="add">add</button><ul></ul></div>`)

func todoComponent() *Component {
	return NewComponent("todos", func(*reactive.Store) []dom.Node {
		todos := reactive.NewSignal([]string{})
		text := reactive.NewSignal("")

		return H(todoTpl, Slots{
			1: {Bind: BindValue(text)},
			2: {Events: map[string]dom.Handler{"click": func(*dom.Event) {
				v := text.Peek()
				if v == "" {
					return
				}
				reactive.Batch(func() {
					todos.Update(func(items []string) []string {
						return append(append([]string(nil), items...), v)
					})
					text.Set("")
				})
			}}},
			3: {Children: []any{For(
				func() []string { return todos.Get() },
				func(item string, _ int) any { return item },
				func(item string, _ int) dom.Node {
					li := dom.NewElement("li")
					li.AppendChild(dom.NewText(item))
					return li
				},
				nil,
			)}},
		})
	})
}

func typeAndAdd(t *testing.T, body *dom.Element, value string) {
	t.Helper()
	input := findByTag(body, "input")
	input.Value = value
	input.Dispatch("input")
	click(t, body, "add")
}

func findByTag(root *dom.Element, tag string) *dom.Element {
	var found *dom.Element
	dom.Walk(root, func(n dom.Node) bool {
		if el, ok := n.(*dom.Element); ok && el.TagName == tag {
			found = el
			return false
		}
		return true
	})
	return found
}

func listItems(root *dom.Element) []*dom.Element {
	var items []*dom.Element
	dom.Walk(root, func(n dom.Node) bool {
		if el, ok := n.(*dom.Element); ok && el.TagName == "li" {
			items = append(items, el)
		}
		return true
	})
	return items
}

func TestTodoListAddAndDelete(t *testing.T) {
	body, _ := mountInBody(t, todoComponent(), nil)

	typeAndAdd(t, body, "todo-1")
	typeAndAdd(t, body, "todo-2")

	items := listItems(body)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].TextContent() != "todo-1" || items[1].TextContent() != "todo-2" {
		t.Fatalf("items out of insertion order: %q, %q",
			items[0].TextContent(), items[1].TextContent())
	}
	if got := findByTag(body, "input").Value; got != "" {
		t.Fatalf("input not cleared after add: %q", got)
	}
}

func TestTodoListDeleteFirstPreservesSecond(t *testing.T) {
	todos := reactive.NewSignal([]string{"todo-1", "todo-2"})
	body := dom.NewElement("body")
	ul := dom.NewElement("ul")
	body.AppendChild(ul)
	InsertChildren(ul, nil, For(
		func() []string { return todos.Get() },
		func(item string, _ int) any { return item },
		func(item string, _ int) dom.Node {
			li := dom.NewElement("li")
			li.AppendChild(dom.NewText(item))
			return li
		},
		nil,
	))

	second := listItems(body)[1]
	todos.Set([]string{"todo-2"})

	items := listItems(body)
	if len(items) != 1 || items[0] != second {
		t.Fatalf("delete did not preserve the surviving item's node")
	}
	if items[0].TextContent() != "todo-2" {
		t.Fatalf("surviving item = %q", items[0].TextContent())
	}
}

func TestMountPanicPropagates(t *testing.T) {
	boom := NewComponent("boom", func(*reactive.Store) []dom.Node {
		panic("render failed")
	})
	body := dom.NewElement("body")
	in := NewInstance(boom, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic from Mount")
		}
		if !strings.Contains(stringify(r), "render failed") {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	in.Mount(body, nil)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestMountHooksFire(t *testing.T) {
	mounted := false
	c := NewComponent("hooked", func(*reactive.Store) []dom.Node {
		reactive.OnMount(func() { mounted = true })
		return []dom.Node{dom.NewElement("div")}
	})
	mountInBody(t, c, nil)
	if !mounted {
		t.Fatalf("mount hook did not fire")
	}
}

func TestDestroyRemovesNodesAndDisposesScope(t *testing.T) {
	cleaned := false
	c := NewComponent("tidy", func(*reactive.Store) []dom.Node {
		reactive.OnCleanup(func() { cleaned = true })
		return []dom.Node{dom.NewElement("div")}
	})
	body, in := mountInBody(t, c, nil)

	in.Destroy()
	if body.ChildCount() != 0 {
		t.Fatalf("nodes remained after destroy")
	}
	if !cleaned {
		t.Fatalf("cleanup did not run")
	}
	if in.IsConnected() {
		t.Fatalf("destroyed instance still connected")
	}

	in.Destroy() // idempotent
}

func TestSetPropsRerenders(t *testing.T) {
	c := NewComponent("greeter", func(props *reactive.Store) []dom.Node {
		el := dom.NewElement("p")
		InsertChildren(el, nil, func() any {
			name, _ := props.Get("name").(string)
			return "hello " + name
		})
		return []dom.Node{el}
	})
	body, in := mountInBody(t, c, Props{"name": "ada"})

	if got := body.TextContent(); got != "hello ada" {
		t.Fatalf("initial render = %q", got)
	}
	in.SetProps(Props{"name": "grace"})
	if got := body.TextContent(); got != "hello grace" {
		t.Fatalf("after SetProps = %q", got)
	}
}

func TestForceUpdate(t *testing.T) {
	renders := 0
	c := NewComponent("hot", func(*reactive.Store) []dom.Node {
		renders++
		return []dom.Node{dom.NewElement("div")}
	})
	_, in := mountInBody(t, c, nil)

	in.ForceUpdate()
	if renders != 2 {
		t.Fatalf("renders = %d, want 2", renders)
	}
}

func TestInheritNode(t *testing.T) {
	c := NewComponent("a", func(*reactive.Store) []dom.Node {
		return []dom.Node{dom.NewElement("div")}
	})
	body, original := mountInBody(t, c, nil)
	root := original.Roots()[0]

	replacement := NewInstance(NewComponent("b", nil), nil)
	replacement.InheritNode(original)

	if len(replacement.Roots()) != 1 || replacement.Roots()[0] != root {
		t.Fatalf("nodes were not transplanted")
	}
	if !replacement.IsConnected() || original.IsConnected() {
		t.Fatalf("connectivity did not transfer")
	}
	if body.ChildCount() != 1 {
		t.Fatalf("DOM changed during inherit")
	}
}

func TestRerenderDoesNotAccumulateAttributeEffects(t *testing.T) {
	tick := reactive.NewSignal(0)
	color := reactive.NewSignal("red")
	attrRuns := 0

	tpl := template.Must(`<div class="swatch"></div>`)
	c := NewComponent("swatch", func(*reactive.Store) []dom.Node {
		tick.Get() // re-render on every tick
		return H(tpl, Slots{0: {Attrs: map[string]any{"data-color": func() any {
			attrRuns++
			return color.Get()
		}}}})
	})
	body, _ := mountInBody(t, c, nil)

	tick.Set(1)
	tick.Set(2)
	tick.Set(3)

	attrRuns = 0
	color.Set("blue")
	if attrRuns != 1 {
		t.Fatalf("one color write ran %d attribute effects, want 1", attrRuns)
	}
	if v, _ := findByClass(body, "swatch").GetAttribute("data-color"); v != "blue" {
		t.Fatalf("retained element attribute = %q, want blue", v)
	}
}

func TestRerenderKeepsRegionLive(t *testing.T) {
	tick := reactive.NewSignal(0)
	msg := reactive.NewSignal("one")
	thunkRuns := 0

	tpl := template.Must(`<p></p>`)
	c := NewComponent("caption", func(*reactive.Store) []dom.Node {
		tick.Get()
		return H(tpl, Slots{0: {Children: []any{func() any {
			thunkRuns++
			return msg.Get()
		}}}})
	})
	body, _ := mountInBody(t, c, nil)

	tick.Set(1)
	tick.Set(2)

	thunkRuns = 0
	msg.Set("two")
	if thunkRuns != 1 {
		t.Fatalf("one message write ran %d region thunks, want 1", thunkRuns)
	}
	if got := body.TextContent(); got != "two" {
		t.Fatalf("retained tree shows %q after region update, want two", got)
	}
}

func TestRerenderDisposesPreviousPassEffects(t *testing.T) {
	tick := reactive.NewSignal(0)
	dep := reactive.NewSignal(0)
	bodyRuns := 0

	c := NewComponent("worker", func(*reactive.Store) []dom.Node {
		tick.Get()
		reactive.NewEffect(func() reactive.Cleanup {
			dep.Get()
			bodyRuns++
			return nil
		})
		return []dom.Node{dom.NewElement("div")}
	})
	mountInBody(t, c, nil)

	tick.Set(1)
	tick.Set(2)

	bodyRuns = 0
	dep.Set(1)
	if bodyRuns != 1 {
		t.Fatalf("one dependency write ran %d render-body effects, want 1", bodyRuns)
	}
}
