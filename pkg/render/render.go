package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/runtime"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger replaces the package logger. The default is slog.Default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// RenderToString renders a component to an HTML string with hydration
// keys embedded. A panic inside the component's render function is
// recovered and logged; the result is then an empty string and the
// recovered error.
func RenderToString(c *runtime.Component, props runtime.Props) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log().Error("render to string failed",
				"component", componentName(c),
				"panic", r,
			)
			html = ""
			err = fmt.Errorf("render %s: %v", componentName(c), r)
		}
	}()

	body := dom.NewElement("body")
	in := runtime.MountSSR(c, props, body)
	html = body.InnerHTML()
	in.Destroy()
	return html, nil
}

// RenderToWriter streams a component's HTML to w.
func RenderToWriter(w io.Writer, c *runtime.Component, props runtime.Props) error {
	html, err := RenderToString(c, props)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}

// Hydrate re-attaches a component to server-rendered markup inside
// container, reusing the existing nodes. The component must be the one
// the markup was rendered from, with the same props-driven structure. A
// render panic is recovered and logged, and Hydrate returns nil.
func Hydrate(c *runtime.Component, props runtime.Props, container *dom.Element) (in *runtime.Instance) {
	defer func() {
		if r := recover(); r != nil {
			log().Error("hydrate failed",
				"component", componentName(c),
				"panic", r,
			)
			in = nil
		}
	}()
	return runtime.MountHydrate(c, props, container)
}

// ParseContainer parses server-produced HTML into a detached container
// element ready for Hydrate.
func ParseContainer(html string) (*dom.Element, error) {
	nodes, err := dom.ParseFragment(html)
	if err != nil {
		return nil, fmt.Errorf("parse container: %w", err)
	}
	container := dom.NewElement("body")
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

func componentName(c *runtime.Component) string {
	if c != nil && c.Name != "" {
		return c.Name
	}
	return "component"
}

// stripHydrationKeys removes data-hk/data-idx attributes, for callers
// that serve markup which will never be hydrated.
func stripHydrationKeys(root *dom.Element) {
	dom.Walk(root, func(n dom.Node) bool {
		if el, ok := n.(*dom.Element); ok {
			el.RemoveAttribute("data-hk")
			el.RemoveAttribute("data-idx")
		}
		return true
	})
}

// RenderStatic renders a component without hydration keys.
func RenderStatic(c *runtime.Component, props runtime.Props) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log().Error("static render failed",
				"component", componentName(c),
				"panic", r,
			)
			html = ""
			err = fmt.Errorf("render %s: %v", componentName(c), r)
		}
	}()

	body := dom.NewElement("body")
	in := runtime.MountSSR(c, props, body)
	stripHydrationKeys(body)
	html = body.InnerHTML()
	in.Destroy()

	// Region markers are meaningless without hydration.
	html = strings.ReplaceAll(html, "<!---->", "")
	return html, nil
}
