package render

import (
	"fmt"
	"io"

	"github.com/filament-ui/filament/pkg/dom"
	"github.com/filament-ui/filament/pkg/runtime"
)

// PageData contains everything needed to render a complete HTML page
// around a root component.
type PageData struct {
	// Root is the page's root component.
	Root *runtime.Component

	// Props are passed to the root component.
	Props runtime.Props

	// Body is pre-rendered markup for the app container, used instead
	// of Root when Root is nil. Live sessions render their own tree and
	// pass the markup here.
	Body string

	// Title is the page title.
	Title string

	// Meta contains meta tags for the page head.
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, preloads).
	Links []LinkTag

	// Scripts contains script tags to include at the end of the body.
	Scripts []ScriptTag

	// Styles contains inline CSS blocks.
	Styles []string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// SessionID identifies the live session for reconnection.
	SessionID string

	// Lang is the html element's language attribute, "en" by default.
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string
	Content   string
	Property  string
	HTTPEquiv string
	Charset   string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string
	Href        string
	Type        string
	Sizes       string
	CrossOrigin string
	Media       string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Type   string
	Defer  bool
	Async  bool
	Module bool
	Inline string
}

// RenderPage writes a complete HTML document to w.
func RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", dom.EscapeAttr(lang)); err != nil {
		return err
	}
	if err := renderHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if page.SessionID != "" {
		if _, err := fmt.Fprintf(w, `<div id="app" data-session="%s">`, dom.EscapeAttr(page.SessionID)); err != nil {
			return err
		}
	} else {
		if _, err := io.WriteString(w, `<div id="app">`); err != nil {
			return err
		}
	}

	if page.Root != nil {
		if err := RenderToWriter(w, page.Root, page.Props); err != nil {
			return err
		}
	} else if page.Body != "" {
		if _, err := io.WriteString(w, page.Body); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}
	if err := renderScripts(w, page.Scripts); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

func renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"); err != nil {
		return err
	}

	for _, m := range page.Meta {
		if err := renderMeta(w, m); err != nil {
			return err
		}
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", dom.EscapeText(page.Title)); err != nil {
			return err
		}
	}
	for _, l := range page.Links {
		if err := renderLink(w, l); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n", dom.EscapeAttr(href)); err != nil {
			return err
		}
	}
	for _, css := range page.Styles {
		if _, err := fmt.Fprintf(w, "<style>%s</style>\n", css); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

func renderMeta(w io.Writer, m MetaTag) error {
	if m.Charset != "" {
		_, err := fmt.Fprintf(w, "<meta charset=\"%s\">\n", dom.EscapeAttr(m.Charset))
		return err
	}
	if m.Name != "" {
		_, err := fmt.Fprintf(w, "<meta name=\"%s\" content=\"%s\">\n",
			dom.EscapeAttr(m.Name), dom.EscapeAttr(m.Content))
		return err
	}
	if m.Property != "" {
		_, err := fmt.Fprintf(w, "<meta property=\"%s\" content=\"%s\">\n",
			dom.EscapeAttr(m.Property), dom.EscapeAttr(m.Content))
		return err
	}
	if m.HTTPEquiv != "" {
		_, err := fmt.Fprintf(w, "<meta http-equiv=\"%s\" content=\"%s\">\n",
			dom.EscapeAttr(m.HTTPEquiv), dom.EscapeAttr(m.Content))
		return err
	}
	return nil
}

func renderLink(w io.Writer, l LinkTag) error {
	if _, err := fmt.Fprintf(w, "<link rel=\"%s\" href=\"%s\"",
		dom.EscapeAttr(l.Rel), dom.EscapeAttr(l.Href)); err != nil {
		return err
	}
	if l.Type != "" {
		if _, err := fmt.Fprintf(w, " type=\"%s\"", dom.EscapeAttr(l.Type)); err != nil {
			return err
		}
	}
	if l.Sizes != "" {
		if _, err := fmt.Fprintf(w, " sizes=\"%s\"", dom.EscapeAttr(l.Sizes)); err != nil {
			return err
		}
	}
	if l.CrossOrigin != "" {
		if _, err := fmt.Fprintf(w, " crossorigin=\"%s\"", dom.EscapeAttr(l.CrossOrigin)); err != nil {
			return err
		}
	}
	if l.Media != "" {
		if _, err := fmt.Fprintf(w, " media=\"%s\"", dom.EscapeAttr(l.Media)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

func renderScripts(w io.Writer, scripts []ScriptTag) error {
	for _, s := range scripts {
		if s.Inline != "" {
			if _, err := fmt.Fprintf(w, "<script>%s</script>\n", s.Inline); err != nil {
				return err
			}
			continue
		}
		typ := s.Type
		if s.Module {
			typ = "module"
		}
		if _, err := fmt.Fprintf(w, "<script src=\"%s\"", dom.EscapeAttr(s.Src)); err != nil {
			return err
		}
		if typ != "" {
			if _, err := fmt.Fprintf(w, " type=\"%s\"", dom.EscapeAttr(typ)); err != nil {
				return err
			}
		}
		if s.Defer {
			if _, err := io.WriteString(w, " defer"); err != nil {
				return err
			}
		}
		if s.Async {
			if _, err := io.WriteString(w, " async"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "></script>\n"); err != nil {
			return err
		}
	}
	return nil
}
