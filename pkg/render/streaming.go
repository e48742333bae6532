package render

import (
	"fmt"
	"io"
	"net/http"

	"github.com/filament-ui/filament/pkg/dom"
)

// StreamingRenderer writes a page with chunked output support, flushing
// the head early for faster time-to-first-byte.
type StreamingRenderer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewStreamingRenderer creates a streaming renderer over an
// http.ResponseWriter. If the writer implements http.Flusher, content
// is flushed after the head and after the body.
func NewStreamingRenderer(w http.ResponseWriter) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{w: w, flusher: flusher}
}

// RenderPage renders a complete HTML document with incremental flushing.
func (s *StreamingRenderer) RenderPage(page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(s.w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", dom.EscapeAttr(lang)); err != nil {
		return err
	}
	if err := renderHead(s.w, page); err != nil {
		return err
	}

	// First paint needs only the head.
	s.flush()

	if _, err := io.WriteString(s.w, "<body>\n<div id=\"app\">"); err != nil {
		return err
	}
	if page.Root != nil {
		if err := RenderToWriter(s.w, page.Root, page.Props); err != nil {
			return err
		}
	} else if page.Body != "" {
		if _, err := io.WriteString(s.w, page.Body); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(s.w, "</div>\n"); err != nil {
		return err
	}
	s.flush()

	if err := renderScripts(s.w, page.Scripts); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, "</body>\n</html>\n")
	return err
}

func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
