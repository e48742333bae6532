package live

import (
	"github.com/filament-ui/filament/pkg/dom"
)

// Client-to-server message types.
const (
	msgEvent = "event"
	msgPing  = "ping"
)

// Server-to-client message types.
const (
	msgPatch = "patch"
	msgPong  = "pong"
	msgError = "error"
)

// Error codes sent to the client, from the framework error registry.
const (
	errInvalidMessage = "F202"
	errStaleTarget    = "F203"
)

// clientMessage is one JSON frame read from the socket.
type clientMessage struct {
	Type string `json:"type"`

	// Path addresses the target element by child indexes from the
	// session root.
	Path []int `json:"path,omitempty"`

	// Event is the DOM event type ("click", "input", "change", ...).
	Event string `json:"event,omitempty"`

	Value    string    `json:"value,omitempty"`
	Checked  bool      `json:"checked,omitempty"`
	Selected []string  `json:"selected,omitempty"`
	Key      string    `json:"key,omitempty"`
	Files    []fileRef `json:"files,omitempty"`
}

// fileRef identifies a previously uploaded file in a change event.
type fileRef struct {
	TempID      string `json:"temp_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// serverMessage is one JSON frame written to the socket.
type serverMessage struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// applyFormState writes the client-reported form state onto the target,
// the way a browser updates an input before firing its event. The
// dispatcher then snapshots this live state into the event.
func applyFormState(target *dom.Element, msg *clientMessage) {
	target.Value = msg.Value
	target.Checked = msg.Checked
	if msg.Files != nil {
		files := make([]dom.File, 0, len(msg.Files))
		for _, f := range msg.Files {
			files = append(files, dom.File{
				Name:        f.Name,
				ContentType: f.ContentType,
				Size:        f.Size,
				TempID:      f.TempID,
			})
		}
		target.Files = files
	}
	if target.TagName == "select" {
		selected := make(map[string]bool, len(msg.Selected))
		for _, v := range msg.Selected {
			selected[v] = true
		}
		dom.Walk(target, func(n dom.Node) bool {
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
}

// resolvePath walks child indexes from root and returns the element at
// the end of the path, or nil when the path no longer matches the tree.
func resolvePath(root *dom.Element, path []int) *dom.Element {
	if len(path) == 0 {
		return nil
	}
	cur := dom.Node(root)
	for _, idx := range path {
		el, ok := cur.(*dom.Element)
		if !ok {
			return nil
		}
		cur = el.ChildAt(idx)
		if cur == nil {
			return nil
		}
	}
	el, _ := cur.(*dom.Element)
	return el
}

// pathTo computes the child-index path of el relative to root, for tests
// and server-initiated focus hints. Returns nil when el is not under
// root.
func pathTo(root *dom.Element, el *dom.Element) []int {
	var path []int
	cur := dom.Node(el)
	for {
		parent := nodeParent(cur)
		if parent == nil {
			return nil
		}
		idx := parent.IndexOf(cur)
		if idx < 0 {
			return nil
		}
		path = append([]int{idx}, path...)
		if parent == root {
			return path
		}
		cur = parent
	}
}

func nodeParent(n dom.Node) *dom.Element {
	switch v := n.(type) {
	case *dom.Element:
		return v.Parent()
	case *dom.Text:
		return v.Parent()
	case *dom.Comment:
		return v.Parent()
	}
	return nil
}
