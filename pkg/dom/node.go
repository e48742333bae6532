package dom

import "strings"

// Node is a member of the document tree: an *Element, *Text, or *Comment.
type Node interface {
	// Parent returns the parent element, or nil for a detached node.
	Parent() *Element

	// CloneNode returns a copy of the node. A deep clone copies element
	// children; event listeners are never cloned.
	CloneNode(deep bool) Node

	setParent(*Element)
}

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Element is an HTML element node.
type Element struct {
	TagName string

	attrs    []Attr
	children []Node
	parent   *Element

	listeners map[string][]*listenerEntry
	discards  []func()

	// Live form state, distinct from the value/checked attributes the
	// element was created with.
	Value    string
	Checked  bool
	Selected bool
	Files    []File
}

// Text is a character-data node.
type Text struct {
	Data   string
	parent *Element
}

// Comment is a comment node. The runtime uses comments as slot anchors.
type Comment struct {
	Data     string
	parent   *Element
	discards []func()
}

// File describes an entry of a file input's live file list.
type File struct {
	Name        string
	ContentType string
	Size        int64

	// TempID references the server-side upload store entry.
	TempID string
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{TagName: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(data string) *Text {
	return &Text{Data: data}
}

// NewComment creates a detached comment node.
func NewComment(data string) *Comment {
	return &Comment{Data: data}
}

func (e *Element) Parent() *Element { return e.parent }
func (t *Text) Parent() *Element    { return t.parent }
func (c *Comment) Parent() *Element { return c.parent }

func (e *Element) setParent(p *Element) { e.parent = p }
func (t *Text) setParent(p *Element)    { t.parent = p }
func (c *Comment) setParent(p *Element) { c.parent = p }

// OnDiscard registers fn to run when a reconciler discards the node:
// removes it from the tree, or keeps an existing node and throws away
// this freshly rendered one. Reactive wiring bound to a node hooks its
// teardown here so it never outlives the node.
func (e *Element) OnDiscard(fn func()) {
	e.discards = append(e.discards, fn)
}

// Discard runs and clears this node's discard hooks. Child nodes are not
// visited; a reconciler removing a subtree walks it.
func (e *Element) Discard() {
	hooks := e.discards
	e.discards = nil
	for _, fn := range hooks {
		fn()
	}
}

// OnDiscard registers fn to run when a reconciler discards the comment.
func (c *Comment) OnDiscard(fn func()) {
	c.discards = append(c.discards, fn)
}

// Discard runs and clears the comment's discard hooks.
func (c *Comment) Discard() {
	hooks := c.discards
	c.discards = nil
	for _, fn := range hooks {
		fn()
	}
}

// CloneNode copies the element, its attributes, and (when deep) its
// children. Listeners, discard hooks, and live form state are not cloned.
func (e *Element) CloneNode(deep bool) Node {
	clone := &Element{
		TagName: e.TagName,
		attrs:   append([]Attr(nil), e.attrs...),
	}
	if deep {
		for _, child := range e.children {
			clone.AppendChild(child.CloneNode(true))
		}
	}
	return clone
}

func (t *Text) CloneNode(bool) Node {
	return &Text{Data: t.Data}
}

func (c *Comment) CloneNode(bool) Node {
	return &Comment{Data: c.Data}
}

// ChildNodes returns a copy of the child list.
func (e *Element) ChildNodes() []Node {
	return append([]Node(nil), e.children...)
}

// ChildCount returns the number of children without copying.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// FirstChild returns the first child, or nil.
func (e *Element) FirstChild() Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// LastChild returns the last child, or nil.
func (e *Element) LastChild() Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

// ChildAt returns the child at index i, or nil when out of range.
func (e *Element) ChildAt(i int) Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// IndexOf returns the position of child under e, or -1.
func (e *Element) IndexOf(child Node) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// NextSibling returns the node after child under e, or nil.
func (e *Element) NextSibling(child Node) Node {
	i := e.IndexOf(child)
	if i < 0 || i+1 >= len(e.children) {
		return nil
	}
	return e.children[i+1]
}

// AppendChild adds node as the last child, detaching it from any previous
// parent first.
func (e *Element) AppendChild(node Node) {
	if node == nil {
		return
	}
	detach(node)
	node.setParent(e)
	e.children = append(e.children, node)
}

// InsertBefore inserts node before ref. A nil ref appends. If ref is not a
// child of e, node is appended.
func (e *Element) InsertBefore(node, ref Node) {
	if node == nil {
		return
	}
	if ref == nil {
		e.AppendChild(node)
		return
	}
	idx := e.IndexOf(ref)
	if idx < 0 {
		e.AppendChild(node)
		return
	}

	// Moving a node already under e before one of its later siblings
	// shifts the target index after detachment.
	if node.Parent() == e {
		if cur := e.IndexOf(node); cur >= 0 && cur < idx {
			idx--
		}
	}
	detach(node)
	node.setParent(e)

	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = node
}

// RemoveChild detaches child from e. Unknown children are ignored.
func (e *Element) RemoveChild(child Node) {
	idx := e.IndexOf(child)
	if idx < 0 {
		return
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	child.setParent(nil)
}

// ReplaceChild swaps newChild into oldChild's position.
func (e *Element) ReplaceChild(newChild, oldChild Node) {
	idx := e.IndexOf(oldChild)
	if idx < 0 {
		return
	}
	detach(newChild)
	oldChild.setParent(nil)
	newChild.setParent(e)
	e.children[idx] = newChild
}

// RemoveAllChildren detaches every child.
func (e *Element) RemoveAllChildren() {
	for _, c := range e.children {
		c.setParent(nil)
	}
	e.children = nil
}

// TextContent concatenates the text of the subtree.
func (e *Element) TextContent() string {
	var sb strings.Builder
	collectText(e, &sb)
	return sb.String()
}

func collectText(n Node, sb *strings.Builder) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(v.Data)
	case *Element:
		for _, c := range v.children {
			collectText(c, sb)
		}
	}
}

// detach removes node from its current parent, if any.
func detach(node Node) {
	if p := node.Parent(); p != nil {
		p.RemoveChild(node)
	}
}

// IsConnectedTo reports whether node sits under root.
func IsConnectedTo(node Node, root *Element) bool {
	for cur := node; cur != nil; {
		if cur == Node(root) {
			return true
		}
		p := cur.Parent()
		if p == nil {
			return false
		}
		cur = p
	}
	return false
}

// Walk visits node and every descendant element/text/comment in document
// order. Returning false from visit stops the walk.
func Walk(node Node, visit func(Node) bool) bool {
	if !visit(node) {
		return false
	}
	if el, ok := node.(*Element); ok {
		for _, c := range el.children {
			if !Walk(c, visit) {
				return false
			}
		}
	}
	return true
}

// FindByAttr returns the first element under root (inclusive) with the
// given attribute value, or nil.
func FindByAttr(root *Element, name, value string) *Element {
	var found *Element
	Walk(root, func(n Node) bool {
		if el, ok := n.(*Element); ok {
			if v, present := el.GetAttribute(name); present && v == value {
				found = el
				return false
			}
		}
		return true
	})
	return found
}
