package dom

import (
	"sort"
	"strings"
)

// SetAttribute sets or replaces an attribute, preserving first-set order.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// GetAttribute returns an attribute value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

// RemoveAttribute deletes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns a copy of the attribute list in document order.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.attrs...)
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.GetAttribute("id")
	return v
}

// ClassList returns the class attribute split on whitespace.
func (e *Element) ClassList() []string {
	v, _ := e.GetAttribute("class")
	return strings.Fields(v)
}

// AddClass adds a class token if absent.
func (e *Element) AddClass(name string) {
	if name == "" || e.HasClass(name) {
		return
	}
	classes := append(e.ClassList(), name)
	e.SetAttribute("class", strings.Join(classes, " "))
}

// RemoveClass removes a class token if present.
func (e *Element) RemoveClass(name string) {
	classes := e.ClassList()
	out := classes[:0]
	for _, c := range classes {
		if c != name {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		e.RemoveAttribute("class")
		return
	}
	e.SetAttribute("class", strings.Join(out, " "))
}

// HasClass reports whether the class token is present.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// SetStyle sets one property of the style attribute.
func (e *Element) SetStyle(property, value string) {
	styles := e.styleMap()
	if value == "" {
		delete(styles, property)
	} else {
		styles[property] = value
	}
	if len(styles) == 0 {
		e.RemoveAttribute("style")
		return
	}

	// Deterministic order keeps serialization stable.
	props := make([]string, 0, len(styles))
	for p := range styles {
		props = append(props, p)
	}
	sort.Strings(props)

	var sb strings.Builder
	for i, p := range props {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(p)
		sb.WriteString(": ")
		sb.WriteString(styles[p])
	}
	e.SetAttribute("style", sb.String())
}

// GetStyle returns one property of the style attribute.
func (e *Element) GetStyle(property string) string {
	return e.styleMap()[property]
}

func (e *Element) styleMap() map[string]string {
	styles := make(map[string]string)
	raw, _ := e.GetAttribute("style")
	for _, decl := range strings.Split(raw, ";") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		p := strings.TrimSpace(parts[0])
		v := strings.TrimSpace(parts[1])
		if p != "" && v != "" {
			styles[p] = v
		}
	}
	return styles
}

// voidElements have no closing tag and no children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoid reports whether the element is an HTML void element.
func (e *Element) IsVoid() bool {
	return voidElements[e.TagName]
}
