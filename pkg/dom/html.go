package dom

import "strings"

// OuterHTML serializes the node and its subtree.
func OuterHTML(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for _, c := range e.children {
		writeNode(&sb, c)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(EscapeText(v.Data))
	case *Comment:
		sb.WriteString("<!--")
		sb.WriteString(v.Data)
		sb.WriteString("-->")
	case *Element:
		sb.WriteByte('<')
		sb.WriteString(v.TagName)
		for _, a := range v.attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
			if a.Value != "" || !booleanAttrs[a.Name] {
				sb.WriteString(`="`)
				sb.WriteString(EscapeAttr(a.Value))
				sb.WriteByte('"')
			}
		}
		sb.WriteByte('>')
		if v.IsVoid() {
			return
		}
		for _, c := range v.children {
			writeNode(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(v.TagName)
		sb.WriteByte('>')
	}
}

// booleanAttrs serialize without a value when empty.
var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "selected": true, "readonly": true,
	"required": true, "autofocus": true, "multiple": true, "hidden": true,
	"open": true,
}

// EscapeText escapes content for HTML text position.
func EscapeText(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// EscapeAttr escapes content for HTML attribute position.
func EscapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
