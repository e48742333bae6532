package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment into detached nodes. Parsing uses
// the standard HTML5 algorithm in a body context, so table fragments and
// other context-sensitive markup must be wrapped by the caller.
func ParseFragment(markup string) ([]Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var out []Node
	for _, n := range parsed {
		if converted := convert(n); converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}

// MustParseFragment is ParseFragment that panics on error, for static
// markup known at compile time.
func MustParseFragment(markup string) []Node {
	nodes, err := ParseFragment(markup)
	if err != nil {
		panic(err)
	}
	return nodes
}

func convert(n *html.Node) Node {
	switch n.Type {
	case html.ElementNode:
		el := NewElement(n.Data)
		for _, a := range n.Attr {
			el.SetAttribute(a.Key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				el.AppendChild(child)
			}
		}
		return el
	case html.TextNode:
		return NewText(n.Data)
	case html.CommentNode:
		return NewComment(n.Data)
	default:
		return nil
	}
}
