// Package render turns application state into HTML node trees. Every
// function is pure: the same state always yields the same tree, and no
// function touches I/O until Render writes a finished tree.
package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func elem(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	if class != "" {
		setAttr(n, "class", class)
	}
	appendAll(n, children...)
	return n
}

func appendAll(n *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) *html.Node {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return n
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

func withAttrs(n *html.Node, kv ...string) *html.Node {
	for i := 0; i+1 < len(kv); i += 2 {
		setAttr(n, kv[i], kv[i+1])
	}
	return n
}

func link(href, class string, children ...*html.Node) *html.Node {
	return withAttrs(elem(atom.A, class, children...), "href", href)
}

func textElem(a atom.Atom, class, s string) *html.Node {
	return elem(a, class, text(s))
}

// fragment parses trusted HTML (rendered markdown) into nodes under a div
// context.
func fragment(src string) []*html.Node {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return []*html.Node{text(src)}
	}
	return nodes
}

// Render writes n as HTML.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// String renders n to a string.
func String(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// Strings renders a node list.
func Strings(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		html.Render(&b, n)
	}
	return b.String()
}
