// Package static holds the page document and its companion assets, and
// derives the server-side layout from the page markup.
package static

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/net/html"

	"ascendant/internal/render"
)

// PageName is the document served for the root path
const PageName = "ascendant-protocol.html"

//go:embed assets/*.html assets/*.css assets/*.js
var assets embed.FS

// FS exposes the page assets for HTTP serving
var FS = mustSub(assets, "assets")

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Page returns the page document from fsys
func Page(fsys fs.FS) ([]byte, error) {
	data, err := fs.ReadFile(fsys, PageName)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return data, nil
}

// Layout is the element tree of the page: every element carrying an id, hung
// under its nearest ancestor that also carries one.
type Layout struct {
	nodes []node
}

type node struct {
	id      string
	parent  string
	tag     string
	classes []string
	attrs   [][2]string
	text    string
}

// ParseLayout reads the id-carrying elements out of a page document
func ParseLayout(page []byte) (*Layout, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	l := &Layout{}
	seen := make(map[string]bool)
	var walk func(n *html.Node, parent string)
	walk = func(n *html.Node, parent string) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" && !seen[id] {
				seen[id] = true
				l.nodes = append(l.nodes, elementNode(n, id, parent))
				parent = id
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, parent)
		}
	}
	walk(root, "")

	if len(l.nodes) == 0 {
		return nil, fmt.Errorf("parse page: no identified elements")
	}
	return l, nil
}

func elementNode(n *html.Node, id, parent string) node {
	out := node{id: id, parent: parent, tag: n.Data}
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
		case "class":
			out.classes = strings.Fields(a.Val)
		default:
			out.attrs = append(out.attrs, [2]string{a.Key, a.Val})
		}
	}
	if c := n.FirstChild; c != nil && c.NextSibling == nil && c.Type == html.TextNode {
		out.text = strings.TrimSpace(c.Data)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// IDs returns every element id in document order
func (l *Layout) IDs() []string {
	out := make([]string, len(l.nodes))
	for i, n := range l.nodes {
		out[i] = n.id
	}
	return out
}

// Has reports whether the page carries an element with id
func (l *Layout) Has(id string) bool {
	for _, n := range l.nodes {
		if n.id == id {
			return true
		}
	}
	return false
}

// Mount builds a fresh document holding the layout
func (l *Layout) Mount() *render.Document {
	doc := render.NewDocument()
	for _, n := range l.nodes {
		if n.parent == "" {
			doc.Mount(n.id, n.tag, n.classes...)
		} else {
			doc.Create(n.parent, n.id, n.tag)
			for _, c := range n.classes {
				doc.ToggleClass(n.id, c, true)
			}
		}
		for _, a := range n.attrs {
			doc.SetAttr(n.id, a[0], a[1])
		}
		if n.text != "" {
			doc.SetText(n.id, n.text)
		}
	}
	return doc
}

// DefaultLayout parses the embedded page
func DefaultLayout() (*Layout, error) {
	page, err := Page(FS)
	if err != nil {
		return nil, err
	}
	return ParseLayout(page)
}
