// Package dom is the small document model behind the lesson page.
//
// A Document wraps an HTML tree parsed with golang.org/x/net/html and adds the
// handful of browser behaviours the playground needs: element lookup by id,
// class and CSS selector, templates, text content, class lists, inline styles
// and bubbling event dispatch.
//
// Contract:
// - Concurrency: a Document is not safe for concurrent use; confine it to the
// page loop.
// - Errors: invalid selectors return ErrInvalidSelector; lookups that find
// nothing return nil rather than an error.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidSelector is returned for CSS selectors that do not compile.
var ErrInvalidSelector = errors.New("invalid selector")

// Document is a parsed page.
type Document struct {
	root      *html.Node
	listeners map[*html.Node][]listener
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node][]listener),
	}, nil
}

// ParseString reads an HTML document from s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node. It is also the event target standing for
// the document itself.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element.
func (d *Document) Body() *html.Node {
	var body *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return false
		}
		return true
	})
	return body
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether n is attached to the document tree.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// GetElementsByClassName returns every element carrying all of the
// whitespace-separated class names, in document order.
func (d *Document) GetElementsByClassName(names string) []*html.Node {
	return ElementsByClassName(d.root, names)
}

// ElementsByClassName returns the descendants of n carrying all of the given
// class names.
func ElementsByClassName(n *html.Node, names string) []*html.Node {
	want := strings.Fields(names)
	if len(want) == 0 {
		return nil
	}
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c == n || c.Type != html.ElementNode {
			return true
		}
		for _, w := range want {
			if !HasClass(c, w) {
				return true
			}
		}
		out = append(out, c)
		return true
	})
	return out
}

// QuerySelector returns the first element in the document matching sel.
func (d *Document) QuerySelector(sel string) (*html.Node, error) {
	return QuerySelector(d.root, sel)
}

// QuerySelectorAll returns every element in the document matching sel.
func (d *Document) QuerySelectorAll(sel string) ([]*html.Node, error) {
	return QuerySelectorAll(d.root, sel)
}

// QuerySelector returns the first descendant of n matching sel.
func QuerySelector(n *html.Node, sel string) (*html.Node, error) {
	all, err := QuerySelectorAll(n, sel)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// QuerySelectorAll returns every descendant of n matching sel, in document
// order. n itself is never part of the result.
func QuerySelectorAll(n *html.Node, sel string) ([]*html.Node, error) {
	s, err := compile(sel)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c != n && c.Type == html.ElementNode && s.Match(c) {
			out = append(out, c)
		}
		return true
	})
	return out, nil
}

// Matches reports whether element n matches sel.
func Matches(n *html.Node, sel string) (bool, error) {
	s, err := compile(sel)
	if err != nil {
		return false, err
	}
	return n != nil && n.Type == html.ElementNode && s.Match(n), nil
}

// Closest returns n or its nearest ancestor element matching sel.
func Closest(n *html.Node, sel string) (*html.Node, error) {
	s, err := compile(sel)
	if err != nil {
		return nil, err
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && s.Match(p) {
			return p, nil
		}
	}
	return nil, nil
}

func compile(sel string) (cascadia.Selector, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel, err)
	}
	return s, nil
}

// TemplateContent returns deep copies of the children of the template
// element with the given id. It returns false if there is no such template.
func (d *Document) TemplateContent(id string) ([]*html.Node, bool) {
	tpl := d.GetElementByID(id)
	if tpl == nil || tpl.DataAtom != atom.Template {
		return nil, false
	}
	var out []*html.Node
	for c := tpl.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, Clone(c))
	}
	return out, true
}

// Clone returns a deep copy of n detached from any tree.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Append attaches nodes as the last children of parent, detaching them from
// any previous parent first.
func Append(parent *html.Node, nodes ...*html.Node) {
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.AppendChild(n)
	}
}

// Find returns the first node in nodes or their descendants satisfying match.
func Find(nodes []*html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	for _, n := range nodes {
		walk(n, func(c *html.Node) bool {
			if match(c) {
				found = c
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// ByID returns a matcher for elements with the given id.
func ByID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	}
}

// Render serialises n and its descendants.
func Render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return b.String()
		}
	}
	return b.String()
}

// walk visits n and its descendants depth-first until visit returns false.
// Template contents are inert and never visited.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Template {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
