package dom

import (
	"strings"

	"golang.org/x/net/html"
)

func attr(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets attribute key on n, replacing any previous value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// SetBoolAttr adds or removes a boolean attribute such as disabled or hidden.
func SetBoolAttr(n *html.Node, key string, on bool) {
	if on {
		SetAttr(n, key, key)
		return
	}
	RemoveAttr(n, key)
}

// ID returns the id attribute of n.
func ID(n *html.Node) string {
	return attr(n, "id")
}

// TagName returns the upper-case tag name of an element, as browsers report
// it for HTML documents.
func TagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToUpper(n.Data)
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, have := range Classes(n) {
		if have == c {
			return true
		}
	}
	return false
}

// AddClass adds c to the class list of n.
func AddClass(n *html.Node, c string) {
	if c == "" || HasClass(n, c) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), c), " "))
}

// RemoveClass removes c from the class list of n.
func RemoveClass(n *html.Node, c string) {
	if !HasClass(n, c) {
		return
	}
	var keep []string
	for _, have := range Classes(n) {
		if have != c {
			keep = append(keep, have)
		}
	}
	SetAttr(n, "class", strings.Join(keep, " "))
}

// ToggleClass flips c on n and reports whether it is now present.
func ToggleClass(n *html.Node, c string) bool {
	if HasClass(n, c) {
		RemoveClass(n, c)
		return false
	}
	AddClass(n, c)
	return true
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Style returns the inline style declarations of n in source order.
func Style(n *html.Node) [][2]string {
	var out [][2]string
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		name, val, ok := strings.Cut(decl, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		out = append(out, [2]string{name, strings.TrimSpace(val)})
	}
	return out
}

// StyleProperty returns the inline value of a CSS property such as
// "background-color".
func StyleProperty(n *html.Node, name string) string {
	for _, d := range Style(n) {
		if d[0] == name {
			return d[1]
		}
	}
	return ""
}

// SetStyleProperty sets an inline CSS property. An empty value removes it.
func SetStyleProperty(n *html.Node, name, val string) {
	decls := Style(n)
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if d[0] == name {
			if val == "" {
				continue
			}
			d[1] = val
			replaced = true
		}
		out = append(out, d)
	}
	if !replaced && val != "" {
		out = append(out, [2]string{name, val})
	}
	if len(out) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, len(out))
	for i, d := range out {
		parts[i] = d[0] + ": " + d[1]
	}
	SetAttr(n, "style", strings.Join(parts, "; ")+";")
}

// CSSName converts a camel-case style property such as backgroundColor to its
// CSS form background-color.
func CSSName(prop string) string {
	var b strings.Builder
	for _, r := range prop {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ParentElement returns the nearest ancestor of n that is an element.
func ParentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}
