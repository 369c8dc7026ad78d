package htmldoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page. It exposes the small slice of DOM
// navigation the extraction pipeline needs: descendant search by tag
// and class, trimmed text, and child traversal.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return &Element{node: d.root}
}

// Find returns all descendant elements with the given tag, in document order.
func (d *Document) Find(tag string) []*Element {
	return d.Root().Find(tag)
}

// FindClass returns all descendant elements carrying the given class,
// regardless of tag, in document order.
func (d *Document) FindClass(class string) []*Element {
	return d.Root().FindClass(class)
}

// First returns the first descendant with the given tag, optionally
// restricted to elements carrying the given class. Returns nil if no
// element matches.
func (d *Document) First(tag, class string) *Element {
	return d.Root().First(tag, class)
}

// Element wraps a single element node.
type Element struct {
	node *html.Node
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return e.node.Data
}

// Attr returns the value of the named attribute, or "" if absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether the element's class attribute contains the
// given class name.
func (e *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Text returns the concatenated text of the element and its descendants,
// with runs of whitespace collapsed to single spaces and the result trimmed.
func (e *Element) Text() string {
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// Find returns all descendant elements with the given tag, in document order.
func (e *Element) Find(tag string) []*Element {
	return e.collect(func(n *html.Node) bool {
		return n.Data == tag
	})
}

// FindAny returns all descendants matching any of the given tags, in
// document order. Used for mixed th/td table rows.
func (e *Element) FindAny(tags ...string) []*Element {
	return e.collect(func(n *html.Node) bool {
		for _, tag := range tags {
			if n.Data == tag {
				return true
			}
		}
		return false
	})
}

// FindClass returns all descendants carrying the given class, in document order.
func (e *Element) FindClass(class string) []*Element {
	return e.collect(func(n *html.Node) bool {
		return nodeHasClass(n, class)
	})
}

// First returns the first descendant with the given tag, optionally
// restricted by class. Returns nil if nothing matches.
func (e *Element) First(tag, class string) *Element {
	var found *Element
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n != e.node && n.Type == html.ElementNode && n.Data == tag {
			if class == "" || nodeHasClass(n, class) {
				found = &Element{node: n}
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(e.node)
	return found
}

// Children returns the element's direct element children.
func (e *Element) Children() []*Element {
	var kids []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			kids = append(kids, &Element{node: c})
		}
	}
	return kids
}

// NextSibling returns the next element sibling, or nil.
func (e *Element) NextSibling() *Element {
	for n := e.node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return &Element{node: n}
		}
	}
	return nil
}

func (e *Element) collect(match func(*html.Node) bool) []*Element {
	var out []*Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n != e.node && n.Type == html.ElementNode && match(n) {
			out = append(out, &Element{node: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return out
}

func nodeHasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
