// Package dom provides the small slice of a browser document model that
// xloss needs on the server: an HTML tree with id lookup and markup
// insertion, a custom element registry with connected callbacks, and a
// stylesheet object model bound to <style> elements.
//
// The tree is a golang.org/x/net/html node tree; queries go through
// htmlquery (XPath).
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skeleton = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is a mutable HTML document.
//
// Document is not safe for concurrent use; callers serialize access.
type Document struct {
	root     *html.Node
	head     *html.Node
	body     *html.Node
	elements *CustomElementRegistry
	sheets   map[*html.Node]*StyleSheet
	upgraded map[*html.Node]bool
}

// New returns an empty document with head and body.
func New() *Document {
	doc, err := Parse(strings.NewReader(skeleton))
	if err != nil {
		// The skeleton is a constant; failing to parse it is a programming error.
		panic(fmt.Sprintf("dom: parse skeleton: %v", err))
	}
	return doc
}

// Parse reads an HTML document. The HTML parser always synthesizes
// html, head and body elements, so the result is never missing them.
func Parse(r io.Reader) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, err
	}

	d := &Document{
		root:     root,
		head:     htmlquery.FindOne(root, "//head"),
		body:     htmlquery.FindOne(root, "//body"),
		sheets:   make(map[*html.Node]*StyleSheet),
		upgraded: make(map[*html.Node]bool),
	}
	if d.head == nil || d.body == nil {
		return nil, errors.New("dom: document has no head or body")
	}
	d.elements = &CustomElementRegistry{doc: d, defs: make(map[string]ElementDefinition)}
	return d, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Head returns the head element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the body element.
func (d *Document) Body() *html.Node { return d.body }

// CustomElements returns the document's custom element registry.
func (d *Document) CustomElements() *CustomElementRegistry { return d.elements }

// GetElementByID returns the first element whose id attribute equals id,
// or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	n, err := htmlquery.Query(d.root, "//*[@id="+xpathLiteral(id)+"]")
	if err != nil {
		return nil
	}
	return n
}

// QueryAll evaluates an XPath expression against the document.
func (d *Document) QueryAll(expr string) ([]*html.Node, error) {
	return htmlquery.QueryAll(d.root, expr)
}

// CreateElement returns a detached element.
func CreateElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// AppendChild moves child to the end of parent's children and runs the
// connected callback of every newly attached custom element in its subtree.
func (d *Document) AppendChild(parent, child *html.Node) error {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
	return d.upgrade(child)
}

// AppendHTML parses markup in the context of parent and appends the
// resulting nodes to it.
func (d *Document) AppendHTML(parent *html.Node, markup string) error {
	if markup == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	for _, n := range nodes {
		if err := d.AppendChild(parent, n); err != nil {
			return err
		}
	}
	return nil
}

// Remove detaches n from the document.
func (d *Document) Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	delete(d.sheets, n)
}

// Contains reports whether n is attached to the document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// InHead reports whether n is the head element or sits inside it.
func (d *Document) InHead(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.head {
			return true
		}
	}
	return false
}

// AcceptsChildren reports whether elements appended to n survive
// serialization. Void elements cannot have children at all, and the
// contents of raw text and RCDATA elements are written as text.
func AcceptsChildren(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return false
	case atom.Style, atom.Script, atom.Xmp, atom.Iframe, atom.Noembed,
		atom.Noframes, atom.Noscript, atom.Plaintext, atom.Textarea, atom.Title:
		return false
	}
	return true
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the rendered document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OuterHTML serializes n including its own tag.
func OuterHTML(n *html.Node) string {
	return htmlquery.OutputHTML(n, true)
}

// TextContent returns the concatenated text of n's subtree.
func TextContent(n *html.Node) string {
	return htmlquery.InnerText(n)
}

// SetText replaces all children of n with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	return htmlquery.SelectAttr(n, key)
}

// SetAttr sets attribute key on n, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// upgrade runs connected callbacks for custom elements in n's subtree that
// are attached and have not been upgraded yet.
func (d *Document) upgrade(n *html.Node) error {
	if !d.Contains(n) {
		return nil
	}

	var pending []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && !d.upgraded[c] {
			if _, ok := d.elements.defs[c.Data]; ok {
				pending = append(pending, c)
			}
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)

	for _, el := range pending {
		d.upgraded[el] = true
		def := d.elements.defs[el.Data]
		if def.Connected == nil {
			continue
		}
		if err := def.Connected(d, el); err != nil {
			return fmt.Errorf("dom: connect <%s>: %w", el.Data, err)
		}
	}
	return nil
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
