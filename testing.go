package xloss

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/pthm/xloss/lib/dom"
	"golang.org/x/net/html"
)

// TestResult holds a rendered page for assertions.
type TestResult struct {
	HTML string
	root *html.Node
}

// TestRender renders page and parses the output back, so assertions run
// against what a client would receive.
//
//	result, err := xloss.TestRender(page)
//	if result.MarkupContains("Secret") {
//	    t.Fatal("protected text leaked into markup")
//	}
func TestRender(page *Page) (*TestResult, error) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	root, err := htmlquery.Parse(strings.NewReader(buf.String()))
	if err != nil {
		return nil, err
	}
	return &TestResult{HTML: buf.String(), root: root}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// MarkupText returns the text a markup-only scraper sees: every text node
// outside <style> and <script>.
func (r *TestResult) MarkupText() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "style" || n.Data == "script") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(r.root)
	return b.String()
}

// MarkupContains checks if the scraper-visible text contains substr.
func (r *TestResult) MarkupContains(substr string) bool {
	return strings.Contains(r.MarkupText(), substr)
}

// ContentRule returns the text of the head style rule that renders id's
// content, or "".
func (r *TestResult) ContentRule(id string) string {
	return r.styleText(attrFor, id)
}

// ScopedRule returns the text of the style rule placed next to id's
// element, or "".
func (r *TestResult) ScopedRule(id string) string {
	return r.styleText(attrScope, id)
}

// Element returns the element with the given id, or nil.
func (r *TestResult) Element(id string) *html.Node {
	for _, n := range htmlquery.Find(r.root, "//*[@id]") {
		if htmlquery.SelectAttr(n, "id") == id {
			return n
		}
	}
	return nil
}

func (r *TestResult) styleText(attr, id string) string {
	for _, n := range htmlquery.Find(r.root, "//style") {
		if htmlquery.SelectAttr(n, attr) == id {
			return dom.TextContent(n)
		}
	}
	return ""
}
