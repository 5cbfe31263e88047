package xloss

import (
	"context"
	"testing"

	"github.com/pthm/xloss/lib/dom"
)

func TestTestRender_Success(t *testing.T) {
	page := newTestPage(t)

	snap, err := page.Inject(context.Background(), "Hidden", "color: red;", "<em>note</em>", "box")
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	id := snap.HTMLElements[0]

	result, err := TestRender(page)
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if result == nil {
		t.Fatal("TestRender() returned nil result")
	}

	if !result.HTMLContainsAll(`id="box"`, id, "Hidden") {
		t.Errorf("HTML missing expected parts: %s", result.HTML)
	}
	if result.HTMLContains("not-there") {
		t.Error("HTMLContains() = true for absent substring")
	}
	if result.MarkupContains("Hidden") {
		t.Errorf("MarkupText() = %q, should not contain protected text", result.MarkupText())
	}
	if !result.MarkupContains("note") {
		t.Errorf("MarkupText() = %q, should contain extra markup text", result.MarkupText())
	}
	if result.ContentRule(id) == "" {
		t.Error("ContentRule() returned empty")
	}
	if result.ScopedRule(id) == "" {
		t.Error("ScopedRule() returned empty")
	}
	if result.Element(id) == nil {
		t.Error("Element() returned nil")
	}
	if result.Element("missing") != nil {
		t.Error("Element() should be nil for unknown id")
	}
}

func TestTestRender_IgnoresStyleAndScriptText(t *testing.T) {
	page, err := NewPage()
	if err != nil {
		t.Fatal(err)
	}
	err = page.Do(func(doc *dom.Document) error {
		return doc.AppendHTML(doc.Body(), `<p>visible</p><script>var hidden = 1;</script>`)
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := TestRender(page)
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if got := result.MarkupText(); got != "visible" {
		t.Errorf("MarkupText() = %q, want %q", got, "visible")
	}
}
