package xlossecho

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/xloss"
	"github.com/pthm/xloss/lib/dom"
)

func newPage(t *testing.T) *xloss.Page {
	t.Helper()
	page, err := xloss.NewPage()
	if err != nil {
		t.Fatalf("NewPage() error = %v", err)
	}
	err = page.Do(func(doc *dom.Document) error {
		return doc.AppendHTML(doc.Body(), `<div id="box"></div>`)
	})
	if err != nil {
		t.Fatal(err)
	}
	return page
}

func injectRequest(target string, htmx bool) *http.Request {
	form := url.Values{"content": {"Secret"}, "target": {"box"}}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req
}

func TestMountServesPage(t *testing.T) {
	e := echo.New()
	Mount(e, newPage(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `<div id="box"></div>`) {
		t.Errorf("page body missing container: %s", rec.Body.String())
	}
}

func TestInjectAndSnapshot(t *testing.T) {
	e := echo.New()
	page := newPage(t)
	Mount(e, page)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, injectRequest("/_x/inject", true))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("HX-Refresh") != "true" {
		t.Error("expected HX-Refresh header")
	}
	if strings.Contains(rec.Body.String(), "Secret") {
		t.Errorf("inject response leaks protected content: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_x/snapshot", nil))

	var snap xloss.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Len() != 1 || len(snap.AllXContent) != 0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if strings.Contains(rec.Body.String(), "Secret") {
		t.Errorf("snapshot leaks protected content: %s", rec.Body.String())
	}
	if got := page.Snapshot().AllXContent; len(got) != 1 || got[0] != "Secret" {
		t.Errorf("page snapshot contents = %v", got)
	}
	out, err := page.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(out, `<div id="box"><x-loss id="`+snap.HTMLElements[0]+`"`) {
		t.Error("element not injected into target")
	}
}

func TestCSRFProtection(t *testing.T) {
	e := echo.New()
	page := newPage(t)
	Mount(e, page)

	// POST without HX-Request header should be forbidden
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, injectRequest("/_x/inject", false))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for POST without HX-Request, got %d", rec.Code)
	}
	if page.Snapshot().Len() != 0 {
		t.Error("forbidden request must not inject")
	}
}

func TestMountGroupWithOptions(t *testing.T) {
	e := echo.New()
	g := e.Group("/app")
	MountGroup(g, newPage(t), WithPath("/page"), WithPrefix("/x/"))

	tests := []struct {
		target string
		want   int
	}{
		{"/app/page", http.StatusOK},
		{"/app/x/snapshot", http.StatusOK},
		{"/_x/snapshot", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.target, rec.Code, tt.want)
			}
		})
	}
}
