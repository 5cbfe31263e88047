// Package xlossecho serves an xloss Page from an Echo instance or group.
//
//	e := echo.New()
//	page, _ := xloss.NewPage()
//	xlossecho.Mount(e, page)
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	xlossecho.MountGroup(g, page)
package xlossecho

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/xloss"
)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	path   string
	prefix string
}

// WithPath sets the path the page is served on. Defaults to "/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithPrefix sets the path prefix of the snapshot and inject endpoints.
// Defaults to "/_x/".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Mount registers the page routes on an Echo instance:
//
//	GET  <path>             the rendered page
//	GET  <prefix>snapshot   the bookkeeping snapshot as JSON, contents redacted
//	POST <prefix>inject     injection (form fields content, css, html, target)
func Mount(e *echo.Echo, page *xloss.Page, opts ...Option) {
	mount(e, page, opts)
}

// MountGroup registers the page routes on an Echo group, so they share the
// group's middleware (auth, logging, etc.).
func MountGroup(g *echo.Group, page *xloss.Page, opts ...Option) {
	mount(g, page, opts)
}

func mount(r router, page *xloss.Page, opts []Option) {
	o := &options{path: "/", prefix: "/_x/"}
	for _, opt := range opts {
		opt(o)
	}

	r.GET(o.path, func(c echo.Context) error {
		return Render(c, page.Component())
	})
	r.GET(o.prefix+"snapshot", func(c echo.Context) error {
		return c.JSON(http.StatusOK, page.Snapshot().Redacted())
	})
	r.POST(o.prefix+"inject", injectHandler(page), RequireHTMX)
}

func injectHandler(page *xloss.Page) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := c.FormValue("target")
		if target == "" {
			target = xloss.TargetID(c.Request())
		}

		snap, err := page.Inject(c.Request().Context(),
			c.FormValue("content"),
			c.FormValue("css"),
			c.FormValue("html"),
			target,
		)
		switch {
		case err == nil:
		case xloss.IsCollision(err):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return err
		}

		c.Response().Header().Set("HX-Refresh", "true")
		return c.JSON(http.StatusOK, snap.Redacted())
	}
}

// RequireHTMX rejects requests without HX-Request: true.
func RequireHTMX(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !xloss.IsHTMX(c.Request()) {
			return echo.NewHTTPError(http.StatusForbidden, "HX-Request header required")
		}
		return next(c)
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return xlossecho.Render(c, page.Component())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
