// Package server exposes a Page over HTTP: the rendered page, injection,
// the bookkeeping snapshot and the page variables.
package server

import (
	"github.com/pthm/xloss"
	"github.com/pthm/xloss/internal/logger"
)

// Handler serves one page.
type Handler struct {
	page *xloss.Page
	demo bool

	logger *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithDemo enables the demo button route and keeps the demo's snapshot
// panel current after injections.
func WithDemo() Option {
	return func(h *Handler) { h.demo = true }
}

// NewHandler returns a handler for page.
func NewHandler(page *xloss.Page, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		page:   page,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	logger.Info().Bool("demo", h.demo).Msg("http handler created")
	return h
}
