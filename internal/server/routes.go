package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pthm/xloss/internal/demo"
)

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)

	router.Get("/", h.getPage)
	router.Get("/healthz", h.healthz)
	router.Get("/snapshot", h.getSnapshot)
	router.Get("/vars", h.getVars)

	// mutations only come from htmx
	router.Group(func(r chi.Router) {
		r.Use(requireHTMX)
		r.Post("/inject", h.inject)
		r.Put("/vars/{name}", h.putVar)
		r.Delete("/vars/{name}", h.deleteVar)
		if h.demo {
			r.Post(demo.InteractivePath, h.demoInteractive)
		}
	})

	return router
}
