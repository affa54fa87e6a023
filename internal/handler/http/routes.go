package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var healthPaths = []string{"/healthz", "/healthz/", "/v1/healthz", "/v1/healthz/"}

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	for _, p := range healthPaths {
		router.Get(p, h.healthz)
		router.Post(p, h.healthz)
	}
	router.Get("/readyz", h.readyz)

	router.Group(func(r chi.Router) {
		r.Use(h.withAuth)

		r.With(h.limit).Post("/v1/execute", h.execute)
		if h.mcp != nil {
			r.Handle("/mcp", h.mcp)
		}
	})

	return router
}
