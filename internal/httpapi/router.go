package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopfabrik/catalog-service/internal/metrics"
)

// NewRouter assembles the route table with the middleware chain:
// request id, request logging + metrics, panic recovery.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(Recoverer(h.logger))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.NotFound(h.NotFound)

	return r
}
