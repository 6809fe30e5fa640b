package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts every API route on the router. Routes that read a
// JSON body get the RequireJSON guard.
func (h *ShopcartHandler) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			r.Method+" is not allowed on "+r.URL.Path)
	})

	r.Get("/", h.Index)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/shopcarts", func(r chi.Router) {
		r.With(RequireJSON).Post("/", h.CreateShopcart)
		r.Get("/", h.ListShopcarts)

		r.Route("/{shopcartID}", func(r chi.Router) {
			r.Get("/", h.GetShopcart)
			r.With(RequireJSON).Put("/", h.UpdateShopcart)
			r.Delete("/", h.DeleteShopcart)
			r.Put("/clear", h.ClearShopcart)

			r.Route("/items", func(r chi.Router) {
				r.With(RequireJSON).Post("/", h.AddItem)
				r.Get("/", h.ListItems)
				r.With(RequireJSON).Delete("/", h.RemoveItems)

				r.Get("/{productID}", h.GetItem)
				r.With(RequireJSON).Put("/{productID}", h.UpdateItem)
				r.Delete("/{productID}", h.RemoveItem)
			})
		})
	})
}

// Index handles GET / with service metadata.
func (h *ShopcartHandler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"name":    "Shopcarts REST API Service",
		"version": "1.0",
		"url":     "/shopcarts",
	})
}
