// internal/app/features/media/routes.go
package media

import (
	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /media subrouter. Every route requires a caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/search", h.ServeSearch)
		pr.Get("/popular", h.ServePopular)

		pr.Get("/{type}/{id}", h.ServeDetails)
		pr.Get("/{type}/{id}/similar", h.serveRelated("media similar", h.Catalog.Similar))
		pr.Get("/{type}/{id}/recommended", h.serveRelated("media recommended", h.Catalog.Recommended))
		pr.Get("/{type}/{id}/cast", h.ServeCast)
	})

	return r
}
