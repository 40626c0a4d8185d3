// internal/app/features/collections/routes.go
package collections

import (
	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /collections subrouter. Every route requires a caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}", h.ServeView)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// MEMBERSHIP
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)

		// MEDIA
		pr.Post("/{id}/media", h.HandleAddMedia)
		pr.Delete("/{id}/media/{mediaId}", h.HandleRemoveMedia)
		pr.Put("/{id}/media/{mediaType}/{mediaId}/watched", h.HandleSetWatched)
	})

	return r
}
