// internal/app/features/favorites/routes.go
package favorites

import (
	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /favorites subrouter. Every route requires a caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/status", h.ServeStatus)
		pr.Post("/toggle", h.HandleToggle)
	})

	return r
}
