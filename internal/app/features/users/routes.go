// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /users subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
	})

	return r
}
