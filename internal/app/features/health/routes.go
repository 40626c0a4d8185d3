// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes returns the /health subrouter. HEAD is served for probes that
// only look at the status code.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Head("/", h.Serve)
	return r
}
