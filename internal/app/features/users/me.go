// internal/app/features/users/me.go
package users

import (
	"errors"
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/authz"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeMe handles GET /users/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerID(r)
	if !ok {
		h.fail(w, r, apperr.ErrUnauthorized)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user me")
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.fail(w, r, apperr.NotFound("user not found"))
		return
	}
	if err != nil {
		h.fail(w, r, apperr.Internal("could not load user", err))
		return
	}
	respond.OK(w, h.respondUser(ctx, u, ""))
}
