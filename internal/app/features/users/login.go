// internal/app/features/users/login.go
package users

import (
	"errors"
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	userstore "github.com/dalemusser/flickhub/internal/app/store/users"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/inputval"
	"github.com/dalemusser/flickhub/internal/app/system/ratelimit"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	ProviderID string `json:"providerId" validate:"notblank,max=256"`
}

// HandleLogin handles POST /users/login. Unknown email and wrong provider id
// produce the same error.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := inputval.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}
	if h.Limiter != nil && !h.Limiter.Check(r, req.Email) {
		h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		h.fail(w, r, apperr.ErrRateLimited)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.fail(w, r, apperr.ErrInvalidCredentials)
		return
	}
	if err != nil {
		h.fail(w, r, apperr.Internal("could not load user", err))
		return
	}
	if !userstore.VerifyProviderID(u, req.ProviderID) {
		h.fail(w, r, apperr.ErrInvalidCredentials)
		return
	}

	token, err := h.issue(u)
	if err != nil {
		h.fail(w, r, apperr.Internal("could not issue token", err))
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(req.Email)
	}

	respond.OK(w, h.respondUser(ctx, u, token))
}
