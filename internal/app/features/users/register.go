// internal/app/features/users/register.go
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
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Username   string `json:"username" validate:"notblank,max=50"`
	ProviderID string `json:"providerId" validate:"notblank,max=256"`
	Provider   string `json:"provider" validate:"max=32"`
}

// HandleRegister handles POST /users/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := inputval.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}
	if h.Limiter != nil && !h.Limiter.Check(r, req.Email) {
		h.Log.Warn("register rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		h.fail(w, r, apperr.ErrRateLimited)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user register")
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Email:    req.Email,
		Username: req.Username,
		Provider: req.Provider,
	}, req.ProviderID)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.fail(w, r, apperr.ErrAlreadyExists.WithCause(err))
		return
	}
	if err != nil {
		h.fail(w, r, apperr.Internal("could not register user", err))
		return
	}

	token, err := h.issue(&u)
	if err != nil {
		h.fail(w, r, apperr.Internal("could not issue token", err))
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("provider", u.Provider))
	respond.JSON(w, http.StatusCreated, h.respondUser(ctx, &u, token))
}
