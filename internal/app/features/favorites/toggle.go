// internal/app/features/favorites/toggle.go
package favorites

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	favoritestore "github.com/dalemusser/flickhub/internal/app/store/favorites"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/inputval"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type toggleRequest struct {
	MediaID   int64  `json:"mediaId" validate:"gt=0"`
	MediaType string `json:"mediaType" validate:"oneof=movie tv"`
}

type toggleResponse struct {
	MediaID    int64            `json:"mediaId"`
	MediaType  models.MediaType `json:"mediaType"`
	IsFavorite bool             `json:"isFavorite"`
}

// HandleToggle handles POST /favorites/toggle. An existing favorite is
// removed, otherwise one is created.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req toggleRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := inputval.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}
	mt := models.MediaType(req.MediaType)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "favorite toggle")
	defer cancel()

	existing, err := h.Favorites.Find(ctx, uid, req.MediaID, mt)
	switch {
	case err == nil:
		if err := h.remove(ctx, uid, existing.ID); err != nil {
			h.fail(w, r, err)
			return
		}
		respond.OK(w, toggleResponse{MediaID: req.MediaID, MediaType: mt, IsFavorite: false})
		return
	case !errors.Is(err, mongo.ErrNoDocuments):
		h.fail(w, r, apperr.Internal("favorite lookup failed", err))
		return
	}

	if err := h.add(ctx, uid, req.MediaID, mt); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, toggleResponse{MediaID: req.MediaID, MediaType: mt, IsFavorite: true})
}

// add creates the favorite, then registers it on the user. A failed
// registration deletes the new favorite again.
func (h *Handler) add(ctx context.Context, uid primitive.ObjectID, mediaID int64, mt models.MediaType) error {
	f, err := h.Favorites.Create(ctx, models.Favorite{User: uid, MediaID: mediaID, MediaType: mt})
	if errors.Is(err, favoritestore.ErrDuplicateFavorite) {
		// A concurrent toggle got there first; the title is a favorite now.
		return nil
	}
	if err != nil {
		return apperr.Internal("favorite create failed", err)
	}

	ok, err := h.Users.AddFavoriteRef(ctx, uid, f.ID)
	if err == nil && ok {
		return nil
	}
	if _, derr := h.Favorites.Delete(ctx, f.ID); derr != nil {
		h.Log.Error("favorite compensation failed",
			zap.String("favorite_id", f.ID.Hex()), zap.Error(derr))
	}
	if err != nil {
		return apperr.Internal("favorite registration failed", err)
	}
	return apperr.NotFound("user not found")
}

func (h *Handler) remove(ctx context.Context, uid, favoriteID primitive.ObjectID) error {
	if _, err := h.Favorites.Delete(ctx, favoriteID); err != nil {
		return apperr.Internal("favorite delete failed", err)
	}
	// The favorite document is gone; a stale user ref only costs a lookup miss.
	if _, err := h.Users.RemoveFavoriteRef(ctx, uid, favoriteID); err != nil {
		h.Log.Warn("favorite ref not removed",
			zap.String("user_id", uid.Hex()),
			zap.String("favorite_id", favoriteID.Hex()),
			zap.Error(err))
	}
	return nil
}

type statusResponse struct {
	MediaID    int64 `json:"mediaId"`
	IsFavorite bool  `json:"isFavorite"`
}

// ServeStatus handles GET /favorites/status?mediaId=[&mediaType=].
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	mediaID, err := strconv.ParseInt(q.Get("mediaId"), 10, 64)
	if err != nil || mediaID <= 0 {
		h.fail(w, r, apperr.Validation("mediaId must be a positive integer"))
		return
	}
	mt := models.MediaType(q.Get("mediaType"))
	if mt != "" && !mt.Valid() {
		h.fail(w, r, apperr.Validation("mediaType must be movie or tv"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "favorite status")
	defer cancel()

	_, err = h.Favorites.Find(ctx, uid, mediaID, mt)
	switch {
	case err == nil:
		respond.OK(w, statusResponse{MediaID: mediaID, IsFavorite: true})
	case errors.Is(err, mongo.ErrNoDocuments):
		respond.OK(w, statusResponse{MediaID: mediaID, IsFavorite: false})
	default:
		h.fail(w, r, apperr.Internal("favorite lookup failed", err))
	}
}
