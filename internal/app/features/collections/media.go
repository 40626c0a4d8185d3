// internal/app/features/collections/media.go
package collections

import (
	"net/http"

	collectionsvc "github.com/dalemusser/flickhub/internal/app/collections"
	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/inputval"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type addMediaRequest struct {
	MediaID   int64  `json:"mediaId" validate:"gt=0"`
	MediaType string `json:"mediaType" validate:"oneof=movie tv"`
}

// HandleAddMedia handles POST /collections/{id}/media.
// A duplicate title is not an error: the response reports success=false.
func (h *Handler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req addMediaRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := inputval.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "collection add media")
	defer cancel()

	res, err := h.Svc.AddMedia(ctx, collectionsvc.MediaInput{
		CollectionID: in.CollectionID,
		CallerID:     in.CallerID,
		MediaID:      req.MediaID,
		MediaType:    models.MediaType(req.MediaType),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, respond.Success{Success: res.Changed})
}

// HandleRemoveMedia handles DELETE /collections/{id}/media/{mediaId}.
// Without ?mediaType= every entry with that id is removed.
func (h *Handler) HandleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	mediaID, err := mediaIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "collection remove media")
	defer cancel()

	res, err := h.Svc.RemoveMedia(ctx, collectionsvc.MediaInput{
		CollectionID: in.CollectionID,
		CallerID:     in.CallerID,
		MediaID:      mediaID,
		MediaType:    models.MediaType(r.URL.Query().Get("mediaType")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, respond.Success{Success: res.Changed})
}

type watchedRequest struct {
	Watched bool `json:"watched"`
}

// HandleSetWatched handles PUT /collections/{id}/media/{mediaType}/{mediaId}/watched.
func (h *Handler) HandleSetWatched(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	mediaID, err := mediaIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req watchedRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "collection set watched")
	defer cancel()

	res, err := h.Svc.SetWatched(ctx, collectionsvc.WatchedInput{
		MediaInput: collectionsvc.MediaInput{
			CollectionID: in.CollectionID,
			CallerID:     in.CallerID,
			MediaID:      mediaID,
			MediaType:    models.MediaType(chi.URLParam(r, "mediaType")),
		},
		Watched: req.Watched,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, respond.Success{Success: res.Changed})
}
