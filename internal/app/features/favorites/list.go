// internal/app/features/favorites/list.go
package favorites

import (
	"net/http"
	"time"

	"github.com/dalemusser/flickhub/internal/app/catalog"
	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/paging"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"github.com/dalemusser/flickhub/internal/domain/models"
)

type favoriteView struct {
	ID        string               `json:"id"`
	MediaID   int64                `json:"mediaId"`
	MediaType models.MediaType     `json:"mediaType"`
	Watched   bool                 `json:"watched"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
	Details   *models.MediaDetails `json:"details,omitempty"`
}

type listResponse struct {
	Total     int64          `json:"total"`
	Favorites []favoriteView `json:"favorites"`
}

// ServeList handles GET /favorites?skip=&limit=, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := paging.Parse(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "favorite list")
	defer cancel()

	total, err := h.Favorites.CountByUser(ctx, uid)
	if err != nil {
		h.fail(w, r, apperr.Internal("favorite count failed", err))
		return
	}
	favs, err := h.Favorites.ListByUser(ctx, uid, page.Skip, page.Limit)
	if err != nil {
		h.fail(w, r, apperr.Internal("favorite list failed", err))
		return
	}

	out := listResponse{Total: total, Favorites: make([]favoriteView, len(favs))}
	refs := make([]catalog.Ref, len(favs))
	for i, f := range favs {
		out.Favorites[i] = favoriteView{
			ID:        f.ID.Hex(),
			MediaID:   f.MediaID,
			MediaType: f.MediaType,
			Watched:   f.Watched,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		}
		refs[i] = catalog.Ref{MediaID: f.MediaID, MediaType: f.MediaType}
	}

	if h.Catalog != nil && len(refs) > 0 {
		ectx, ecancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "favorite enrich")
		defer ecancel()
		found := h.Catalog.DetailsMany(ectx, refs)
		for i := range out.Favorites {
			if d, ok := found[refs[i]]; ok {
				out.Favorites[i].Details = &d
			}
		}
	}

	respond.OK(w, out)
}
