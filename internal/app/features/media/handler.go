// internal/app/features/media/handler.go
package media

import (
	"context"
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/flickhub/internal/app/features/errors"
	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog is the metadata surface served by this feature (catalog.Service).
type Catalog interface {
	Details(ctx context.Context, t models.MediaType, id int64) (models.MediaDetails, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.MediaDetails, error)
	Popular(ctx context.Context, t models.MediaType, limit int) ([]models.MediaDetails, error)
	Similar(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error)
	Recommended(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error)
	Cast(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.CastMember, error)
}

type Handler struct {
	Catalog Catalog
	Log     *zap.Logger
}

func NewHandler(cat Catalog, logger *zap.Logger) *Handler {
	return &Handler{Catalog: cat, Log: logger}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorsfeature.Write(w, r, h.Log, err)
}

// positiveQuery reads an optional positive integer query parameter.
// Absent means 0, which the catalog treats as its default.
func positiveQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return n, nil
}

// ref parses {type} and {id}. The type itself is checked by the catalog.
func ref(r *http.Request) (models.MediaType, int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, apperr.Validation("id must be a positive integer")
	}
	return models.MediaType(chi.URLParam(r, "type")), id, nil
}

// ServeSearch handles GET /media/search?q=&page=&limit=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	page, err := positiveQuery(r, "page")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if page == 0 {
		page = 1
	}
	limit, err := positiveQuery(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "media search")
	defer cancel()

	out, err := h.Catalog.Search(ctx, r.URL.Query().Get("q"), page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, out)
}

// ServePopular handles GET /media/popular?type=&limit=. type defaults to movie.
func (h *Handler) ServePopular(w http.ResponseWriter, r *http.Request) {
	limit, err := positiveQuery(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t := models.MediaType(r.URL.Query().Get("type"))
	if t == "" {
		t = models.MediaMovie
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "media popular")
	defer cancel()

	out, err := h.Catalog.Popular(ctx, t, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, out)
}

// ServeDetails handles GET /media/{type}/{id}.
func (h *Handler) ServeDetails(w http.ResponseWriter, r *http.Request) {
	t, id, err := ref(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "media details")
	defer cancel()

	d, err := h.Catalog.Details(ctx, t, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, d)
}

type relatedFunc func(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error)

// serveRelated backs the similar and recommended routes.
func (h *Handler) serveRelated(op string, fetch relatedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, id, err := ref(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		limit, err := positiveQuery(r, "limit")
		if err != nil {
			h.fail(w, r, err)
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, op)
		defer cancel()

		out, err := fetch(ctx, t, id, limit)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		respond.OK(w, out)
	}
}

// ServeCast handles GET /media/{type}/{id}/cast?limit=.
func (h *Handler) ServeCast(w http.ResponseWriter, r *http.Request) {
	t, id, err := ref(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit, err := positiveQuery(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "media cast")
	defer cancel()

	out, err := h.Catalog.Cast(ctx, t, id, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, out)
}
