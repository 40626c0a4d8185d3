// internal/app/features/collections/handler.go
package collections

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/flickhub/internal/app/catalog"
	collectionsvc "github.com/dalemusser/flickhub/internal/app/collections"
	errorsfeature "github.com/dalemusser/flickhub/internal/app/features/errors"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/authz"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Enricher resolves metadata for many titles at once (catalog.Service).
type Enricher interface {
	DetailsMany(ctx context.Context, refs []catalog.Ref) map[catalog.Ref]models.MediaDetails
}

// Handler is the dependency container for the collections feature.
type Handler struct {
	Svc     *collectionsvc.Service
	Catalog Enricher
	Log     *zap.Logger
}

// NewHandler constructs a collections Handler. cat may be nil, in which
// case collection views are returned without metadata.
func NewHandler(svc *collectionsvc.Service, cat Enricher, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Catalog: cat, Log: logger}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorsfeature.Write(w, r, h.Log, err)
}

// caller returns the signed-in user's id. RequireSignedIn guarantees a
// caller, but a malformed subject is still rejected.
func caller(r *http.Request) (primitive.ObjectID, error) {
	id, ok := authz.CallerID(r)
	if !ok {
		return primitive.NilObjectID, apperr.ErrUnauthorized
	}
	return id, nil
}

func collectionID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid collection id")
	}
	return id, nil
}

// membership parses the caller and {id} shared by most routes.
func membership(r *http.Request) (collectionsvc.MembershipInput, error) {
	uid, err := caller(r)
	if err != nil {
		return collectionsvc.MembershipInput{}, err
	}
	cid, err := collectionID(r)
	if err != nil {
		return collectionsvc.MembershipInput{}, err
	}
	return collectionsvc.MembershipInput{CollectionID: cid, CallerID: uid}, nil
}

func mediaIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "mediaId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("mediaId must be a positive integer")
	}
	return id, nil
}

// enrich attaches metadata to each entry of v. Entries that fail to resolve
// are left without details.
func (h *Handler) enrich(ctx context.Context, v *collectionsvc.View) {
	if h.Catalog == nil || len(v.Medias) == 0 {
		return
	}
	refs := make([]catalog.Ref, len(v.Medias))
	for i, m := range v.Medias {
		refs[i] = catalog.Ref{MediaID: m.MediaID, MediaType: m.MediaType}
	}
	found := h.Catalog.DetailsMany(ctx, refs)
	for i := range v.Medias {
		if d, ok := found[refs[i]]; ok {
			v.Medias[i].Details = &d
		}
	}
}
