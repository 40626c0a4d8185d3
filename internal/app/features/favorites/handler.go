// internal/app/features/favorites/handler.go
package favorites

import (
	"context"
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/catalog"
	errorsfeature "github.com/dalemusser/flickhub/internal/app/features/errors"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/authz"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FavoriteStore is the subset of favoritestore.Store the feature uses.
type FavoriteStore interface {
	Find(ctx context.Context, userID primitive.ObjectID, mediaID int64, mediaType models.MediaType) (models.Favorite, error)
	Create(ctx context.Context, f models.Favorite) (models.Favorite, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Favorite, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// UserRefs keeps User.favorites in step with the favorites collection.
type UserRefs interface {
	AddFavoriteRef(ctx context.Context, userID, favoriteID primitive.ObjectID) (bool, error)
	RemoveFavoriteRef(ctx context.Context, userID, favoriteID primitive.ObjectID) (bool, error)
}

// Enricher resolves metadata for many titles at once (catalog.Service).
type Enricher interface {
	DetailsMany(ctx context.Context, refs []catalog.Ref) map[catalog.Ref]models.MediaDetails
}

type Handler struct {
	Favorites FavoriteStore
	Users     UserRefs
	Catalog   Enricher
	Log       *zap.Logger
}

// NewHandler constructs a favorites Handler. cat may be nil.
func NewHandler(favs FavoriteStore, users UserRefs, cat Enricher, logger *zap.Logger) *Handler {
	return &Handler{Favorites: favs, Users: users, Catalog: cat, Log: logger}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorsfeature.Write(w, r, h.Log, err)
}

func caller(r *http.Request) (primitive.ObjectID, error) {
	id, ok := authz.CallerID(r)
	if !ok {
		return primitive.NilObjectID, apperr.ErrUnauthorized
	}
	return id, nil
}
