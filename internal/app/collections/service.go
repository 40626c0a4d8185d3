// internal/app/collections/service.go
package collections

import (
	"context"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CollectionStore is the storage contract the service depends on.
// Mutations that guard access or uniqueness must be single atomic
// conditional updates. Lookups report a missing or inaccessible
// document as mongo.ErrNoDocuments.
type CollectionStore interface {
	Create(ctx context.Context, c models.Collection) (models.Collection, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Collection, error)
	FindAccessible(ctx context.Context, id, callerID primitive.ObjectID) (models.Collection, error)
	FindOwned(ctx context.Context, ownerID, id primitive.ObjectID) (models.Collection, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collection, error)

	AddMedia(ctx context.Context, id, callerID primitive.ObjectID, m models.CollectionMedia) (int64, error)
	RemoveMedia(ctx context.Context, id, callerID primitive.ObjectID, mediaID int64, mediaType models.MediaType) (int64, error)
	SetWatched(ctx context.Context, id, callerID primitive.ObjectID, mediaID int64, mediaType models.MediaType, watched bool) (int64, error)

	AddMember(ctx context.Context, id, memberID primitive.ObjectID) (int64, error)
	JoinPublic(ctx context.Context, id, memberID primitive.ObjectID) (int64, error)
	RemoveMember(ctx context.Context, id, memberID primitive.ObjectID) (int64, error)

	UpdateFields(ctx context.Context, id, ownerID primitive.ObjectID, upd models.CollectionUpdate) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteOwnedIfEmpty(ctx context.Context, id, ownerID primitive.ObjectID) (int64, error)
}

// IdentityStore is the subset of the user store the service needs.
// GetByID reports a missing user as mongo.ErrNoDocuments.
type IdentityStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	AddCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) (bool, error)
	RemoveCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) (bool, error)
	RemoveCollectionRefs(ctx context.Context, userID primitive.ObjectID, collectionIDs []primitive.ObjectID) error
	RemoveCollectionRefFromMany(ctx context.Context, userIDs []primitive.ObjectID, collectionID primitive.ObjectID) (int64, error)
	ListSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
}

// Service implements collection operations and the membership state
// machine. Writes that touch both a collection and a user run collection
// side first; when the user side fails the collection side is reverted.
type Service struct {
	colls CollectionStore
	users IdentityStore
	log   *zap.Logger
}

// New builds a Service. A nil logger is replaced with a no-op logger.
func New(colls CollectionStore, users IdentityStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{colls: colls, users: users, log: logger}
}
