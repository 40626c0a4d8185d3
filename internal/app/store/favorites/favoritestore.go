// internal/app/store/favorites/favoritestore.go
package favoritestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/flickhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("favorites")}
}

// ErrDuplicateFavorite is returned when the user already favorited the title.
var ErrDuplicateFavorite = errors.New("media is already a favorite")

// Find returns the user's favorite for mediaID. If mediaType is empty any type matches.
func (s *Store) Find(ctx context.Context, userID primitive.ObjectID, mediaID int64, mediaType models.MediaType) (models.Favorite, error) {
	filter := bson.M{"user": userID, "media_id": mediaID}
	if mediaType != "" {
		filter["media_type"] = mediaType
	}
	var f models.Favorite
	if err := s.c.FindOne(ctx, filter).Decode(&f); err != nil {
		return models.Favorite{}, err
	}
	return f, nil
}

// Create inserts a favorite. The unique (user, media_id, media_type) index
// turns a concurrent double-create into ErrDuplicateFavorite.
func (s *Store) Create(ctx context.Context, f models.Favorite) (models.Favorite, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Favorite{}, ErrDuplicateFavorite
		}
		return models.Favorite{}, err
	}
	return f, nil
}

// Delete removes a favorite by ID. Reports whether a document was removed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// ListByUser returns the user's favorites newest first.
// limit <= 0 returns everything after skip.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Favorite{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUser returns how many favorites the user has.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user": userID})
}
