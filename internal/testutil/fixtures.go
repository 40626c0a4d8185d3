package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it again on the same request adds to the existing params.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data directly in
// Mongo, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a local user with no collections or favorites.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:          primitive.NewObjectID(),
		Email:       strings.ToLower(email),
		Username:    username,
		Provider:    models.ProviderLocal,
		Collections: []primitive.ObjectID{},
		Favorites:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateCollection inserts a collection owned by owner with the given
// members, and registers it on every related user's list.
func (f *Fixtures) CreateCollection(ctx context.Context, name string, isPublic bool, owner primitive.ObjectID, members ...primitive.ObjectID) models.Collection {
	f.t.Helper()

	now := time.Now().UTC()
	if members == nil {
		members = []primitive.ObjectID{}
	}
	c := models.Collection{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		IsPublic:  isPublic,
		Owner:     owner,
		Members:   members,
		Medias:    []models.CollectionMedia{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("collections").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test collection: %v", err)
	}

	related := append([]primitive.ObjectID{owner}, members...)
	_, err := f.db.Collection("users").UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": related}},
		bson.M{"$addToSet": bson.M{"collections": c.ID}},
	)
	if err != nil {
		f.t.Fatalf("failed to register test collection on users: %v", err)
	}
	return c
}

// AddCollectionRef writes a bare reference onto a user, without touching
// any collection. Used to simulate drift.
func (f *Fixtures) AddCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"collections": collectionID}},
	)
	if err != nil {
		f.t.Fatalf("failed to add collection ref: %v", err)
	}
}

// LoadUser reads a user back for assertions.
func (f *Fixtures) LoadUser(ctx context.Context, id primitive.ObjectID) models.User {
	f.t.Helper()
	var u models.User
	if err := f.db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		f.t.Fatalf("failed to load user %s: %v", id.Hex(), err)
	}
	return u
}

// LoadCollection reads a collection back; ok is false when it is gone.
func (f *Fixtures) LoadCollection(ctx context.Context, id primitive.ObjectID) (models.Collection, bool) {
	f.t.Helper()
	var c models.Collection
	err := f.db.Collection("collections").FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Collection{}, false
	}
	if err != nil {
		f.t.Fatalf("failed to load collection %s: %v", id.Hex(), err)
	}
	return c, true
}
