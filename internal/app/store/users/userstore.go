// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - ProviderID / providerID: The identifier issued by the authentication provider

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/flickhub/internal/app/system/normalize"
	"github.com/dalemusser/flickhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost used to hash provider identifiers.
const BcryptCost = 12

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errEmailNeeded    = errors.New("email is required")
	errUsernameNeeded = errors.New("username is required")
	errProviderNeeded = errors.New("provider id is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The provider id is stored as a bcrypt hash.
func (s *Store) Create(ctx context.Context, u models.User, providerID string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.Username = normalize.Name(u.Username)
	u.Provider = normalize.Provider(u.Provider)

	if u.Email == "" {
		return models.User{}, errEmailNeeded
	}
	if u.Username == "" {
		return models.User{}, errUsernameNeeded
	}
	if providerID == "" {
		return models.User{}, errProviderNeeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(providerID), BcryptCost)
	if err != nil {
		return models.User{}, err
	}
	u.ProviderIDHash = string(hash)
	u.Collections = []primitive.ObjectID{}
	u.Favorites = []primitive.ObjectID{}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyProviderID reports whether providerID matches the stored hash.
func VerifyProviderID(u *models.User, providerID string) bool {
	if u == nil || u.ProviderIDHash == "" || providerID == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.ProviderIDHash), []byte(providerID)) == nil
}

/* -------------------------------------------------------------------------- */
/* Collection references                                                      */
/* -------------------------------------------------------------------------- */

// AddCollectionRef adds collectionID to the user's membership list.
// Returns false if the user does not exist.
func (s *Store) AddCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"collections": collectionID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// RemoveCollectionRef removes collectionID from the user's membership list.
// Returns false if the user does not exist.
func (s *Store) RemoveCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"collections": collectionID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// RemoveCollectionRefs removes several collection ids from one user's list.
func (s *Store) RemoveCollectionRefs(ctx context.Context, userID primitive.ObjectID, collectionIDs []primitive.ObjectID) error {
	if len(collectionIDs) == 0 {
		return nil
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"collections": bson.M{"$in": collectionIDs}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// RemoveCollectionRefFromMany removes collectionID from every listed user.
// Returns the number of user documents modified.
func (s *Store) RemoveCollectionRefFromMany(ctx context.Context, userIDs []primitive.ObjectID, collectionID primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		bson.M{
			"$pull": bson.M{"collections": collectionID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddCollectionRefToMany adds collectionID to every listed user that lacks it.
// Returns the number of user documents modified.
func (s *Store) AddCollectionRefToMany(ctx context.Context, userIDs []primitive.ObjectID, collectionID primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}, "collections": bson.M{"$ne": collectionID}},
		bson.M{
			"$addToSet": bson.M{"collections": collectionID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ForEachWithCollections calls fn for every user holding at least one collection ref.
// Only _id and collections are loaded.
func (s *Store) ForEachWithCollections(ctx context.Context, fn func(userID primitive.ObjectID, refs []primitive.ObjectID) error) error {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "collections": 1})
	cur, err := s.c.Find(ctx, bson.M{"collections.0": bson.M{"$exists": true}}, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID          primitive.ObjectID   `bson:"_id"`
			Collections []primitive.ObjectID `bson:"collections"`
		}
		if err := cur.Decode(&row); err != nil {
			return err
		}
		if err := fn(row.ID, row.Collections); err != nil {
			return err
		}
	}
	return cur.Err()
}

/* -------------------------------------------------------------------------- */
/* Favorite references                                                        */
/* -------------------------------------------------------------------------- */

// AddFavoriteRef adds favoriteID to the user's favorites list.
func (s *Store) AddFavoriteRef(ctx context.Context, userID, favoriteID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"favorites": favoriteID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// RemoveFavoriteRef removes favoriteID from the user's favorites list.
func (s *Store) RemoveFavoriteRef(ctx context.Context, userID, favoriteID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"favorites": favoriteID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

/* -------------------------------------------------------------------------- */
/* Display                                                                    */
/* -------------------------------------------------------------------------- */

// ListSummaries returns (id, email, username) for the given ids, in the order
// the ids were passed. Unknown ids are skipped.
func (s *Store) ListSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "email": 1, "username": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.UserSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.UserSummary, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.UserSummary, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
