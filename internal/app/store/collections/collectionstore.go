// internal/app/store/collections/collectionstore.go
package collectionstore

// Every mutation here is a single-document operation. Access control and
// uniqueness live in the filter so that concurrent requests cannot race
// between a check and a write.

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("collections")}
}

var (
	errNameNeeded  = errors.New("collection name is required")
	errOwnerNeeded = errors.New("collection owner is required")
)

// accessible matches collections the caller may see: public, owned, or joined.
func accessible(callerID primitive.ObjectID) bson.A {
	return bson.A{
		bson.M{"is_public": true},
		bson.M{"owner": callerID},
		bson.M{"members": callerID},
	}
}

// mediaMatch selects embedded media entries by id and, if set, by type.
func mediaMatch(mediaID int64, mediaType models.MediaType) bson.M {
	m := bson.M{"media_id": mediaID}
	if mediaType != "" {
		m["media_type"] = mediaType
	}
	return m
}

// Create inserts a new collection with empty member and media lists.
func (s *Store) Create(ctx context.Context, c models.Collection) (models.Collection, error) {
	if c.Name == "" {
		return models.Collection{}, errNameNeeded
	}
	if c.Owner.IsZero() {
		return models.Collection{}, errOwnerNeeded
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	c.Members = []primitive.ObjectID{}
	c.Medias = []models.CollectionMedia{}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Collection{}, err
	}
	return c, nil
}

// GetByID loads a collection without any access scoping.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Collection, error) {
	var c models.Collection
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Collection{}, err
	}
	return c, nil
}

// FindAccessible loads the collection only if callerID may see it.
// Returns mongo.ErrNoDocuments both when it does not exist and when access is denied.
func (s *Store) FindAccessible(ctx context.Context, id, callerID primitive.ObjectID) (models.Collection, error) {
	var c models.Collection
	filter := bson.M{"_id": id, "$or": accessible(callerID)}
	if err := s.c.FindOne(ctx, filter).Decode(&c); err != nil {
		return models.Collection{}, err
	}
	return c, nil
}

// FindOwned loads the collection only if ownerID owns it.
func (s *Store) FindOwned(ctx context.Context, ownerID, id primitive.ObjectID) (models.Collection, error) {
	var c models.Collection
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "owner": ownerID}).Decode(&c); err != nil {
		return models.Collection{}, err
	}
	return c, nil
}

// ListByIDs loads the given collections sorted by name. Missing ids are skipped.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collection, error) {
	if len(ids) == 0 {
		return []models.Collection{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Collection{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

/* -------------------------------------------------------------------------- */
/* Media list                                                                 */
/* -------------------------------------------------------------------------- */

// AddMedia appends m if callerID can access the collection and no entry with
// the same (media_id, media_type) exists. Returns the modified count; 0 means
// either access was denied or the entry is already present.
func (s *Store) AddMedia(ctx context.Context, id, callerID primitive.ObjectID, m models.CollectionMedia) (int64, error) {
	now := time.Now().UTC()
	m.AddedBy = callerID
	if m.WatchedBy == nil {
		m.WatchedBy = []primitive.ObjectID{}
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	filter := bson.M{
		"_id": id,
		"$or": accessible(callerID),
		"medias": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"media_id":   m.MediaID,
			"media_type": m.MediaType,
		}}},
	}
	update := bson.M{
		"$push": bson.M{"medias": m},
		"$set":  bson.M{"updated_at": now},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RemoveMedia pulls matching entries if callerID can access the collection.
// An empty mediaType removes every entry with mediaID. Returns the modified count.
func (s *Store) RemoveMedia(ctx context.Context, id, callerID primitive.ObjectID, mediaID int64, mediaType models.MediaType) (int64, error) {
	match := mediaMatch(mediaID, mediaType)
	filter := bson.M{
		"_id":    id,
		"$or":    accessible(callerID),
		"medias": bson.M{"$elemMatch": match},
	}
	update := bson.M{
		"$pull": bson.M{"medias": match},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetWatched adds or removes callerID from the entry's watched_by set.
// Returns the matched count; 0 means denied or no such entry.
func (s *Store) SetWatched(ctx context.Context, id, callerID primitive.ObjectID, mediaID int64, mediaType models.MediaType, watched bool) (int64, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":    id,
		"$or":    accessible(callerID),
		"medias": bson.M{"$elemMatch": bson.M{"media_id": mediaID, "media_type": mediaType}},
	}
	op := "$pull"
	if watched {
		op = "$addToSet"
	}
	update := bson.M{
		op:     bson.M{"medias.$[m].watched_by": callerID},
		"$set": bson.M{"medias.$[m].updated_at": now, "updated_at": now},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"m.media_id": mediaID, "m.media_type": mediaType}},
	})
	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

/* -------------------------------------------------------------------------- */
/* Members                                                                    */
/* -------------------------------------------------------------------------- */

// AddMember adds memberID to the member set. The owner is never added.
// Returns the modified count (0 if already a member, the owner, or missing).
func (s *Store) AddMember(ctx context.Context, id, memberID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "owner": bson.M{"$ne": memberID}},
		bson.M{
			"$addToSet": bson.M{"members": memberID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// JoinPublic adds memberID only if the collection is public and memberID is
// not its owner. Returns the matched count; an existing member still matches.
func (s *Store) JoinPublic(ctx context.Context, id, memberID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_public": true, "owner": bson.M{"$ne": memberID}},
		bson.M{
			"$addToSet": bson.M{"members": memberID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// RemoveMember pulls memberID from the member set. Returns the modified count.
func (s *Store) RemoveMember(ctx context.Context, id, memberID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"members": memberID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

/* -------------------------------------------------------------------------- */
/* Owner operations                                                           */
/* -------------------------------------------------------------------------- */

// UpdateFields applies upd only if ownerID owns the collection and at least
// one field differs from the stored value. Returns the matched count.
func (s *Store) UpdateFields(ctx context.Context, id, ownerID primitive.ObjectID, upd models.CollectionUpdate) (int64, error) {
	if upd.Empty() {
		return 0, nil
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	var differs bson.A
	if upd.Name != nil {
		set["name"] = *upd.Name
		set["name_ci"] = text.Fold(*upd.Name)
		differs = append(differs, bson.M{"name": bson.M{"$ne": *upd.Name}})
	}
	if upd.IsPublic != nil {
		set["is_public"] = *upd.IsPublic
		differs = append(differs, bson.M{"is_public": bson.M{"$ne": *upd.IsPublic}})
	}
	filter := bson.M{"_id": id, "owner": ownerID, "$or": differs}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a collection by ID. Reports whether a document was removed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// DeleteOwnedIfEmpty removes the collection only if ownerID owns it and it
// has no members. Returns the deleted count.
func (s *Store) DeleteOwnedIfEmpty(ctx context.Context, id, ownerID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"_id":   id,
		"owner": ownerID,
		"$or": bson.A{
			bson.M{"members": bson.M{"$size": 0}},
			bson.M{"members": bson.M{"$exists": false}},
		},
	}
	res, err := s.c.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

/* -------------------------------------------------------------------------- */
/* Reconciliation                                                             */
/* -------------------------------------------------------------------------- */

// Relation is the ownership/membership projection of a collection.
type Relation struct {
	ID      primitive.ObjectID   `bson:"_id"`
	Owner   primitive.ObjectID   `bson:"owner"`
	Members []primitive.ObjectID `bson:"members"`
}

// Related returns the owner followed by the members.
func (r Relation) Related() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(r.Members)+1)
	out = append(out, r.Owner)
	return append(out, r.Members...)
}

// Has reports whether userID is the owner or a member.
func (r Relation) Has(userID primitive.ObjectID) bool {
	if r.Owner == userID {
		return true
	}
	for _, m := range r.Members {
		if m == userID {
			return true
		}
	}
	return false
}

var relationProjection = bson.M{"_id": 1, "owner": 1, "members": 1}

// ForEachRelation calls fn with the relation of every collection.
func (s *Store) ForEachRelation(ctx context.Context, fn func(Relation) error) error {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetProjection(relationProjection))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var rel Relation
		if err := cur.Decode(&rel); err != nil {
			return err
		}
		if err := fn(rel); err != nil {
			return err
		}
	}
	return cur.Err()
}

// Relations loads relations for ids, keyed by collection id.
func (s *Store) Relations(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Relation, error) {
	out := make(map[primitive.ObjectID]Relation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(relationProjection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var rel Relation
		if err := cur.Decode(&rel); err != nil {
			return nil, err
		}
		out[rel.ID] = rel
	}
	return out, cur.Err()
}
