// Package memstore provides in-memory collection and identity stores for
// service tests. Each method holds the store lock for its whole body, so
// conditional updates are atomic just like their Mongo counterparts.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Faults lets a test make a named method fail once.
type Faults struct {
	mu   sync.Mutex
	next map[string]error
}

// FailNext makes the next call to method return err.
func (f *Faults) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == nil {
		f.next = map[string]error{}
	}
	f.next[method] = err
}

func (f *Faults) take(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.next[method]
	delete(f.next, method)
	return err
}

func has(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	return append([]primitive.ObjectID{}, ids...)
}

/* -------------------------------------------------------------------------- */
/* Collections                                                                */
/* -------------------------------------------------------------------------- */

// Collections is an in-memory CollectionStore.
type Collections struct {
	Faults
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Collection
}

// NewCollections returns an empty store.
func NewCollections() *Collections {
	return &Collections{docs: map[primitive.ObjectID]*models.Collection{}}
}

func cloneCollection(c *models.Collection) models.Collection {
	out := *c
	out.Members = cloneIDs(c.Members)
	out.Medias = make([]models.CollectionMedia, len(c.Medias))
	for i, m := range c.Medias {
		m.WatchedBy = cloneIDs(m.WatchedBy)
		out.Medias[i] = m
	}
	return out
}

func (s *Collections) Create(ctx context.Context, c models.Collection) (models.Collection, error) {
	if err := s.take("Create"); err != nil {
		return models.Collection{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = strings.ToLower(c.Name)
	c.Members = []primitive.ObjectID{}
	c.Medias = []models.CollectionMedia{}
	c.CreatedAt, c.UpdatedAt = now, now
	s.docs[c.ID] = &c
	return cloneCollection(&c), nil
}

// Put stores c as-is. Test setup only.
func (s *Collections) Put(c models.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := cloneCollection(&c)
	s.docs[c.ID] = &cc
}

// Count returns the number of stored collections.
func (s *Collections) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Collections) GetByID(ctx context.Context, id primitive.ObjectID) (models.Collection, error) {
	if err := s.take("GetByID"); err != nil {
		return models.Collection{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok {
		return models.Collection{}, mongo.ErrNoDocuments
	}
	return cloneCollection(c), nil
}

func (s *Collections) FindAccessible(ctx context.Context, id, callerID primitive.ObjectID) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || !c.AccessibleTo(callerID) {
		return models.Collection{}, mongo.ErrNoDocuments
	}
	return cloneCollection(c), nil
}

func (s *Collections) FindOwned(ctx context.Context, ownerID, id primitive.ObjectID) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || c.Owner != ownerID {
		return models.Collection{}, mongo.ErrNoDocuments
	}
	return cloneCollection(c), nil
}

func (s *Collections) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collection, error) {
	if err := s.take("ListByIDs"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Collection{}
	for _, id := range ids {
		if c, ok := s.docs[id]; ok {
			out = append(out, cloneCollection(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NameCI < out[j].NameCI })
	return out, nil
}

func matches(m models.CollectionMedia, mediaID int64, mediaType models.MediaType) bool {
	return m.MediaID == mediaID && (mediaType == "" || m.MediaType == mediaType)
}

func (s *Collections) AddMedia(ctx context.Context, id, callerID primitive.ObjectID, m models.CollectionMedia) (int64, error) {
	if err := s.take("AddMedia"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || !c.AccessibleTo(callerID) {
		return 0, nil
	}
	for _, x := range c.Medias {
		if matches(x, m.MediaID, m.MediaType) {
			return 0, nil
		}
	}
	if m.WatchedBy == nil {
		m.WatchedBy = []primitive.ObjectID{}
	}
	c.Medias = append(c.Medias, m)
	c.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (s *Collections) RemoveMedia(ctx context.Context, id, callerID primitive.ObjectID, mediaID int64, mediaType models.MediaType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || !c.AccessibleTo(callerID) {
		return 0, nil
	}
	kept := c.Medias[:0:0]
	for _, x := range c.Medias {
		if !matches(x, mediaID, mediaType) {
			kept = append(kept, x)
		}
	}
	if len(kept) == len(c.Medias) {
		return 0, nil
	}
	c.Medias = kept
	c.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (s *Collections) SetWatched(ctx context.Context, id, callerID primitive.ObjectID, mediaID int64, mediaType models.MediaType, watched bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || !c.AccessibleTo(callerID) {
		return 0, nil
	}
	var matched int64
	for i := range c.Medias {
		m := &c.Medias[i]
		if m.MediaID != mediaID || m.MediaType != mediaType {
			continue
		}
		matched = 1
		if watched && !has(m.WatchedBy, callerID) {
			m.WatchedBy = append(m.WatchedBy, callerID)
		}
		if !watched {
			m.WatchedBy = without(m.WatchedBy, callerID)
		}
	}
	return matched, nil
}

func (s *Collections) AddMember(ctx context.Context, id, memberID primitive.ObjectID) (int64, error) {
	if err := s.take("AddMember"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || c.Owner == memberID || has(c.Members, memberID) {
		return 0, nil
	}
	c.Members = append(c.Members, memberID)
	return 1, nil
}

func (s *Collections) JoinPublic(ctx context.Context, id, memberID primitive.ObjectID) (int64, error) {
	if err := s.take("JoinPublic"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || !c.IsPublic || c.Owner == memberID {
		return 0, nil
	}
	if !has(c.Members, memberID) {
		c.Members = append(c.Members, memberID)
	}
	return 1, nil
}

func (s *Collections) RemoveMember(ctx context.Context, id, memberID primitive.ObjectID) (int64, error) {
	if err := s.take("RemoveMember"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || !has(c.Members, memberID) {
		return 0, nil
	}
	c.Members = without(c.Members, memberID)
	return 1, nil
}

func (s *Collections) UpdateFields(ctx context.Context, id, ownerID primitive.ObjectID, upd models.CollectionUpdate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || c.Owner != ownerID {
		return 0, nil
	}
	differs := (upd.Name != nil && *upd.Name != c.Name) || (upd.IsPublic != nil && *upd.IsPublic != c.IsPublic)
	if !differs {
		return 0, nil
	}
	if upd.Name != nil {
		c.Name = *upd.Name
		c.NameCI = strings.ToLower(*upd.Name)
	}
	if upd.IsPublic != nil {
		c.IsPublic = *upd.IsPublic
	}
	c.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (s *Collections) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := s.take("Delete"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false, nil
	}
	delete(s.docs, id)
	return true, nil
}

func (s *Collections) DeleteOwnedIfEmpty(ctx context.Context, id, ownerID primitive.ObjectID) (int64, error) {
	if err := s.take("DeleteOwnedIfEmpty"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok || c.Owner != ownerID || len(c.Members) > 0 {
		return 0, nil
	}
	delete(s.docs, id)
	return 1, nil
}

/* -------------------------------------------------------------------------- */
/* Users                                                                      */
/* -------------------------------------------------------------------------- */

// Users is an in-memory IdentityStore.
type Users struct {
	Faults
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.User
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{docs: map[primitive.ObjectID]*models.User{}}
}

// Add creates a user with the given username and returns its id.
func (s *Users) Add(username string) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.docs[id] = &models.User{
		ID:          id,
		Email:       strings.ToLower(username) + "@example.com",
		Username:    username,
		Provider:    models.ProviderLocal,
		Collections: []primitive.ObjectID{},
		Favorites:   []primitive.ObjectID{},
	}
	return id
}

// Refs returns a copy of the user's collection refs.
func (s *Users) Refs(id primitive.ObjectID) []primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.docs[id]; ok {
		return cloneIDs(u.Collections)
	}
	return nil
}

// SetRefs overwrites the user's collection refs. Test setup only.
func (s *Users) SetRefs(id primitive.ObjectID, refs ...primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.docs[id]; ok {
		u.Collections = cloneIDs(refs)
	}
}

func (s *Users) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if err := s.take("GetByID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *u
	out.Collections = cloneIDs(u.Collections)
	out.Favorites = cloneIDs(u.Favorites)
	return &out, nil
}

func (s *Users) AddCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) (bool, error) {
	if err := s.take("AddCollectionRef"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.docs[userID]
	if !ok {
		return false, nil
	}
	if !has(u.Collections, collectionID) {
		u.Collections = append(u.Collections, collectionID)
	}
	return true, nil
}

func (s *Users) RemoveCollectionRef(ctx context.Context, userID, collectionID primitive.ObjectID) (bool, error) {
	if err := s.take("RemoveCollectionRef"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.docs[userID]
	if !ok {
		return false, nil
	}
	u.Collections = without(u.Collections, collectionID)
	return true, nil
}

func (s *Users) RemoveCollectionRefs(ctx context.Context, userID primitive.ObjectID, collectionIDs []primitive.ObjectID) error {
	if err := s.take("RemoveCollectionRefs"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.docs[userID]
	if !ok {
		return nil
	}
	for _, id := range collectionIDs {
		u.Collections = without(u.Collections, id)
	}
	return nil
}

func (s *Users) RemoveCollectionRefFromMany(ctx context.Context, userIDs []primitive.ObjectID, collectionID primitive.ObjectID) (int64, error) {
	if err := s.take("RemoveCollectionRefFromMany"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range userIDs {
		if u, ok := s.docs[id]; ok && has(u.Collections, collectionID) {
			u.Collections = without(u.Collections, collectionID)
			n++
		}
	}
	return n, nil
}

func (s *Users) ListSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.docs[id]; ok {
			out = append(out, models.UserSummary{ID: u.ID, Email: u.Email, Username: u.Username})
		}
	}
	return out, nil
}
