// internal/domain/models/collection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is a named, optionally public grouping of media owned by one user.
//
// NOTE:
//   - Owner is never listed in Members; owner access is implicit.
//   - Medias is embedded; (MediaID, MediaType) is unique per collection.
type Collection struct {
	ID       primitive.ObjectID   `bson:"_id" json:"id"`
	Name     string               `bson:"name" json:"name"`
	NameCI   string               `bson:"name_ci" json:"-"`
	IsPublic bool                 `bson:"is_public" json:"is_public"`
	Owner    primitive.ObjectID   `bson:"owner" json:"owner"`
	Members  []primitive.ObjectID `bson:"members" json:"members"`
	Medias   []CollectionMedia    `bson:"medias" json:"medias"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOwner reports whether userID owns the collection.
func (c Collection) IsOwner(userID primitive.ObjectID) bool {
	return c.Owner == userID
}

// IsMember reports whether userID joined the collection (owner excluded).
func (c Collection) IsMember(userID primitive.ObjectID) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// AccessibleTo reports whether userID can see and edit the media list.
func (c Collection) AccessibleTo(userID primitive.ObjectID) bool {
	return c.IsPublic || c.IsOwner(userID) || c.IsMember(userID)
}

// CollectionMedia is one title inside a collection.
type CollectionMedia struct {
	MediaID   int64                `bson:"media_id" json:"media_id"`
	MediaType MediaType            `bson:"media_type" json:"media_type"`
	AddedBy   primitive.ObjectID   `bson:"added_by" json:"added_by"`
	WatchedBy []primitive.ObjectID `bson:"watched_by" json:"watched_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionUpdate holds the owner-editable fields. Nil means unchanged.
type CollectionUpdate struct {
	Name     *string
	IsPublic *bool
}

// Empty reports whether the update changes nothing.
func (u CollectionUpdate) Empty() bool {
	return u.Name == nil && u.IsPublic == nil
}
