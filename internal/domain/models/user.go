// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - ProviderID / provider_id: The identifier issued by the authentication provider

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderLocal is the default authentication provider.
const ProviderLocal = "local"

// User is an identity record.
//
// NOTE:
//   - Collections holds ids of collections the user owns or has joined.
//     It must stay consistent with Collection.Owner / Collection.Members.
//   - The provider identifier is never stored in the clear.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email          string               `bson:"email" json:"email"`
	Username       string               `bson:"username" json:"username"`
	Provider       string               `bson:"provider" json:"provider"`
	ProviderIDHash string               `bson:"provider_id_hash" json:"-"`
	Collections    []primitive.ObjectID `bson:"collections" json:"-"`
	Favorites      []primitive.ObjectID `bson:"favorites" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasCollection reports whether id is on the user's membership list.
func (u User) HasCollection(id primitive.ObjectID) bool {
	for _, c := range u.Collections {
		if c == id {
			return true
		}
	}
	return false
}

// UserSummary is the display identity of a user (member lists, owners).
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Username string             `bson:"username" json:"username"`
}
