// internal/domain/models/favorite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks a title as a favorite of one user.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	MediaID   int64              `bson:"media_id" json:"media_id"`
	MediaType MediaType          `bson:"media_type" json:"media_type"`
	Watched   bool               `bson:"watched" json:"watched"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
