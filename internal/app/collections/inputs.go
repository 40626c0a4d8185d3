// internal/app/collections/inputs.go
package collections

import (
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateInput carries a new collection's fields.
type CreateInput struct {
	Name     string
	IsPublic bool
	OwnerID  primitive.ObjectID
}

// MembershipInput identifies a caller acting on a collection.
// Used by Get, Join, Leave and Remove.
type MembershipInput struct {
	CollectionID primitive.ObjectID
	CallerID     primitive.ObjectID
}

// UpdateInput is an owner patch. Nil fields are left alone.
type UpdateInput struct {
	CollectionID primitive.ObjectID
	CallerID     primitive.ObjectID
	Name         *string
	IsPublic     *bool
}

// MediaInput adds or removes one title. MediaType may be empty on
// removal, in which case every entry with MediaID is removed.
type MediaInput struct {
	CollectionID primitive.ObjectID
	CallerID     primitive.ObjectID
	MediaID      int64
	MediaType    models.MediaType
}

// WatchedInput marks or unmarks a title as watched by the caller.
type WatchedInput struct {
	MediaInput
	Watched bool
}

// MediaResult reports whether a conditional media update applied.
// Changed is false for duplicates, absent entries and inaccessible
// collections alike.
type MediaResult struct {
	Changed bool
}

// LeaveResult describes the outcome of a successful leave.
type LeaveResult struct {
	Left    bool
	Deleted bool
}

// RemoveResult describes an owner delete. CleanupComplete is false when
// some users may still reference the deleted collection.
type RemoveResult struct {
	Removed         bool
	CleanupComplete bool
}
