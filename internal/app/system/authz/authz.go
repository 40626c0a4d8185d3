// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's username, Mongo ObjectID, and a found flag.
// If no caller is present in context or the caller ID is malformed, it
// returns "", NilObjectID, false. Callers can trust that ok=true means a
// verified caller with a valid ObjectID.
func UserCtx(r *http.Request) (username string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// A signed token with a malformed subject; fail closed.
		return "", primitive.NilObjectID, false
	}
	return user.Username, userID, true
}

// CallerID returns only the caller's ObjectID.
func CallerID(r *http.Request) (primitive.ObjectID, bool) {
	_, id, ok := UserCtx(r)
	return id, ok
}

// IsCaller reports whether the request's caller is userID.
func IsCaller(r *http.Request, userID primitive.ObjectID) bool {
	id, ok := CallerID(r)
	return ok && id == userID
}
