// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection the app owns, in creation order.
var Collections = []string{"users", "collections", "favorites"}

var schemas = map[string]func() bson.M{
	"users":       usersSchema,
	"collections": collectionsSchema,
	"favorites":   favoritesSchema,
}

// Server error codes seen while creating collections and running collMod.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

// EnsureAll creates the app's collections (if missing) and attaches JSON-Schema
// validators. Servers that reject collMod (some DocumentDB versions) are
// logged and skipped. Every collection is attempted; failures are joined.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	exists := make(map[string]bool, len(names))
	for _, n := range names {
		exists[n] = true
	}

	var errs []error
	for _, name := range Collections {
		if err := ensure(ctx, db, name, exists[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func ensure(ctx context.Context, db *mongo.Database, name string, exists bool) error {
	log := zap.L().With(zap.String("collection", name))

	if !exists {
		err := db.CreateCollection(ctx, name)
		switch {
		case err == nil:
			log.Info("created collection")
		case hasCode(err, codeNamespaceExists, "already exists", "namespace exists"):
			// Lost a race with another instance.
		default:
			log.Warn("createCollection failed", zap.Error(err))
			return err
		}
	}

	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schemas[name]()},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		if hasCode(err, codeCommandNotFound, "no such command") ||
			hasCode(err, codeNotImplemented, "not implemented", "not supported") {
			log.Info("validator skipped (unsupported)")
			return nil
		}
		return err
	}
	log.Info("validator ensured")
	return nil
}

// hasCode reports whether err carries the server code, or failing that,
// mentions one of hints.
func hasCode(err error, code int32, hints ...string) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, h := range hints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank  = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	mediaID   = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1}
	mediaType = bson.M{"enum": bson.A{"movie", "tv"}}
	idArray   = bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}}
)

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "username", "provider", "provider_id_hash"},
			"properties": bson.M{
				"email":            nonBlank,
				"username":         nonBlank,
				"provider":         nonBlank,
				"provider_id_hash": nonBlank,
				"collections":      idArray,
				"favorites":        idArray,
				"created_at":       bson.M{"bsonType": "date"},
				"updated_at":       bson.M{"bsonType": "date"},
			},
		},
	}
}

func collectionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "owner", "is_public"},
			"properties": bson.M{
				"name":      bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100, "pattern": ".*\\S.*"},
				"name_ci":   nonBlank,
				"is_public": bson.M{"bsonType": "bool"},
				"owner":     bson.M{"bsonType": "objectId"},
				"members":   idArray,
				"medias": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"media_id", "media_type", "added_by"},
						"properties": bson.M{
							"media_id":   mediaID,
							"media_type": mediaType,
							"added_by":   bson.M{"bsonType": "objectId"},
							"watched_by": idArray,
						},
					},
				},
				"created_at": bson.M{"bsonType": "date"},
				"updated_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func favoritesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user", "media_id", "media_type"},
			"properties": bson.M{
				"user":       bson.M{"bsonType": "objectId"},
				"media_id":   mediaID,
				"media_type": mediaType,
				"watched":    bson.M{"bsonType": "bool"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
