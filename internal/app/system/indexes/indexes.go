// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCollections(ctx, db); err != nil {
		problems = append(problems, "collections: "+err.Error())
	}
	if err := ensureFavorites(ctx, db); err != nil {
		problems = append(problems, "favorites: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet makes every model exist with the desired name and
// uniqueness. An index with the same keys is reused, renamed, or dropped
// and recreated when its uniqueness differs.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}

	var errs []string
	for _, m := range models {
		name := ""
		unique := false
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			if m.Options.Unique != nil {
				unique = *m.Options.Unique
			}
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		if ex, ok := existing[sig]; ok {
			if ex.Unique == unique && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop %s failed: %v", coll.Name(), name, ex.Name, err))
				continue
			}
			log.Info("dropped index to realign", zap.String("old_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && wafflemongo.IsDup(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Per-collection index sets                                                   */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_users_email").SetUnique(true),
		},
		{
			// membership sweep and fan-out cleanup
			Keys:    bson.D{{Key: "collections", Value: 1}},
			Options: options.Index().SetName("idx_users_collections"),
		},
	})
}

func ensureCollections(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("collections"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_collections_owner_nameci"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_collections_members"),
		},
		{
			Keys:    bson.D{{Key: "is_public", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_collections_public_nameci"),
		},
	})
}

func ensureFavorites(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("favorites"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user", Value: 1},
				{Key: "media_id", Value: 1},
				{Key: "media_type", Value: 1},
			},
			Options: options.Index().SetName("uniq_favorites_user_media").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_favorites_user_created"),
		},
	})
}
