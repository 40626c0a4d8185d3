// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/flickhub/internal/app/system/cache"
	"github.com/dalemusser/flickhub/internal/app/system/indexes"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"github.com/dalemusser/flickhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB and, when configured, Redis.
// A Redis failure is fatal only when an address was given.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	rctx, rcancel := context.WithTimeout(ctx, timeouts.Ping())
	defer rcancel()
	rdb, err := cache.Connect(rctx, cache.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}
	if rdb == nil {
		logger.Info("redis_addr not set; metadata cache disabled")
	} else {
		logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Redis:         rdb,
		Background:    &Background{},
	}, nil
}

// EnsureSchema creates collections with their JSON-schema validators and
// reconciles indexes. Both steps are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("schema validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	logger.Info("schema ready")
	return nil
}
