// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, then closes Redis and MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if bg := deps.Background; bg != nil {
		if bg.Sweep != nil {
			logger.Info("stopping membership sweep")
			bg.Sweep.Stop()
		}
		if bg.AuthLimiter != nil {
			bg.AuthLimiter.Stop()
		}
	}

	if deps.Redis != nil {
		logger.Info("closing Redis client")
		if err := deps.Redis.Close(); err != nil {
			logger.Warn("Redis close failed", zap.Error(err))
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
