// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	collectionstore "github.com/dalemusser/flickhub/internal/app/store/collections"
	userstore "github.com/dalemusser/flickhub/internal/app/store/users"
	"github.com/dalemusser/flickhub/internal/app/system/ratelimit"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"github.com/dalemusser/flickhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It applies
// configured timeouts and starts the background goroutines that Shutdown stops.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Upstream: appCfg.TMDBTimeout,
		Sweep:    appCfg.SweepTimeout,
	})

	deps.Background.AuthLimiter = ratelimit.NewAuthLimiter(appCfg.AuthRatePerMinute)

	if appCfg.SweepInterval > 0 {
		sweep := workers.NewMembershipSweep(
			userstore.New(deps.MongoDatabase),
			collectionstore.New(deps.MongoDatabase),
			logger,
			appCfg.SweepInterval,
			timeouts.Sweep(),
		)
		sweep.Start()
		deps.Background.Sweep = sweep
	} else {
		logger.Info("membership sweep disabled")
	}
	return nil
}
