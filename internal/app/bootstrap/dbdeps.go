// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/flickhub/internal/app/system/ratelimit"
	"github.com/dalemusser/flickhub/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Redis is nil when no cache is configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Redis         *redis.Client

	// Background is filled in by Startup and torn down by Shutdown.
	Background *Background
}

// Background holds long-lived goroutine owners started after the schema is ready.
type Background struct {
	Sweep       *workers.MembershipSweep
	AuthLimiter *ratelimit.AuthLimiter
}
