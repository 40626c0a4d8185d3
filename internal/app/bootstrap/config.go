// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for FlickHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: FLICKHUB_MONGO_URI, FLICKHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "flickhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Access tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "Access token signing secret (must be strong in production)"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Access token lifetime (e.g., 24h, 90m)"},

	// Redis cache
	{Name: "redis_addr", Default: "", Desc: "Redis address host:port (blank disables the metadata cache)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "cache_ttl", Default: "24h", Desc: "Metadata cache entry lifetime"},

	// TMDB
	{Name: "tmdb_api_key", Default: "", Desc: "TMDB v3 API key"},
	{Name: "tmdb_base_url", Default: "https://api.themoviedb.org/3", Desc: "TMDB API base URL"},
	{Name: "tmdb_image_url", Default: "https://image.tmdb.org/t/p", Desc: "TMDB image base URL"},
	{Name: "tmdb_language", Default: "en-US", Desc: "Language for TMDB responses"},
	{Name: "tmdb_rate", Default: 40, Desc: "Max TMDB requests per second"},
	{Name: "tmdb_timeout", Default: "8s", Desc: "Deadline for one metadata lookup, cache included"},

	// Membership sweep
	{Name: "sweep_interval", Default: "15m", Desc: "How often User.collections is reconciled (0 disables)"},
	{Name: "sweep_timeout", Default: "5m", Desc: "Deadline for one reconciliation pass"},

	// Auth rate limiting
	{Name: "auth_rate_per_minute", Default: 10, Desc: "Register/login attempts per minute per client IP"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, FLICKHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FLICKHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 24*time.Hour),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		CacheTTL:      appValues.Duration("cache_ttl", 24*time.Hour),

		TMDBAPIKey:   appValues.String("tmdb_api_key"),
		TMDBBaseURL:  appValues.String("tmdb_base_url"),
		TMDBImageURL: appValues.String("tmdb_image_url"),
		TMDBLanguage: appValues.String("tmdb_language"),
		TMDBRate:     float64(appValues.Int("tmdb_rate")),
		TMDBTimeout:  appValues.Duration("tmdb_timeout", 8*time.Second),

		SweepInterval: appValues.Duration("sweep_interval", 15*time.Minute),
		SweepTimeout:  appValues.Duration("sweep_timeout", 5*time.Minute),

		AuthRatePerMinute: appValues.Int("auth_rate_per_minute"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked before any connection is attempted,
// and production refuses the development token secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg, logger)
}

func validateApp(env string, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}
	if appCfg.JWTSecret == "" {
		return auth.ErrSecretEmpty
	}
	if env == "prod" {
		if appCfg.JWTSecret == devJWTSecret {
			return errors.New("jwt_secret must be changed in production")
		}
		if len(appCfg.JWTSecret) < auth.MinSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d characters in production", auth.MinSecretLen)
		}
	}
	if appCfg.TMDBAPIKey == "" {
		logger.Warn("tmdb_api_key is empty; metadata requests will fail upstream")
	}
	if appCfg.AuthRatePerMinute <= 0 {
		return errors.New("auth_rate_per_minute must be positive")
	}
	if appCfg.SweepInterval < 0 {
		return errors.New("sweep_interval must not be negative")
	}
	return nil
}
