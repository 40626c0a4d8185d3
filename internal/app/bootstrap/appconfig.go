// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They are app-level settings;
// WAFFLE's CoreConfig covers ports, TLS, logging, CORS and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Access tokens
	JWTSecret string        // HS256 signing secret (32+ chars in production)
	JWTTTL    time.Duration // lifetime of issued tokens

	// Redis metadata cache (blank address disables caching)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// TMDB metadata provider
	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBImageURL string
	TMDBLanguage string
	TMDBRate     float64       // requests per second
	TMDBTimeout  time.Duration // per-request deadline for provider calls

	// Background reconciliation of User.collections
	SweepInterval time.Duration // 0 disables the worker
	SweepTimeout  time.Duration

	// Register/login attempts allowed per minute per client IP
	AuthRatePerMinute int
}
