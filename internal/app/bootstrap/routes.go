// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/catalog"
	collectionsvc "github.com/dalemusser/flickhub/internal/app/collections"
	collectionsfeature "github.com/dalemusser/flickhub/internal/app/features/collections"
	errorsfeature "github.com/dalemusser/flickhub/internal/app/features/errors"
	favoritesfeature "github.com/dalemusser/flickhub/internal/app/features/favorites"
	healthfeature "github.com/dalemusser/flickhub/internal/app/features/health"
	mediafeature "github.com/dalemusser/flickhub/internal/app/features/media"
	usersfeature "github.com/dalemusser/flickhub/internal/app/features/users"
	collectionstore "github.com/dalemusser/flickhub/internal/app/store/collections"
	favoritestore "github.com/dalemusser/flickhub/internal/app/store/favorites"
	userstore "github.com/dalemusser/flickhub/internal/app/store/users"
	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/dalemusser/flickhub/internal/app/system/cache"
	"github.com/dalemusser/flickhub/internal/app/system/tmdb"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It builds the stores, services and token manager
// once, loads the caller from the access token on every request, and mounts
// the feature routers: users, collections, favorites, media and health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	colls := collectionstore.New(deps.MongoDatabase)
	favs := favoritestore.New(deps.MongoDatabase)

	metaCache := cache.New(deps.Redis, "flickhub:", appCfg.CacheTTL, logger)
	provider := tmdb.New(tmdb.Config{
		BaseURL:  appCfg.TMDBBaseURL,
		ImageURL: appCfg.TMDBImageURL,
		APIKey:   appCfg.TMDBAPIKey,
		Language: appCfg.TMDBLanguage,
		Rate:     appCfg.TMDBRate,
	}, logger)
	var metaStore catalog.Cache
	if metaCache.Enabled() {
		metaStore = metaCache
	}
	cat := catalog.New(provider, metaStore, logger)

	svc := collectionsvc.New(colls, users, logger)

	limiter := deps.Background.AuthLimiter

	r := chi.NewRouter()

	// Global auth middleware: resolves the caller from x-access-token or a
	// Bearer header. Routes that need a caller add auth.RequireSignedIn.
	r.Use(tokens.LoadCaller)

	errorsHandler := errorsfeature.NewHandler(logger)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, metaCache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	usersHandler := usersfeature.NewHandler(users, colls, tokens, limiter, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	collectionsHandler := collectionsfeature.NewHandler(svc, cat, logger)
	r.Mount("/collections", collectionsfeature.Routes(collectionsHandler))

	favoritesHandler := favoritesfeature.NewHandler(favs, users, cat, logger)
	r.Mount("/favorites", favoritesfeature.Routes(favoritesHandler))

	mediaHandler := mediafeature.NewHandler(cat, logger)
	r.Mount("/media", mediafeature.Routes(mediaHandler))

	return r, nil
}
