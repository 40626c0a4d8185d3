package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// CachePinger is satisfied by *cache.Cache.
type CachePinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Cache  CachePinger
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. cache may be nil.
func NewHandler(client *mongo.Client, cache CachePinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Cache:  cache,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// 200 with {"status":"ok","database":"connected","cache":"connected"} when
// everything answers. A configured cache that does not answer keeps the 200
// but reports status "degraded": metadata lookups fall through to TMDB.
// A failed Mongo ping is a 503 with status "error".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "disconnected",
			Message:  "Database unavailable",
			Error:    err.Error(),
		})
		return
	}

	resp := healthResponse{Status: "ok", Database: "connected", Cache: h.cacheState(ctx)}
	if resp.Cache == "unavailable" {
		resp.Status = "degraded"
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) cacheState(ctx context.Context) string {
	if h.Cache == nil || !h.Cache.Enabled() {
		return "disabled"
	}
	if err := h.Cache.Ping(ctx); err != nil {
		h.Log.Warn("health-check: cache ping failed", zap.Error(err))
		return "unavailable"
	}
	return "connected"
}
