// internal/app/catalog/catalog.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/tmdb"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.uber.org/zap"
)

// MaxQueryLen bounds free-text searches.
const MaxQueryLen = 200

// Provider is the upstream metadata API (tmdb.Client).
type Provider interface {
	Details(ctx context.Context, t models.MediaType, id int64) (models.MediaDetails, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.MediaDetails, error)
	Popular(ctx context.Context, t models.MediaType, limit int) ([]models.MediaDetails, error)
	Similar(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error)
	Recommended(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error)
	Cast(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.CastMember, error)
}

// Cache is a JSON key/value cache (cache.Cache).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Service serves metadata through the cache.
type Service struct {
	provider    Provider
	cache       Cache
	log         *zap.Logger
	concurrency int
}

// DefaultConcurrency bounds parallel upstream lookups during enrichment.
const DefaultConcurrency = 8

// New builds a Service. cache may be nil.
func New(p Provider, c Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: p, cache: c, log: logger, concurrency: DefaultConcurrency}
}

// WithConcurrency sets the enrichment fan-out limit.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Details returns metadata for one title.
func (s *Service) Details(ctx context.Context, t models.MediaType, id int64) (models.MediaDetails, error) {
	if err := validateRef(t, id); err != nil {
		return models.MediaDetails{}, err
	}
	var out models.MediaDetails
	err := s.cached(ctx, fmt.Sprintf("media:%s:%d", t, id), &out, func() (any, error) {
		d, err := s.provider.Details(ctx, t, id)
		if err != nil {
			return nil, err
		}
		out = d
		return d, nil
	})
	return out, err
}

// Search runs a title search. Results are not cached.
func (s *Service) Search(ctx context.Context, query string, page, limit int) ([]models.MediaDetails, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("query is required")
	}
	if len(query) > MaxQueryLen {
		return nil, apperr.Validation(fmt.Sprintf("query must be at most %d characters", MaxQueryLen))
	}
	out, err := s.provider.Search(ctx, query, page, limit)
	if err != nil {
		return nil, s.upstream("search", err)
	}
	return out, nil
}

// Popular lists popular titles of type t.
func (s *Service) Popular(ctx context.Context, t models.MediaType, limit int) ([]models.MediaDetails, error) {
	if !t.Valid() {
		return nil, apperr.Validation("invalid mediaType")
	}
	var out []models.MediaDetails
	err := s.cached(ctx, fmt.Sprintf("popular:%s:%d", t, limit), &out, func() (any, error) {
		l, err := s.provider.Popular(ctx, t, limit)
		out = l
		return l, err
	})
	return out, err
}

// Similar lists titles similar to (t, id).
func (s *Service) Similar(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error) {
	return s.related(ctx, "similar", s.provider.Similar, t, id, limit)
}

// Recommended lists recommendations for (t, id).
func (s *Service) Recommended(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error) {
	return s.related(ctx, "recommended", s.provider.Recommended, t, id, limit)
}

type relatedFunc func(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error)

func (s *Service) related(ctx context.Context, kind string, fetch relatedFunc, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error) {
	if err := validateRef(t, id); err != nil {
		return nil, err
	}
	var out []models.MediaDetails
	err := s.cached(ctx, fmt.Sprintf("%s:%s:%d:%d", kind, t, id, limit), &out, func() (any, error) {
		l, err := fetch(ctx, t, id, limit)
		out = l
		return l, err
	})
	return out, err
}

// Cast lists the credited cast of (t, id).
func (s *Service) Cast(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.CastMember, error) {
	if err := validateRef(t, id); err != nil {
		return nil, err
	}
	var out []models.CastMember
	err := s.cached(ctx, fmt.Sprintf("cast:%s:%d:%d", t, id, limit), &out, func() (any, error) {
		l, err := s.provider.Cast(ctx, t, id, limit)
		out = l
		return l, err
	})
	return out, err
}

// cached reads key into dst or calls fetch, which must also fill dst.
// Cache failures are logged and never fail the request.
func (s *Service) cached(ctx context.Context, key string, dst any, fetch func() (any, error)) error {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, dst)
		if err != nil {
			s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return nil
		}
	}

	v, err := fetch()
	if err != nil {
		return s.upstream(key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, v); err != nil {
			s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) upstream(op string, err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return apperr.NotFound("media not found")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("metadata lookup gave up", zap.String("op", op), zap.Error(err))
	} else {
		s.log.Error("metadata provider failed", zap.String("op", op), zap.Error(err))
	}
	return apperr.ErrUpstream.WithCause(err)
}

func validateRef(t models.MediaType, id int64) error {
	if !t.Valid() {
		return apperr.Validation("invalid mediaType")
	}
	if id <= 0 {
		return apperr.Validation("mediaId must be a positive integer")
	}
	return nil
}
