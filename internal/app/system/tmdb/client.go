// internal/app/system/tmdb/client.go
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultImageURL = "https://image.tmdb.org/t/p"
	DefaultLanguage = "en-US"

	// TMDB allows roughly 50 requests per second per IP.
	defaultRate  = 40
	defaultBurst = 20

	posterSize = "/w500"
)

// ErrNotFound is returned when TMDB reports 404 for a title.
var ErrNotFound = errors.New("tmdb: not found")

// StatusError is a non-2xx, non-404 response from TMDB.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Path, e.Status)
}

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL    string
	ImageURL   string
	APIKey     string
	Language   string
	Rate       float64 // requests per second
	Burst      int
	HTTPClient *http.Client
}

// Client talks to the TMDB v3 API.
type Client struct {
	baseURL     string
	imageURL    string
	apiKey      string
	language    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	log         *zap.Logger
}

// New builds a Client from cfg.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(orDefault(cfg.BaseURL, DefaultBaseURL), "/"),
		imageURL:   strings.TrimRight(orDefault(cfg.ImageURL, DefaultImageURL), "/"),
		apiKey:     cfg.APIKey,
		language:   orDefault(cfg.Language, DefaultLanguage),
		httpClient: cfg.HTTPClient,
		log:        logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	r, burst := cfg.Rate, cfg.Burst
	if r <= 0 {
		r = defaultRate
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(r), burst)
	return c
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// get performs a rate-limited GET of path and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("tmdb request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Status: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func mediaPath(t models.MediaType, id int64, suffix string) string {
	return "/" + string(t) + "/" + strconv.FormatInt(id, 10) + suffix
}

// Details returns the metadata of one title.
func (c *Client) Details(ctx context.Context, t models.MediaType, id int64) (models.MediaDetails, error) {
	var raw rawMedia
	if err := c.get(ctx, mediaPath(t, id, ""), nil, &raw); err != nil {
		return models.MediaDetails{}, err
	}
	return c.mapMedia(raw, t), nil
}

// Search runs a multi search (movies, tv and people) and keeps titles only.
func (c *Client) Search(ctx context.Context, query string, page, limit int) ([]models.MediaDetails, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "true")

	var resp listResponse
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return c.mapList(resp.Results, "", limit), nil
}

// Popular lists the currently popular titles of type t.
func (c *Client) Popular(ctx context.Context, t models.MediaType, limit int) ([]models.MediaDetails, error) {
	return c.list(ctx, "/"+string(t)+"/popular", t, limit)
}

// Similar lists titles similar to (t, id).
func (c *Client) Similar(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error) {
	return c.list(ctx, mediaPath(t, id, "/similar"), t, limit)
}

// Recommended lists TMDB recommendations for (t, id).
func (c *Client) Recommended(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.MediaDetails, error) {
	return c.list(ctx, mediaPath(t, id, "/recommendations"), t, limit)
}

func (c *Client) list(ctx context.Context, path string, t models.MediaType, limit int) ([]models.MediaDetails, error) {
	params := url.Values{}
	params.Set("page", "1")

	var resp listResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return c.mapList(resp.Results, t, limit), nil
}

// Cast returns the credited cast of (t, id) that have a character and a photo.
func (c *Client) Cast(ctx context.Context, t models.MediaType, id int64, limit int) ([]models.CastMember, error) {
	var resp creditsResponse
	if err := c.get(ctx, mediaPath(t, id, "/credits"), nil, &resp); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	out := make([]models.CastMember, 0, limit)
	for _, rc := range resp.Cast {
		m := models.CastMember{
			ActorName:     rc.Name,
			CharacterName: rc.Character,
			PosterPath:    c.imagePath(rc.ProfilePath),
		}
		if m.ActorName == "" || m.CharacterName == "" || m.PosterPath == "" {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
