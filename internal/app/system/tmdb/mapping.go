// internal/app/system/tmdb/mapping.go
package tmdb

import (
	"sort"

	"github.com/dalemusser/flickhub/internal/domain/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 20 // one TMDB result page
)

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// rawMedia covers both movie and tv payloads; tv uses name/first_air_date.
type rawMedia struct {
	ID               int64      `json:"id"`
	MediaType        string     `json:"media_type"`
	Adult            bool       `json:"adult"`
	Title            string     `json:"title"`
	Name             string     `json:"name"`
	OriginalTitle    string     `json:"original_title"`
	OriginalName     string     `json:"original_name"`
	OriginalLanguage string     `json:"original_language"`
	Overview         string     `json:"overview"`
	PosterPath       string     `json:"poster_path"`
	ReleaseDate      string     `json:"release_date"`
	FirstAirDate     string     `json:"first_air_date"`
	Genres           []rawGenre `json:"genres"`
	GenreIDs         []int      `json:"genre_ids"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int64      `json:"vote_count"`
	Popularity       float64    `json:"popularity"`
}

type listResponse struct {
	Page    int        `json:"page"`
	Results []rawMedia `json:"results"`
}

type rawCast struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

type creditsResponse struct {
	Cast []rawCast `json:"cast"`
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (c *Client) imagePath(p string) string {
	if p == "" {
		return ""
	}
	return c.imageURL + posterSize + p
}

// mapMedia converts a TMDB payload. fallback is used when the payload has no
// media_type of its own (everything except multi search).
func (c *Client) mapMedia(r rawMedia, fallback models.MediaType) models.MediaDetails {
	genres := make([]string, 0, len(r.Genres)+len(r.GenreIDs))
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		genres = append(genres, name)
	}
	for _, g := range r.Genres {
		add(g.Name)
	}
	for _, id := range r.GenreIDs {
		add(GenreName(id))
	}

	mt := models.MediaType(r.MediaType)
	if mt == "" {
		mt = fallback
	}

	return models.MediaDetails{
		MediaID:          r.ID,
		MediaType:        mt,
		Title:            firstNonEmpty(r.Title, r.Name),
		OriginalTitle:    firstNonEmpty(r.OriginalTitle, r.OriginalName),
		OriginalLanguage: r.OriginalLanguage,
		PosterPath:       c.imagePath(r.PosterPath),
		Description:      r.Overview,
		ReleaseDate:      firstNonEmpty(r.ReleaseDate, r.FirstAirDate),
		Genres:           genres,
		Adult:            r.Adult,
		Rating:           r.VoteAverage,
		Votes:            r.VoteCount,
		Popularity:       r.Popularity,
	}
}

// mapList keeps movie/tv results with a title, original title and poster,
// most popular first, capped at limit.
func (c *Client) mapList(results []rawMedia, fallback models.MediaType, limit int) []models.MediaDetails {
	limit = clampLimit(limit)
	out := make([]models.MediaDetails, 0, len(results))
	for _, r := range results {
		m := c.mapMedia(r, fallback)
		if !m.MediaType.Valid() || m.Title == "" || m.OriginalTitle == "" || m.PosterPath == "" {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
