// internal/domain/models/media.go
package models

// MediaType tags a title as a movie or a TV show.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether t is a known media type.
func (t MediaType) Valid() bool {
	return t == MediaMovie || t == MediaTV
}

// ParseMediaType converts s to a MediaType.
func ParseMediaType(s string) (MediaType, bool) {
	t := MediaType(s)
	return t, t.Valid()
}

// MediaDetails is the metadata returned by the catalog provider.
// Only the fields the API surfaces are mapped.
type MediaDetails struct {
	MediaID          int64     `json:"mediaId"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"originalTitle,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	Description      string    `json:"description,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	Genres           []string  `json:"genres"`
	Adult            bool      `json:"adult"`
	Rating           float64   `json:"rating"`
	Votes            int64     `json:"votes"`
	Popularity       float64   `json:"popularity"`
}

// CastMember is one credited performer of a title.
type CastMember struct {
	ActorName     string `json:"actorName"`
	CharacterName string `json:"characterName"`
	PosterPath    string `json:"posterPath"`
}
