// internal/app/collections/media.go
package collections

import (
	"context"
	"time"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/domain/models"
)

func validateMedia(in MediaInput, typeRequired bool) error {
	if in.MediaID <= 0 {
		return apperr.Validation("mediaId must be a positive integer")
	}
	if in.MediaType == "" && !typeRequired {
		return nil
	}
	if !in.MediaType.Valid() {
		return apperr.Validation("mediaType must be movie or tv")
	}
	return nil
}

// AddMedia appends a title when the caller can access the collection and
// the title is not already present. Both checks happen inside one
// conditional update, so a duplicate or denied add reports Changed=false.
func (s *Service) AddMedia(ctx context.Context, in MediaInput) (MediaResult, error) {
	if err := validateMedia(in, true); err != nil {
		return MediaResult{}, err
	}
	now := time.Now().UTC()
	n, err := s.colls.AddMedia(ctx, in.CollectionID, in.CallerID, models.CollectionMedia{
		MediaID:   in.MediaID,
		MediaType: in.MediaType,
		AddedBy:   in.CallerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return MediaResult{}, apperr.Internal("add media", err)
	}
	return MediaResult{Changed: n > 0}, nil
}

// RemoveMedia pulls a title when the caller can access the collection.
func (s *Service) RemoveMedia(ctx context.Context, in MediaInput) (MediaResult, error) {
	if err := validateMedia(in, false); err != nil {
		return MediaResult{}, err
	}
	n, err := s.colls.RemoveMedia(ctx, in.CollectionID, in.CallerID, in.MediaID, in.MediaType)
	if err != nil {
		return MediaResult{}, apperr.Internal("remove media", err)
	}
	return MediaResult{Changed: n > 0}, nil
}

// SetWatched marks or unmarks a title as watched by the caller within
// this collection. It fails with NotFound when the collection is not
// accessible or does not contain the title.
func (s *Service) SetWatched(ctx context.Context, in WatchedInput) (MediaResult, error) {
	if err := validateMedia(in.MediaInput, true); err != nil {
		return MediaResult{}, err
	}
	n, err := s.colls.SetWatched(ctx, in.CollectionID, in.CallerID, in.MediaID, in.MediaType, in.Watched)
	if err != nil {
		return MediaResult{}, apperr.Internal("set watched", err)
	}
	if n == 0 {
		return MediaResult{}, apperr.NotFound("media not found in collection")
	}
	return MediaResult{Changed: true}, nil
}
