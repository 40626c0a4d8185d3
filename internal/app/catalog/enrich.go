// internal/app/catalog/enrich.go
package catalog

import (
	"context"
	"sync"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Ref identifies one title.
type Ref struct {
	MediaID   int64
	MediaType models.MediaType
}

// DetailsMany resolves refs concurrently. Refs that fail to resolve are
// absent from the result; the caller decides how to render them.
func (s *Service) DetailsMany(ctx context.Context, refs []Ref) map[Ref]models.MediaDetails {
	out := make(map[Ref]models.MediaDetails, len(refs))
	if len(refs) == 0 {
		return out
	}

	var (
		mu   sync.Mutex
		g    errgroup.Group
		seen = make(map[Ref]struct{}, len(refs))
	)
	g.SetLimit(s.concurrency)

	for _, r := range refs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}

		g.Go(func() error {
			d, err := s.Details(ctx, r.MediaType, r.MediaID)
			if err != nil {
				s.log.Debug("enrichment skipped",
					zap.Int64("media_id", r.MediaID),
					zap.String("media_type", string(r.MediaType)),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			out[r] = d
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
