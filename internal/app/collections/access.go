// internal/app/collections/access.go
package collections

import (
	"context"
	"errors"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// errCollectionNotFound is returned for missing and inaccessible
// collections alike.
var errCollectionNotFound = apperr.NotFound("collection not found")

// Get returns the collection if the caller may see it.
func (s *Service) Get(ctx context.Context, in MembershipInput) (View, error) {
	c, err := s.colls.FindAccessible(ctx, in.CollectionID, in.CallerID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return View{}, errCollectionNotFound
	}
	if err != nil {
		return View{}, apperr.Internal("load collection", err)
	}
	return s.view(ctx, c, in.CallerID), nil
}

// view resolves member identities and projects c. A failed lookup
// degrades to ids only.
func (s *Service) view(ctx context.Context, c models.Collection, callerID primitive.ObjectID) View {
	summaries, err := s.users.ListSummaries(ctx, effectiveMembers(c))
	if err != nil {
		s.log.Warn("resolve collection members",
			zap.String("collection_id", c.ID.Hex()),
			zap.Error(err))
		summaries = nil
	}
	return buildView(c, callerID, summaries)
}

// ListForUser summarizes every collection the user owns or joined.
// References to collections that are gone, or that no longer relate to
// the user, are pruned from the user document.
func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]Summary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	if len(u.Collections) == 0 {
		return []Summary{}, nil
	}

	found, err := s.colls.ListByIDs(ctx, u.Collections)
	if err != nil {
		return nil, apperr.Internal("list collections", err)
	}

	live := make(map[primitive.ObjectID]struct{}, len(found))
	out := make([]Summary, 0, len(found))
	for _, c := range found {
		if !c.IsOwner(userID) && !c.IsMember(userID) {
			continue
		}
		live[c.ID] = struct{}{}
		out = append(out, buildSummary(c, userID))
	}

	var dangling []primitive.ObjectID
	for _, id := range u.Collections {
		if _, ok := live[id]; !ok {
			dangling = append(dangling, id)
		}
	}
	if len(dangling) > 0 {
		if err := s.users.RemoveCollectionRefs(ctx, userID, dangling); err != nil {
			s.log.Warn("prune dangling collection refs",
				zap.String("user_id", userID.Hex()),
				zap.Int("count", len(dangling)),
				zap.Error(err))
		} else {
			s.log.Info("pruned dangling collection refs",
				zap.String("user_id", userID.Hex()),
				zap.Int("count", len(dangling)))
		}
	}
	return out, nil
}
