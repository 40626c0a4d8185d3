// internal/app/collections/owner.go
package collections

import (
	"context"
	"errors"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Update changes the name and/or visibility. Only the owner may update.
// A patch equal to the stored values fails with NoChange.
func (s *Service) Update(ctx context.Context, in UpdateInput) (View, error) {
	upd := models.CollectionUpdate{IsPublic: in.IsPublic}
	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return View{}, err
		}
		upd.Name = &name
	}
	if upd.Empty() {
		return View{}, apperr.Validation("nothing to update")
	}

	matched, err := s.colls.UpdateFields(ctx, in.CollectionID, in.CallerID, upd)
	if err != nil {
		return View{}, apperr.Internal("update collection", err)
	}

	// Re-read owned: for a match this is the result, otherwise it tells
	// NoChange apart from NotOwner.
	c, err := s.colls.FindOwned(ctx, in.CallerID, in.CollectionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return View{}, apperr.ErrNotOwner
	}
	if err != nil {
		return View{}, apperr.Internal("load collection", err)
	}
	if matched == 0 {
		return View{}, apperr.ErrNoChange
	}
	return s.view(ctx, c, in.CallerID), nil
}

// Remove deletes a collection owned by the caller and removes it from the
// owner's and every member's list. The fan-out is best effort; refs it
// misses are pruned on the next list or by the membership sweep.
func (s *Service) Remove(ctx context.Context, in MembershipInput) (RemoveResult, error) {
	c, err := s.colls.FindOwned(ctx, in.CallerID, in.CollectionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return RemoveResult{}, apperr.ErrNotOwner
	}
	if err != nil {
		return RemoveResult{}, apperr.Internal("load collection", err)
	}

	ok, err := s.colls.Delete(ctx, c.ID)
	if err != nil {
		return RemoveResult{}, apperr.Internal("delete collection", err)
	}
	if !ok {
		return RemoveResult{}, errCollectionNotFound
	}

	related := effectiveMembers(c)
	n, err := s.users.RemoveCollectionRefFromMany(ctx, related, c.ID)
	if err != nil {
		s.log.Warn("remove: member ref cleanup failed",
			zap.String("collection_id", c.ID.Hex()),
			zap.Int("related", len(related)),
			zap.Error(err))
		return RemoveResult{Removed: true, CleanupComplete: false}, nil
	}
	s.log.Debug("remove: member refs cleaned",
		zap.String("collection_id", c.ID.Hex()),
		zap.Int64("users", n))
	return RemoveResult{Removed: true, CleanupComplete: true}, nil
}
