// internal/app/collections/membership.go
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

// errUserVanished marks a user-side update that matched no document.
var errUserVanished = errors.New("user document not matched")

func (s *Service) loadUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	return u, nil
}

// Join adds the caller to a public collection.
//
// Only public collections can be joined. A private collection, including
// one the caller could otherwise see, reports NotFound so its existence is
// not revealed. The collection member list is written first; if the user
// document cannot be updated the membership is removed again and JoinError
// is returned.
func (s *Service) Join(ctx context.Context, in MembershipInput) (View, error) {
	u, err := s.loadUser(ctx, in.CallerID)
	if err != nil {
		return View{}, err
	}
	if u.HasCollection(in.CollectionID) {
		return View{}, apperr.ErrAlreadyJoined
	}

	matched, err := s.colls.JoinPublic(ctx, in.CollectionID, in.CallerID)
	if err != nil {
		return View{}, apperr.ErrJoinError.WithCause(err)
	}
	if matched == 0 {
		return View{}, errCollectionNotFound
	}

	ok, err := s.users.AddCollectionRef(ctx, in.CallerID, in.CollectionID)
	if err == nil && !ok {
		err = errUserVanished
	}
	if err != nil {
		if _, cerr := s.colls.RemoveMember(ctx, in.CollectionID, in.CallerID); cerr != nil {
			s.log.Error("join: compensating member removal failed",
				zap.String("collection_id", in.CollectionID.Hex()),
				zap.String("user_id", in.CallerID.Hex()),
				zap.Error(cerr))
		}
		return View{}, apperr.ErrJoinError.WithCause(err)
	}

	c, err := s.colls.GetByID(ctx, in.CollectionID)
	if err != nil {
		// The join itself is complete; the collection was removed right after.
		if errors.Is(err, mongo.ErrNoDocuments) {
			return View{}, errCollectionNotFound
		}
		return View{}, apperr.Internal("load collection", err)
	}
	return s.view(ctx, c, in.CallerID), nil
}

// Leave removes the caller from a collection.
//
//	owner, members left  -> LeaveRefused, nothing changes
//	owner, no members    -> collection deleted, ref removed
//	member               -> membership and ref removed
//
// A ref to a collection that no longer exists is simply removed.
func (s *Service) Leave(ctx context.Context, in MembershipInput) (LeaveResult, error) {
	u, err := s.loadUser(ctx, in.CallerID)
	if err != nil {
		return LeaveResult{}, err
	}
	if !u.HasCollection(in.CollectionID) {
		return LeaveResult{}, apperr.ErrNotJoined
	}

	c, err := s.colls.GetByID(ctx, in.CollectionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, err := s.users.RemoveCollectionRef(ctx, in.CallerID, in.CollectionID); err != nil {
			return LeaveResult{}, apperr.ErrLeaveError.WithCause(err)
		}
		return LeaveResult{Left: true}, nil
	}
	if err != nil {
		return LeaveResult{}, apperr.ErrLeaveError.WithCause(err)
	}

	if c.IsOwner(in.CallerID) {
		return s.ownerLeave(ctx, c, in.CallerID)
	}
	return s.memberLeave(ctx, in)
}

func (s *Service) ownerLeave(ctx context.Context, c models.Collection, ownerID primitive.ObjectID) (LeaveResult, error) {
	if len(c.Members) > 0 {
		return LeaveResult{}, apperr.ErrLeaveRefused
	}

	// The empty check is repeated inside the delete filter; a member who
	// joined since the read above keeps the collection alive.
	n, err := s.colls.DeleteOwnedIfEmpty(ctx, c.ID, ownerID)
	if err != nil {
		return LeaveResult{}, apperr.ErrLeaveError.WithCause(err)
	}
	if n == 0 {
		return LeaveResult{}, apperr.ErrLeaveRefused
	}

	if _, err := s.users.RemoveCollectionRef(ctx, ownerID, c.ID); err != nil {
		s.log.Warn("leave: collection deleted but owner ref remains",
			zap.String("collection_id", c.ID.Hex()),
			zap.String("user_id", ownerID.Hex()),
			zap.Error(err))
		return LeaveResult{}, apperr.ErrLeaveError.WithCause(err)
	}
	return LeaveResult{Left: true, Deleted: true}, nil
}

func (s *Service) memberLeave(ctx context.Context, in MembershipInput) (LeaveResult, error) {
	if _, err := s.colls.RemoveMember(ctx, in.CollectionID, in.CallerID); err != nil {
		return LeaveResult{}, apperr.ErrLeaveError.WithCause(err)
	}

	if _, err := s.users.RemoveCollectionRef(ctx, in.CallerID, in.CollectionID); err != nil {
		if _, cerr := s.colls.AddMember(ctx, in.CollectionID, in.CallerID); cerr != nil {
			s.log.Error("leave: compensating member re-add failed",
				zap.String("collection_id", in.CollectionID.Hex()),
				zap.String("user_id", in.CallerID.Hex()),
				zap.Error(cerr))
		}
		return LeaveResult{}, apperr.ErrLeaveError.WithCause(err)
	}
	return LeaveResult{Left: true}, nil
}
