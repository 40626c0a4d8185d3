// internal/app/collections/create.go
package collections

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/flickhub/internal/app/system/normalize"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxNameLen is the longest collection name accepted, in runes.
const MaxNameLen = 100

// cleanName strips markup and collapses whitespace.
func cleanName(raw string) (string, error) {
	name := normalize.Name(htmlsanitize.Text(raw))
	if name == "" {
		return "", apperr.Validation("collection name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", apperr.Validation("collection name is too long")
	}
	return name, nil
}

// Create inserts a new collection and registers it on the owner's
// membership list. If registration fails the collection is deleted again.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return View{}, err
	}
	if in.OwnerID.IsZero() {
		return View{}, apperr.Validation("owner is required")
	}

	owner, err := s.users.GetByID(ctx, in.OwnerID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return View{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return View{}, apperr.Internal("load owner", err)
	}

	c, err := s.colls.Create(ctx, models.Collection{
		Name:     name,
		IsPublic: in.IsPublic,
		Owner:    in.OwnerID,
	})
	if err != nil {
		return View{}, apperr.Internal("create collection", err)
	}

	ok, err := s.users.AddCollectionRef(ctx, in.OwnerID, c.ID)
	if err != nil || !ok {
		if _, derr := s.colls.Delete(ctx, c.ID); derr != nil {
			s.log.Error("create: compensating delete failed",
				zap.String("collection_id", c.ID.Hex()),
				zap.String("owner_id", in.OwnerID.Hex()),
				zap.Error(derr))
		}
		if err == nil {
			return View{}, apperr.NotFound("user not found")
		}
		return View{}, apperr.Internal("register collection on owner", err)
	}

	return buildView(c, in.OwnerID, []models.UserSummary{{ID: owner.ID, Email: owner.Email, Username: owner.Username}}), nil
}
