// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/flickhub/internal/app/features/errors"
	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/dalemusser/flickhub/internal/app/system/ratelimit"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the identity storage used by this feature (userstore.Store).
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User, providerID string) (models.User, error)
}

// CollectionLister resolves collection ids to documents (collectionstore.Store).
type CollectionLister interface {
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collection, error)
}

// Handler is the dependency container for the users feature.
type Handler struct {
	Users       UserStore
	Collections CollectionLister
	Tokens      *auth.TokenManager
	Limiter     *ratelimit.AuthLimiter
	Log         *zap.Logger
}

// NewHandler constructs a users Handler. limiter may be nil to disable
// rate limiting.
func NewHandler(users UserStore, colls CollectionLister, tokens *auth.TokenManager, limiter *ratelimit.AuthLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       users,
		Collections: colls,
		Tokens:      tokens,
		Limiter:     limiter,
		Log:         logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorsfeature.Write(w, r, h.Log, err)
}

// collectionName is the short form of a collection on the user view.
type collectionName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// userResponse is returned by register, login and me.
type userResponse struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Username    string           `json:"username"`
	Provider    string           `json:"provider"`
	CreatedAt   time.Time        `json:"createdAt"`
	Token       string           `json:"token,omitempty"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	Collections []collectionName `json:"collections"`
}

// collectionNames lists the names of u's collections. A lookup failure is
// logged and yields an empty list; it never fails the request.
func (h *Handler) collectionNames(ctx context.Context, u *models.User) []collectionName {
	out := []collectionName{}
	if len(u.Collections) == 0 || h.Collections == nil {
		return out
	}
	colls, err := h.Collections.ListByIDs(ctx, u.Collections)
	if err != nil {
		h.Log.Warn("collection names lookup failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		return out
	}
	for _, c := range colls {
		if c.IsOwner(u.ID) || c.IsMember(u.ID) {
			out = append(out, collectionName{ID: c.ID.Hex(), Name: c.Name})
		}
	}
	return out
}

func (h *Handler) respondUser(ctx context.Context, u *models.User, token string) userResponse {
	resp := userResponse{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		Username:    u.Username,
		Provider:    u.Provider,
		CreatedAt:   u.CreatedAt,
		Token:       token,
		Collections: h.collectionNames(ctx, u),
	}
	if token != "" {
		exp := time.Now().Add(h.Tokens.TTL()).UTC()
		resp.ExpiresAt = &exp
	}
	return resp
}

// issue signs a token for u.
func (h *Handler) issue(u *models.User) (string, error) {
	return h.Tokens.Issue(auth.Caller{ID: u.ID.Hex(), Email: u.Email, Username: u.Username})
}
