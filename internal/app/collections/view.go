// internal/app/collections/view.go
package collections

import (
	"time"

	"github.com/dalemusser/flickhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a resolved participant of a collection.
type Member struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	IsOwner  bool   `json:"isOwner"`
}

// MediaEntry is the response shape of one embedded media item.
// Details is filled by metadata enrichment when available.
type MediaEntry struct {
	MediaID   int64                `json:"mediaId"`
	MediaType models.MediaType     `json:"mediaType"`
	AddedBy   string               `json:"addedBy"`
	WatchedBy []string             `json:"watchedBy"`
	Watched   bool                 `json:"watched"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
	Details   *models.MediaDetails `json:"details,omitempty"`
}

// View is the full projection of a collection for one caller.
// Members always starts with the owner.
type View struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	IsPublic    bool         `json:"isPublic"`
	OwnerID     string       `json:"owner"`
	IsOwner     bool         `json:"isOwner"`
	IsMember    bool         `json:"isMember"`
	Members     []Member     `json:"members"`
	MemberCount int          `json:"memberCount"`
	Medias      []MediaEntry `json:"medias"`
	MediaCount  int          `json:"mediaCount"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Summary is the list projection of a collection.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsPublic    bool      `json:"isPublic"`
	OwnerID     string    `json:"owner"`
	IsOwner     bool      `json:"isOwner"`
	MemberCount int       `json:"memberCount"`
	MediaCount  int       `json:"mediaCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// effectiveMembers returns the owner followed by the stored members.
// A stray owner id in members is skipped.
func effectiveMembers(c models.Collection) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(c.Members)+1)
	out = append(out, c.Owner)
	for _, m := range c.Members {
		if m != c.Owner {
			out = append(out, m)
		}
	}
	return out
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// buildView projects c for callerID. Users missing from summaries are
// listed by id only.
func buildView(c models.Collection, callerID primitive.ObjectID, summaries []models.UserSummary) View {
	byID := make(map[primitive.ObjectID]models.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}

	ids := effectiveMembers(c)
	members := make([]Member, 0, len(ids))
	for _, id := range ids {
		m := Member{ID: id.Hex(), IsOwner: id == c.Owner}
		if s, ok := byID[id]; ok {
			m.Email = s.Email
			m.Username = s.Username
		}
		members = append(members, m)
	}

	medias := make([]MediaEntry, 0, len(c.Medias))
	for _, cm := range c.Medias {
		medias = append(medias, MediaEntry{
			MediaID:   cm.MediaID,
			MediaType: cm.MediaType,
			AddedBy:   cm.AddedBy.Hex(),
			WatchedBy: hexes(cm.WatchedBy),
			Watched:   containsID(cm.WatchedBy, callerID),
			CreatedAt: cm.CreatedAt,
			UpdatedAt: cm.UpdatedAt,
		})
	}

	return View{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		IsPublic:    c.IsPublic,
		OwnerID:     c.Owner.Hex(),
		IsOwner:     c.IsOwner(callerID),
		IsMember:    c.IsMember(callerID),
		Members:     members,
		MemberCount: len(members),
		Medias:      medias,
		MediaCount:  len(medias),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func buildSummary(c models.Collection, callerID primitive.ObjectID) Summary {
	return Summary{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		IsPublic:    c.IsPublic,
		OwnerID:     c.Owner.Hex(),
		IsOwner:     c.IsOwner(callerID),
		MemberCount: len(effectiveMembers(c)),
		MediaCount:  len(c.Medias),
		UpdatedAt:   c.UpdatedAt,
	}
}
