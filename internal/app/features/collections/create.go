// internal/app/features/collections/create.go
package collections

import (
	"net/http"

	collectionsvc "github.com/dalemusser/flickhub/internal/app/collections"
	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/inputval"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
)

type createRequest struct {
	Name     string `json:"name" validate:"notblank,max=200"`
	IsPublic bool   `json:"isPublic"`
}

// HandleCreate handles POST /collections.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := inputval.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "collection create")
	defer cancel()

	v, err := h.Svc.Create(ctx, collectionsvc.CreateInput{
		Name:     req.Name,
		IsPublic: req.IsPublic,
		OwnerID:  uid,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, v)
}
