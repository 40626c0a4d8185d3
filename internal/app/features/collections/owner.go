// internal/app/features/collections/owner.go
package collections

import (
	"net/http"

	collectionsvc "github.com/dalemusser/flickhub/internal/app/collections"
	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
)

type updateRequest struct {
	Name     *string `json:"name"`
	IsPublic *bool   `json:"isPublic"`
}

// HandleUpdate handles PATCH /collections/{id}. Owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req updateRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "collection update")
	defer cancel()

	v, err := h.Svc.Update(ctx, collectionsvc.UpdateInput{
		CollectionID: in.CollectionID,
		CallerID:     in.CallerID,
		Name:         req.Name,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, v)
}

type removeResponse struct {
	Success         bool `json:"success"`
	CleanupComplete bool `json:"cleanupComplete"`
}

// HandleDelete handles DELETE /collections/{id}. Owner only; members lose
// their reference to it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "collection delete")
	defer cancel()

	res, err := h.Svc.Remove(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, removeResponse{Success: res.Removed, CleanupComplete: res.CleanupComplete})
}
