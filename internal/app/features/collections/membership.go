// internal/app/features/collections/membership.go
package collections

import (
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
)

// HandleJoin handles POST /collections/{id}/join. Public collections only.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "collection join")
	defer cancel()

	v, err := h.Svc.Join(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, v)
}

type leaveResponse struct {
	Success bool `json:"success"`
	Deleted bool `json:"deleted"`
}

// HandleLeave handles POST /collections/{id}/leave. An owner leaving an
// empty collection deletes it.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "collection leave")
	defer cancel()

	res, err := h.Svc.Leave(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, leaveResponse{Success: res.Left, Deleted: res.Deleted})
}
