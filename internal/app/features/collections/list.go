// internal/app/features/collections/list.go
package collections

import (
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/timeouts"
)

// ServeList handles GET /collections: every collection the caller owns or joined.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "collections list")
	defer cancel()

	list, err := h.Svc.ListForUser(ctx, uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.OK(w, list)
}

// ServeView handles GET /collections/{id}. Media entries carry metadata
// when the catalog can resolve them.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	in, err := membership(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "collection view")
	defer cancel()

	v, err := h.Svc.Get(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ectx, ecancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "collection enrichment")
	defer ecancel()
	h.enrich(ectx, &v)

	respond.OK(w, v)
}
