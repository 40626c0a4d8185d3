// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows in an offset-paged list.
const PageSize = 20

// MaxPageSize caps ?limit=.
const MaxPageSize = 100

// Window is a skip/limit pair ready for options.Find().
type Window struct {
	Skip  int64
	Limit int64
}

// Parse reads ?skip= and ?limit= from r. Absent values give skip 0 and
// PageSize; limits above MaxPageSize are clamped. Malformed values are
// validation errors rather than silently replaced.
func Parse(r *http.Request) (Window, error) {
	w := Window{Limit: PageSize}

	if s := query.Get(r, "skip"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return Window{}, apperr.Validation("skip must be a non-negative integer")
		}
		w.Skip = n
	}

	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 1 {
			return Window{}, apperr.Validation("limit must be a positive integer")
		}
		w.Limit = min(n, MaxPageSize)
	}

	return w, nil
}
