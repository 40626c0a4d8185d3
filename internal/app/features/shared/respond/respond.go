// internal/app/features/shared/respond/respond.go
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/flickhub/internal/app/system/apperr"
)

// MaxBodyBytes caps decoded request bodies.
const MaxBodyBytes = 1 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// Success is the body of mutations that only report whether they changed anything.
type Success struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Decode reads a single JSON object from r into dst. Unknown fields are
// rejected. Failures are validation errors suitable for the client.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		case errors.As(err, &syn):
			return apperr.Validation(fmt.Sprintf("malformed JSON at offset %d", syn.Offset))
		case errors.As(err, &typ):
			return apperr.Validation(fmt.Sprintf("%s must be a %s", typ.Field, typ.Type))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return apperr.Validation("unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field "))
		default:
			return apperr.Validation("invalid request body")
		}
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return nil
}
