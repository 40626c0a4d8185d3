// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/flickhub/internal/app/features/shared/respond"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// body is the JSON shape of every error response.
type body struct {
	Message string      `json:"message"`
	Code    apperr.Code `json:"code"`
	Status  int         `json:"status"`
}

// Write maps err to a status and writes the error body. Untyped errors become
// a generic 500; their text is logged, never sent.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ae *apperr.Error
	if !stderrors.As(err, &ae) {
		ae = apperr.ErrInternal.WithCause(err)
	}
	status := ae.HTTPStatus()

	if log != nil {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", string(ae.Code)),
			zap.Int("status", status),
			zap.Error(err),
		}
		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case ae.Unwrap() != nil:
			log.Warn("request rejected", fields...)
		default:
			log.Debug("request rejected", fields...)
		}
	}

	respond.JSON(w, status, body{Message: ae.Message, Code: ae.Code, Status: status})
}

// Handler serves the router-level fallbacks.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound handles requests with no matching route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, r, nil, apperr.NotFound("route not found"))
}

// MethodNotAllowed handles a known path with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusMethodNotAllowed, body{
		Message: "method not allowed",
		Code:    "METHOD_NOT_ALLOWED",
		Status:  http.StatusMethodNotAllowed,
	})
}
