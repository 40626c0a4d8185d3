package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents a caller for testing HTTP handlers.
type TestUser struct {
	ID       string
	Username string
	Email    string
}

// NewTestUser returns a TestUser with a fresh id.
func NewTestUser(username string) TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: username,
		Email:    strings.ToLower(username) + "@test.com",
	}
}

// UserFor builds a TestUser from an existing id.
func UserFor(id primitive.ObjectID, username string) TestUser {
	return TestUser{ID: id.Hex(), Username: username, Email: strings.ToLower(username) + "@test.com"}
}

// WithUser adds a caller to the request context, bypassing token checks.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.Caller{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request with body encoded as JSON.
func NewJSONRequest(method, target string, body any) *http.Request {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a caller in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, r.Body.String())
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t interface{ Fatalf(string, ...any) }, v any) {
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response body: %v (body %s)", err, r.Body.String())
	}
}
