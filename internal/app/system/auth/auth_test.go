package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long"

func newTestTokenManager(t *testing.T, ttl time.Duration) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, ttl, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)

	token, err := tm.Issue(auth.Caller{ID: "abc123", Email: "ada@example.com", Username: "ada"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	c, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if c.ID != "abc123" || c.Email != "ada@example.com" || c.Username != "ada" {
		t.Errorf("unexpected caller: %+v", c)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)
	a, _ := tm.Issue(auth.Caller{ID: "u1"})
	b, _ := tm.Issue(auth.Caller{ID: "u1"})
	if a == b {
		t.Error("expected distinct tokens for repeated issue")
	}
}

func TestVerify_Expired(t *testing.T) {
	tm := newTestTokenManager(t, time.Nanosecond)
	token, err := tm.Issue(auth.Caller{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	if _, err := tm.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)
	other, err := auth.NewTokenManager("another-secret-that-is-32-chars-long!", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	token, _ := other.Issue(auth.Caller{ID: "u1"})

	if _, err := tm.Verify(token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestVerify_Garbage(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)
	if _, err := tm.Verify("not.a.token"); err == nil {
		t.Fatal("expected garbage token to fail")
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"custom header", auth.HeaderToken, "tok1", "tok1"},
		{"bearer", "Authorization", "Bearer tok2", "tok2"},
		{"bearer lowercase", "Authorization", "bearer tok3", "tok3"},
		{"basic ignored", "Authorization", "Basic xyz", ""},
		{"none", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			if got := auth.TokenFromRequest(req); got != tt.want {
				t.Errorf("TokenFromRequest = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireSignedIn_NoUser_Returns401JSON(t *testing.T) {
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"UNAUTHORIZED"`) {
		t.Errorf("expected UNAUTHORIZED code in body, got %q", rec.Body.String())
	}
}

func TestLoadCaller_ValidToken_Proceeds(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)
	token, _ := tm.Issue(auth.Caller{ID: "u42", Email: "u42@example.com"})

	var seen *auth.Caller
	handler := tm.LoadCaller(auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if seen == nil || seen.ID != "u42" {
		t.Errorf("expected caller u42 in context, got %+v", seen)
	}
}

func TestLoadCaller_InvalidToken_Rejected(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)
	handler := tm.LoadCaller(auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(auth.HeaderToken, "bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if u, ok := auth.CurrentUser(req); ok || u != nil {
		t.Errorf("expected no user, got %+v", u)
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Caller{ID: "u1", Username: "ada"})
	u, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected user to be found")
	}
	if u.Username != "ada" {
		t.Errorf("expected username ada, got %q", u.Username)
	}
}
