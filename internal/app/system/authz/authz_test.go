package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/flickhub/internal/app/system/auth"
	"github.com/dalemusser/flickhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	name, id, ok := authz.UserCtx(req)
	if ok {
		t.Fatal("expected ok=false without a caller")
	}
	if name != "" || id != primitive.NilObjectID {
		t.Errorf("expected zero values, got %q %s", name, id.Hex())
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	oid := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Caller{ID: oid.Hex(), Username: "ada"})

	name, id, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if name != "ada" {
		t.Errorf("username: got %q, want %q", name, "ada")
	}
	if id != oid {
		t.Errorf("id: got %s, want %s", id.Hex(), oid.Hex())
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Caller{ID: "not-an-objectid"})
	if _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed id")
	}
}

func TestIsCaller(t *testing.T) {
	oid := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Caller{ID: oid.Hex()})

	if !authz.IsCaller(req, oid) {
		t.Error("expected IsCaller to match own id")
	}
	if authz.IsCaller(req, primitive.NewObjectID()) {
		t.Error("expected IsCaller to reject another id")
	}
}
