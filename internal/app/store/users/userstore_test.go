package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/flickhub/internal/app/store/users"
	"github.com/dalemusser/flickhub/internal/app/system/indexes"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/dalemusser/flickhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:    "  Ada@Example.COM ",
		Username: " Ada   Lovelace ",
	}, "google-oauth2|1234")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.Username != "Ada Lovelace" {
		t.Errorf("expected normalized username, got %q", created.Username)
	}
	if created.Provider != models.ProviderLocal {
		t.Errorf("expected default provider %q, got %q", models.ProviderLocal, created.Provider)
	}
	if created.ProviderIDHash == "" || created.ProviderIDHash == "google-oauth2|1234" {
		t.Error("expected provider id to be stored hashed")
	}
	if created.Collections == nil || created.Favorites == nil {
		t.Error("expected empty, non-nil reference lists")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_RequiresFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name       string
		user       models.User
		providerID string
	}{
		{"no email", models.User{Username: "x"}, "p"},
		{"no username", models.User{Email: "x@example.com"}, "p"},
		{"no provider id", models.User{Email: "x@example.com", Username: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.user, tt.providerID); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.User{Email: "dup@example.com", Username: "one"}, "p1"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Email: "DUP@example.com", Username: "two"}, "p2")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail_AndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "ada@example.com", Username: "ada"}, "secret-provider-id"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.GetByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if !userstore.VerifyProviderID(u, "secret-provider-id") {
		t.Error("expected provider id to verify")
	}
	if userstore.VerifyProviderID(u, "wrong") {
		t.Error("expected wrong provider id to fail")
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_CollectionRefs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "ada@example.com")
	c1, c2 := primitive.NewObjectID(), primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		ok, err := store.AddCollectionRef(ctx, u.ID, c1)
		if err != nil || !ok {
			t.Fatalf("AddCollectionRef: ok=%v err=%v", ok, err)
		}
	}
	if _, err := store.AddCollectionRef(ctx, u.ID, c2); err != nil {
		t.Fatalf("AddCollectionRef failed: %v", err)
	}

	got := fixtures.LoadUser(ctx, u.ID)
	if len(got.Collections) != 2 {
		t.Fatalf("expected 2 refs (set semantics), got %d", len(got.Collections))
	}

	ok, err := store.RemoveCollectionRef(ctx, u.ID, c1)
	if err != nil || !ok {
		t.Fatalf("RemoveCollectionRef: ok=%v err=%v", ok, err)
	}
	if err := store.RemoveCollectionRefs(ctx, u.ID, []primitive.ObjectID{c2}); err != nil {
		t.Fatalf("RemoveCollectionRefs failed: %v", err)
	}
	if got := fixtures.LoadUser(ctx, u.ID); len(got.Collections) != 0 {
		t.Errorf("expected no refs, got %v", got.Collections)
	}

	ok, err = store.AddCollectionRef(ctx, primitive.NewObjectID(), c1)
	if err != nil {
		t.Fatalf("AddCollectionRef unknown user: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unknown user")
	}
}

func TestStore_CollectionRefsMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "a", "a@example.com")
	b := fixtures.CreateUser(ctx, "b", "b@example.com")
	c := fixtures.CreateUser(ctx, "c", "c@example.com")
	coll := primitive.NewObjectID()
	fixtures.AddCollectionRef(ctx, a.ID, coll)

	n, err := store.AddCollectionRefToMany(ctx, []primitive.ObjectID{a.ID, b.ID}, coll)
	if err != nil {
		t.Fatalf("AddCollectionRefToMany failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected only b to be repaired, got %d", n)
	}

	n, err = store.RemoveCollectionRefFromMany(ctx, []primitive.ObjectID{a.ID, b.ID, c.ID}, coll)
	if err != nil {
		t.Fatalf("RemoveCollectionRefFromMany failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 users cleaned, got %d", n)
	}
	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		if got := fixtures.LoadUser(ctx, id); len(got.Collections) != 0 {
			t.Errorf("user %s still references collection", id.Hex())
		}
	}
}

func TestStore_ForEachWithCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "a", "a@example.com")
	fixtures.CreateUser(ctx, "b", "b@example.com")
	fixtures.AddCollectionRef(ctx, a.ID, primitive.NewObjectID())

	seen := map[primitive.ObjectID]int{}
	err := store.ForEachWithCollections(ctx, func(userID primitive.ObjectID, refs []primitive.ObjectID) error {
		seen[userID] = len(refs)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachWithCollections failed: %v", err)
	}
	if len(seen) != 1 || seen[a.ID] != 1 {
		t.Errorf("expected only user a with 1 ref, got %v", seen)
	}
}

func TestStore_FavoriteRefs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "ada@example.com")
	fav := primitive.NewObjectID()

	if ok, err := store.AddFavoriteRef(ctx, u.ID, fav); err != nil || !ok {
		t.Fatalf("AddFavoriteRef: ok=%v err=%v", ok, err)
	}
	if got := fixtures.LoadUser(ctx, u.ID); len(got.Favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(got.Favorites))
	}
	if ok, err := store.RemoveFavoriteRef(ctx, u.ID, fav); err != nil || !ok {
		t.Fatalf("RemoveFavoriteRef: ok=%v err=%v", ok, err)
	}
	if got := fixtures.LoadUser(ctx, u.ID); len(got.Favorites) != 0 {
		t.Errorf("expected no favorites, got %d", len(got.Favorites))
	}
}

func TestStore_ListSummaries_PreservesOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	b := fixtures.CreateUser(ctx, "bob", "bob@example.com")

	got, err := store.ListSummaries(ctx, []primitive.ObjectID{b.ID, primitive.NewObjectID(), a.ID})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[0].Username != "bob" || got[1].Username != "alice" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[1].Email != "alice@example.com" {
		t.Errorf("expected email to be projected, got %q", got[1].Email)
	}
}
