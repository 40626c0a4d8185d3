package collections_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/flickhub/internal/app/collections"
	"github.com/dalemusser/flickhub/internal/app/system/apperr"
	"github.com/dalemusser/flickhub/internal/domain/models"
	"github.com/dalemusser/flickhub/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	_ collections.CollectionStore = (*memstore.Collections)(nil)
	_ collections.IdentityStore   = (*memstore.Users)(nil)
)

var errBoom = errors.New("boom")

type fixture struct {
	svc   *collections.Service
	colls *memstore.Collections
	users *memstore.Users
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	colls := memstore.NewCollections()
	users := memstore.NewUsers()
	return &fixture{
		svc:   collections.New(colls, users, zap.NewNop()),
		colls: colls,
		users: users,
		ctx:   context.Background(),
	}
}

func (f *fixture) create(t *testing.T, name string, public bool, owner primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	v, err := f.svc.Create(f.ctx, collections.CreateInput{Name: name, IsPublic: public, OwnerID: owner})
	require.NoError(t, err)
	id, err := primitive.ObjectIDFromHex(v.ID)
	require.NoError(t, err)
	return id
}

func (f *fixture) join(t *testing.T, collID, userID primitive.ObjectID) {
	t.Helper()
	_, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: collID, CallerID: userID})
	require.NoError(t, err)
}

func (f *fixture) load(t *testing.T, id primitive.ObjectID) models.Collection {
	t.Helper()
	c, err := f.colls.GetByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

/* -------------------------------------------------------------------------- */
/* Create                                                                     */
/* -------------------------------------------------------------------------- */

func TestCreate_RegistersOnOwner(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")

	v, err := f.svc.Create(f.ctx, collections.CreateInput{Name: "  Watch   list ", OwnerID: a})
	require.NoError(t, err)

	assert.Equal(t, "Watch list", v.Name)
	assert.False(t, v.IsPublic)
	assert.True(t, v.IsOwner)
	require.Len(t, v.Members, 1)
	assert.True(t, v.Members[0].IsOwner)
	assert.Equal(t, "alice", v.Members[0].Username)
	assert.Empty(t, v.Medias)

	id, _ := primitive.ObjectIDFromHex(v.ID)
	assert.Contains(t, f.users.Refs(a), id)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")

	for _, name := range []string{"", "   ", "<b></b>"} {
		_, err := f.svc.Create(f.ctx, collections.CreateInput{Name: name, OwnerID: a})
		assert.ErrorIs(t, err, apperr.ErrValidation, "name %q", name)
	}
	assert.Equal(t, 0, f.colls.Count())
}

func TestCreate_StripsMarkup(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")

	v, err := f.svc.Create(f.ctx, collections.CreateInput{Name: "<i>Noir</i> & Co", OwnerID: a})
	require.NoError(t, err)
	assert.Equal(t, "Noir & Co", v.Name)
}

func TestCreate_UnknownOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.ctx, collections.CreateInput{Name: "x", OwnerID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 0, f.colls.Count())
}

func TestCreate_CompensatesWhenOwnerRefFails(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	f.users.FailNext("AddCollectionRef", errBoom)

	_, err := f.svc.Create(f.ctx, collections.CreateInput{Name: "x", OwnerID: a})
	assert.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, 0, f.colls.Count(), "collection should be deleted again")
	assert.Empty(t, f.users.Refs(a))
}

/* -------------------------------------------------------------------------- */
/* Media                                                                      */
/* -------------------------------------------------------------------------- */

func TestAddMedia_IdempotentScenario(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Watchlist", false, a)

	in := collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 603692, MediaType: models.MediaMovie}

	first, err := f.svc.AddMedia(f.ctx, in)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := f.svc.AddMedia(f.ctx, in)
	require.NoError(t, err)
	assert.False(t, second.Changed, "duplicate add must be a silent no-op")

	require.Len(t, f.load(t, id).Medias, 1)

	// Private collection: a stranger cannot join and cannot tell it exists.
	_, err = f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, f.load(t, id).Members)
	assert.Empty(t, f.users.Refs(b))
}

func TestAddMedia_SameIDDifferentType(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "Mixed", false, a)

	for _, mt := range []models.MediaType{models.MediaMovie, models.MediaTV} {
		res, err := f.svc.AddMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 1399, MediaType: mt})
		require.NoError(t, err)
		assert.True(t, res.Changed)
	}
	assert.Len(t, f.load(t, id).Medias, 2)
}

func TestAddMedia_DeniedForStranger(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Private", false, a)

	res, err := f.svc.AddMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: b, MediaID: 1, MediaType: models.MediaMovie})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, f.load(t, id).Medias)
}

func TestAddMedia_PublicOpenToAnyone(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)

	res, err := f.svc.AddMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: b, MediaID: 7, MediaType: models.MediaTV})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, b, f.load(t, id).Medias[0].AddedBy)
}

func TestAddMedia_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "x", false, a)

	tests := []struct {
		name string
		in   collections.MediaInput
	}{
		{"zero id", collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 0, MediaType: models.MediaMovie}},
		{"negative id", collections.MediaInput{CollectionID: id, CallerID: a, MediaID: -4, MediaType: models.MediaMovie}},
		{"missing type", collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 4}},
		{"bad type", collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 4, MediaType: "book"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddMedia(f.ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestRemoveMedia(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "x", false, a)
	_, err := f.svc.AddMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 10, MediaType: models.MediaMovie})
	require.NoError(t, err)
	_, err = f.svc.AddMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 10, MediaType: models.MediaTV})
	require.NoError(t, err)

	res, err := f.svc.RemoveMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 10, MediaType: models.MediaTV})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.Len(t, f.load(t, id).Medias, 1)
	assert.Equal(t, models.MediaMovie, f.load(t, id).Medias[0].MediaType)

	res, err = f.svc.RemoveMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 10, MediaType: models.MediaTV})
	require.NoError(t, err)
	assert.False(t, res.Changed, "removing an absent entry is a no-op")

	// Without a type every entry with the id goes.
	res, err = f.svc.RemoveMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 10})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, f.load(t, id).Medias)
}

func TestSetWatched(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "x", true, a)
	f.join(t, id, b)
	_, err := f.svc.AddMedia(f.ctx, collections.MediaInput{CollectionID: id, CallerID: a, MediaID: 603692, MediaType: models.MediaMovie})
	require.NoError(t, err)

	in := collections.WatchedInput{
		MediaInput: collections.MediaInput{CollectionID: id, CallerID: b, MediaID: 603692, MediaType: models.MediaMovie},
		Watched:    true,
	}
	_, err = f.svc.SetWatched(f.ctx, in)
	require.NoError(t, err)

	v, err := f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	require.NoError(t, err)
	require.Len(t, v.Medias, 1)
	assert.True(t, v.Medias[0].Watched)
	assert.Equal(t, []string{b.Hex()}, v.Medias[0].WatchedBy)

	va, err := f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	require.NoError(t, err)
	assert.False(t, va.Medias[0].Watched, "watched is per user")

	in.Watched = false
	_, err = f.svc.SetWatched(f.ctx, in)
	require.NoError(t, err)
	assert.Empty(t, f.load(t, id).Medias[0].WatchedBy)

	in.MediaID = 999
	_, err = f.svc.SetWatched(f.ctx, in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

/* -------------------------------------------------------------------------- */
/* Access                                                                     */
/* -------------------------------------------------------------------------- */

func TestGet_AccessIsolation(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Private", false, a)

	_, err := f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NotErrorIs(t, err, apperr.ErrAccessDenied)

	_, err = f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: primitive.NewObjectID(), CallerID: a})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	v, err := f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	require.NoError(t, err)
	assert.Equal(t, "Private", v.Name)
}

func TestGet_EffectiveMembersOwnerFirst(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	c := f.users.Add("carol")
	id := f.create(t, "Club", true, a)
	f.join(t, id, b)
	f.join(t, id, c)

	v, err := f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: c})
	require.NoError(t, err)

	require.Len(t, v.Members, 3)
	assert.Equal(t, a.Hex(), v.Members[0].ID)
	assert.True(t, v.Members[0].IsOwner)
	assert.Equal(t, "bob", v.Members[1].Username)
	assert.Equal(t, "carol", v.Members[2].Username)
	assert.Equal(t, 3, v.MemberCount)
	assert.True(t, v.IsMember)
	assert.False(t, v.IsOwner)

	// the owner is never stored as a member
	assert.NotContains(t, f.load(t, id).Members, a)
}

func TestListForUser_PrunesDangling(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	keep := f.create(t, "Keep", false, a)
	foreign := f.create(t, "Not mine", false, b)
	gone := primitive.NewObjectID()
	f.users.SetRefs(a, keep, gone, foreign)

	list, err := f.svc.ListForUser(f.ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Keep", list[0].Name)
	assert.True(t, list[0].IsOwner)
	assert.Equal(t, 1, list[0].MemberCount)

	assert.Equal(t, []primitive.ObjectID{keep}, f.users.Refs(a))
}

func TestListForUser_Empty(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")

	list, err := f.svc.ListForUser(f.ctx, a)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

/* -------------------------------------------------------------------------- */
/* Join                                                                       */
/* -------------------------------------------------------------------------- */

func TestJoin_Public(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)

	v, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	require.NoError(t, err)

	assert.True(t, v.IsMember)
	require.Len(t, v.Members, 2)
	assert.Equal(t, a.Hex(), v.Members[0].ID)
	assert.Equal(t, b.Hex(), v.Members[1].ID)
	assert.Equal(t, []primitive.ObjectID{b}, f.load(t, id).Members)
	assert.Contains(t, f.users.Refs(b), id)
}

func TestJoin_DuplicateRejected(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.join(t, id, b)

	_, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrAlreadyJoined)
	assert.Len(t, f.load(t, id).Members, 1)
}

func TestJoin_OwnerAlreadyJoined(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "Open", true, a)

	_, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	assert.ErrorIs(t, err, apperr.ErrAlreadyJoined)
	assert.Empty(t, f.load(t, id).Members)
}

func TestJoin_UnknownUser(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "Open", true, a)

	_, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestJoin_CompensatesWhenUserSideFails(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.users.FailNext("AddCollectionRef", errBoom)

	_, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrJoinError)
	assert.ErrorIs(t, err, errBoom)

	assert.Empty(t, f.load(t, id).Members, "collection side must be rolled back")
	assert.Empty(t, f.users.Refs(b))
}

func TestJoin_CollectionSideFailure(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.colls.FailNext("JoinPublic", errBoom)

	_, err := f.svc.Join(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrJoinError)
	assert.Empty(t, f.users.Refs(b))
}

/* -------------------------------------------------------------------------- */
/* Leave                                                                      */
/* -------------------------------------------------------------------------- */

func TestLeave_Member(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.join(t, id, b)

	res, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	require.NoError(t, err)
	assert.True(t, res.Left)
	assert.False(t, res.Deleted)

	assert.Empty(t, f.load(t, id).Members)
	assert.NotContains(t, f.users.Refs(b), id)
}

func TestLeave_NotJoined(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)

	_, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrNotJoined)
}

func TestLeave_OwnerWithMembersRefused(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.join(t, id, b)

	_, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	assert.ErrorIs(t, err, apperr.ErrLeaveRefused)

	c := f.load(t, id)
	assert.Equal(t, a, c.Owner)
	assert.Equal(t, []primitive.ObjectID{b}, c.Members)
	assert.Contains(t, f.users.Refs(a), id)
	assert.Contains(t, f.users.Refs(b), id)
}

func TestLeave_OwnerEmptyDeletes(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Solo", true, a)

	res, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	require.NoError(t, err)
	assert.True(t, res.Left)
	assert.True(t, res.Deleted)

	assert.NotContains(t, f.users.Refs(a), id)
	for _, caller := range []primitive.ObjectID{a, b} {
		_, err := f.svc.Get(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: caller})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	}
}

func TestLeave_DanglingRefIsPruned(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	gone := primitive.NewObjectID()
	f.users.SetRefs(a, gone)

	res, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: gone, CallerID: a})
	require.NoError(t, err)
	assert.True(t, res.Left)
	assert.Empty(t, f.users.Refs(a))
}

func TestLeave_CompensatesWhenUserSideFails(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.join(t, id, b)
	f.users.FailNext("RemoveCollectionRef", errBoom)

	_, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrLeaveError)

	assert.Equal(t, []primitive.ObjectID{b}, f.load(t, id).Members, "membership must be restored")
	assert.Contains(t, f.users.Refs(b), id)
}

func TestLeave_MemberRemovalFails(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.join(t, id, b)
	f.colls.FailNext("RemoveMember", errBoom)

	_, err := f.svc.Leave(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrLeaveError)
	assert.Contains(t, f.users.Refs(b), id)
}

/* -------------------------------------------------------------------------- */
/* Update                                                                     */
/* -------------------------------------------------------------------------- */

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "Old", false, a)

	v, err := f.svc.Update(f.ctx, collections.UpdateInput{CollectionID: id, CallerID: a, Name: strPtr("New"), IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "New", v.Name)
	assert.True(t, v.IsPublic)
}

func TestUpdate_NoChange(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "Same", false, a)

	_, err := f.svc.Update(f.ctx, collections.UpdateInput{CollectionID: id, CallerID: a, Name: strPtr(" Same "), IsPublic: boolPtr(false)})
	assert.ErrorIs(t, err, apperr.ErrNoChange)
}

func TestUpdate_NotOwner(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Open", true, a)
	f.join(t, id, b)

	_, err := f.svc.Update(f.ctx, collections.UpdateInput{CollectionID: id, CallerID: b, Name: strPtr("Mine")})
	assert.ErrorIs(t, err, apperr.ErrNotOwner)
	assert.Equal(t, "Open", f.load(t, id).Name)
}

func TestUpdate_EmptyPatch(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	id := f.create(t, "x", false, a)

	_, err := f.svc.Update(f.ctx, collections.UpdateInput{CollectionID: id, CallerID: a})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Update(f.ctx, collections.UpdateInput{CollectionID: id, CallerID: a, Name: strPtr("  ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

/* -------------------------------------------------------------------------- */
/* Remove                                                                     */
/* -------------------------------------------------------------------------- */

func TestRemove_FansOut(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	c := f.users.Add("carol")
	id := f.create(t, "Club", true, a)
	f.join(t, id, b)
	f.join(t, id, c)

	res, err := f.svc.Remove(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.True(t, res.CleanupComplete)

	assert.Equal(t, 0, f.colls.Count())
	for _, u := range []primitive.ObjectID{a, b, c} {
		assert.NotContains(t, f.users.Refs(u), id)
	}
}

func TestRemove_NotOwner(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Club", true, a)
	f.join(t, id, b)

	_, err := f.svc.Remove(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: b})
	assert.ErrorIs(t, err, apperr.ErrNotOwner)
	assert.Equal(t, 1, f.colls.Count())
}

func TestRemove_FanOutFailureTolerated(t *testing.T) {
	f := newFixture(t)
	a := f.users.Add("alice")
	b := f.users.Add("bob")
	id := f.create(t, "Club", true, a)
	f.join(t, id, b)
	f.users.FailNext("RemoveCollectionRefFromMany", errBoom)

	res, err := f.svc.Remove(f.ctx, collections.MembershipInput{CollectionID: id, CallerID: a})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.False(t, res.CleanupComplete)

	// The leftover ref is pruned lazily on the next list.
	assert.Contains(t, f.users.Refs(b), id)
	list, err := f.svc.ListForUser(f.ctx, b)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotContains(t, f.users.Refs(b), id)
}
