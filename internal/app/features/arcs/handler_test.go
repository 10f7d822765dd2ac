// internal/app/features/arcs/handler_test.go
package arcs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/features/arcs"
	"github.com/dalemusser/lorehub/internal/app/system/refs"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestHandleList_PrivateFilteredForMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := arcs.NewHandler(db, zap.NewNop(), refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent))

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)

	f.CreateArc(ctx, rpg, owner.ID, "Public Act", false)
	f.CreateArc(ctx, rpg, owner.ID, "Secret Act", true)

	list := func(u models.User) []models.Arc {
		req := testutil.NewAuthenticatedRequest(t, "GET", "/api/arcs?rpg_id="+rpg.ID.Hex(), nil, u)
		rec := httptest.NewRecorder()
		h.HandleList(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var got []models.Arc
		testutil.DecodeResponse(t, rec, &got)
		return got
	}

	if got := list(owner); len(got) != 2 {
		t.Errorf("owner should see both arcs, got %d", len(got))
	}
	got := list(member)
	if len(got) != 1 || got[0].Name != "Public Act" {
		t.Errorf("member should see only the public arc, got %v", got)
	}
}

func TestHandleGet_PrivateArcVisibleOnDirectFetch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := arcs.NewHandler(db, zap.NewNop(), refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent))

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	outsider := f.CreateUser(ctx, "outsider")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)
	secret := f.CreateArc(ctx, rpg, owner.ID, "Secret Act", true)

	get := func(u models.User) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(t, "GET", "/api/arcs/"+secret.ID.Hex(), nil, u)
		req = testutil.WithChiURLParam(req, "id", secret.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleGet(rec, req)
		return rec
	}

	// Private hides an arc from listings, not from a member who has
	// its id; the campaign gate is what stops outsiders.
	if rec := get(member); rec.Code != http.StatusOK {
		t.Errorf("member direct fetch: expected 200, got %d", rec.Code)
	}
	if rec := get(outsider); rec.Code != http.StatusNotFound {
		t.Errorf("outsider: expected 404, got %d", rec.Code)
	}
}

func TestHandleUpdate_ResnapshotsGroupsUnderInherit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := arcs.NewHandler(db, zap.NewNop(), refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent))

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)
	arc := f.CreateArc(ctx, rpg, member.ID, "Member's Act", false)

	// The member owns the arc and may edit it, but under inherit the
	// campaign's share list wins: a supplied groups_allowed cannot
	// widen access past what the campaign owner granted.
	rogue := f.CreateGroup(ctx, member.ID, "Rogue Group")
	body := map[string]any{
		"name":           "Member's Act",
		"groups_allowed": []string{rogue.ID.Hex()},
	}
	req := testutil.NewAuthenticatedRequest(t, "PUT", "/api/arcs/"+arc.ID.Hex(), body, member)
	req = testutil.WithChiURLParam(req, "id", arc.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated models.Arc
	testutil.DecodeResponse(t, rec, &updated)
	if len(updated.GroupsAllowed) != 1 || updated.GroupsAllowed[0] != group.ID {
		t.Fatalf("expected campaign's groups re-snapshotted, got %v", updated.GroupsAllowed)
	}
}

func TestHandleDelete_CascadesEventsAndFeats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := arcs.NewHandler(db, zap.NewNop(), refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent))

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	arc := f.CreateArc(ctx, rpg, owner.ID, "Act One", false)
	f.CreateEvent(ctx, arc, owner.ID, "Battle")
	f.CreateEvent(ctx, arc, owner.ID, "Aftermath")

	req := testutil.NewAuthenticatedRequest(t, "DELETE", "/api/arcs/"+arc.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", arc.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	for _, coll := range []string{"arcs", "events"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"rpg_id": rpg.ID})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("expected %s removed with the arc, found %d", coll, n)
		}
	}
}
