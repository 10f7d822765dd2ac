// internal/app/features/groups/handler_test.go
package groups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/features/groups"
	"github.com/dalemusser/lorehub/internal/app/system/indexes"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestHandleDelete_RequiresNameConfirmation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := groups.NewHandler(db, zap.NewNop())

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)

	del := func(u models.User, confirm string) *httptest.ResponseRecorder {
		target := "/api/groups/" + group.ID.Hex()
		if confirm != "" {
			target += "?confirm_name=" + confirm
		}
		req := testutil.NewAuthenticatedRequest(t, "DELETE", target, nil, u)
		req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleDelete(rec, req)
		return rec
	}

	if rec := del(owner, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing confirmation: expected 400, got %d", rec.Code)
	}
	if rec := del(owner, "Wrong"); rec.Code != http.StatusBadRequest {
		t.Errorf("wrong confirmation: expected 400, got %d", rec.Code)
	}
	// Being in a group grants nothing over it.
	if rec := del(member, "Players"); rec.Code != http.StatusNotFound {
		t.Errorf("non-owner: expected 404, got %d", rec.Code)
	}

	if rec := del(owner, "Players"); rec.Code != http.StatusOK {
		t.Fatalf("owner with confirmation: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	n, err := db.Collection("groups").CountDocuments(ctx, bson.M{"_id": group.ID})
	if err != nil {
		t.Fatalf("count groups: %v", err)
	}
	if n != 0 {
		t.Errorf("expected group removed")
	}

	// Membership is pulled from every user.
	var gotMember models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": member.ID}).Decode(&gotMember); err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if len(gotMember.Groups) != 0 {
		t.Errorf("expected membership removed, got %v", gotMember.Groups)
	}
}

func TestHandleCreate_DuplicateNameRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := groups.NewHandler(db, zap.NewNop())

	// The owner+name pair is enforced by a unique index.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	owner := f.CreateUser(ctx, "owner")
	f.CreateGroup(ctx, owner.ID, "Players")

	body := map[string]any{"name": "players"} // case-insensitive collision
	req := testutil.NewAuthenticatedRequest(t, "POST", "/api/groups", body, owner)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate name, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMemberManagement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := groups.NewHandler(db, zap.NewNop())

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")

	body := map[string]any{"user_ids": []string{alice.ID.Hex(), bob.ID.Hex()}}
	req := testutil.NewAuthenticatedRequest(t, "POST", "/api/groups/"+group.ID.Hex()+"/members", body, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleAddMembers(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add members: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = testutil.NewAuthenticatedRequest(t, "GET", "/api/groups/"+group.ID.Hex()+"/members", nil, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleListMembers(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list members: expected 200, got %d", rec.Code)
	}
	var roster []models.User
	testutil.DecodeResponse(t, rec, &roster)
	if len(roster) != 2 {
		t.Fatalf("expected 2 members, got %d", len(roster))
	}

	req = testutil.NewAuthenticatedRequest(t, "DELETE", "/api/groups/"+group.ID.Hex()+"/members/"+alice.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", alice.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleRemoveMember(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove member: expected 200, got %d", rec.Code)
	}

	var gotAlice models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": alice.ID}).Decode(&gotAlice); err != nil {
		t.Fatalf("reload alice: %v", err)
	}
	if len(gotAlice.Groups) != 0 {
		t.Errorf("expected alice removed from group, got %v", gotAlice.Groups)
	}
}
