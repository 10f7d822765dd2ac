// internal/app/features/histories/handler_test.go
package histories_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/features/histories"
	"github.com/dalemusser/lorehub/internal/app/system/refs"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newHandler(db *testutil.Fixtures) *histories.Handler {
	return histories.NewHandler(db.DB(), zap.NewNop(), refs.New(db.DB(), zap.NewNop(), refs.PolicyInheritFromParent))
}

func TestHandleCreate_LinksIntoParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := newHandler(f)

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)

	body := map[string]any{
		"parent_type":  "character",
		"parent_id":    ch.ID.Hex(),
		"chapter_name": "Origins",
		"content":      "<p>Born in the ashes.</p>",
	}
	req := testutil.NewAuthenticatedRequest(t, "POST", "/api/histories", body, owner)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var chapter models.History
	testutil.DecodeResponse(t, rec, &chapter)
	if chapter.OwnerID != owner.ID || chapter.UpdatedByID != owner.ID {
		t.Errorf("expected creator recorded as owner and last editor")
	}

	var gotCh models.Character
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&gotCh); err != nil {
		t.Fatalf("reload character: %v", err)
	}
	found := false
	for _, id := range gotCh.HistoryIDs {
		if id == chapter.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected chapter linked into the character's history_ids")
	}
}

func TestHandleUpdate_AnyGatePasserCanEdit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := newHandler(f)

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)
	chapter := f.CreateHistory(ctx, rpg.ID, owner.ID, models.HistoryParentCharacter, ch.ID, "Origins")

	// Histories are the shared canon: the member did not write this
	// chapter but may still edit it.
	body := map[string]any{
		"chapter_name": "Origins, Revised",
		"content":      "A fuller account.",
	}
	req := testutil.NewAuthenticatedRequest(t, "PUT", "/api/histories/"+chapter.ID.Hex(), body, member)
	req = testutil.WithChiURLParam(req, "id", chapter.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("member edit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated models.History
	testutil.DecodeResponse(t, rec, &updated)
	if updated.ChapterName != "Origins, Revised" {
		t.Errorf("expected chapter renamed, got %q", updated.ChapterName)
	}
	if updated.UpdatedByID != member.ID {
		t.Errorf("expected member recorded as last editor")
	}
	if updated.OwnerID != owner.ID {
		t.Errorf("editing must not change chapter ownership")
	}
}

func TestHandleDelete_StricterThanEdit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := newHandler(f)

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)
	chapter := f.CreateHistory(ctx, rpg.ID, owner.ID, models.HistoryParentCharacter, ch.ID, "Origins")

	target := "/api/histories/" + chapter.ID.Hex() +
		"?parent_type=character&parent_id=" + ch.ID.Hex()

	// The member can edit but not delete someone else's chapter.
	req := testutil.NewAuthenticatedRequest(t, "DELETE", target, nil, member)
	req = testutil.WithChiURLParam(req, "id", chapter.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member delete: expected 403, got %d", rec.Code)
	}

	req = testutil.NewAuthenticatedRequest(t, "DELETE", target, nil, owner)
	req = testutil.WithChiURLParam(req, "id", chapter.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	n, err := db.Collection("histories").CountDocuments(ctx, bson.M{"_id": chapter.ID})
	if err != nil {
		t.Fatalf("count histories: %v", err)
	}
	if n != 0 {
		t.Errorf("expected chapter removed")
	}
	var gotCh models.Character
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&gotCh); err != nil {
		t.Fatalf("reload character: %v", err)
	}
	for _, id := range gotCh.HistoryIDs {
		if id == chapter.ID {
			t.Errorf("expected chapter unlinked from parent")
		}
	}
}

func TestHandleListByIDs_PrivateChaptersHidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := newHandler(f)

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)

	open := f.CreateHistory(ctx, rpg.ID, owner.ID, models.HistoryParentCharacter, ch.ID, "Origins")
	secret := f.CreateHistory(ctx, rpg.ID, owner.ID, models.HistoryParentCharacter, ch.ID, "Hidden Past")
	if _, err := db.Collection("histories").UpdateByID(ctx, secret.ID, bson.M{"$set": bson.M{"private": true}}); err != nil {
		t.Fatalf("mark private: %v", err)
	}

	target := "/api/histories?ids=" + open.ID.Hex() + "," + secret.ID.Hex()
	req := testutil.NewAuthenticatedRequest(t, "GET", target, nil, member)
	rec := httptest.NewRecorder()
	h.HandleListByIDs(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got []models.History
	testutil.DecodeResponse(t, rec, &got)
	if len(got) != 1 || got[0].ID != open.ID {
		t.Errorf("member should see only the public chapter, got %v", got)
	}
}
