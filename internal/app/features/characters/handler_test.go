// internal/app/features/characters/handler_test.go
package characters_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/features/characters"
	"github.com/dalemusser/lorehub/internal/app/system/refs"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestHandleCreate_ProvisionsSheetAndInventory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := characters.NewHandler(db, zap.NewNop(), refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent))

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")

	body := map[string]any{
		"rpg_id": rpg.ID.Hex(),
		"name":   "Kael",
		"age":    27,
	}
	req := testutil.NewAuthenticatedRequest(t, "POST", "/api/characters", body, owner)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var ch models.Character
	testutil.DecodeResponse(t, rec, &ch)
	if ch.SheetID.IsZero() || ch.InventoryID.IsZero() {
		t.Fatalf("expected sheet and inventory provisioned, got %v / %v", ch.SheetID, ch.InventoryID)
	}

	if n, err := db.Collection("sheets").CountDocuments(ctx, bson.M{"_id": ch.SheetID}); err != nil || n != 1 {
		t.Errorf("expected sheet document, n=%d err=%v", n, err)
	}
	if n, err := db.Collection("inventories").CountDocuments(ctx, bson.M{"_id": ch.InventoryID}); err != nil || n != 1 {
		t.Errorf("expected inventory document, n=%d err=%v", n, err)
	}
}

func TestHandleGet_PrivateStricterThanGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := characters.NewHandler(db, zap.NewNop(), refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent))

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)
	secret := f.CreateCharacter(ctx, rpg, owner.ID, "Hidden One", true)

	// Unlike arcs, a private character stays hidden even on direct
	// fetch by a group member.
	req := testutil.NewAuthenticatedRequest(t, "GET", "/api/characters/"+secret.ID.Hex(), nil, member)
	req = testutil.WithChiURLParam(req, "id", secret.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("member fetching private character: expected 404, got %d", rec.Code)
	}

	req = testutil.NewAuthenticatedRequest(t, "GET", "/api/characters/"+secret.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", secret.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("owner: expected 200, got %d", rec.Code)
	}
}
