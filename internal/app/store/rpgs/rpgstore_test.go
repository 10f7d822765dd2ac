// internal/app/store/rpgs/rpgstore_test.go
package rpgstore_test

import (
	"errors"
	"testing"

	rpgstore "github.com/dalemusser/lorehub/internal/app/store/rpgs"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestGetAccessible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := rpgstore.New(db)

	owner := f.CreateUser(ctx, "owner")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)
	outsider := f.CreateUser(ctx, "outsider")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign", group.ID)

	if _, err := store.GetAccessible(ctx, rpg.ID, owner.ID, nil); err != nil {
		t.Errorf("owner should pass the gate: %v", err)
	}
	if _, err := store.GetAccessible(ctx, rpg.ID, member.ID, member.Groups); err != nil {
		t.Errorf("group member should pass the gate: %v", err)
	}

	// An outsider gets the same error as a missing campaign.
	_, err := store.GetAccessible(ctx, rpg.ID, outsider.ID, outsider.Groups)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("outsider: expected ErrNoDocuments, got %v", err)
	}
	_, err = store.GetAccessible(ctx, primitive.NewObjectID(), owner.ID, nil)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("missing campaign: expected ErrNoDocuments, got %v", err)
	}
}

func TestListAccessible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := rpgstore.New(db)

	owner := f.CreateUser(ctx, "owner")
	other := f.CreateUser(ctx, "other")
	group := f.CreateGroup(ctx, owner.ID, "Players")
	member := f.CreateUser(ctx, "member", group.ID)

	f.CreateRpg(ctx, owner.ID, "Owned Only")
	f.CreateRpg(ctx, owner.ID, "Shared", group.ID)
	f.CreateRpg(ctx, other.ID, "Someone Else's")

	got, err := store.ListAccessible(ctx, member.ID, member.Groups)
	if err != nil {
		t.Fatalf("ListAccessible: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Shared" {
		t.Fatalf("member should see only the shared campaign, got %v", got)
	}

	got, err = store.ListAccessible(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("ListAccessible: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("owner should see both owned campaigns, got %d", len(got))
	}
}
