// internal/app/system/refs/refs_test.go
package refs_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/system/refs"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/lorehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestSnapshotGroups_InheritFromParent(t *testing.T) {
	m := refs.New(nil, zap.NewNop(), refs.PolicyInheritFromParent)

	parent := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	got := m.SnapshotGroups(parent, nil)
	if len(got) != 2 {
		t.Fatalf("expected parent groups copied, got %d", len(got))
	}

	// Under inherit the parent's list always wins; a caller-supplied
	// list is ignored.
	supplied := []primitive.ObjectID{primitive.NewObjectID()}
	got = m.SnapshotGroups(parent, supplied)
	if len(got) != 2 || got[0] != parent[0] || got[1] != parent[1] {
		t.Fatalf("expected parent list to win under inherit, got %v", got)
	}
}

func TestSnapshotGroups_CallerSupplied(t *testing.T) {
	m := refs.New(nil, zap.NewNop(), refs.PolicyCallerSupplied)

	parent := []primitive.ObjectID{primitive.NewObjectID()}
	got := m.SnapshotGroups(parent, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty list under caller_supplied, got %v", got)
	}
}

func TestLinkUnlinkHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	m := refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent)

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)

	historyID := primitive.NewObjectID()
	if err := m.LinkHistory(ctx, models.HistoryParentCharacter, ch.ID, historyID); err != nil {
		t.Fatalf("LinkHistory: %v", err)
	}

	var got models.Character
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("reload character: %v", err)
	}
	if len(got.HistoryIDs) != 1 || got.HistoryIDs[0] != historyID {
		t.Fatalf("expected history linked, got %v", got.HistoryIDs)
	}

	// Linking twice does not duplicate.
	if err := m.LinkHistory(ctx, models.HistoryParentCharacter, ch.ID, historyID); err != nil {
		t.Fatalf("second LinkHistory: %v", err)
	}
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("reload character: %v", err)
	}
	if len(got.HistoryIDs) != 1 {
		t.Fatalf("expected no duplicate link, got %v", got.HistoryIDs)
	}

	if err := m.UnlinkHistory(ctx, models.HistoryParentCharacter, ch.ID, historyID); err != nil {
		t.Fatalf("UnlinkHistory: %v", err)
	}
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("reload character: %v", err)
	}
	if len(got.HistoryIDs) != 0 {
		t.Fatalf("expected history unlinked, got %v", got.HistoryIDs)
	}
}

func TestLinkHistory_MissingParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	m := refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent)

	err := m.LinkHistory(ctx, models.HistoryParentArc, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments for missing parent, got %v", err)
	}
}

func TestOrganizationMembership_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	m := refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent)

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	org := f.CreateOrganization(ctx, rpg, owner.ID, "The Guild")
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)

	for i := 0; i < 2; i++ {
		if err := m.AddOrganizationMember(ctx, org.ID, ch.ID); err != nil {
			t.Fatalf("AddOrganizationMember (attempt %d): %v", i+1, err)
		}
	}

	var gotOrg models.Organization
	if err := db.Collection("organizations").FindOne(ctx, bson.M{"_id": org.ID}).Decode(&gotOrg); err != nil {
		t.Fatalf("reload org: %v", err)
	}
	if len(gotOrg.CharacterIDs) != 1 {
		t.Fatalf("expected one membership on org side, got %v", gotOrg.CharacterIDs)
	}

	var gotCh models.Character
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&gotCh); err != nil {
		t.Fatalf("reload character: %v", err)
	}
	if len(gotCh.OrganizationIDs) != 1 || gotCh.OrganizationIDs[0] != org.ID {
		t.Fatalf("expected one membership on character side, got %v", gotCh.OrganizationIDs)
	}

	if err := m.RemoveOrganizationMember(ctx, org.ID, ch.ID); err != nil {
		t.Fatalf("RemoveOrganizationMember: %v", err)
	}
	if err := db.Collection("organizations").FindOne(ctx, bson.M{"_id": org.ID}).Decode(&gotOrg); err != nil {
		t.Fatalf("reload org: %v", err)
	}
	if len(gotOrg.CharacterIDs) != 0 {
		t.Fatalf("expected membership removed from org, got %v", gotOrg.CharacterIDs)
	}
}

func TestDeletePowerSectionCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	m := refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent)

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)
	ps := f.CreatePowerSection(ctx, ch, "Fire Magic")
	f.CreatePower(ctx, ps, "Fireball")
	f.CreatePower(ctx, ps, "Flame Shield")

	if err := m.DeletePowerSectionCascade(ctx, ps.ID); err != nil {
		t.Fatalf("DeletePowerSectionCascade: %v", err)
	}

	n, err := db.Collection("powers").CountDocuments(ctx, bson.M{"section_id": ps.ID})
	if err != nil {
		t.Fatalf("count powers: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected powers removed with section, found %d", n)
	}
	n, err = db.Collection("power_sections").CountDocuments(ctx, bson.M{"_id": ps.ID})
	if err != nil {
		t.Fatalf("count sections: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected section removed, found %d", n)
	}
}

func TestDeleteCharacterCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	m := refs.New(db, zap.NewNop(), refs.PolicyInheritFromParent)

	owner := f.CreateUser(ctx, "owner")
	rpg := f.CreateRpg(ctx, owner.ID, "Campaign")
	ch := f.CreateCharacter(ctx, rpg, owner.ID, "Kael", false)
	ps := f.CreatePowerSection(ctx, ch, "Fire Magic")
	f.CreatePower(ctx, ps, "Fireball")
	org := f.CreateOrganization(ctx, rpg, owner.ID, "The Guild")
	if err := m.AddOrganizationMember(ctx, org.ID, ch.ID); err != nil {
		t.Fatalf("AddOrganizationMember: %v", err)
	}
	f.CreateHistory(ctx, rpg.ID, owner.ID, models.HistoryParentCharacter, ch.ID, "Origins")

	// Reload so the cascade sees the linked history and membership.
	var full models.Character
	if err := db.Collection("characters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&full); err != nil {
		t.Fatalf("reload character: %v", err)
	}

	if err := m.DeleteCharacterCascade(ctx, full); err != nil {
		t.Fatalf("DeleteCharacterCascade: %v", err)
	}

	for coll, filter := range map[string]bson.M{
		"characters":     {"_id": ch.ID},
		"sheets":         {"_id": ch.SheetID},
		"inventories":    {"_id": ch.InventoryID},
		"power_sections": {"character_id": ch.ID},
		"powers":         {"character_id": ch.ID},
		"histories":      {"_id": bson.M{"$in": full.HistoryIDs}},
	} {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("expected %s cleaned up, found %d", coll, n)
		}
	}

	var gotOrg models.Organization
	if err := db.Collection("organizations").FindOne(ctx, bson.M{"_id": org.ID}).Decode(&gotOrg); err != nil {
		t.Fatalf("reload org: %v", err)
	}
	for _, id := range gotOrg.CharacterIDs {
		if id == ch.ID {
			t.Errorf("expected character pulled from organization membership")
		}
	}
}
