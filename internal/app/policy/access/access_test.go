package access_test

import (
	"testing"

	"github.com/dalemusser/lorehub/internal/app/policy/access"
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newActor(groups ...primitive.ObjectID) access.Actor {
	return access.Actor{ID: primitive.NewObjectID(), Groups: groups}
}

func TestCanAccessRPG(t *testing.T) {
	owner := newActor()
	group := primitive.NewObjectID()
	rpg := &models.Rpg{OwnerID: owner.ID, GroupsAllowed: []primitive.ObjectID{group}}

	if !access.CanAccessRPG(owner, rpg) {
		t.Error("owner should pass the campaign gate")
	}
	if !access.CanAccessRPG(newActor(group), rpg) {
		t.Error("group member should pass the campaign gate")
	}
	if access.CanAccessRPG(newActor(), rpg) {
		t.Error("outsider should fail the campaign gate")
	}
	if access.CanAccessRPG(newActor(primitive.NewObjectID()), rpg) {
		t.Error("member of an unrelated group should fail the campaign gate")
	}
}

func TestCanWriteOwned_GroupMembershipNeverWrites(t *testing.T) {
	group := primitive.NewObjectID()
	rpgOwner := newActor()
	resOwner := newActor(group)
	member := newActor(group)

	rpg := &models.Rpg{OwnerID: rpgOwner.ID, GroupsAllowed: []primitive.ObjectID{group}}

	if !access.CanWriteOwned(rpgOwner, resOwner.ID, rpg) {
		t.Error("campaign owner should be able to write")
	}
	if !access.CanWriteOwned(resOwner, resOwner.ID, rpg) {
		t.Error("resource owner should be able to write")
	}
	if access.CanWriteOwned(member, resOwner.ID, rpg) {
		t.Error("group membership alone must not grant writes")
	}
}

func TestCanReadArc_GroupAccessIgnoresPrivateOnDirectFetch(t *testing.T) {
	group := primitive.NewObjectID()
	rpgOwner := newActor()
	arcOwner := newActor()
	member := newActor(group)

	rpg := &models.Rpg{OwnerID: rpgOwner.ID, GroupsAllowed: []primitive.ObjectID{group}}
	arc := &models.Arc{
		OwnerID:       arcOwner.ID,
		Private:       true,
		GroupsAllowed: []primitive.ObjectID{group},
	}

	// Direct fetch: group access is enough, private or not.
	if !access.CanReadArc(member, arc, rpg) {
		t.Error("group member should read the arc on a direct fetch")
	}
	// List endpoints hide private arcs from everyone but the owners.
	if access.ArcVisibleInList(member, *arc, rpg) {
		t.Error("private arc should be hidden from a group member in lists")
	}
	if !access.ArcVisibleInList(arcOwner, *arc, rpg) {
		t.Error("arc owner should always see the arc in lists")
	}
	if !access.ArcVisibleInList(rpgOwner, *arc, rpg) {
		t.Error("campaign owner should always see the arc in lists")
	}
}

func TestCanReadCharacter_PrivateStricterThanGroups(t *testing.T) {
	group := primitive.NewObjectID()
	rpgOwner := newActor()
	charOwner := newActor()
	member := newActor(group)

	rpg := &models.Rpg{OwnerID: rpgOwner.ID, GroupsAllowed: []primitive.ObjectID{group}}
	ch := &models.Character{
		OwnerID:       charOwner.ID,
		Private:       true,
		GroupsAllowed: []primitive.ObjectID{group},
	}

	if access.CanReadCharacter(member, ch, rpg) {
		t.Error("private character must not be readable via group membership")
	}
	if !access.CanReadCharacter(charOwner, ch, rpg) {
		t.Error("character owner should read a private character")
	}
	if !access.CanReadCharacter(rpgOwner, ch, rpg) {
		t.Error("campaign owner should read a private character")
	}

	ch.Private = false
	if !access.CanReadCharacter(member, ch, rpg) {
		t.Error("group member should read a public character")
	}
}

func TestHistoryRules(t *testing.T) {
	group := primitive.NewObjectID()
	rpgOwner := newActor()
	histOwner := newActor()
	parentOwner := newActor()
	member := newActor(group)

	rpg := &models.Rpg{OwnerID: rpgOwner.ID, GroupsAllowed: []primitive.ObjectID{group}}
	h := &models.History{OwnerID: histOwner.ID}

	// Anyone past the gate may edit.
	if !access.CanEditHistory(member, rpg) {
		t.Error("group member should be able to edit a history")
	}
	if access.CanEditHistory(newActor(), rpg) {
		t.Error("outsider must not edit a history")
	}

	// Delete is owner / campaign owner / parent owner only.
	if access.CanDeleteHistory(member, h, rpg, parentOwner.ID) {
		t.Error("group member must not delete a history")
	}
	if !access.CanDeleteHistory(histOwner, h, rpg, primitive.NilObjectID) {
		t.Error("history owner should delete their history")
	}
	if !access.CanDeleteHistory(rpgOwner, h, rpg, primitive.NilObjectID) {
		t.Error("campaign owner should delete any history")
	}
	if !access.CanDeleteHistory(parentOwner, h, rpg, parentOwner.ID) {
		t.Error("parent owner should delete an attached history")
	}

	// Private history read rule.
	h.Private = true
	if access.CanReadHistory(member, h, rpg) {
		t.Error("private history must be hidden from non-owners")
	}
	if !access.CanReadHistory(histOwner, h, rpg) {
		t.Error("owner should read their private history")
	}
}

func TestOrganizationMultiOwner(t *testing.T) {
	rpgOwner := newActor()
	orgOwnerA := newActor()
	orgOwnerB := newActor()
	outsider := newActor()

	rpg := &models.Rpg{OwnerID: rpgOwner.ID}
	org := &models.Organization{
		OwnerIDs: []primitive.ObjectID{orgOwnerA.ID, orgOwnerB.ID},
		Private:  true,
	}

	for _, a := range []access.Actor{orgOwnerA, orgOwnerB, rpgOwner} {
		if !access.CanWriteOrganization(a, org, rpg) {
			t.Errorf("actor %s should be able to write the organization", a.ID.Hex())
		}
		if !access.CanReadOrganization(a, org, rpg) {
			t.Errorf("actor %s should be able to read the private organization", a.ID.Hex())
		}
	}
	if access.CanWriteOrganization(outsider, org, rpg) {
		t.Error("outsider must not write the organization")
	}
	if access.CanReadOrganization(outsider, org, rpg) {
		t.Error("outsider must not read the private organization")
	}
}

func TestCanReadSheet_ThroughCharacter(t *testing.T) {
	rpgOwner := newActor()
	charOwner := newActor()
	other := newActor()

	rpg := &models.Rpg{OwnerID: rpgOwner.ID}
	ch := &models.Character{OwnerID: charOwner.ID}
	sheet := &models.Sheet{Private: true}

	if access.CanReadSheet(other, sheet, ch, rpg) {
		t.Error("private sheet must be hidden from non-owners")
	}
	if !access.CanReadSheet(charOwner, sheet, ch, rpg) {
		t.Error("character owner should read the private sheet")
	}
	if !access.CanReadSheet(rpgOwner, sheet, ch, rpg) {
		t.Error("campaign owner should read the private sheet")
	}

	sheet.Private = false
	if !access.CanReadSheet(other, sheet, ch, rpg) {
		t.Error("public sheet should be readable")
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	rpgOwner := newActor()
	rpg := &models.Rpg{OwnerID: rpgOwner.ID}

	histories := []models.History{
		{ChapterName: "one"},
		{ChapterName: "two", Private: true, OwnerID: primitive.NewObjectID()},
		{ChapterName: "three"},
	}

	viewer := newActor()
	got := access.Filter(histories, func(h models.History) bool {
		return access.HistoryVisibleInList(viewer, h, rpg)
	})

	if len(got) != 2 || got[0].ChapterName != "one" || got[1].ChapterName != "three" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

func TestGroupsIntersect(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	cases := []struct {
		name string
		x, y []primitive.ObjectID
		want bool
	}{
		{"both empty", nil, nil, false},
		{"left empty", nil, []primitive.ObjectID{a}, false},
		{"disjoint", []primitive.ObjectID{a}, []primitive.ObjectID{b, c}, false},
		{"overlap", []primitive.ObjectID{a, b}, []primitive.ObjectID{b}, true},
	}
	for _, tc := range cases {
		if got := access.GroupsIntersect(tc.x, tc.y); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
