// Package access is the authorization core: pure verdict functions
// over (actor, resource, campaign) with no I/O. Handlers load the
// documents, this package decides, and the handler maps a false verdict
// onto weberr.Forbidden (or NotFoundOrForbidden for the campaign gate).
//
// The rules are intentionally not uniform across entity types — powers,
// arcs, characters and histories each grew their own read rule — and
// the differences are load-bearing, so each type gets its own function
// instead of one generic policy.
package access

import (
	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated identity plus its group memberships,
// loaded fresh from the users collection for each request.
type Actor struct {
	ID     primitive.ObjectID
	Groups []primitive.ObjectID
}

// GroupsIntersect reports whether the two id sets share any element.
func GroupsIntersect(a, b []primitive.ObjectID) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[primitive.ObjectID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// InGroups reports whether the actor belongs to any of the given groups.
func (a Actor) InGroups(groups []primitive.ObjectID) bool {
	return GroupsIntersect(a.Groups, groups)
}

/* ── Campaign gate ──────────────────────────────────────────────── */

// CanAccessRPG is the campaign-level gate: the actor owns the campaign
// or belongs to one of its allowed groups. Failing this gate must be
// reported as NotFoundOrForbidden, never as a plain Forbidden.
func CanAccessRPG(actor Actor, rpg *models.Rpg) bool {
	return rpg.OwnerID == actor.ID || actor.InGroups(rpg.GroupsAllowed)
}

// IsRpgOwner reports campaign ownership.
func IsRpgOwner(actor Actor, rpg *models.Rpg) bool {
	return rpg.OwnerID == actor.ID
}

/* ── Write/delete rules ─────────────────────────────────────────── */

// CanWriteOwned is the write/delete rule shared by arcs, events,
// characters, character feats and power sections: campaign owner or
// resource owner. Group membership alone never grants writes.
func CanWriteOwned(actor Actor, ownerID primitive.ObjectID, rpg *models.Rpg) bool {
	return IsRpgOwner(actor, rpg) || ownerID == actor.ID
}

// CanWriteRPG: only the campaign owner may rename, reshare or delete
// the campaign itself.
func CanWriteRPG(actor Actor, rpg *models.Rpg) bool {
	return IsRpgOwner(actor, rpg)
}

// CanWriteCharacterScoped is the write rule for powers and sheets,
// which authorize through the owning character rather than their own
// owner_id: campaign owner or character owner.
func CanWriteCharacterScoped(actor Actor, character *models.Character, rpg *models.Rpg) bool {
	return IsRpgOwner(actor, rpg) || character.OwnerID == actor.ID
}

// CanWriteOrganization: campaign owner or any of the organization's
// owners (multi-owner membership test).
func CanWriteOrganization(actor Actor, org *models.Organization, rpg *models.Rpg) bool {
	return IsRpgOwner(actor, rpg) || org.OwnedBy(actor.ID)
}

// CanEditHistory: histories are collaborative, so any actor who passes
// the campaign gate may edit. The caller has already enforced the gate
// when it loaded the campaign, so this always allows; it exists so the
// policy reads in one place.
func CanEditHistory(actor Actor, rpg *models.Rpg) bool {
	return CanAccessRPG(actor, rpg)
}

// CanDeleteHistory: deletion is stricter than editing — campaign
// owner, the chapter's owner, or the owner of the parent the chapter is
// attached to. parentOwner is the zero ObjectID when no parent was
// named.
func CanDeleteHistory(actor Actor, h *models.History, rpg *models.Rpg, parentOwner primitive.ObjectID) bool {
	if IsRpgOwner(actor, rpg) || h.OwnerID == actor.ID {
		return true
	}
	return parentOwner != primitive.NilObjectID && parentOwner == actor.ID
}

/* ── Read rules, single-document fetch ──────────────────────────── */

// CanReadArc: owner, campaign owner, or group access. Note the quirk:
// for a direct fetch an arc's private flag is not consulted — group
// access suffices. Privacy only narrows list results (ArcVisibleInList).
func CanReadArc(actor Actor, arc *models.Arc, rpg *models.Rpg) bool {
	return IsRpgOwner(actor, rpg) || arc.OwnerID == actor.ID || actor.InGroups(arc.GroupsAllowed)
}

// CanReadEvent mirrors CanReadArc.
func CanReadEvent(actor Actor, ev *models.Event, rpg *models.Rpg) bool {
	return IsRpgOwner(actor, rpg) || ev.OwnerID == actor.ID || actor.InGroups(ev.GroupsAllowed)
}

// CanReadCharacter: here private is stricter than group access — a
// group member is turned away from a private character, unlike the arc
// rule above.
func CanReadCharacter(actor Actor, ch *models.Character, rpg *models.Rpg) bool {
	if IsRpgOwner(actor, rpg) || ch.OwnerID == actor.ID {
		return true
	}
	return actor.InGroups(ch.GroupsAllowed) && !ch.Private
}

// CanReadHistory: private chapters are visible to the chapter owner and
// the campaign owner; public chapters to anyone past the gate.
func CanReadHistory(actor Actor, h *models.History, rpg *models.Rpg) bool {
	return !h.Private || h.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// CanReadPower: same shape as histories — the group clause is absent.
func CanReadPower(actor Actor, p *models.Power, rpg *models.Rpg) bool {
	return !p.Private || p.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// CanReadPowerSection mirrors CanReadPower.
func CanReadPowerSection(actor Actor, s *models.PowerSection, rpg *models.Rpg) bool {
	return !s.Private || s.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// CanReadCharacterFeat mirrors CanReadPower.
func CanReadCharacterFeat(actor Actor, f *models.CharacterFeat, rpg *models.Rpg) bool {
	return !f.Private || f.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// CanReadSheet authorizes through the owning character: a private sheet
// is visible only to the character owner and the campaign owner.
func CanReadSheet(actor Actor, sheet *models.Sheet, character *models.Character, rpg *models.Rpg) bool {
	if !sheet.Private {
		return true
	}
	return IsRpgOwner(actor, rpg) || character.OwnerID == actor.ID
}

// CanReadOrganization: private organizations are visible to their
// owners and the campaign owner; public ones additionally to group
// members.
func CanReadOrganization(actor Actor, org *models.Organization, rpg *models.Rpg) bool {
	if IsRpgOwner(actor, rpg) || org.OwnedBy(actor.ID) {
		return true
	}
	return actor.InGroups(org.GroupsAllowed) && !org.Private
}
