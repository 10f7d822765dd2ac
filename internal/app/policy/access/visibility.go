// internal/app/policy/access/visibility.go
package access

import (
	"github.com/dalemusser/lorehub/internal/domain/models"
)

// Filter returns the candidates for which keep is true, preserving
// input order. The actor's groups are resolved once per request before
// any of the per-type predicates run, so filtering a list is O(n).
func Filter[T any](candidates []T, keep func(T) bool) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// ArcVisibleInList is the list-endpoint privacy rule for arcs: private
// arcs are shown only to the arc owner and the campaign owner, even
// when the viewer's groups would allow a direct fetch.
func ArcVisibleInList(actor Actor, arc models.Arc, rpg *models.Rpg) bool {
	return !arc.Private || arc.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// CharacterVisibleInList: the viewer sees their own characters, and
// non-private characters shared with one of their groups. The campaign
// owner sees everything.
func CharacterVisibleInList(actor Actor, ch models.Character, rpg *models.Rpg) bool {
	if IsRpgOwner(actor, rpg) || ch.OwnerID == actor.ID {
		return true
	}
	return actor.InGroups(ch.GroupsAllowed) && !ch.Private
}

// OrganizationVisibleInList mirrors the character rule, with the
// multi-owner membership test.
func OrganizationVisibleInList(actor Actor, org models.Organization, rpg *models.Rpg) bool {
	if IsRpgOwner(actor, rpg) || org.OwnedBy(actor.ID) {
		return true
	}
	return actor.InGroups(org.GroupsAllowed) && !org.Private
}

// PowerVisibleInList: private powers are shown to the power owner and
// the campaign owner only.
func PowerVisibleInList(actor Actor, p models.Power, rpg *models.Rpg) bool {
	return !p.Private || p.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// PowerSectionVisibleInList mirrors PowerVisibleInList.
func PowerSectionVisibleInList(actor Actor, s models.PowerSection, rpg *models.Rpg) bool {
	return !s.Private || s.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// CharacterFeatVisibleInList mirrors PowerVisibleInList.
func CharacterFeatVisibleInList(actor Actor, f models.CharacterFeat, rpg *models.Rpg) bool {
	return !f.Private || f.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}

// HistoryVisibleInList mirrors PowerVisibleInList.
func HistoryVisibleInList(actor Actor, h models.History, rpg *models.Rpg) bool {
	return !h.Private || h.OwnerID == actor.ID || IsRpgOwner(actor, rpg)
}
