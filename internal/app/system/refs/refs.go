// internal/app/system/refs/refs.go
//
// Package refs maintains the denormalized reference arrays that tie
// campaign entities together: the history_ids list on each history
// parent, the two-sided organization/character membership, and the
// cascade cleanup that runs when a parent entity is deleted.
//
// None of the multi-document updates here run in a transaction. The
// databases this app targets are frequently standalone Mongo instances
// where transactions are unavailable, so a failure partway through
// leaves a dangling reference instead of rolling back. Readers already
// tolerate dangling ids (lookups by id list skip misses), and every
// partial failure is logged so it can be repaired.
package refs

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Group inheritance policies for newly created sub-entities.
const (
	PolicyInheritFromParent = "inherit_from_parent"
	PolicyCallerSupplied    = "caller_supplied"
)

// ValidPolicy reports whether p names a group inheritance policy.
func ValidPolicy(p string) bool {
	return p == PolicyInheritFromParent || p == PolicyCallerSupplied
}

// Manager performs reference maintenance against the database.
type Manager struct {
	DB  *mongo.Database
	Log *zap.Logger

	// GroupPolicy controls where a new sub-entity's groups_allowed
	// snapshot comes from; one of the Policy* constants.
	GroupPolicy string
}

func New(db *mongo.Database, log *zap.Logger, groupPolicy string) *Manager {
	if !ValidPolicy(groupPolicy) {
		groupPolicy = PolicyInheritFromParent
	}
	return &Manager{DB: db, Log: log, GroupPolicy: groupPolicy}
}

// SnapshotGroups resolves the groups_allowed list for a new sub-entity.
// Under the inherit-from-parent policy the parent's current list is
// copied; under caller-supplied the request's list is used as given.
func (m *Manager) SnapshotGroups(parentGroups, supplied []primitive.ObjectID) []primitive.ObjectID {
	var src []primitive.ObjectID
	if m.GroupPolicy == PolicyCallerSupplied {
		src = supplied
	} else {
		src = parentGroups
	}
	if src == nil {
		return []primitive.ObjectID{}
	}
	out := make([]primitive.ObjectID, len(src))
	copy(out, src)
	return out
}

func parentCollection(parentType string) (string, error) {
	switch parentType {
	case models.HistoryParentCharacter:
		return "characters", nil
	case models.HistoryParentArc:
		return "arcs", nil
	case models.HistoryParentEvent:
		return "events", nil
	case models.HistoryParentOrganization:
		return "organizations", nil
	}
	return "", fmt.Errorf("unknown history parent type %q", parentType)
}

// LinkHistory appends historyID to the parent's history_ids array.
// Linking is idempotent: relinking an already linked chapter is a
// no-op.
func (m *Manager) LinkHistory(ctx context.Context, parentType string, parentID, historyID primitive.ObjectID) error {
	coll, err := parentCollection(parentType)
	if err != nil {
		return err
	}
	res, err := m.DB.Collection(coll).UpdateByID(ctx, parentID, bson.M{
		"$addToSet": bson.M{"history_ids": historyID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UnlinkHistory removes historyID from the parent's history_ids array.
// A missing parent is not an error here: the chapter is being detached
// and a gone parent means there is nothing left to detach from.
func (m *Manager) UnlinkHistory(ctx context.Context, parentType string, parentID, historyID primitive.ObjectID) error {
	coll, err := parentCollection(parentType)
	if err != nil {
		return err
	}
	_, err = m.DB.Collection(coll).UpdateByID(ctx, parentID, bson.M{
		"$pull": bson.M{"history_ids": historyID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddOrganizationMember records membership on both sides: the
// character id goes into the organization's character_ids and the
// organization id into the character's organization_ids. Both updates
// are idempotent. If the second update fails after the first applied,
// the inconsistency is logged and the call still succeeds; the
// organization side is authoritative.
func (m *Manager) AddOrganizationMember(ctx context.Context, orgID, characterID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := m.DB.Collection("organizations").UpdateByID(ctx, orgID, bson.M{
		"$addToSet": bson.M{"character_ids": characterID},
		"$set":      bson.M{"updated_at": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = m.DB.Collection("characters").UpdateByID(ctx, characterID, bson.M{
		"$addToSet": bson.M{"organization_ids": orgID},
		"$set":      bson.M{"updated_at": now},
	})
	if err != nil {
		m.Log.Warn("referential inconsistency: organization updated but character side failed",
			zap.String("organization_id", orgID.Hex()),
			zap.String("character_id", characterID.Hex()),
			zap.Error(err))
	}
	return nil
}

// RemoveOrganizationMember is the inverse of AddOrganizationMember,
// with the same partial-failure behavior.
func (m *Manager) RemoveOrganizationMember(ctx context.Context, orgID, characterID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := m.DB.Collection("organizations").UpdateByID(ctx, orgID, bson.M{
		"$pull": bson.M{"character_ids": characterID},
		"$set":  bson.M{"updated_at": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = m.DB.Collection("characters").UpdateByID(ctx, characterID, bson.M{
		"$pull": bson.M{"organization_ids": orgID},
		"$set":  bson.M{"updated_at": now},
	})
	if err != nil {
		m.Log.Warn("referential inconsistency: organization updated but character side failed",
			zap.String("organization_id", orgID.Hex()),
			zap.String("character_id", characterID.Hex()),
			zap.Error(err))
	}
	return nil
}

// DeleteHistories removes the chapters named by a parent's history_ids
// when the parent itself is deleted.
func (m *Manager) DeleteHistories(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	res, err := m.DB.Collection("histories").DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	if res.DeletedCount != int64(len(ids)) {
		m.Log.Debug("history cascade removed fewer chapters than referenced",
			zap.Int("referenced", len(ids)),
			zap.Int64("deleted", res.DeletedCount))
	}
	return nil
}

// DeletePowerSectionCascade removes a power section together with
// every power inside it. The powers go first so a failure cannot leave
// orphaned powers behind a deleted section.
func (m *Manager) DeletePowerSectionCascade(ctx context.Context, sectionID primitive.ObjectID) error {
	res, err := m.DB.Collection("powers").DeleteMany(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return err
	}
	if res.DeletedCount > 0 {
		m.Log.Info("deleted powers with their section",
			zap.String("section_id", sectionID.Hex()),
			zap.Int64("count", res.DeletedCount))
	}
	_, err = m.DB.Collection("power_sections").DeleteOne(ctx, bson.M{"_id": sectionID})
	return err
}

// DeleteEventCascade removes an event and its history chapters.
func (m *Manager) DeleteEventCascade(ctx context.Context, ev models.Event) error {
	if err := m.DeleteHistories(ctx, ev.HistoryIDs); err != nil {
		return err
	}
	_, err := m.DB.Collection("events").DeleteOne(ctx, bson.M{"_id": ev.ID})
	return err
}

// DeleteArcCascade removes an arc, its events (each with their
// histories), its feats, and its own history chapters.
func (m *Manager) DeleteArcCascade(ctx context.Context, a models.Arc) error {
	cur, err := m.DB.Collection("events").Find(ctx, bson.M{"arc_id": a.ID})
	if err != nil {
		return err
	}
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return err
	}
	for _, ev := range events {
		if err := m.DeleteEventCascade(ctx, ev); err != nil {
			return err
		}
	}
	if _, err := m.DB.Collection("character_feats").DeleteMany(ctx, bson.M{"arc_id": a.ID}); err != nil {
		return err
	}
	if err := m.DeleteHistories(ctx, a.HistoryIDs); err != nil {
		return err
	}
	_, err = m.DB.Collection("arcs").DeleteOne(ctx, bson.M{"_id": a.ID})
	return err
}

// DeleteCharacterCascade removes a character and everything
// provisioned for it: sheet, inventory, feats, power sections with
// their powers, history chapters, and the membership entries on any
// organizations it belonged to.
func (m *Manager) DeleteCharacterCascade(ctx context.Context, ch models.Character) error {
	if ch.SheetID != primitive.NilObjectID {
		if _, err := m.DB.Collection("sheets").DeleteOne(ctx, bson.M{"_id": ch.SheetID}); err != nil {
			return err
		}
	}
	if ch.InventoryID != primitive.NilObjectID {
		if _, err := m.DB.Collection("inventories").DeleteOne(ctx, bson.M{"_id": ch.InventoryID}); err != nil {
			return err
		}
	}
	if _, err := m.DB.Collection("character_feats").DeleteMany(ctx, bson.M{"character_id": ch.ID}); err != nil {
		return err
	}
	if _, err := m.DB.Collection("powers").DeleteMany(ctx, bson.M{"character_id": ch.ID}); err != nil {
		return err
	}
	if _, err := m.DB.Collection("power_sections").DeleteMany(ctx, bson.M{"character_id": ch.ID}); err != nil {
		return err
	}
	if err := m.DeleteHistories(ctx, ch.HistoryIDs); err != nil {
		return err
	}
	if len(ch.OrganizationIDs) > 0 {
		_, err := m.DB.Collection("organizations").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ch.OrganizationIDs}},
			bson.M{"$pull": bson.M{"character_ids": ch.ID}},
		)
		if err != nil {
			m.Log.Warn("referential inconsistency: character deleted but organization memberships remain",
				zap.String("character_id", ch.ID.Hex()),
				zap.Error(err))
		}
	}
	_, err := m.DB.Collection("characters").DeleteOne(ctx, bson.M{"_id": ch.ID})
	return err
}

// DeleteOrganizationCascade removes an organization, its history
// chapters, and the membership entries on its characters.
func (m *Manager) DeleteOrganizationCascade(ctx context.Context, o models.Organization) error {
	if err := m.DeleteHistories(ctx, o.HistoryIDs); err != nil {
		return err
	}
	if len(o.CharacterIDs) > 0 {
		_, err := m.DB.Collection("characters").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": o.CharacterIDs}},
			bson.M{"$pull": bson.M{"organization_ids": o.ID}},
		)
		if err != nil {
			m.Log.Warn("referential inconsistency: organization deleted but character memberships remain",
				zap.String("organization_id", o.ID.Hex()),
				zap.Error(err))
		}
	}
	_, err := m.DB.Collection("organizations").DeleteOne(ctx, bson.M{"_id": o.ID})
	return err
}
