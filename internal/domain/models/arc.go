// internal/domain/models/arc.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Arc is a narrative arc inside a campaign.
//
// GroupsAllowed is a snapshot of the campaign's share list taken when
// the arc is created or edited (see refs.SnapshotGroups); it is not a
// live reference, so later campaign reshares do not reach existing arcs
// under the inherit-from-parent policy.
//
// HistoryIds is the denormalized list of history chapters attached to
// this arc. It is maintained by the refs package, never written
// directly by handlers.
type Arc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID       primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Private     bool               `bson:"private" json:"private"`

	GroupsAllowed []primitive.ObjectID `bson:"groups_allowed" json:"groups_allowed"`
	HistoryIDs    []primitive.ObjectID `bson:"history_ids" json:"history_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
