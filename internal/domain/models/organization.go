// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is a faction, guild, or other in-world group of
// characters.
//
// Unlike the other campaign entities it is multi-owner: OwnerIDs is a
// set, and every "is the actor an owner" check is a membership test.
// RpgIDs is likewise a list; the first entry is treated as the primary
// campaign when a single root is needed for the access gate.
type Organization struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Since string             `bson:"since" json:"since"`

	RpgIDs   []primitive.ObjectID `bson:"rpg_ids" json:"rpg_ids"`
	OwnerIDs []primitive.ObjectID `bson:"owner_ids" json:"owner_ids"`
	Private  bool                 `bson:"private" json:"private"`

	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	GroupsAllowed []primitive.ObjectID `bson:"groups_allowed" json:"groups_allowed"`
	HistoryIDs    []primitive.ObjectID `bson:"history_ids" json:"history_ids"`
	CharacterIDs  []primitive.ObjectID `bson:"character_ids" json:"character_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PrimaryRpgID returns the campaign used for the access gate, or the
// zero ObjectID when the organization is not attached to any campaign.
func (o *Organization) PrimaryRpgID() primitive.ObjectID {
	if len(o.RpgIDs) == 0 {
		return primitive.NilObjectID
	}
	return o.RpgIDs[0]
}

// OwnedBy reports whether userID is one of the organization's owners.
func (o *Organization) OwnedBy(userID primitive.ObjectID) bool {
	for _, id := range o.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
