// internal/domain/models/rpg.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rpg is the root campaign entity. Every other campaign document
// (arcs, events, characters, organizations, powers, histories) hangs
// off exactly one Rpg.
//
// GroupsAllowed is the campaign-level share list: a user who belongs to
// any of these groups passes the campaign gate. Owner-only operations
// (rename, reshare, delete) always test OwnerID directly.
type Rpg struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	ImageURL      string               `bson:"image_url,omitempty" json:"image_url,omitempty"`
	GroupsAllowed []primitive.ObjectID `bson:"groups_allowed" json:"groups_allowed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
