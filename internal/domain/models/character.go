// internal/domain/models/character.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Character is a player or non-player character in a campaign.
//
// SheetID and InventoryID point at the character's sheet and inventory
// documents, which are provisioned together with the character and
// removed together with it.
//
// OrganizationIDs mirrors Organization.CharacterIDs; the two sides are
// kept in step by the refs package.
type Character struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID   primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"name_ci"`
	Age     int                `bson:"age" json:"age"`
	Private bool               `bson:"private" json:"private"`

	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	GroupsAllowed   []primitive.ObjectID `bson:"groups_allowed" json:"groups_allowed"`
	OrganizationIDs []primitive.ObjectID `bson:"organization_ids" json:"organization_ids"`
	HistoryIDs      []primitive.ObjectID `bson:"history_ids" json:"history_ids"`

	SheetID     primitive.ObjectID `bson:"sheet_id" json:"sheet_id"`
	InventoryID primitive.ObjectID `bson:"inventory_id" json:"inventory_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
