// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a story event inside an arc.
type Event struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID   primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	ArcID   primitive.ObjectID `bson:"arc_id" json:"arc_id"`
	Name    string             `bson:"name" json:"name"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	GroupsAllowed []primitive.ObjectID `bson:"groups_allowed" json:"groups_allowed"`
	CharacterIDs  []primitive.ObjectID `bson:"character_ids" json:"character_ids"`
	HistoryIDs    []primitive.ObjectID `bson:"history_ids" json:"history_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
