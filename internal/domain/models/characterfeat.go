// internal/domain/models/characterfeat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CharacterFeat records what a character accomplished during one arc.
// There is at most one feat document per (arc, character) pair,
// enforced by a unique index.
type CharacterFeat struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID       primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	ArcID       primitive.ObjectID `bson:"arc_id" json:"arc_id"`
	CharacterID primitive.ObjectID `bson:"character_id" json:"character_id"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Private     bool               `bson:"private" json:"private"`
	Content     string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
