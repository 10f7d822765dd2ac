// internal/domain/models/powersection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PowerSection groups related powers on a character (e.g. "Techniques",
// "Forms"). Deleting a section deletes every power inside it.
type PowerSection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID       primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	CharacterID primitive.ObjectID `bson:"character_id" json:"character_id"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Name        string             `bson:"name" json:"name"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Private     bool               `bson:"private" json:"private"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
