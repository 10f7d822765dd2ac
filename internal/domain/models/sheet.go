// internal/domain/models/sheet.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sheet is a character sheet. It carries no owner itself; permission
// checks go through the character that points at it.
type Sheet struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID   primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Content string             `bson:"content" json:"content"`
	Private bool               `bson:"private" json:"private"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
