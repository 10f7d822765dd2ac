// internal/domain/models/power.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Power types.
const (
	PowerTypeSkill          = "skill"
	PowerTypeTransformation = "transformation"
)

// ValidPowerType reports whether t is one of the accepted power types.
func ValidPowerType(t string) bool {
	return t == PowerTypeSkill || t == PowerTypeTransformation
}

// Power is a single ability inside a power section.
type Power struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID       primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	CharacterID primitive.ObjectID `bson:"character_id" json:"character_id"`
	SectionID   primitive.ObjectID `bson:"section_id" json:"section_id"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	Name      string `bson:"name" json:"name"`
	ImageURL  string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Content   string `bson:"content" json:"content"`
	PowerType string `bson:"power_type" json:"power_type"` // "skill" or "transformation"
	Private   bool   `bson:"private" json:"private"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
