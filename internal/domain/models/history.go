// internal/domain/models/history.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History parent types. A history chapter is attached to exactly one
// parent through that parent's history_ids array.
const (
	HistoryParentCharacter    = "character"
	HistoryParentArc          = "arc"
	HistoryParentEvent        = "event"
	HistoryParentOrganization = "organization"
)

// ValidHistoryParent reports whether t names a parent type that can
// carry history chapters.
func ValidHistoryParent(t string) bool {
	switch t {
	case HistoryParentCharacter, HistoryParentArc, HistoryParentEvent, HistoryParentOrganization:
		return true
	}
	return false
}

// History is a narrative chapter. Histories are the collaborative part
// of a campaign: any user who passes the campaign gate may edit one,
// and UpdatedByID records who touched it last.
type History struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RpgID       primitive.ObjectID `bson:"rpg_id" json:"rpg_id"`
	ChapterName string             `bson:"chapter_name" json:"chapter_name"`
	Content     string             `bson:"content" json:"content"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	UpdatedByID primitive.ObjectID `bson:"updated_by_id" json:"updated_by_id"`
	Private     bool               `bson:"private" json:"private"`

	CharacterIDs []primitive.ObjectID `bson:"character_ids" json:"character_ids"`
	Year         *int                 `bson:"year,omitempty" json:"year,omitempty"`
	ImageURL     string               `bson:"image_url,omitempty" json:"image_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
