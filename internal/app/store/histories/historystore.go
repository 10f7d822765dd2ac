// internal/app/store/histories/historystore.go
package historystore

import (
	"context"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("histories")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.History, error) {
	var h models.History
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&h); err != nil {
		return models.History{}, err
	}
	return h, nil
}

func (s *Store) Create(ctx context.Context, h models.History) (models.History, error) {
	now := time.Now().UTC()
	h.ID = primitive.NewObjectID()
	if h.CharacterIDs == nil {
		h.CharacterIDs = []primitive.ObjectID{}
	}
	h.CreatedAt = now
	h.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, h); err != nil {
		return models.History{}, err
	}
	return h, nil
}

// ListByIDs resolves a parent's history_ids array, preserving the
// parent's ordering.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.History, error) {
	if len(ids) == 0 {
		return []models.History{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var fetched []models.History
	if err := cur.All(ctx, &fetched); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.History, len(fetched))
	for _, h := range fetched {
		byID[h.ID] = h
	}
	ordered := make([]models.History, 0, len(ids))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			ordered = append(ordered, h)
		}
	}
	return ordered, nil
}

// Update rewrites a chapter's editable fields and records who edited
// it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, chapterName, content, imageURL string, year *int, private bool, characterIDs []primitive.ObjectID, updatedBy primitive.ObjectID) error {
	set := bson.M{
		"chapter_name":  chapterName,
		"content":       content,
		"image_url":     imageURL,
		"private":       private,
		"updated_by_id": updatedBy,
		"updated_at":    time.Now().UTC(),
	}
	if characterIDs != nil {
		set["character_ids"] = characterIDs
	}
	update := bson.M{"$set": set}
	if year != nil {
		set["year"] = *year
	} else {
		update["$unset"] = bson.M{"year": ""}
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByIDs removes a batch of chapters, used when a parent entity
// is deleted. Returns the number removed.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
