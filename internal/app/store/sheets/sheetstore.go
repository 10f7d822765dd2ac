// internal/app/store/sheets/sheetstore.go
package sheetstore

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
	return &Store{c: db.Collection("sheets")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Sheet, error) {
	var sh models.Sheet
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sh); err != nil {
		return models.Sheet{}, err
	}
	return sh, nil
}

func (s *Store) Create(ctx context.Context, sh models.Sheet) (models.Sheet, error) {
	now := time.Now().UTC()
	sh.ID = primitive.NewObjectID()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sh); err != nil {
		return models.Sheet{}, err
	}
	return sh, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, content string, private bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"private":    private,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
