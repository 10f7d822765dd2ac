// internal/app/store/powersections/sectionstore.go
package sectionstore

import (
	"context"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("power_sections")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.PowerSection, error) {
	var ps models.PowerSection
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ps); err != nil {
		return models.PowerSection{}, err
	}
	return ps, nil
}

func (s *Store) Create(ctx context.Context, ps models.PowerSection) (models.PowerSection, error) {
	now := time.Now().UTC()
	ps.ID = primitive.NewObjectID()
	ps.CreatedAt = now
	ps.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ps); err != nil {
		return models.PowerSection{}, err
	}
	return ps, nil
}

func (s *Store) ListByCharacter(ctx context.Context, characterID primitive.ObjectID) ([]models.PowerSection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"character_id": characterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sections []models.PowerSection
	if err := cur.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, imageURL string, private bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"image_url":  imageURL,
		"private":    private,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByCharacter removes every power section on a character.
func (s *Store) DeleteByCharacter(ctx context.Context, characterID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"character_id": characterID})
	return err
}
