// internal/app/store/powers/powerstore.go
package powerstore

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
	return &Store{c: db.Collection("powers")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Power, error) {
	var p models.Power
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Power{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Power) (models.Power, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Power{}, err
	}
	return p, nil
}

func (s *Store) ListBySection(ctx context.Context, sectionID primitive.ObjectID) ([]models.Power, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"section_id": sectionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var powers []models.Power
	if err := cur.All(ctx, &powers); err != nil {
		return nil, err
	}
	return powers, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, imageURL, content, powerType string, private bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"image_url":  imageURL,
		"content":    content,
		"power_type": powerType,
		"private":    private,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteBySection removes every power inside a section. Returns the
// number removed for logging.
func (s *Store) DeleteBySection(ctx context.Context, sectionID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCharacter removes every power on a character.
func (s *Store) DeleteByCharacter(ctx context.Context, characterID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"character_id": characterID})
	return err
}
