// internal/app/store/characterfeats/featstore.go
package featstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateFeat is returned when a feat already exists for the
// (arc, character) pair.
var ErrDuplicateFeat = errors.New("this character already has a feat for this arc")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("character_feats")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CharacterFeat, error) {
	var f models.CharacterFeat
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.CharacterFeat{}, err
	}
	return f, nil
}

func (s *Store) Create(ctx context.Context, f models.CharacterFeat) (models.CharacterFeat, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.CharacterFeat{}, ErrDuplicateFeat
		}
		return models.CharacterFeat{}, err
	}
	return f, nil
}

func (s *Store) ListByArc(ctx context.Context, arcID primitive.ObjectID) ([]models.CharacterFeat, error) {
	return s.list(ctx, bson.M{"arc_id": arcID})
}

func (s *Store) ListByCharacter(ctx context.Context, characterID primitive.ObjectID) ([]models.CharacterFeat, error) {
	return s.list(ctx, bson.M{"character_id": characterID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.CharacterFeat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var feats []models.CharacterFeat
	if err := cur.All(ctx, &feats); err != nil {
		return nil, err
	}
	return feats, nil
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

// DeleteByCharacter removes every feat belonging to a character.
func (s *Store) DeleteByCharacter(ctx context.Context, characterID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"character_id": characterID})
	return err
}

// DeleteByArc removes every feat recorded under an arc.
func (s *Store) DeleteByArc(ctx context.Context, arcID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"arc_id": arcID})
	return err
}
