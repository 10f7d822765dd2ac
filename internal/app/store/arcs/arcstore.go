// internal/app/store/arcs/arcstore.go
package arcstore

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
	return &Store{c: db.Collection("arcs")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Arc, error) {
	var a models.Arc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Arc{}, err
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, a models.Arc) (models.Arc, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.GroupsAllowed == nil {
		a.GroupsAllowed = []primitive.ObjectID{}
	}
	if a.HistoryIDs == nil {
		a.HistoryIDs = []primitive.ObjectID{}
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Arc{}, err
	}
	return a, nil
}

func (s *Store) ListByRpg(ctx context.Context, rpgID primitive.ObjectID) ([]models.Arc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"rpg_id": rpgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var arcs []models.Arc
	if err := cur.All(ctx, &arcs); err != nil {
		return nil, err
	}
	return arcs, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, description string, private bool, groups []primitive.ObjectID) error {
	set := bson.M{
		"name":        name,
		"description": description,
		"private":     private,
		"updated_at":  time.Now().UTC(),
	}
	if groups != nil {
		set["groups_allowed"] = groups
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
