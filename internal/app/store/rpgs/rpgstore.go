// internal/app/store/rpgs/rpgstore.go
package rpgstore

import (
	"context"
	"time"

	"github.com/dalemusser/lorehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rpgs")}
}

// accessFilter is the campaign gate expressed as a query: the caller
// must own the campaign or share a group with its allow list.
func accessFilter(actorID primitive.ObjectID, groups []primitive.ObjectID) bson.M {
	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	return bson.M{"$or": bson.A{
		bson.M{"owner_id": actorID},
		bson.M{"groups_allowed": bson.M{"$in": groups}},
	}}
}

// GetAccessible fetches the campaign only when the actor passes the
// gate. mongo.ErrNoDocuments covers both a missing campaign and a
// denied one; callers must not distinguish them.
func (s *Store) GetAccessible(ctx context.Context, id, actorID primitive.ObjectID, groups []primitive.ObjectID) (models.Rpg, error) {
	filter := accessFilter(actorID, groups)
	filter["_id"] = id
	var r models.Rpg
	if err := s.c.FindOne(ctx, filter).Decode(&r); err != nil {
		return models.Rpg{}, err
	}
	return r, nil
}

// ListAccessible returns every campaign the actor can enter, newest
// first.
func (s *Store) ListAccessible(ctx context.Context, actorID primitive.ObjectID, groups []primitive.ObjectID) ([]models.Rpg, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, accessFilter(actorID, groups), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rpgs []models.Rpg
	if err := cur.All(ctx, &rpgs); err != nil {
		return nil, err
	}
	return rpgs, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Rpg, error) {
	var r models.Rpg
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Rpg{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, r models.Rpg) (models.Rpg, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.NameCI = text.Fold(r.Name)
	if r.GroupsAllowed == nil {
		r.GroupsAllowed = []primitive.ObjectID{}
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Rpg{}, err
	}
	return r, nil
}

// UpdateInfo replaces the mutable descriptive fields.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, imageURL string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"image_url":  imageURL,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// UpdateGroups replaces the campaign's allow list.
func (s *Store) UpdateGroups(ctx context.Context, id primitive.ObjectID, groups []primitive.ObjectID) error {
	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"groups_allowed": groups,
		"updated_at":     time.Now().UTC(),
	}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
